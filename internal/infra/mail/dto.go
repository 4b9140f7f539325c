package mail


type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
}


type AssignmentEmailData struct {
	Name    string
	Company string
	Message string
}
