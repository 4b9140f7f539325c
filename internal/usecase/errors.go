package usecase

import "errors"


// ErrAssignmentConflict: outro escritor mudou a atribuição do lead entre a
// leitura e a escrita. O lead fica para a próxima rodada, sem retry local.
var ErrAssignmentConflict = errors.New("atribuição do lead mudou por baixo de nós")


type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}


func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}


type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}


func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
