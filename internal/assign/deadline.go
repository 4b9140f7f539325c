package assign

import "time"


const (
	WindowInitial  = "initial"
	WindowReassign = "reassignment"
)


// Policy define as janelas de atuação de cada estágio de atribuição.
// Os valores vêm de configuração; 15h/4h são só os defaults do produto.
type Policy struct {
	InitialWindow  time.Duration
	ReassignWindow time.Duration
}


func DefaultPolicy() Policy {
	return Policy{
		InitialWindow:  15 * time.Hour,
		ReassignWindow: 4 * time.Hour,
	}
}


func (p Policy) Deadline(assignedAt time.Time, window string) time.Time {
	if window == WindowReassign {
		return assignedAt.Add(p.ReassignWindow)
	}
	return assignedAt.Add(p.InitialWindow)
}


// Overdue é inclusivo no instante exato do deadline (now >= deadline).
func Overdue(now, deadline time.Time) bool {
	return !now.Before(deadline)
}
