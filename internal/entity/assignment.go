package entity

import (
	"context"
	"time"
)


const (
	ReasonInitial = "initial"
	ReasonTimeout = "timeout-reassignment"
	ReasonManual  = "manual"
)


// AssignmentEvent é o registro imutável de uma (re)atribuição.
// Append-only: nunca é alterado nem removido.
type AssignmentEvent struct {
	ID               string    `json:"id"`
	LeadID           string    `json:"lead_id"`
	PreviousAssignee *string   `json:"previous_assignee,omitempty"`
	NewAssignee      string    `json:"new_assignee"`
	Reason           string    `json:"reason"` // initial, timeout-reassignment, manual
	CreatedAt        time.Time `json:"created_at"`
}


type AssignmentHistoryInterface interface {
	ListByLead(ctx context.Context, leadID string) ([]*AssignmentEvent, error)
}
