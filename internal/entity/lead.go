package entity

import (
	"context"
	"time"
)


type Lead struct {
	ID         string     `json:"id"`
	Company    string     `json:"company"`
	Name       string     `json:"name,omitempty"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Status     string     `json:"status"` // PENDING, ACCEPTED, REJECTED, RESUBMITTED, RE_REJECTED
	Stage      string     `json:"stage"`  // MANAGER_REVIEW, BD_SALES
	AssigneeID *string    `json:"assignee_id,omitempty"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`
	DeadlineAt *time.Time `json:"deadline_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}


const (
	LeadStatusPending     = "PENDING"
	LeadStatusAccepted    = "ACCEPTED"
	LeadStatusRejected    = "REJECTED"
	LeadStatusResubmitted = "RESUBMITTED"
	LeadStatusReRejected  = "RE_REJECTED" // terminal: rejeitado após reenvio
)

const (
	StageManagerReview = "MANAGER_REVIEW"
	StageBDSales       = "BD_SALES"
)


// Assignable diz se o lead ainda pode receber (re)atribuição.
// REJECTED espera reenvio do marketer e RE_REJECTED é terminal.
func (l *Lead) Assignable() bool {
	switch l.Status {
	case LeadStatusPending, LeadStatusResubmitted, LeadStatusAccepted:
		return true
	}
	return false
}


// PoolRole mapeia o estágio atual para o papel que recebe a atribuição.
func (l *Lead) PoolRole() string {
	if l.Stage == StageBDSales {
		return RoleBDSales
	}
	return RoleManager
}


type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)

	// FindOverdueAssignable retorna leads atribuídos cujo deadline já passou
	// (deadline_at <= now) e que ainda estão em status atribuível.
	FindOverdueAssignable(ctx context.Context, now time.Time, limit int) ([]*Lead, error)

	UpdateStatus(ctx context.Context, id, status, stage string) error

	// MoveToStage troca status/estágio e zera a atribuição na mesma escrita.
	// Sem isso, um lead aceito com pool vazio ficaria preso ao responsável do
	// estágio anterior e invisível para a varredura até o deadline velho vencer.
	MoveToStage(ctx context.Context, id, status, stage string) error
}
