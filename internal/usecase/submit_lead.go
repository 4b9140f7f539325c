package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/leadflow/internal/entity"
)


type SubmitLeadInput struct {
	Company string `json:"company"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type SubmitLeadOutput struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	AssigneeID string     `json:"assignee_id,omitempty"`
	DeadlineAt *time.Time `json:"deadline_at,omitempty"`
}


// SubmitLeadUseCase cria o lead e já dispara a atribuição inicial em
// round-robin para o pool de managers, na mesma requisição.
type SubmitLeadUseCase struct {
	Leads    entity.LeadRepositoryInterface
	Assigner *AssignLeadUseCase
}

func NewSubmitLeadUseCase(leads entity.LeadRepositoryInterface, assigner *AssignLeadUseCase) *SubmitLeadUseCase {
	return &SubmitLeadUseCase{Leads: leads, Assigner: assigner}
}

func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	if errs := ValidateSubmitLeadInput(input); len(errs) > 0 {
		return nil, &DomainError{Code: "VALIDATION", Message: errs[0].Error()}
	}

	lead := &entity.Lead{
		ID:      uuid.NewString(),
		Company: input.Company,
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Status:  entity.LeadStatusPending,
		Stage:   entity.StageManagerReview,
	}

	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("falha ao criar lead: %w", err)
	}

	out := &SubmitLeadOutput{ID: lead.ID, Status: lead.Status}

	// Sem manager disponível o lead entra sem responsável; o scheduler
	// pega ele na próxima rodada. A criação não pode falhar por isso.
	assigned, err := uc.Assigner.Execute(ctx, AssignLeadInput{
		LeadID: lead.ID,
		Reason: entity.ReasonInitial,
	})
	if err != nil {
		log.Printf("⚠️ Lead %s criado sem responsável: %v", lead.ID, err)
		return out, nil
	}

	out.AssigneeID = assigned.AssigneeID
	out.DeadlineAt = &assigned.DeadlineAt
	return out, nil
}
