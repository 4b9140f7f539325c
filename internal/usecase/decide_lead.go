package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/xavierca1/leadflow/internal/entity"
)


const (
	DecisionAccept   = "accept"
	DecisionReject   = "reject"
	DecisionResubmit = "resubmit"
)


type DecideLeadInput struct {
	LeadID   string `json:"lead_id"`
	Decision string `json:"decision"` // accept, reject, resubmit
	Note     string `json:"note,omitempty"`
}

type DecideLeadOutput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Stage  string `json:"stage"`
}


// DecideLeadUseCase aplica a decisão do manager sobre o lead.
// Aceitar move o lead para o estágio de BD Sales e dispara a atribuição
// inicial naquele pool; rejeitar depois de um reenvio é terminal.
type DecideLeadUseCase struct {
	Leads    entity.LeadRepositoryInterface
	Assigner *AssignLeadUseCase
}

func NewDecideLeadUseCase(leads entity.LeadRepositoryInterface, assigner *AssignLeadUseCase) *DecideLeadUseCase {
	return &DecideLeadUseCase{Leads: leads, Assigner: assigner}
}

func (uc *DecideLeadUseCase) Execute(ctx context.Context, input DecideLeadInput) (*DecideLeadOutput, error) {
	lead, err := uc.Leads.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar lead: %w", err)
	}

	status, stage, reassign, err := nextState(lead, input.Decision)
	if err != nil {
		return nil, err
	}

	// Transição que exige responsável novo zera a atribuição junto: se o pool
	// do estágio novo estiver vazio agora, o scheduler encontra o lead órfão
	// na próxima rodada e faz a atribuição inicial por lá.
	if reassign {
		err = uc.Leads.MoveToStage(ctx, lead.ID, status, stage)
	} else {
		err = uc.Leads.UpdateStatus(ctx, lead.ID, status, stage)
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao atualizar status: %w", err)
	}

	if reassign {
		if _, err := uc.Assigner.Execute(ctx, AssignLeadInput{
			LeadID: lead.ID,
			Reason: entity.ReasonInitial,
		}); err != nil {
			// Mesma regra da submissão: decisão vale, atribuição fica
			// para o scheduler se o pool estiver vazio.
			log.Printf("⚠️ Lead %s decidido (%s) mas sem responsável no novo estágio: %v", lead.ID, input.Decision, err)
		}
	}

	return &DecideLeadOutput{ID: lead.ID, Status: status, Stage: stage}, nil
}

func nextState(lead *entity.Lead, decision string) (status, stage string, reassign bool, err error) {
	switch decision {
	case DecisionAccept:
		if lead.Status != entity.LeadStatusPending && lead.Status != entity.LeadStatusResubmitted {
			return "", "", false, &DomainError{Code: "INVALID_TRANSITION", Message: "só é possível aceitar lead pendente ou reenviado"}
		}
		return entity.LeadStatusAccepted, entity.StageBDSales, true, nil

	case DecisionReject:
		switch lead.Status {
		case entity.LeadStatusPending:
			return entity.LeadStatusRejected, lead.Stage, false, nil
		case entity.LeadStatusResubmitted:
			return entity.LeadStatusReRejected, lead.Stage, false, nil
		}
		return "", "", false, &DomainError{Code: "INVALID_TRANSITION", Message: "só é possível rejeitar lead pendente ou reenviado"}

	case DecisionResubmit:
		if lead.Status != entity.LeadStatusRejected {
			return "", "", false, &DomainError{Code: "INVALID_TRANSITION", Message: "só lead rejeitado pode ser reenviado"}
		}
		return entity.LeadStatusResubmitted, entity.StageManagerReview, true, nil
	}

	return "", "", false, &DomainError{Code: "UNKNOWN_DECISION", Message: fmt.Sprintf("decisão desconhecida: %s", decision)}
}
