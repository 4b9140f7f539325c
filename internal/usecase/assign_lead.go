package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/leadflow/internal/assign"
	"github.com/xavierca1/leadflow/internal/entity"
)


type AssignLeadInput struct {
	LeadID string `json:"lead_id"`

	// Reason: entity.ReasonInitial (primeira atribuição do estágio) ou
	// entity.ReasonManual (admin/gestor forçando a mão).
	Reason string `json:"reason"`

	// TargetUserID opcional: atribuição manual para um alvo específico.
	// Vazio = deixa o round-robin escolher.
	TargetUserID string `json:"target_user_id,omitempty"`
}

type AssignLeadOutput struct {
	LeadID     string    `json:"lead_id"`
	AssigneeID string    `json:"assignee_id"`
	DeadlineAt time.Time `json:"deadline_at"`
	Reason     string    `json:"reason"`
}


// AssignLeadUseCase faz a atribuição síncrona: inicial (quando o lead entra
// num estágio atribuível) e manual. A reatribuição por timeout fica no
// ReassignOverdueUseCase.
type AssignLeadUseCase struct {
	Leads    entity.LeadRepositoryInterface
	Users    entity.UserRepositoryInterface
	Store    AssignmentStoreInterface
	Notifier NotifierInterface
	Policy   assign.Policy
	Now      func() time.Time
}

func NewAssignLeadUseCase(
	leads entity.LeadRepositoryInterface,
	users entity.UserRepositoryInterface,
	store AssignmentStoreInterface,
	notifier NotifierInterface,
	policy assign.Policy,
) *AssignLeadUseCase {
	return &AssignLeadUseCase{
		Leads:    leads,
		Users:    users,
		Store:    store,
		Notifier: notifier,
		Policy:   policy,
		Now:      time.Now,
	}
}

func (uc *AssignLeadUseCase) Execute(ctx context.Context, input AssignLeadInput) (*AssignLeadOutput, error) {
	lead, err := uc.Leads.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar lead: %w", err)
	}

	if !lead.Assignable() {
		return nil, &DomainError{Code: "LEAD_NOT_ASSIGNABLE", Message: "lead em status terminal ou aguardando reenvio"}
	}

	role := lead.PoolRole()
	pool, err := uc.Users.EligibleIDs(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar pool de %s: %w", role, err)
	}
	if len(pool) == 0 {
		return nil, &DomainError{Code: "NO_ELIGIBLE_USERS", Message: fmt.Sprintf("nenhum usuário ativo com papel %s", role)}
	}

	if input.TargetUserID != "" && !contains(pool, input.TargetUserID) {
		return nil, &DomainError{Code: "TARGET_NOT_IN_POOL", Message: "usuário alvo não pertence ao pool do estágio"}
	}

	// Primeira atribuição do estágio ganha a janela cheia; manual em cima de
	// um lead já atribuído conta como reatribuição.
	window := assign.WindowInitial
	if input.Reason == entity.ReasonManual && lead.AssigneeID != nil {
		window = assign.WindowReassign
	}

	now := uc.Now()
	deadline := uc.Policy.Deadline(now, window)

	var selected string
	err = uc.Store.WithinLeadTx(ctx, func(tx AssignmentTx) error {
		if input.TargetUserID != "" {
			// Alvo explícito não passa pelo rodízio: o cursor fica onde está
			// para não furar a vez dos outros do pool.
			selected = input.TargetUserID
		} else {
			last, err := tx.LockCursor(ctx, role)
			if err != nil {
				return err
			}

			// Manual via round-robin evita repetir quem já segura o lead.
			exclude := map[string]bool{}
			if input.Reason == entity.ReasonManual && lead.AssigneeID != nil {
				exclude[*lead.AssigneeID] = true
			}
			next, _, err := assign.SelectNext(pool, assign.CursorFor(pool, last), exclude)
			if err != nil {
				return err
			}
			selected = next
		}

		if err := tx.UpdateLeadAssignment(ctx, lead.ID, lead.AssigneeID, selected, now, deadline); err != nil {
			return err
		}

		if err := tx.AppendEvent(ctx, &entity.AssignmentEvent{
			ID:               uuid.NewString(),
			LeadID:           lead.ID,
			PreviousAssignee: lead.AssigneeID,
			NewAssignee:      selected,
			Reason:           input.Reason,
			CreatedAt:        now,
		}); err != nil {
			return err
		}

		if input.TargetUserID != "" {
			return nil
		}
		return tx.SetCursor(ctx, role, selected)
	})
	if err != nil {
		return nil, err
	}

	uc.notifyAssigned(ctx, lead, selected, input.Reason)

	return &AssignLeadOutput{
		LeadID:     lead.ID,
		AssigneeID: selected,
		DeadlineAt: deadline,
		Reason:     input.Reason,
	}, nil
}

func (uc *AssignLeadUseCase) notifyAssigned(ctx context.Context, lead *entity.Lead, newAssignee, reason string) {
	msg := fmt.Sprintf("Novo lead atribuído a você: %s", lead.Company)
	if reason == entity.ReasonManual {
		msg = fmt.Sprintf("Lead reatribuído a você: %s", lead.Company)
	}

	if err := uc.Notifier.Notify(ctx, newAssignee, lead.ID, "assignment", msg); err != nil {
		log.Printf("⚠️ Falha ao notificar %s (atribuição segue valendo): %v", newAssignee, err)
	}

	if lead.AssigneeID != nil && *lead.AssigneeID != newAssignee {
		prevMsg := fmt.Sprintf("Lead %s foi reatribuído para outro responsável", lead.Company)
		if err := uc.Notifier.Notify(ctx, *lead.AssigneeID, lead.ID, "warning", prevMsg); err != nil {
			log.Printf("⚠️ Falha ao notificar responsável anterior %s: %v", *lead.AssigneeID, err)
		}
	}
}

func contains(pool []string, id string) bool {
	for _, p := range pool {
		if p == id {
			return true
		}
	}
	return false
}
