package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/leadflow/internal/assign"
	"github.com/xavierca1/leadflow/internal/entity"
)


type ReassignRunReport struct {
	Scanned    int
	Reassigned int
	Skipped    int
}


// ReassignOverdueUseCase é o coração do scheduler: cada execução varre os
// leads vencidos e reatribui cada um exatamente uma vez, em transação própria.
// Um lead com problema nunca derruba o resto da rodada.
//
// Idempotente: o deadline novo entra na mesma transação da reatribuição, então
// uma segunda rodada logo em seguida não encontra mais nada vencido.
type ReassignOverdueUseCase struct {
	Leads    entity.LeadRepositoryInterface
	Users    entity.UserRepositoryInterface
	Store    AssignmentStoreInterface
	Notifier NotifierInterface
	Policy   assign.Policy
	Now      func() time.Time

	// BatchSize limita a varredura por rodada para que uma rodada nunca
	// estoure o intervalo do timer (o resto fica para a próxima).
	BatchSize int
}

func NewReassignOverdueUseCase(
	leads entity.LeadRepositoryInterface,
	users entity.UserRepositoryInterface,
	store AssignmentStoreInterface,
	notifier NotifierInterface,
	policy assign.Policy,
) *ReassignOverdueUseCase {
	return &ReassignOverdueUseCase{
		Leads:     leads,
		Users:     users,
		Store:     store,
		Notifier:  notifier,
		Policy:    policy,
		Now:       time.Now,
		BatchSize: 50,
	}
}

func (uc *ReassignOverdueUseCase) Execute(ctx context.Context) (ReassignRunReport, error) {
	report := ReassignRunReport{}
	now := uc.Now()

	overdue, err := uc.Leads.FindOverdueAssignable(ctx, now, uc.BatchSize)
	if err != nil {
		return report, fmt.Errorf("falha ao buscar leads vencidos: %w", err)
	}

	report.Scanned = len(overdue)
	if len(overdue) == 0 {
		return report, nil
	}

	log.Printf("⏱️ %d lead(s) com deadline vencido, processando...", len(overdue))

	for _, lead := range overdue {
		if err := uc.reassign(ctx, lead, now); err != nil {
			report.Skipped++

			switch {
			case errors.Is(err, assign.ErrNoEligibleUsers):
				log.Printf("⚠️ Lead %s sem pool elegível, fica para a próxima rodada", lead.ID)
			case errors.Is(err, ErrAssignmentConflict):
				log.Printf("⚠️ Lead %s mudou de mãos durante a rodada, pulando", lead.ID)
			default:
				log.Printf("❌ Erro ao reatribuir lead %s: %v", lead.ID, err)
			}
			continue
		}
		report.Reassigned++
	}

	log.Printf("✅ Rodada concluída: %d reatribuído(s), %d pulado(s)", report.Reassigned, report.Skipped)
	return report, nil
}

func (uc *ReassignOverdueUseCase) reassign(ctx context.Context, lead *entity.Lead, now time.Time) error {
	role := lead.PoolRole()

	pool, err := uc.Users.EligibleIDs(ctx, role)
	if err != nil {
		return fmt.Errorf("falha ao buscar pool de %s: %w", role, err)
	}
	if len(pool) == 0 {
		return assign.ErrNoEligibleUsers
	}

	// Quem deixou o deadline estourar não concorre à próxima escolha,
	// a menos que seja o único no pool (progresso acima de exclusão).
	// Lead que nunca teve responsável (ficou órfão por pool vazio) recebe
	// uma atribuição inicial de verdade, com a janela cheia.
	exclude := map[string]bool{}
	reason := entity.ReasonInitial
	window := assign.WindowInitial
	if lead.AssigneeID != nil {
		exclude[*lead.AssigneeID] = true
		reason = entity.ReasonTimeout
		window = assign.WindowReassign
	}

	deadline := uc.Policy.Deadline(now, window)

	var selected string
	err = uc.Store.WithinLeadTx(ctx, func(tx AssignmentTx) error {
		last, err := tx.LockCursor(ctx, role)
		if err != nil {
			return err
		}

		selected, _, err = assign.SelectNext(pool, assign.CursorFor(pool, last), exclude)
		if err != nil {
			return err
		}

		if err := tx.UpdateLeadAssignment(ctx, lead.ID, lead.AssigneeID, selected, now, deadline); err != nil {
			return err
		}

		if err := tx.AppendEvent(ctx, &entity.AssignmentEvent{
			ID:               uuid.NewString(),
			LeadID:           lead.ID,
			PreviousAssignee: lead.AssigneeID,
			NewAssignee:      selected,
			Reason:           reason,
			CreatedAt:        now,
		}); err != nil {
			return err
		}

		return tx.SetCursor(ctx, role, selected)
	})
	if err != nil {
		return err
	}

	// Notificações depois do commit, best-effort.
	newMsg := fmt.Sprintf("Lead %s foi reatribuído a você (responsável anterior perdeu o prazo)", lead.Company)
	if lead.AssigneeID == nil {
		newMsg = fmt.Sprintf("Novo lead atribuído a você: %s", lead.Company)
	}
	if err := uc.Notifier.Notify(ctx, selected, lead.ID, "assignment", newMsg); err != nil {
		log.Printf("⚠️ Falha ao notificar novo responsável %s: %v", selected, err)
	}

	if lead.AssigneeID != nil {
		oldMsg := fmt.Sprintf("Lead %s foi reatribuído (prazo perdido)", lead.Company)
		if err := uc.Notifier.Notify(ctx, *lead.AssigneeID, lead.ID, "warning", oldMsg); err != nil {
			log.Printf("⚠️ Falha ao notificar responsável anterior %s: %v", *lead.AssigneeID, err)
		}
	}

	log.Printf("🔁 Lead %s reatribuído para %s (prazo até %s)", lead.ID, selected, deadline.Format(time.RFC3339))
	return nil
}
