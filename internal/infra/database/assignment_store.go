package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/usecase"
)


// AssignmentStore executa o pacote atômico de uma (re)atribuição:
// update do lead + evento de histórico + cursor do round-robin,
// tudo dentro de uma transação só.
type AssignmentStore struct {
	DB *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{DB: db}
}

func (s *AssignmentStore) WithinLeadTx(ctx context.Context, fn func(tx usecase.AssignmentTx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}

	if err := fn(&assignmentTx{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("falha no commit da atribuição: %w", err)
	}

	return nil
}


type assignmentTx struct {
	tx *sql.Tx
}


// LockCursor garante a linha do papel e a trava com FOR UPDATE até o commit.
// É esse lock que impede dois escritores de calcular o mesmo "próximo".
func (t *assignmentTx) LockCursor(ctx context.Context, role string) (string, error) {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO assignment_settings (role, last_assigned_user_id)
		VALUES ($1, NULL)
		ON CONFLICT (role) DO NOTHING
	`, role)
	if err != nil {
		return "", fmt.Errorf("falha ao garantir cursor de %s: %w", role, err)
	}

	var last sql.NullString
	err = t.tx.QueryRowContext(ctx, `
		SELECT last_assigned_user_id
		FROM assignment_settings
		WHERE role = $1
		FOR UPDATE
	`, role).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("falha ao travar cursor de %s: %w", role, err)
	}

	return last.String, nil
}


func (t *assignmentTx) SetCursor(ctx context.Context, role, userID string) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE assignment_settings
		SET last_assigned_user_id = $2, updated_at = NOW()
		WHERE role = $1
	`, role, userID)
	if err != nil {
		return fmt.Errorf("falha ao mover cursor de %s: %w", role, err)
	}
	return nil
}


// UpdateLeadAssignment é otimista: a escrita só passa se o assignee atual
// ainda for o que lemos. Zero linhas = alguém chegou primeiro.
func (t *assignmentTx) UpdateLeadAssignment(ctx context.Context, leadID string, prevAssignee *string, newAssignee string, assignedAt, deadline time.Time) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE leads
		SET assignee_id = $2, assigned_at = $3, deadline_at = $4, updated_at = NOW()
		WHERE id = $1
		  AND assignee_id IS NOT DISTINCT FROM $5
	`, leadID, newAssignee, assignedAt, deadline, prevAssignee)
	if err != nil {
		return fmt.Errorf("falha ao atualizar atribuição: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return usecase.ErrAssignmentConflict
	}

	return nil
}


func (t *assignmentTx) AppendEvent(ctx context.Context, ev *entity.AssignmentEvent) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO assignment_events (id, lead_id, previous_assignee, new_assignee, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ev.ID, ev.LeadID, ev.PreviousAssignee, ev.NewAssignee, ev.Reason, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao gravar evento de atribuição: %w", err)
	}
	return nil
}
