package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/leadflow/internal/entity"
)

type AssignmentHistoryRepository struct {
	DB *sql.DB
}

func NewAssignmentHistoryRepository(db *sql.DB) *AssignmentHistoryRepository {
	return &AssignmentHistoryRepository{DB: db}
}


// ListByLead devolve o histórico completo em ordem cronológica.
// Leitura apenas: quem escreve eventos é a transação de atribuição.
func (r *AssignmentHistoryRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.AssignmentEvent, error) {
	query := `
		SELECT id, lead_id, previous_assignee, new_assignee, reason, created_at
		FROM assignment_events
		WHERE lead_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*entity.AssignmentEvent
	for rows.Next() {
		ev := &entity.AssignmentEvent{}
		if err := rows.Scan(
			&ev.ID,
			&ev.LeadID,
			&ev.PreviousAssignee,
			&ev.NewAssignee,
			&ev.Reason,
			&ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}
