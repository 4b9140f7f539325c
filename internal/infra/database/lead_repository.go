package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierca1/leadflow/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}


func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, company, name, email, phone, status, stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Company,
		nullString(lead.Name),
		lead.Email,
		nullString(lead.Phone),
		lead.Status,
		lead.Stage,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt)

	if err != nil {
		return fmt.Errorf("FALHA AO CRIAR LEAD: %w", err)
	}

	return nil
}


func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, company, COALESCE(name, ''), email, COALESCE(phone, ''),
		       status, stage, assignee_id, assigned_at, deadline_at, created_at, updated_at
		FROM leads
		WHERE id = $1
	`

	lead := &entity.Lead{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&lead.ID,
		&lead.Company,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Status,
		&lead.Stage,
		&lead.AssigneeID,
		&lead.AssignedAt,
		&lead.DeadlineAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return lead, nil
}


// FindOverdueAssignable pega leads atribuíveis com deadline vencido
// (inclusivo) e também os que ficaram sem responsável por falta de pool.
// Ordena pelo deadline mais antigo para vencidos não morrerem de fome.
func (r *LeadRepository) FindOverdueAssignable(ctx context.Context, now time.Time, limit int) ([]*entity.Lead, error) {
	query := `
		SELECT id, company, COALESCE(name, ''), email, COALESCE(phone, ''),
		       status, stage, assignee_id, assigned_at, deadline_at, created_at, updated_at
		FROM leads
		WHERE status IN ('PENDING', 'ACCEPTED', 'RESUBMITTED')
		  AND (deadline_at <= $1 OR assignee_id IS NULL)
		ORDER BY deadline_at ASC NULLS LAST
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead := &entity.Lead{}
		if err := rows.Scan(
			&lead.ID,
			&lead.Company,
			&lead.Name,
			&lead.Email,
			&lead.Phone,
			&lead.Status,
			&lead.Stage,
			&lead.AssigneeID,
			&lead.AssignedAt,
			&lead.DeadlineAt,
			&lead.CreatedAt,
			&lead.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}


func (r *LeadRepository) UpdateStatus(ctx context.Context, id, status, stage string) error {
	query := `
		UPDATE leads
		SET status = $2, stage = $3, updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.DB.ExecContext(ctx, query, id, status, stage)
	if err != nil {
		return fmt.Errorf("FALHA AO ATUALIZAR STATUS: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	return nil
}


// MoveToStage zera assignee_id/assigned_at/deadline_at junto com a troca de
// estágio. O lead cai no ramo assignee_id IS NULL da varredura e a próxima
// rodada o atribui como inicial no pool novo, com a janela cheia.
func (r *LeadRepository) MoveToStage(ctx context.Context, id, status, stage string) error {
	query := `
		UPDATE leads
		SET status = $2, stage = $3,
		    assignee_id = NULL, assigned_at = NULL, deadline_at = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.DB.ExecContext(ctx, query, id, status, stage)
	if err != nil {
		return fmt.Errorf("FALHA AO MOVER LEAD DE ESTÁGIO: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	return nil
}


func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
