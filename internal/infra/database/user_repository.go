package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/leadflow/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}


func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT id, name, email, role, active FROM users WHERE id = $1`

	user := &entity.User{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.Active,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}


// EligibleIDs: ORDER BY id dá a ordem estável que o cursor do round-robin
// assume entre execuções e entre processos.
func (r *UserRepository) EligibleIDs(ctx context.Context, role string) ([]string, error) {
	query := `SELECT id FROM users WHERE role = $1 AND active ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
