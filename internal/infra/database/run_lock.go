package database

import (
	"context"
	"database/sql"
	"fmt"
)


// Chave fixa do advisory lock da rodada de reatribuição.
const reassignLockKey = 874201


// RunLock serializa a rodada do scheduler entre processos via advisory lock
// do Postgres. Locks de sessão, então seguramos uma conexão dedicada do pool
// enquanto o lock estiver em posse.
type RunLock struct {
	db   *sql.DB
	conn *sql.Conn
}

func NewRunLock(db *sql.DB) *RunLock {
	return &RunLock{db: db}
}


func (l *RunLock) TryAcquire(ctx context.Context) (bool, error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("falha ao pegar conexão para o lock: %w", err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, reassignLockKey).Scan(&acquired); err != nil {
		conn.Close()
		return false, fmt.Errorf("falha ao tentar advisory lock: %w", err)
	}

	if !acquired {
		conn.Close()
		return false, nil
	}

	l.conn = conn
	return true, nil
}


func (l *RunLock) Release(ctx context.Context) error {
	if l.conn == nil {
		return nil
	}
	defer func() {
		l.conn.Close()
		l.conn = nil
	}()

	if _, err := l.conn.ExecContext(ctx, `SELECT pg_advisory_unlock($1)`, reassignLockKey); err != nil {
		return fmt.Errorf("falha ao soltar advisory lock: %w", err)
	}

	return nil
}
