package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/artprint/internal/database"
)

// PostgresStorage keeps keys in the local_storage table.
type PostgresStorage struct {
	db   *sql.DB
	opts database.TxOptions
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db, opts: database.DefaultTxOptions()}
}

func (p *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (p *PostgresStorage) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	err := database.WithRetry(ctx, p.db, p.opts, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, key, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (p *PostgresStorage) Remove(ctx context.Context, key string) error {
	err := database.WithRetry(ctx, p.db, p.opts, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM local_storage WHERE key = $1`, key)
		return err
	})
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (p *PostgresStorage) Close() error {
	return p.db.Close()
}
