package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

type ledgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) ports.LedgerStore {
	return &ledgerStore{
		db: db,
	}
}

func (r *ledgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT document
		FROM ledgers
		WHERE storage_key = $1
	`

	var document []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger %s: %w: %w", key, domain.ErrStorageUnavailable, err)
	}

	return document, nil
}

// Put upserts the whole document. The jsonb column only accepts valid JSON, so
// a malformed blob is rejected by the database.
func (r *ledgerStore) Put(ctx context.Context, key string, blob []byte) error {
	query := `
		INSERT INTO ledgers (storage_key, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (storage_key)
		DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, key, string(blob)); err != nil {
		return fmt.Errorf("failed to save ledger %s: %w: %w", key, domain.ErrStorageUnavailable, err)
	}

	return nil
}
