package mint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"terraspark/internal/registry/models"
	id "terraspark/pkg/domain"
	"terraspark/pkg/platform/sentinel"
)

// PostgresStore persists the deployment's CreditMint record. The table is
// constrained to a single row; a second insert surfaces as ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, mint *models.CreditMint) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credit_mint (singleton, name, symbol, metadata_uri, authority, created_at)
		VALUES (TRUE, $1, $2, $3, $4, $5)`,
		mint.Name, mint.Symbol, mint.MetadataURI, mint.Authority.String(), mint.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create mint: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context) (*models.CreditMint, error) {
	var (
		mint      models.CreditMint
		authority string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT name, symbol, metadata_uri, authority, created_at FROM credit_mint`).
		Scan(&mint.Name, &mint.Symbol, &mint.MetadataURI, &authority, &mint.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get mint: %w", err)
	}
	if mint.Authority, err = id.ParseAccountID(authority); err != nil {
		return nil, fmt.Errorf("stored authority id: %w", err)
	}
	return &mint, nil
}
