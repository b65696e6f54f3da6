package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"terraspark/internal/registry/models"
	id "terraspark/pkg/domain"
	"terraspark/pkg/platform/sentinel"
)

// PostgresStore persists credit records in PostgreSQL. Execute serializes
// per-credit operations with SELECT ... FOR UPDATE inside a transaction, so
// concurrent registry replicas get the same winner/loser discipline as the
// in-memory store's per-record mutex.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const creditColumns = `id, amount, renewable_source, production_date, facility_id,
	producer, owner, validated, validator, validated_at,
	retired, retired_at, created_at, transferred_at`

func (s *PostgresStore) Create(ctx context.Context, credit *models.Credit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credits (`+creditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		credit.ID.String(), int64(credit.Amount), credit.RenewableSource, credit.ProductionDate,
		credit.FacilityID.String(), credit.Producer.String(), credit.Owner.String(),
		credit.Validated, nullableAccount(credit.Validator), nullableTime(credit.ValidatedAt),
		credit.Retired, nullableTime(credit.RetiredAt), credit.CreatedAt, nullableTime(credit.TransferredAt),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create credit: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, creditID id.CreditID) (*models.Credit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+creditColumns+` FROM credits WHERE id = $1`, creditID.String())
	return scanCredit(row)
}

func (s *PostgresStore) ListByOwner(ctx context.Context, owner id.AccountID) ([]*models.Credit, error) {
	return s.list(ctx, `owner = $1`, owner.String())
}

func (s *PostgresStore) ListByProducer(ctx context.Context, producer id.AccountID) ([]*models.Credit, error) {
	return s.list(ctx, `producer = $1`, producer.String())
}

func (s *PostgresStore) list(ctx context.Context, where string, arg any) ([]*models.Credit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+creditColumns+` FROM credits WHERE `+where+` ORDER BY created_at`, arg)
	if err != nil {
		return nil, fmt.Errorf("list credits: %w", err)
	}
	defer rows.Close()

	var out []*models.Credit
	for rows.Next() {
		credit, err := scanCredit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, credit)
	}
	return out, rows.Err()
}

// Execute locks the row, materializes the record, runs fn, and persists the
// result iff fn returns nil. Any fn error rolls the transaction back, so a
// failing callback leaves the stored record untouched.
func (s *PostgresStore) Execute(ctx context.Context, creditID id.CreditID, fn func(credit *models.Credit) error) (*models.Credit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT `+creditColumns+` FROM credits WHERE id = $1 FOR UPDATE`, creditID.String())
	credit, err := scanCredit(row)
	if err != nil {
		return nil, err
	}

	if err := fn(credit); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE credits SET
			owner = $2, validated = $3, validator = $4, validated_at = $5,
			retired = $6, retired_at = $7, transferred_at = $8
		WHERE id = $1`,
		credit.ID.String(), credit.Owner.String(),
		credit.Validated, nullableAccount(credit.Validator), nullableTime(credit.ValidatedAt),
		credit.Retired, nullableTime(credit.RetiredAt), nullableTime(credit.TransferredAt),
	)
	if err != nil {
		return nil, fmt.Errorf("update credit: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return credit, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredit(row rowScanner) (*models.Credit, error) {
	var (
		credit        models.Credit
		creditID      string
		facilityID    string
		producer      string
		owner         string
		amount        int64
		validator     sql.NullString
		validatedAt   sql.NullTime
		retiredAt     sql.NullTime
		transferredAt sql.NullTime
	)
	err := row.Scan(
		&creditID, &amount, &credit.RenewableSource, &credit.ProductionDate, &facilityID,
		&producer, &owner, &credit.Validated, &validator, &validatedAt,
		&credit.Retired, &retiredAt, &credit.CreatedAt, &transferredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan credit: %w", err)
	}

	if credit.ID, err = id.ParseCreditID(creditID); err != nil {
		return nil, fmt.Errorf("stored credit id: %w", err)
	}
	if credit.FacilityID, err = id.ParseFacilityID(facilityID); err != nil {
		return nil, fmt.Errorf("stored facility id: %w", err)
	}
	if credit.Producer, err = id.ParseAccountID(producer); err != nil {
		return nil, fmt.Errorf("stored producer id: %w", err)
	}
	if credit.Owner, err = id.ParseAccountID(owner); err != nil {
		return nil, fmt.Errorf("stored owner id: %w", err)
	}
	credit.Amount = uint64(amount)
	if validator.Valid {
		account, err := id.ParseAccountID(validator.String)
		if err != nil {
			return nil, fmt.Errorf("stored validator id: %w", err)
		}
		credit.Validator = &account
	}
	credit.ValidatedAt = timePtr(validatedAt)
	credit.RetiredAt = timePtr(retiredAt)
	credit.TransferredAt = timePtr(transferredAt)
	return &credit, nil
}

func nullableAccount(account *id.AccountID) any {
	if account == nil {
		return nil
	}
	return account.String()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
