package facility

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

// PostgresStore persists facility records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const facilityColumns = `id, name, location, renewable_source, capacity, producer, certified, certified_at`

func (s *PostgresStore) Create(ctx context.Context, facility *models.Facility) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO facilities (`+facilityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		facility.ID.String(), facility.Name, facility.Location, facility.RenewableSource,
		int64(facility.Capacity), facility.Producer.String(), facility.Certified, facility.CertifiedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create facility: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, facilityID id.FacilityID) (*models.Facility, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+facilityColumns+` FROM facilities WHERE id = $1`, facilityID.String())
	return scanFacility(row)
}

func (s *PostgresStore) ListByProducer(ctx context.Context, producer id.AccountID) ([]*models.Facility, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+facilityColumns+` FROM facilities WHERE producer = $1 ORDER BY certified_at`, producer.String())
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	defer rows.Close()

	var out []*models.Facility
	for rows.Next() {
		facility, err := scanFacility(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, facility)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFacility(row rowScanner) (*models.Facility, error) {
	var (
		facility   models.Facility
		facilityID string
		producer   string
		capacity   int64
	)
	err := row.Scan(
		&facilityID, &facility.Name, &facility.Location, &facility.RenewableSource,
		&capacity, &producer, &facility.Certified, &facility.CertifiedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan facility: %w", err)
	}
	if facility.ID, err = id.ParseFacilityID(facilityID); err != nil {
		return nil, fmt.Errorf("stored facility id: %w", err)
	}
	if facility.Producer, err = id.ParseAccountID(producer); err != nil {
		return nil, fmt.Errorf("stored producer id: %w", err)
	}
	facility.Capacity = uint64(capacity)
	return &facility, nil
}
