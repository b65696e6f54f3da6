package models

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "terraspark/pkg/domain"
	dErrors "terraspark/pkg/domain-errors"
)

func newTestCredit(t *testing.T) *Credit {
	t.Helper()
	credit, err := NewCredit(
		id.CreditID(uuid.New()),
		id.AccountID(uuid.New()),
		100,
		"solar",
		"2026-08-01",
		id.FacilityID(uuid.New()),
		time.Now(),
	)
	require.NoError(t, err)
	return credit
}

func TestNewCredit(t *testing.T) {
	t.Run("starts unvalidated, unretired, owned by producer", func(t *testing.T) {
		credit := newTestCredit(t)
		assert.False(t, credit.Validated)
		assert.False(t, credit.Retired)
		assert.Equal(t, credit.Producer, credit.Owner)
		assert.Nil(t, credit.Validator)
		assert.Nil(t, credit.ValidatedAt)
		assert.Nil(t, credit.RetiredAt)
		assert.Nil(t, credit.TransferredAt)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := NewCredit(id.CreditID(uuid.New()), id.AccountID(uuid.New()), 0, "wind", "2026-08-01", id.FacilityID(uuid.New()), time.Now())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAmount))
	})

	t.Run("rejects amount beyond the signed 64-bit range", func(t *testing.T) {
		for _, amount := range []uint64{math.MaxInt64 + 1, math.MaxUint64} {
			_, err := NewCredit(id.CreditID(uuid.New()), id.AccountID(uuid.New()), amount, "wind", "2026-08-01", id.FacilityID(uuid.New()), time.Now())
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAmount))
		}
	})

	t.Run("accepts the maximum storable amount", func(t *testing.T) {
		credit, err := NewCredit(id.CreditID(uuid.New()), id.AccountID(uuid.New()), math.MaxInt64, "wind", "2026-08-01", id.FacilityID(uuid.New()), time.Now())
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxInt64), credit.Amount)
	})

	t.Run("rejects empty renewable source", func(t *testing.T) {
		_, err := NewCredit(id.CreditID(uuid.New()), id.AccountID(uuid.New()), 10, "", "2026-08-01", id.FacilityID(uuid.New()), time.Now())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestValidationTransition(t *testing.T) {
	validator := id.AccountID(uuid.New())
	now := time.Now()

	t.Run("validates exactly once", func(t *testing.T) {
		credit := newTestCredit(t)
		require.NoError(t, credit.CanValidate())
		credit.ApplyValidation(validator, now)

		assert.True(t, credit.Validated)
		require.NotNil(t, credit.Validator)
		assert.Equal(t, validator, *credit.Validator)
		require.NotNil(t, credit.ValidatedAt)

		err := credit.CanValidate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyValidated))
	})

	t.Run("retired credit cannot be validated", func(t *testing.T) {
		credit := newTestCredit(t)
		credit.ApplyValidation(validator, now)
		credit.ApplyRetirement(now)

		err := credit.CanValidate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyRetired))
	})
}

func TestTransferGuards(t *testing.T) {
	validator := id.AccountID(uuid.New())
	now := time.Now()

	t.Run("unvalidated credit cannot transfer", func(t *testing.T) {
		credit := newTestCredit(t)
		err := credit.CanTransfer(credit.Owner)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotValidated))
	})

	t.Run("only the owner can transfer", func(t *testing.T) {
		credit := newTestCredit(t)
		credit.ApplyValidation(validator, now)

		err := credit.CanTransfer(id.AccountID(uuid.New()))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotOwner))
	})

	t.Run("transfer moves owner and stamps timestamp", func(t *testing.T) {
		credit := newTestCredit(t)
		credit.ApplyValidation(validator, now)
		newOwner := id.AccountID(uuid.New())

		require.NoError(t, credit.CanTransfer(credit.Owner))
		credit.ApplyTransfer(newOwner, now)

		assert.Equal(t, newOwner, credit.Owner)
		require.NotNil(t, credit.TransferredAt)
		// Producer is the historical issuer, it never changes
		assert.NotEqual(t, credit.Producer, credit.Owner)
	})

	t.Run("retired credit cannot transfer", func(t *testing.T) {
		credit := newTestCredit(t)
		credit.ApplyValidation(validator, now)
		credit.ApplyRetirement(now)

		err := credit.CanTransfer(credit.Owner)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyRetired))
	})
}

func TestRetirementGuards(t *testing.T) {
	validator := id.AccountID(uuid.New())
	now := time.Now()

	t.Run("unvalidated credit cannot retire", func(t *testing.T) {
		credit := newTestCredit(t)
		err := credit.CanRetire(credit.Owner)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotValidated))
	})

	t.Run("only the owner can retire", func(t *testing.T) {
		credit := newTestCredit(t)
		credit.ApplyValidation(validator, now)

		err := credit.CanRetire(id.AccountID(uuid.New()))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotOwner))
	})

	t.Run("retirement is terminal", func(t *testing.T) {
		credit := newTestCredit(t)
		credit.ApplyValidation(validator, now)
		require.NoError(t, credit.CanRetire(credit.Owner))
		credit.ApplyRetirement(now)

		assert.True(t, credit.Retired)
		require.NotNil(t, credit.RetiredAt)

		// Retired implies validated
		assert.True(t, credit.Validated)

		err := credit.CanRetire(credit.Owner)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyRetired))
	})
}

func TestCustodyAccountTiedToID(t *testing.T) {
	credit := newTestCredit(t)
	assert.Equal(t, credit.ID.CustodyAccount(), credit.CustodyAccount())
}
