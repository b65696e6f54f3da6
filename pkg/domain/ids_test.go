package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "terraspark/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseCreditID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseCreditID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseCreditID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		creditID, err := ParseCreditID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, CreditID(validUUID), creditID)
	})

	t.Run("all parsers share the invariants", func(t *testing.T) {
		for name, parse := range map[string]func(string) error{
			"facility": func(s string) error { _, err := ParseFacilityID(s); return err },
			"account":  func(s string) error { _, err := ParseAccountID(s); return err },
		} {
			assert.Error(t, parse(""), name)
			assert.Error(t, parse("garbage"), name)
			assert.Error(t, parse(uuid.Nil.String()), name)
			assert.NoError(t, parse(uuid.NewString()), name)
		}
	})
}

// TestTypeDistinction verifies the compiler enforces type safety.
// This is a compile-time check - if this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	creditID := CreditID(uuid.New())
	facilityID := FacilityID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ CreditID = facilityID   // compile error
	// var _ FacilityID = creditID   // compile error

	assert.NotEqual(t, uuid.UUID(creditID), uuid.UUID(facilityID))
}

// TestJSONRoundTrip pins the wire form: canonical UUID strings, not byte
// arrays.
func TestJSONRoundTrip(t *testing.T) {
	creditID := CreditID(uuid.New())

	raw, err := json.Marshal(creditID)
	require.NoError(t, err)
	assert.Equal(t, `"`+creditID.String()+`"`, string(raw))

	var decoded CreditID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, creditID, decoded)
}

func TestIsNil(t *testing.T) {
	assert.True(t, CreditID{}.IsNil())
	assert.True(t, AccountID{}.IsNil())
	assert.False(t, CreditID(uuid.New()).IsNil())
	assert.False(t, AccountID(uuid.New()).IsNil())
}

// TestCustodyAccount verifies the custody derivation is deterministic,
// collision-free across credits, and disjoint from the credit ID space.
func TestCustodyAccount(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		creditID := CreditID(uuid.New())
		assert.Equal(t, creditID.CustodyAccount(), creditID.CustodyAccount())
	})

	t.Run("distinct credits get distinct custody accounts", func(t *testing.T) {
		seen := make(map[AccountID]bool)
		for i := 0; i < 1000; i++ {
			custody := CreditID(uuid.New()).CustodyAccount()
			require.False(t, seen[custody], "custody collision")
			seen[custody] = true
		}
	})

	t.Run("custody account differs from the credit ID", func(t *testing.T) {
		creditID := CreditID(uuid.New())
		assert.NotEqual(t, uuid.UUID(creditID), uuid.UUID(creditID.CustodyAccount()))
	})

	t.Run("never nil", func(t *testing.T) {
		assert.False(t, CreditID(uuid.New()).CustodyAccount().IsNil())
	})
}
