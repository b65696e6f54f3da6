package dErrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndHasCode(t *testing.T) {
	err := New(CodeNotValidated, "credit must be validated first")

	assert.True(t, HasCode(err, CodeNotValidated))
	assert.False(t, HasCode(err, CodeAlreadyRetired))
	assert.Equal(t, CodeNotValidated, CodeOf(err))
	assert.Equal(t, "credit must be validated first", MessageOf(err))
	assert.Contains(t, err.Error(), "credit_not_validated")
}

func TestWrap(t *testing.T) {
	t.Run("cause stays reachable", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeInternal, "credit store failure")

		require.Error(t, err)
		assert.True(t, HasCode(err, CodeInternal))
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("wrapping nil returns nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "nothing"))
	})

	t.Run("HasCode sees through further wrapping", func(t *testing.T) {
		inner := New(CodeAlreadyRetired, "credit is already retired")
		outer := fmt.Errorf("retire: %w", inner)

		assert.True(t, HasCode(outer, CodeAlreadyRetired))
		assert.Equal(t, CodeAlreadyRetired, CodeOf(outer))
	})
}

func TestCodeOfUncoded(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("raw")))
	assert.Empty(t, MessageOf(errors.New("raw")))
}

func TestNewf(t *testing.T) {
	err := Newf(CodeInvalidInput, "field %q is required", "owner")
	assert.Equal(t, `field "owner" is required`, MessageOf(err))
}
