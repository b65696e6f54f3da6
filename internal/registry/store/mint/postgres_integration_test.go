//go:build integration

package mint_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"terraspark/internal/registry/models"
	"terraspark/internal/registry/store/mint"
	id "terraspark/pkg/domain"
	"terraspark/pkg/platform/sentinel"
	"terraspark/pkg/testutil/containers"
)

func TestPostgresMintStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	postgres := containers.GetManager().GetPostgres(t)
	store := mint.NewPostgres(postgres.DB)
	require.NoError(t, postgres.TruncateTables(ctx, "credit_mint"))

	t.Run("get before create maps to ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx)
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	authority := id.AccountID(uuid.New())
	record, err := models.NewCreditMint("Green Hydrogen Credit", "GHC", "https://example.com/meta.json", authority, time.Now().UTC())
	require.NoError(t, err)

	t.Run("stores and round-trips the record", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, record))

		got, err := store.Get(ctx)
		require.NoError(t, err)
		require.Equal(t, "GHC", got.Symbol)
		require.Equal(t, authority, got.Authority)
	})

	t.Run("singleton constraint maps a second insert to ErrConflict", func(t *testing.T) {
		other, err := models.NewCreditMint("Other", "OTH", "", id.AccountID(uuid.New()), time.Now().UTC())
		require.NoError(t, err)
		require.ErrorIs(t, store.Create(ctx, other), sentinel.ErrConflict)
	})
}
