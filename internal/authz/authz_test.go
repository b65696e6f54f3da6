package authz

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "terraspark/pkg/domain"
)

func TestAllowAll(t *testing.T) {
	ctx := context.Background()
	identity := id.AccountID(uuid.New())

	assert.True(t, AllowAll{}.IsAuthorizedValidator(ctx, identity))
	assert.True(t, AllowAll{}.IsAuthorizedToCertify(ctx, identity))
}

func TestStaticPolicy(t *testing.T) {
	ctx := context.Background()
	validator := id.AccountID(uuid.New())
	certifier := id.AccountID(uuid.New())
	stranger := id.AccountID(uuid.New())

	t.Run("allowlisted identities pass, others are refused", func(t *testing.T) {
		policy := NewStaticPolicy(
			[]string{validator.String()},
			[]string{certifier.String()},
		)

		assert.True(t, policy.IsAuthorizedValidator(ctx, validator))
		assert.False(t, policy.IsAuthorizedValidator(ctx, stranger))
		assert.True(t, policy.IsAuthorizedToCertify(ctx, certifier))
		assert.False(t, policy.IsAuthorizedToCertify(ctx, stranger))
	})

	t.Run("the lists are independent", func(t *testing.T) {
		policy := NewStaticPolicy(
			[]string{validator.String()},
			[]string{certifier.String()},
		)
		assert.False(t, policy.IsAuthorizedValidator(ctx, certifier))
		assert.False(t, policy.IsAuthorizedToCertify(ctx, validator))
	})

	t.Run("empty list leaves the operation open", func(t *testing.T) {
		policy := NewStaticPolicy(nil, []string{certifier.String()})
		assert.True(t, policy.IsAuthorizedValidator(ctx, stranger))
		assert.False(t, policy.IsAuthorizedToCertify(ctx, stranger))
	})

	t.Run("unparseable entries are skipped", func(t *testing.T) {
		policy := NewStaticPolicy([]string{"not-a-uuid", validator.String()}, nil)
		assert.True(t, policy.IsAuthorizedValidator(ctx, validator))
		assert.False(t, policy.IsAuthorizedValidator(ctx, stranger))
	})
}
