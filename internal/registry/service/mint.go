package service

import (
	"context"
	"errors"

	"terraspark/internal/registry/models"
	id "terraspark/pkg/domain"
	dErrors "terraspark/pkg/domain-errors"
	"terraspark/pkg/platform/sentinel"
	"terraspark/pkg/requestcontext"
)

// InitializeMint creates the deployment's CreditMint record. Called once at
// startup by the configured authority; a repeat initialization returns the
// existing record unchanged, so restarts are idempotent.
func (s *Service) InitializeMint(ctx context.Context, name, symbol, metadataURI string, authority id.AccountID) (*models.CreditMint, error) {
	mint, err := models.NewCreditMint(name, symbol, metadataURI, authority, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.mints.Create(ctx, mint); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return s.GetMint(ctx)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create mint record")
	}

	s.logger.InfoContext(ctx, "credit mint initialized",
		"name", name,
		"symbol", symbol,
		"authority", authority,
	)
	return mint, nil
}
