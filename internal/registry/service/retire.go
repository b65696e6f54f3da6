package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"terraspark/internal/registry/events"
	"terraspark/internal/registry/models"
	id "terraspark/pkg/domain"
	dErrors "terraspark/pkg/domain-errors"
	"terraspark/pkg/platform/sentinel"
	"terraspark/pkg/requestcontext"
)

// Retire terminally consumes the credit, releasing the full custody amount
// back to the owner's personal balance. No further validate, transfer, or
// retire can succeed afterwards; the record remains as an immutable audit
// trail.
//
// The custody release and the record mutation are coupled all-or-nothing.
// Both run under the store's per-record lock: the release happens after the
// precondition check passes, and the retired flag is committed only if the
// release succeeded. If the commit itself then fails, the released value is
// moved back into custody so the ledger and the record never disagree.
func (s *Service) Retire(ctx context.Context, creditID id.CreditID, caller id.AccountID) (_ *models.Credit, err error) {
	ctx, span := s.tracer.Start(ctx, "registry.retire")
	defer span.End()
	span.SetAttributes(attribute.String("credit_id", creditID.String()))
	start := time.Now()
	defer func() { s.observe("retire", start, err) }()

	now := requestcontext.Now(ctx)
	var (
		released bool
		amount   uint64
		custody  id.AccountID
	)
	credit, err := s.credits.Execute(ctx, creditID, func(c *models.Credit) error {
		if err := c.CanRetire(caller); err != nil {
			return err
		}
		amount = c.Amount
		custody = c.CustodyAccount()
		if err := s.ledger.Transfer(ctx, custody, caller, amount); err != nil {
			if errors.Is(err, sentinel.ErrInsufficientFunds) {
				// The custody account holds exactly the issued amount for the
				// life of the credit; a shortfall means the ledger and the
				// registry disagree.
				return dErrors.Wrap(err, dErrors.CodeInternal, "custody account cannot cover the credit amount")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "custody release failed")
		}
		released = true
		c.ApplyRetirement(now)
		return nil
	})
	if err != nil {
		if released {
			// The record commit failed after the custody release went
			// through. Re-lock the value so no state change survives.
			if rbErr := s.ledger.Transfer(ctx, caller, custody, amount); rbErr != nil {
				s.logger.ErrorContext(ctx, "custody compensation failed after commit error",
					"credit_id", creditID,
					"owner", caller,
					"amount", amount,
					"error", rbErr,
				)
			}
		}
		return nil, wrapCreditErr(err)
	}

	if s.metrics != nil {
		s.metrics.CreditsRetired.Inc()
		s.metrics.AmountRetired.Add(float64(amount))
	}
	s.emit(ctx, events.Event{
		Kind:       events.TypeCreditRetired,
		OccurredAt: now,
		Retired: &events.CreditRetired{
			Credit:    creditID,
			Owner:     caller,
			Amount:    amount,
			RetiredAt: now,
		},
	})
	s.logger.InfoContext(ctx, "credit retired",
		"request_id", requestcontext.RequestID(ctx),
		"credit_id", creditID,
		"owner", caller,
		"amount", amount,
	)
	return credit, nil
}
