package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"terraspark/internal/registry/events"
	"terraspark/internal/registry/models"
	id "terraspark/pkg/domain"
	dErrors "terraspark/pkg/domain-errors"
	"terraspark/pkg/requestcontext"
)

// Transfer moves certificate ownership from caller to newOwner. The credit
// must be validated and not retired, and caller must be the recorded owner.
//
// No custody movement happens here: the locked value stays in the credit's
// custody account, only the logical owner pointer changes. Decoupling the
// certificate from the token keeps transfers cheap and keeps the custody
// account's 1:1 tie to the credit intact.
func (s *Service) Transfer(ctx context.Context, creditID id.CreditID, caller, newOwner id.AccountID) (_ *models.Credit, err error) {
	ctx, span := s.tracer.Start(ctx, "registry.transfer")
	defer span.End()
	span.SetAttributes(attribute.String("credit_id", creditID.String()))
	start := time.Now()
	defer func() { s.observe("transfer", start, err) }()

	if newOwner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "new owner is required")
	}
	if newOwner == caller {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "cannot transfer a credit to its current owner")
	}

	now := requestcontext.Now(ctx)
	credit, err := s.credits.Execute(ctx, creditID, func(c *models.Credit) error {
		if err := c.CanTransfer(caller); err != nil {
			return err
		}
		c.ApplyTransfer(newOwner, now)
		return nil
	})
	if err != nil {
		return nil, wrapCreditErr(err)
	}

	if s.metrics != nil {
		s.metrics.CreditsTransferred.Inc()
	}
	s.emit(ctx, events.Event{
		Kind:       events.TypeCreditTransferred,
		OccurredAt: now,
		Transfer: &events.CreditTransferred{
			Credit:        creditID,
			From:          caller,
			To:            newOwner,
			TransferredAt: now,
		},
	})
	s.logger.InfoContext(ctx, "credit transferred",
		"request_id", requestcontext.RequestID(ctx),
		"credit_id", creditID,
		"from", caller,
		"to", newOwner,
	)
	return credit, nil
}
