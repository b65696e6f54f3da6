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

// Validate attests the credit, stamping the validator identity and timestamp.
// A credit is validated at most once: repeat calls fail with AlreadyValidated
// rather than silently succeeding or re-stamping.
//
// Who may validate is the policy collaborator's decision; the engine only
// enforces the state invariant.
func (s *Service) Validate(ctx context.Context, creditID id.CreditID, validator id.AccountID) (_ *models.Credit, err error) {
	ctx, span := s.tracer.Start(ctx, "registry.validate")
	defer span.End()
	span.SetAttributes(attribute.String("credit_id", creditID.String()))
	start := time.Now()
	defer func() { s.observe("validate", start, err) }()

	if !s.policy.IsAuthorizedValidator(ctx, validator) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "identity is not an authorized validator")
	}

	now := requestcontext.Now(ctx)
	credit, err := s.credits.Execute(ctx, creditID, func(c *models.Credit) error {
		if err := c.CanValidate(); err != nil {
			return err
		}
		c.ApplyValidation(validator, now)
		return nil
	})
	if err != nil {
		return nil, wrapCreditErr(err)
	}

	if s.metrics != nil {
		s.metrics.CreditsValidated.Inc()
	}
	s.emit(ctx, events.Event{
		Kind:       events.TypeCreditValidated,
		OccurredAt: now,
		Validated: &events.CreditValidated{
			Credit:      creditID,
			Validator:   validator,
			ValidatedAt: now,
		},
	})
	s.logger.InfoContext(ctx, "credit validated",
		"request_id", requestcontext.RequestID(ctx),
		"credit_id", creditID,
		"validator", validator,
	)
	return credit, nil
}
