package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"terraspark/internal/registry/events"
	"terraspark/internal/registry/models"
	id "terraspark/pkg/domain"
	dErrors "terraspark/pkg/domain-errors"
	"terraspark/pkg/platform/sentinel"
	"terraspark/pkg/requestcontext"
)

// IssueRequest carries the parameters of an issuance.
type IssueRequest struct {
	Producer        id.AccountID
	Amount          uint64
	RenewableSource string
	ProductionDate  string
	FacilityID      id.FacilityID
}

// Issue creates a new credit for the producer, atomically locking Amount of
// the producer's value balance into the credit's custody account.
//
// The referenced facility must exist and be certified. The custody transfer
// runs before the record is created; if the record create then fails, the
// locked value is returned to the producer so no effect survives the error.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (_ *models.Credit, err error) {
	ctx, span := s.tracer.Start(ctx, "registry.issue")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("issue", start, err) }()

	if req.Amount == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidAmount, "amount must be greater than zero")
	}
	if req.Producer.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "producer is required")
	}

	facility, err := s.facilities.FindByID(ctx, req.FacilityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "facility not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "facility store failure")
	}
	if !facility.Certified {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "facility is not certified")
	}

	now := requestcontext.Now(ctx)
	creditID := id.CreditID(uuid.New())
	credit, err := models.NewCredit(creditID, req.Producer, req.Amount, req.RenewableSource, req.ProductionDate, req.FacilityID, now)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("credit_id", creditID.String()))

	custody := credit.CustodyAccount()
	if err := s.ledger.Transfer(ctx, req.Producer, custody, req.Amount); err != nil {
		if errors.Is(err, sentinel.ErrInsufficientFunds) {
			return nil, dErrors.New(dErrors.CodeInsufficientBalance, "producer balance cannot cover the issued amount")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "custody transfer failed")
	}

	if err := s.credits.Create(ctx, credit); err != nil {
		// Undo the custody lock; the operation must leave no partial effect.
		if refundErr := s.ledger.Transfer(ctx, custody, req.Producer, req.Amount); refundErr != nil {
			s.logger.ErrorContext(ctx, "custody refund failed after create error",
				"credit_id", creditID,
				"producer", req.Producer,
				"amount", req.Amount,
				"error", refundErr,
			)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create credit record")
	}

	if s.metrics != nil {
		s.metrics.CreditsIssued.Inc()
		s.metrics.AmountIssued.Add(float64(req.Amount))
	}
	s.emit(ctx, events.Event{
		Kind:       events.TypeCreditIssued,
		OccurredAt: now,
		Issued: &events.CreditIssued{
			Credit:          creditID,
			Producer:        req.Producer,
			Amount:          req.Amount,
			RenewableSource: req.RenewableSource,
		},
	})
	s.logger.InfoContext(ctx, "credit issued",
		"request_id", requestcontext.RequestID(ctx),
		"credit_id", creditID,
		"producer", req.Producer,
		"amount", req.Amount,
	)
	return credit, nil
}
