// Package service implements the credit lifecycle engine: issuance,
// validation, transfer, and retirement of environmental credits, plus
// facility certification. Each operation validates preconditions against the
// registry stores, drives any required custody movement through the value
// ledger, commits the record mutation, and emits a lifecycle event — in that
// order, with the custody and record effects coupled all-or-nothing.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"terraspark/internal/authz"
	"terraspark/internal/ledger"
	"terraspark/internal/platform/metrics"
	"terraspark/internal/registry/events"
	"terraspark/internal/registry/models"
	id "terraspark/pkg/domain"
	dErrors "terraspark/pkg/domain-errors"
	"terraspark/pkg/platform/sentinel"
)

// CreditStore is the registry store surface for credit records. Execute runs
// the callback under the per-record lock and persists the mutated record iff
// the callback returns nil.
type CreditStore interface {
	Create(ctx context.Context, credit *models.Credit) error
	FindByID(ctx context.Context, creditID id.CreditID) (*models.Credit, error)
	ListByOwner(ctx context.Context, owner id.AccountID) ([]*models.Credit, error)
	ListByProducer(ctx context.Context, producer id.AccountID) ([]*models.Credit, error)
	Execute(ctx context.Context, creditID id.CreditID, fn func(credit *models.Credit) error) (*models.Credit, error)
}

// FacilityStore is the registry store surface for facility records.
type FacilityStore interface {
	Create(ctx context.Context, facility *models.Facility) error
	FindByID(ctx context.Context, facilityID id.FacilityID) (*models.Facility, error)
	ListByProducer(ctx context.Context, producer id.AccountID) ([]*models.Facility, error)
}

// MintStore holds the deployment's single CreditMint record.
type MintStore interface {
	Create(ctx context.Context, mint *models.CreditMint) error
	Get(ctx context.Context) (*models.CreditMint, error)
}

// Service is the credit lifecycle engine.
type Service struct {
	credits    CreditStore
	facilities FacilityStore
	mints      MintStore
	ledger     ledger.Ledger
	policy     authz.Policy
	logger     *slog.Logger
	metrics    *metrics.Metrics
	outbox     chan<- events.Event
	tracer     trace.Tracer
}

// Option configures optional service dependencies.
type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPolicy installs the external authorization check consulted before
// validate and certify. Without it every identity is authorized.
func WithPolicy(policy authz.Policy) Option {
	return func(s *Service) { s.policy = policy }
}

// WithEventSink installs the outbound event queue. The engine enqueues after
// each successful commit and never blocks: when the queue is full the event
// is dropped with a warning, never the transition.
func WithEventSink(outbox chan<- events.Event) Option {
	return func(s *Service) { s.outbox = outbox }
}

// New constructs the lifecycle engine.
func New(credits CreditStore, facilities FacilityStore, mints MintStore, custody ledger.Ledger, opts ...Option) *Service {
	s := &Service{
		credits:    credits,
		facilities: facilities,
		mints:      mints,
		ledger:     custody,
		policy:     authz.AllowAll{},
		logger:     slog.New(slog.DiscardHandler),
		tracer:     otel.Tracer("terraspark/registry"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// emit enqueues a lifecycle event for the dispatcher. Fire-and-forget.
func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.outbox == nil {
		return
	}
	select {
	case s.outbox <- event:
	default:
		s.logger.WarnContext(ctx, "event queue full, dropping event", "kind", event.Kind)
	}
}

func (s *Service) observe(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveOperation(op, time.Since(start))
	if err != nil {
		s.metrics.IncrementError(op, string(dErrors.CodeOf(err)))
	}
}

// wrapCreditErr translates store facts into domain errors, passing through
// errors that already carry a code (the Can* guards return those).
func wrapCreditErr(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "credit not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "credit store failure")
}
