package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"terraspark/internal/registry/models"
	"terraspark/internal/registry/service"
	id "terraspark/pkg/domain"
	dErrors "terraspark/pkg/domain-errors"
	"terraspark/pkg/platform/httputil"
	"terraspark/pkg/requestcontext"
)

// Service defines the engine surface the HTTP layer depends on.
type Service interface {
	Issue(ctx context.Context, req service.IssueRequest) (*models.Credit, error)
	Validate(ctx context.Context, creditID id.CreditID, validator id.AccountID) (*models.Credit, error)
	Transfer(ctx context.Context, creditID id.CreditID, caller, newOwner id.AccountID) (*models.Credit, error)
	Retire(ctx context.Context, creditID id.CreditID, caller id.AccountID) (*models.Credit, error)
	Certify(ctx context.Context, req service.CertifyRequest) (*models.Facility, error)
	GetCredit(ctx context.Context, creditID id.CreditID) (*models.Credit, error)
	ListCreditsByOwner(ctx context.Context, owner id.AccountID) ([]*models.Credit, error)
	ListCreditsByProducer(ctx context.Context, producer id.AccountID) ([]*models.Credit, error)
	GetFacility(ctx context.Context, facilityID id.FacilityID) (*models.Facility, error)
	ListFacilitiesByProducer(ctx context.Context, producer id.AccountID) ([]*models.Facility, error)
	GetMint(ctx context.Context) (*models.CreditMint, error)
}

// Handler wires registry endpoints to the lifecycle engine.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a registry handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts registry endpoints on the router. The router is expected to
// run the identity middleware first; every operation needs a caller.
func (h *Handler) Register(r chi.Router) {
	r.Post("/credits", h.handleIssue)
	r.Get("/credits", h.handleListCredits)
	r.Get("/credits/{creditID}", h.handleGetCredit)
	r.Post("/credits/{creditID}/validate", h.handleValidate)
	r.Post("/credits/{creditID}/transfer", h.handleTransfer)
	r.Post("/credits/{creditID}/retire", h.handleRetire)
	r.Post("/facilities", h.handleCertify)
	r.Get("/facilities", h.handleListFacilities)
	r.Get("/facilities/{facilityID}", h.handleGetFacility)
	r.Get("/mint", h.handleGetMint)
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (id.AccountID, bool) {
	caller := requestcontext.Identity(r.Context())
	if caller.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.AccountID{}, false
	}
	return caller, true
}

func creditIDParam(w http.ResponseWriter, r *http.Request) (id.CreditID, bool) {
	creditID, err := id.ParseCreditID(chi.URLParam(r, "creditID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.CreditID{}, false
	}
	return creditID, true
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[IssueRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	credit, err := h.service.Issue(ctx, service.IssueRequest{
		Producer:        caller,
		Amount:          req.Amount,
		RenewableSource: req.RenewableSource,
		ProductionDate:  req.ProductionDate,
		FacilityID:      req.ParsedFacilityID(),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, credit)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	creditID, ok := creditIDParam(w, r)
	if !ok {
		return
	}

	credit, err := h.service.Validate(r.Context(), creditID, caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, credit)
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	creditID, ok := creditIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransferRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	credit, err := h.service.Transfer(ctx, creditID, caller, req.ParsedNewOwner())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, credit)
}

func (h *Handler) handleRetire(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	creditID, ok := creditIDParam(w, r)
	if !ok {
		return
	}

	credit, err := h.service.Retire(r.Context(), creditID, caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, credit)
}

func (h *Handler) handleGetCredit(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}
	creditID, ok := creditIDParam(w, r)
	if !ok {
		return
	}

	credit, err := h.service.GetCredit(r.Context(), creditID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, credit)
}

// handleListCredits serves GET /v1/credits?owner=..|producer=.. — with no
// filter it lists the caller's own holdings.
func (h *Handler) handleListCredits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var (
		credits []*models.Credit
		err     error
	)
	switch {
	case r.URL.Query().Get("owner") != "":
		var owner id.AccountID
		if owner, err = id.ParseAccountID(r.URL.Query().Get("owner")); err == nil {
			credits, err = h.service.ListCreditsByOwner(ctx, owner)
		}
	case r.URL.Query().Get("producer") != "":
		var producer id.AccountID
		if producer, err = id.ParseAccountID(r.URL.Query().Get("producer")); err == nil {
			credits, err = h.service.ListCreditsByProducer(ctx, producer)
		}
	default:
		credits, err = h.service.ListCreditsByOwner(ctx, caller)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, creditListResponse{Credits: credits})
}

func (h *Handler) handleCertify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CertifyRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	facility, err := h.service.Certify(ctx, service.CertifyRequest{
		Producer:        caller,
		Name:            req.Name,
		Location:        req.Location,
		RenewableSource: req.RenewableSource,
		Capacity:        req.Capacity,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, facility)
}

func (h *Handler) handleGetFacility(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}
	facilityID, err := id.ParseFacilityID(chi.URLParam(r, "facilityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	facility, err := h.service.GetFacility(r.Context(), facilityID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, facility)
}

// handleListFacilities serves GET /v1/facilities?producer=.. — with no filter
// it lists the caller's own facilities.
func (h *Handler) handleListFacilities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	producer := caller
	if raw := r.URL.Query().Get("producer"); raw != "" {
		var err error
		if producer, err = id.ParseAccountID(raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	facilities, err := h.service.ListFacilitiesByProducer(ctx, producer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, facilityListResponse{Facilities: facilities})
}

func (h *Handler) handleGetMint(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}
	mint, err := h.service.GetMint(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, mint)
}
