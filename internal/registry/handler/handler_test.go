package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"terraspark/internal/ledger"
	"terraspark/internal/registry/handler"
	"terraspark/internal/registry/models"
	"terraspark/internal/registry/service"
	creditstore "terraspark/internal/registry/store/credit"
	facilitystore "terraspark/internal/registry/store/facility"
	mintstore "terraspark/internal/registry/store/mint"
	id "terraspark/pkg/domain"
	"terraspark/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router  chi.Router
	service *service.Service
	ledger  *ledger.InMemory

	producer id.AccountID
	facility id.FacilityID
}

func (s *HandlerSuite) SetupTest() {
	s.ledger = ledger.NewInMemory()
	s.service = service.New(
		creditstore.NewInMemory(),
		facilitystore.NewInMemory(),
		mintstore.NewInMemory(),
		s.ledger,
	)

	logger := slog.New(slog.DiscardHandler)
	s.router = chi.NewRouter()
	handler.New(s.service, logger).Register(s.router)

	ctx := context.Background()
	s.producer = id.AccountID(uuid.New())
	s.Require().NoError(s.ledger.Deposit(ctx, s.producer, 1000))

	facility, err := s.service.Certify(ctx, service.CertifyRequest{
		Producer:        s.producer,
		Name:            "Test Electrolyzer",
		Location:        "Groningen",
		RenewableSource: "wind",
		Capacity:        300,
	})
	s.Require().NoError(err)
	s.facility = facility.ID

	_, err = s.service.InitializeMint(ctx, "Green Hydrogen Credit", "GHC", "", id.AccountID(uuid.New()))
	s.Require().NoError(err)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) issueViaHTTP(caller id.AccountID, amount uint64) *models.Credit {
	s.T().Helper()
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/credits", map[string]any{
		"amount":           amount,
		"renewable_source": "wind",
		"production_date":  "2026-08-01",
		"facility_id":      s.facility.String(),
	})
	rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, caller.String()))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	return testutil.UnmarshalResponse[models.Credit](s.T(), rr)
}

func (s *HandlerSuite) TestIssue() {
	s.Run("creates a credit for the authenticated caller", func() {
		credit := s.issueViaHTTP(s.producer, 100)
		s.Equal(s.producer, credit.Owner)
		s.Equal(uint64(100), credit.Amount)
		s.False(credit.Validated)
	})

	s.Run("rejects unauthenticated requests", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/credits", map[string]any{
			"amount":           uint64(10),
			"renewable_source": "wind",
			"facility_id":      s.facility.String(),
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("rejects zero amount", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/credits", map[string]any{
			"amount":           uint64(0),
			"renewable_source": "wind",
			"facility_id":      s.facility.String(),
		})
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_amount")
	})

	s.Run("rejects malformed JSON", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/credits", `{"amount": `)
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("maps unknown facility to 404", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/credits", map[string]any{
			"amount":           uint64(10),
			"renewable_source": "wind",
			"facility_id":      uuid.NewString(),
		})
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("maps insufficient balance to 409", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/credits", map[string]any{
			"amount":           uint64(100000),
			"renewable_source": "wind",
			"facility_id":      s.facility.String(),
		})
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "insufficient_balance")
	})
}

func (s *HandlerSuite) TestLifecycleEndpoints() {
	validator := id.AccountID(uuid.New())
	buyer := id.AccountID(uuid.New())
	credit := s.issueViaHTTP(s.producer, 100)
	base := "/credits/" + credit.ID.String()

	s.Run("transfer before validation maps to 409 credit_not_validated", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, base+"/transfer", map[string]string{
			"new_owner": buyer.String(),
		})
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "credit_not_validated")
	})

	s.Run("validate stamps the caller as validator", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, base+"/validate")
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, validator.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		validated := testutil.UnmarshalResponse[models.Credit](s.T(), rr)
		s.True(validated.Validated)
		s.Require().NotNil(validated.Validator)
		s.Equal(validator, *validated.Validator)
	})

	s.Run("second validation maps to 409 already_validated", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, base+"/validate")
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, validator.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "already_validated")
	})

	s.Run("non-owner transfer maps to 403 not_owner", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, base+"/transfer", map[string]string{
			"new_owner": buyer.String(),
		})
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, buyer.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "not_owner")
	})

	s.Run("owner transfers to buyer", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, base+"/transfer", map[string]string{
			"new_owner": buyer.String(),
		})
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		transferred := testutil.UnmarshalResponse[models.Credit](s.T(), rr)
		s.Equal(buyer, transferred.Owner)
	})

	s.Run("buyer retires and receives the custody release", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, base+"/retire")
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, buyer.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		retired := testutil.UnmarshalResponse[models.Credit](s.T(), rr)
		s.True(retired.Retired)

		balance, err := s.ledger.Balance(context.Background(), buyer)
		s.Require().NoError(err)
		s.Equal(uint64(100), balance)
	})

	s.Run("retired credit maps further operations to 409", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, base+"/retire")
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, buyer.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "credit_already_retired")
	})

	s.Run("invalid credit ID in path maps to 400", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/credits/not-a-uuid/validate")
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, validator.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("unknown credit maps to 404", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/credits/"+uuid.NewString()+"/retire")
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, buyer.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *HandlerSuite) TestQueries() {
	credit := s.issueViaHTTP(s.producer, 40)

	s.Run("get credit by ID", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/credits/"+credit.ID.String())
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		got := testutil.UnmarshalResponse[models.Credit](s.T(), rr)
		s.Equal(credit.ID, got.ID)
	})

	s.Run("list defaults to the caller's holdings", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/credits")
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		resp := testutil.UnmarshalResponse[struct {
			Credits []*models.Credit `json:"credits"`
		}](s.T(), rr)
		require.Len(s.T(), resp.Credits, 1)
	})

	s.Run("list by producer query param", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/credits?producer="+s.producer.String())
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("facility endpoints", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/facilities/"+s.facility.String())
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		req = testutil.NewRequest(s.T(), http.MethodGet, "/facilities")
		rr = testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[struct {
			Facilities []*models.Facility `json:"facilities"`
		}](s.T(), rr)
		require.Len(s.T(), resp.Facilities, 1)
	})

	s.Run("mint endpoint", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/mint")
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		mint := testutil.UnmarshalResponse[models.CreditMint](s.T(), rr)
		s.Equal("GHC", mint.Symbol)
	})
}

func (s *HandlerSuite) TestCertify() {
	s.Run("creates a certified facility", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/facilities", map[string]any{
			"name":             "Solar Park C",
			"location":         "Lisbon",
			"renewable_source": "solar",
			"capacity":         uint64(80),
		})
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)

		facility := testutil.UnmarshalResponse[models.Facility](s.T(), rr)
		s.True(facility.Certified)
		s.Equal(s.producer, facility.Producer)
	})

	s.Run("rejects missing name", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/facilities", map[string]any{
			"renewable_source": "solar",
			"capacity":         uint64(80),
		})
		rr := testutil.DoRequest(s.router, testutil.WithIdentity(req, s.producer.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})
}
