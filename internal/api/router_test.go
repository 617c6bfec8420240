package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	v1 "github.com/tixera/tixera/internal/api/v1"
	"github.com/tixera/tixera/internal/config"
	"github.com/tixera/tixera/internal/domain/eventtype"
	"github.com/tixera/tixera/internal/domain/taxrule"
	"github.com/tixera/tixera/internal/logger"
	"github.com/tixera/tixera/internal/service"
	"github.com/tixera/tixera/internal/testutil"
	"github.com/tixera/tixera/internal/types"
	"github.com/tixera/tixera/internal/validator"
)

type RouterSuite struct {
	suite.Suite
	router *gin.Engine
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	s.Require().NoError(err)

	ctx := testutil.SetupContext()
	eventTypeStore := testutil.NewInMemoryEventTypeStore()
	taxRuleStore := testutil.NewInMemoryTaxRuleStore()

	node := &eventtype.EventTypeNode{
		ID:        "evtype_concerts",
		Slug:      "concerts",
		Name:      "Concerts",
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(eventTypeStore.Create(ctx, node))

	rule := &taxrule.TaxRule{
		ID:              "taxrule_stamp",
		Name:            "Stamp",
		Beneficiary:     "Charity",
		ValueType:       types.TaxValueTypePercent,
		Value:           decimal.NewFromInt(1),
		AppliedToBase:   types.TaxBaseTicketPrice,
		IsAddedToPrice:  true,
		Priority:        80,
		PaymentTermType: types.PaymentTermAtSale,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(taxRuleStore.Create(ctx, rule))

	params := service.ServiceParams{
		Logger:        log,
		Config:        cfg,
		EventTypeRepo: eventTypeStore,
		TaxRuleRepo:   taxRuleStore,
	}
	catalogService := service.NewCatalogService(params)
	s.Require().NoError(catalogService.Refresh(ctx))

	s.router = NewRouter(Handlers{
		Tax: v1.NewTaxHandler(
			service.NewTaxService(params, catalogService),
			service.NewRemittanceService(params, catalogService),
			catalogService,
			log,
		),
	})
}

func (s *RouterSuite) post(path string, body map[string]any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestApplyReturnsBreakdown() {
	w := s.post("/v1/tax/apply", map[string]any{
		"event_type_id":      "evtype_concerts",
		"ticket_gross_price": "100",
		"sale_date":          "2025-08-10T12:00:00Z",
		"event_date":         "2025-10-01T20:00:00Z",
	})
	s.Equal(http.StatusOK, w.Code)

	var resp struct {
		Lines []struct {
			RuleID string          `json:"rule_id"`
			Amount decimal.Decimal `json:"amount"`
		} `json:"lines"`
		GrossPriceToCustomer decimal.Decimal `json:"gross_price_to_customer"`
		NetPriceToOrganizer  decimal.Decimal `json:"net_price_to_organizer"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Lines, 1)
	s.Equal("taxrule_stamp", resp.Lines[0].RuleID)
	s.True(resp.GrossPriceToCustomer.Equal(decimal.RequireFromString("101")))
	s.True(resp.NetPriceToOrganizer.Equal(decimal.RequireFromString("100")))
}

func (s *RouterSuite) TestApplyRejectsUnknownEventType() {
	w := s.post("/v1/tax/apply", map[string]any{
		"event_type_id":      "evtype_unknown",
		"ticket_gross_price": "100",
		"sale_date":          "2025-08-10T12:00:00Z",
		"event_date":         "2025-10-01T20:00:00Z",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestApplyRejectsMissingFields() {
	w := s.post("/v1/tax/apply", map[string]any{
		"ticket_gross_price": "100",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestObligationsEndpoint() {
	w := s.post("/v1/tax/obligations", map[string]any{
		"event_type_id":      "evtype_concerts",
		"ticket_gross_price": "100",
		"sale_date":          "2025-08-10T12:00:00Z",
		"event_date":         "2025-10-01T20:00:00Z",
		"lines": []map[string]any{
			{
				"rule_id":     "taxrule_stamp",
				"beneficiary": "Charity",
				"amount":      "1",
			},
		},
	})
	s.Equal(http.StatusOK, w.Code)

	var resp struct {
		Items []struct {
			RuleID  string `json:"rule_id"`
			DueDate string `json:"due_date"`
		} `json:"items"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Items, 1)
	s.Equal("taxrule_stamp", resp.Items[0].RuleID)
	s.Equal("2025-08-10T12:00:00Z", resp.Items[0].DueDate)
}

func (s *RouterSuite) TestListRules() {
	req := httptest.NewRequest(http.MethodGet, "/v1/tax/rules", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)

	var resp struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Items, 1)
	s.Equal("taxrule_stamp", resp.Items[0].ID)
}

func (s *RouterSuite) TestRequestIDHeaderIsEchoed() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req_test_123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal("req_test_123", w.Header().Get("X-Request-ID"))
}
