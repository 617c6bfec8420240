package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tixera/tixera/internal/domain/assessment"
	"github.com/tixera/tixera/internal/domain/eventtype"
	"github.com/tixera/tixera/internal/domain/taxrule"
	ierr "github.com/tixera/tixera/internal/errors"
	"github.com/tixera/tixera/internal/testutil"
	"github.com/tixera/tixera/internal/types"
)

type TaxServiceSuite struct {
	testutil.BaseServiceTestSuite
	taxService TaxService
	catalog    CatalogService
}

func TestTaxService(t *testing.T) {
	suite.Run(t, new(TaxServiceSuite))
}

func (s *TaxServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		EventTypeRepo: s.GetStores().EventTypeRepo,
		TaxRuleRepo:   s.GetStores().TaxRuleRepo,
	}
	s.catalog = NewCatalogService(params)
	s.taxService = NewTaxService(params, s.catalog)

	s.seedEventTypes()
}

func (s *TaxServiceSuite) seedEventTypes() {
	nodes := []*eventtype.EventTypeNode{
		{ID: "evtype_events", Slug: "events", Name: "Events"},
		{ID: "evtype_performances", Slug: "performances", Name: "Performances", ParentID: lo.ToPtr("evtype_events")},
		{ID: "evtype_concerts", Slug: "concerts", Name: "Concerts", ParentID: lo.ToPtr("evtype_performances")},
		{ID: "evtype_conferences", Slug: "conferences", Name: "Conferences", ParentID: lo.ToPtr("evtype_events")},
	}
	for _, node := range nodes {
		node.BaseModel = types.GetDefaultBaseModel(s.GetContext())
		s.NoError(s.GetStores().EventTypeRepo.Create(s.GetContext(), node))
	}
}

func (s *TaxServiceSuite) createRule(rule *taxrule.TaxRule) {
	rule.BaseModel = types.GetDefaultBaseModel(s.GetContext())
	s.NoError(s.GetStores().TaxRuleRepo.Create(s.GetContext(), rule))
}

func (s *TaxServiceSuite) refreshCatalog() {
	s.NoError(s.catalog.Refresh(s.GetContext()))
}

func (s *TaxServiceSuite) evalContext(eventTypeID string, price string) *assessment.Context {
	return &assessment.Context{
		EventTypeID:      eventTypeID,
		TicketGrossPrice: decimal.RequireFromString(price),
		SaleDate:         time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC),
		EventDate:        time.Date(2025, 10, 1, 20, 0, 0, 0, time.UTC),
	}
}

func (s *TaxServiceSuite) TestAddedSurchargeIncreasesCustomerPrice() {
	s.createRule(&taxrule.TaxRule{
		ID:              "taxrule_stamp",
		Name:            "Stamp",
		Beneficiary:     "Charity",
		ValueType:       types.TaxValueTypePercent,
		Value:           decimal.NewFromInt(1),
		AppliedToBase:   types.TaxBaseTicketPrice,
		IsAddedToPrice:  true,
		Priority:        80,
		PaymentTermType: types.PaymentTermAtSale,
	})
	s.refreshCatalog()

	result, err := s.taxService.Apply(s.GetContext(), s.evalContext("evtype_concerts", "100"))
	s.NoError(err)
	s.Len(result.Lines, 1)
	s.True(result.Lines[0].Amount.Equal(decimal.RequireFromString("1")), "got %s", result.Lines[0].Amount)
	s.True(result.GrossPriceToCustomer.Equal(decimal.RequireFromString("101")), "got %s", result.GrossPriceToCustomer)
	s.True(result.NetPriceToOrganizer.Equal(decimal.RequireFromString("100")), "got %s", result.NetPriceToOrganizer)
}

func (s *TaxServiceSuite) TestEmbeddedVATReducesOrganizerNet() {
	s.createRule(&taxrule.TaxRule{
		ID:              "taxrule_vat",
		Name:            "VAT",
		Beneficiary:     "ANAF",
		ValueType:       types.TaxValueTypePercent,
		Value:           decimal.NewFromInt(21),
		AppliedToBase:   types.TaxBaseTicketPrice,
		IsAddedToPrice:  false,
		Priority:        100,
		PaymentTermType: types.PaymentTermAtSale,
	})
	s.refreshCatalog()

	result, err := s.taxService.Apply(s.GetContext(), s.evalContext("evtype_concerts", "121"))
	s.NoError(err)
	s.Len(result.Lines, 1)
	s.True(result.Lines[0].Amount.Equal(decimal.RequireFromString("25.41")), "got %s", result.Lines[0].Amount)
	s.True(result.GrossPriceToCustomer.Equal(decimal.RequireFromString("121")), "got %s", result.GrossPriceToCustomer)
	s.True(result.NetPriceToOrganizer.Equal(decimal.RequireFromString("95.59")), "got %s", result.NetPriceToOrganizer)
}

func (s *TaxServiceSuite) TestTieredRuleUsesEventRevenue() {
	s.createRule(&taxrule.TaxRule{
		ID:             "taxrule_copyright",
		Name:           "Copyright due",
		Beneficiary:    "Collecting society",
		HasTieredRates: true,
		Tiers: taxrule.JSONBTiers{
			{Min: decimal.Zero, Max: lo.ToPtr(decimal.NewFromInt(500_000)), Rate: decimal.NewFromInt(7)},
			{Min: decimal.NewFromFloat(500_000.01), Max: lo.ToPtr(decimal.NewFromInt(2_000_000)), Rate: decimal.NewFromFloat(6.5)},
			{Min: decimal.NewFromFloat(2_000_000.01), Rate: decimal.NewFromInt(6)},
		},
		AppliedToBase:        types.TaxBaseGrossExclVAT,
		IsAddedToPrice:       false,
		Priority:             50,
		PaymentTermType:      types.PaymentTermDaysAfterEvent,
		PaymentTermDaysAfter: lo.ToPtr(15),
	})
	s.refreshCatalog()

	evalCtx := s.evalContext("evtype_concerts", "100")
	evalCtx.EventCumulativeGrossExclVAT = decimal.NewFromInt(1_000_000)

	result, err := s.taxService.Apply(s.GetContext(), evalCtx)
	s.NoError(err)
	s.Len(result.Lines, 1)
	s.True(result.Lines[0].ResolvedRate.Equal(decimal.RequireFromString("6.5")), "got %s", result.Lines[0].ResolvedRate)
	s.True(result.Lines[0].Amount.Equal(decimal.RequireFromString("65000")), "got %s", result.Lines[0].Amount)
	// Event level dues do not touch the single ticket's payout
	s.True(result.NetPriceToOrganizer.Equal(decimal.RequireFromString("100")))
	s.True(result.GrossPriceToCustomer.Equal(decimal.RequireFromString("100")))
}

func (s *TaxServiceSuite) TestNoMatchingRulesIsAnExemption() {
	s.createRule(&taxrule.TaxRule{
		ID:                "taxrule_musical_stamp",
		Name:              "Musical stamp",
		Beneficiary:       "Composers union",
		TargetEventTypeID: lo.ToPtr("evtype_concerts"),
		ValueType:         types.TaxValueTypePercent,
		Value:             decimal.NewFromInt(5),
		AppliedToBase:     types.TaxBaseTicketPrice,
		IsAddedToPrice:    true,
		Priority:          70,
		PaymentTermType:   types.PaymentTermAtSale,
	})
	s.refreshCatalog()

	result, err := s.taxService.Apply(s.GetContext(), s.evalContext("evtype_conferences", "100"))
	s.NoError(err)
	s.Empty(result.Lines)
	s.True(result.GrossPriceToCustomer.Equal(decimal.RequireFromString("100")))
	s.True(result.NetPriceToOrganizer.Equal(decimal.RequireFromString("100")))
}

func (s *TaxServiceSuite) TestTargetedRuleMatchesDescendants() {
	s.createRule(&taxrule.TaxRule{
		ID:                "taxrule_show_tax",
		Name:              "Show tax",
		Beneficiary:       "Local authority",
		TargetEventTypeID: lo.ToPtr("evtype_performances"),
		ValueType:         types.TaxValueTypePercent,
		Value:             decimal.NewFromInt(2),
		AppliedToBase:     types.TaxBaseTicketPrice,
		Priority:          90,
		PaymentTermType:   types.PaymentTermAtSale,
	})
	s.refreshCatalog()

	result, err := s.taxService.Apply(s.GetContext(), s.evalContext("evtype_concerts", "100"))
	s.NoError(err)
	s.Len(result.Lines, 1)
	s.Equal("taxrule_show_tax", result.Lines[0].RuleID)
}

func (s *TaxServiceSuite) TestUnknownEventTypeIsFatal() {
	s.refreshCatalog()

	_, err := s.taxService.Apply(s.GetContext(), s.evalContext("evtype_unknown", "100"))
	s.Error(err)
	s.True(ierr.IsUnknownEventType(err))
}

func (s *TaxServiceSuite) TestApplicationOrderIsDeterministic() {
	// Same priority: ties broken by id ascending
	for _, id := range []string{"taxrule_b", "taxrule_a", "taxrule_c"} {
		s.createRule(&taxrule.TaxRule{
			ID:              id,
			Name:            id,
			Beneficiary:     "Authority",
			ValueType:       types.TaxValueTypePercent,
			Value:           decimal.NewFromInt(1),
			AppliedToBase:   types.TaxBaseTicketPrice,
			Priority:        10,
			PaymentTermType: types.PaymentTermAtSale,
		})
	}
	s.createRule(&taxrule.TaxRule{
		ID:              "taxrule_z_first",
		Name:            "Higher priority applies first",
		Beneficiary:     "Authority",
		ValueType:       types.TaxValueTypePercent,
		Value:           decimal.NewFromInt(1),
		AppliedToBase:   types.TaxBaseTicketPrice,
		Priority:        99,
		PaymentTermType: types.PaymentTermAtSale,
	})
	s.refreshCatalog()

	evalCtx := s.evalContext("evtype_concerts", "100")
	first, err := s.taxService.Apply(s.GetContext(), evalCtx)
	s.NoError(err)

	ids := lo.Map(first.Lines, func(line assessment.Line, _ int) string { return line.RuleID })
	s.Equal([]string{"taxrule_z_first", "taxrule_a", "taxrule_b", "taxrule_c"}, ids)

	// Re-running the identical evaluation yields the identical breakdown
	second, err := s.taxService.Apply(s.GetContext(), evalCtx)
	s.NoError(err)
	s.Equal(first, second)
}

func (s *TaxServiceSuite) TestLaterRulesSeeSurchargedPrice() {
	s.createRule(&taxrule.TaxRule{
		ID:              "taxrule_surcharge",
		Name:            "Surcharge",
		Beneficiary:     "Charity",
		ValueType:       types.TaxValueTypeFixed,
		Value:           decimal.NewFromInt(10),
		AppliedToBase:   types.TaxBaseTicketPrice,
		IsAddedToPrice:  true,
		Priority:        100,
		PaymentTermType: types.PaymentTermAtSale,
	})
	s.createRule(&taxrule.TaxRule{
		ID:              "taxrule_percent_after",
		Name:            "Percent after surcharge",
		Beneficiary:     "Authority",
		ValueType:       types.TaxValueTypePercent,
		Value:           decimal.NewFromInt(10),
		AppliedToBase:   types.TaxBaseTicketPrice,
		IsAddedToPrice:  false,
		Priority:        50,
		PaymentTermType: types.PaymentTermAtSale,
	})
	s.refreshCatalog()

	result, err := s.taxService.Apply(s.GetContext(), s.evalContext("evtype_concerts", "100"))
	s.NoError(err)
	s.Len(result.Lines, 2)

	// The 10% line is computed on the surcharged 110, not the advertised 100
	s.True(result.Lines[1].Base.Equal(decimal.RequireFromString("110")), "got %s", result.Lines[1].Base)
	s.True(result.Lines[1].Amount.Equal(decimal.RequireFromString("11")), "got %s", result.Lines[1].Amount)
	s.True(result.GrossPriceToCustomer.Equal(decimal.RequireFromString("110")))
	s.True(result.NetPriceToOrganizer.Equal(decimal.RequireFromString("89")))
}

func (s *TaxServiceSuite) TestAmountsRoundedAtCurrencyMinorUnit() {
	s.createRule(&taxrule.TaxRule{
		ID:              "taxrule_odd_rate",
		Name:            "Odd rate",
		Beneficiary:     "Authority",
		ValueType:       types.TaxValueTypePercent,
		Value:           decimal.RequireFromString("19"),
		AppliedToBase:   types.TaxBaseTicketPrice,
		Priority:        10,
		PaymentTermType: types.PaymentTermAtSale,
	})
	s.refreshCatalog()

	// 19% of 33.33 = 6.3327, rounds half up to 6.33
	result, err := s.taxService.Apply(s.GetContext(), s.evalContext("evtype_concerts", "33.33"))
	s.NoError(err)
	s.True(result.Lines[0].Amount.Equal(decimal.RequireFromString("6.33")), "got %s", result.Lines[0].Amount)

	// 19% of 0.25 = 0.0475, the half rounds up to 0.05
	result, err = s.taxService.Apply(s.GetContext(), s.evalContext("evtype_concerts", "0.25"))
	s.NoError(err)
	s.True(result.Lines[0].Amount.Equal(decimal.RequireFromString("0.05")), "got %s", result.Lines[0].Amount)
}

func (s *TaxServiceSuite) TestRuleOutsideValidityWindowIsSkipped() {
	expired := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)
	s.createRule(&taxrule.TaxRule{
		ID:              "taxrule_expired",
		Name:            "Expired levy",
		Beneficiary:     "Authority",
		ValueType:       types.TaxValueTypePercent,
		Value:           decimal.NewFromInt(3),
		AppliedToBase:   types.TaxBaseTicketPrice,
		Priority:        10,
		ValidUntil:      &expired,
		PaymentTermType: types.PaymentTermAtSale,
	})
	s.refreshCatalog()

	result, err := s.taxService.Apply(s.GetContext(), s.evalContext("evtype_concerts", "100"))
	s.NoError(err)
	s.Empty(result.Lines)
}

func (s *TaxServiceSuite) TestTieredRuleBeyondLastClosedBracketIsFatal() {
	s.createRule(&taxrule.TaxRule{
		ID:             "taxrule_capped",
		Name:           "Capped due",
		Beneficiary:    "Society",
		HasTieredRates: true,
		Tiers: taxrule.JSONBTiers{
			{Min: decimal.Zero, Max: lo.ToPtr(decimal.NewFromInt(1000)), Rate: decimal.NewFromInt(5)},
		},
		AppliedToBase:   types.TaxBaseGrossExclVAT,
		Priority:        10,
		PaymentTermType: types.PaymentTermAtSale,
	})
	s.refreshCatalog()

	evalCtx := s.evalContext("evtype_concerts", "100")
	evalCtx.EventCumulativeGrossExclVAT = decimal.NewFromInt(5000)

	_, err := s.taxService.Apply(s.GetContext(), evalCtx)
	s.Error(err)
	s.True(ierr.IsNoMatchingBracket(err))
}

func (s *TaxServiceSuite) TestInvalidEvaluationContext() {
	s.refreshCatalog()

	evalCtx := s.evalContext("evtype_concerts", "100")
	evalCtx.TicketGrossPrice = decimal.NewFromInt(-1)
	_, err := s.taxService.Apply(s.GetContext(), evalCtx)
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.taxService.Apply(s.GetContext(), nil)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TaxServiceSuite) TestApplyBeforeCatalogLoadFails() {
	_, err := s.taxService.Apply(s.GetContext(), s.evalContext("evtype_concerts", "100"))
	s.Error(err)
}
