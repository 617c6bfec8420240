package seed

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tixera/tixera/internal/domain/eventtype"
	"github.com/tixera/tixera/internal/domain/taxrule"
	"github.com/tixera/tixera/internal/types"
)

// Reference catalog for the Romanian marketplace. IDs are fixed so the
// seeder stays idempotent across runs.
const (
	EventTypeEvents       = "evtype_events"
	EventTypePerformances = "evtype_performances"
	EventTypeConcerts     = "evtype_concerts"
	EventTypeFestivals    = "evtype_festivals"
	EventTypeTheatre      = "evtype_theatre"
	EventTypeSports       = "evtype_sports"
	EventTypeConferences  = "evtype_conferences"

	RuleVATStandard   = "taxrule_vat_standard"
	RuleShowTax       = "taxrule_show_tax"
	RuleRedCrossStamp = "taxrule_red_cross_stamp"
	RuleMusicalStamp  = "taxrule_musical_stamp"
	RuleCopyrightUCMR = "taxrule_copyright_ucmr_ada"
)

// EventTypes returns the seeded event type taxonomy, parents first
func EventTypes() []*eventtype.EventTypeNode {
	return []*eventtype.EventTypeNode{
		{ID: EventTypeEvents, Slug: "events", Name: "Events"},
		{ID: EventTypePerformances, Slug: "performances", Name: "Performances", ParentID: lo.ToPtr(EventTypeEvents)},
		{ID: EventTypeConcerts, Slug: "concerts", Name: "Concerts", ParentID: lo.ToPtr(EventTypePerformances)},
		{ID: EventTypeFestivals, Slug: "festivals", Name: "Festivals", ParentID: lo.ToPtr(EventTypeConcerts)},
		{ID: EventTypeTheatre, Slug: "theatre", Name: "Theatre & Opera", ParentID: lo.ToPtr(EventTypePerformances)},
		{ID: EventTypeSports, Slug: "sports", Name: "Sports", ParentID: lo.ToPtr(EventTypeEvents)},
		{ID: EventTypeConferences, Slug: "conferences", Name: "Conferences", ParentID: lo.ToPtr(EventTypeEvents)},
	}
}

// TaxRules returns the seeded Romanian levies and dues
func TaxRules() []*taxrule.TaxRule {
	return []*taxrule.TaxRule{
		{
			ID:              RuleVATStandard,
			Name:            "TVA cota standard",
			LegalBasis:      "Legea 227/2015 privind Codul fiscal, Titlul VII",
			Beneficiary:     "ANAF",
			ValueType:       types.TaxValueTypePercent,
			Value:           decimal.NewFromInt(21),
			AppliedToBase:   types.TaxBaseTicketPrice,
			IsAddedToPrice:  false,
			Priority:        100,
			PaymentTermType: types.PaymentTermDayOfMonth,
			PaymentTermDay:  lo.ToPtr(25),
		},
		{
			ID:                RuleShowTax,
			Name:              "Impozit pe spectacole",
			LegalBasis:        "Legea 227/2015, art. 480-483",
			Beneficiary:       "Directia de Impozite si Taxe Locale",
			TargetEventTypeID: lo.ToPtr(EventTypePerformances),
			ValueType:         types.TaxValueTypePercent,
			Value:             decimal.NewFromInt(2),
			AppliedToBase:     types.TaxBaseTicketPrice,
			IsAddedToPrice:    false,
			Priority:          90,
			PaymentTermType:   types.PaymentTermDayOfMonth,
			PaymentTermDay:    lo.ToPtr(10),
		},
		{
			ID:              RuleRedCrossStamp,
			Name:            "Timbrul Crucii Rosii",
			LegalBasis:      "Legea 139/1995, art. 5",
			Beneficiary:     "Crucea Rosie Romana",
			ValueType:       types.TaxValueTypePercent,
			Value:           decimal.NewFromInt(1),
			AppliedToBase:   types.TaxBaseTicketPrice,
			IsAddedToPrice:  true,
			Priority:        80,
			PaymentTermType: types.PaymentTermDayOfMonth,
			PaymentTermDay:  lo.ToPtr(25),
		},
		{
			ID:                RuleMusicalStamp,
			Name:              "Timbrul muzical",
			LegalBasis:        "Legea 35/1994, art. 1",
			Beneficiary:       "Uniunea Compozitorilor si Muzicologilor",
			TargetEventTypeID: lo.ToPtr(EventTypeConcerts),
			ValueType:         types.TaxValueTypePercent,
			Value:             decimal.NewFromInt(5),
			AppliedToBase:     types.TaxBaseTicketPrice,
			IsAddedToPrice:    true,
			Priority:          70,
			PaymentTermType:   types.PaymentTermDayOfMonth,
			PaymentTermDay:    lo.ToPtr(25),
		},
		{
			ID:                RuleCopyrightUCMR,
			Name:              "Remuneratie drepturi de autor UCMR-ADA",
			LegalBasis:        "Legea 8/1996 privind dreptul de autor",
			Beneficiary:       "UCMR-ADA",
			TargetEventTypeID: lo.ToPtr(EventTypeConcerts),
			HasTieredRates:    true,
			Tiers: taxrule.JSONBTiers{
				{
					Min:  decimal.Zero,
					Max:  lo.ToPtr(decimal.NewFromInt(500_000)),
					Rate: decimal.NewFromInt(7),
				},
				{
					Min:  decimal.NewFromFloat(500_000.01),
					Max:  lo.ToPtr(decimal.NewFromInt(2_000_000)),
					Rate: decimal.NewFromFloat(6.5),
				},
				{
					Min:  decimal.NewFromFloat(2_000_000.01),
					Rate: decimal.NewFromInt(6),
				},
			},
			AppliedToBase:        types.TaxBaseGrossExclVAT,
			IsAddedToPrice:       false,
			Priority:             50,
			PaymentTermType:      types.PaymentTermDaysAfterEvent,
			PaymentTermDaysAfter: lo.ToPtr(15),
		},
	}
}
