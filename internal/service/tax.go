package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tixera/tixera/internal/domain/assessment"
	"github.com/tixera/tixera/internal/domain/taxrule"
	ierr "github.com/tixera/tixera/internal/errors"
	"github.com/tixera/tixera/internal/types"
)

var oneHundred = decimal.NewFromInt(100)

// TaxService applies the configured levies and dues to a priced ticket.
// Apply is pure with respect to its inputs: given one catalog snapshot and
// one context it has no side effects, so it may be called concurrently
// without coordination.
type TaxService interface {
	Apply(ctx context.Context, evalCtx *assessment.Context) (*assessment.Result, error)
}

type taxService struct {
	ServiceParams
	catalog CatalogService
}

func NewTaxService(params ServiceParams, catalog CatalogService) TaxService {
	return &taxService{
		ServiceParams: params,
		catalog:       catalog,
	}
}

func (s *taxService) Apply(ctx context.Context, evalCtx *assessment.Context) (*assessment.Result, error) {
	if evalCtx == nil {
		return nil, ierr.NewError("evaluation context is required").
			WithHint("Evaluation context is required").
			Mark(ierr.ErrValidation)
	}

	if err := evalCtx.Validate(); err != nil {
		s.Logger.Warnw("tax evaluation input rejected",
			"error", err,
			"event_type_id", evalCtx.EventTypeID,
		)
		return nil, err
	}

	snapshot, err := s.catalog.Current()
	if err != nil {
		return nil, err
	}

	rules, err := snapshot.SelectFor(evalCtx)
	if err != nil {
		s.Logger.Warnw("tax rule selection failed",
			"error", err,
			"event_type_id", evalCtx.EventTypeID,
		)
		return nil, err
	}

	precision := types.GetCurrencyPrecision(snapshot.Currency())

	// runningPrice accumulates added to price surcharges so later rules
	// with a ticket price base see the surcharged price.
	runningPrice := evalCtx.TicketGrossPrice
	embeddedFromTicket := decimal.Zero
	lines := make([]assessment.Line, 0, len(rules))

	for _, rule := range rules {
		var base decimal.Decimal
		switch rule.AppliedToBase {
		case types.TaxBaseGrossExclVAT:
			base = evalCtx.EventCumulativeGrossExclVAT
		default:
			base = runningPrice
		}

		rate, isPercent, err := s.resolveRate(rule, base)
		if err != nil {
			return nil, err
		}

		// Round each line at computation time so the reported totals
		// reconcile exactly with the sum of the emitted lines.
		var amount decimal.Decimal
		if isPercent {
			amount = rate.Div(oneHundred).Mul(base).Round(precision)
		} else {
			amount = rate.Round(precision)
		}

		if rule.IsAddedToPrice {
			runningPrice = runningPrice.Add(amount)
		} else if rule.AppliedToBase == types.TaxBaseTicketPrice {
			// Event level dues are already reflected in the organizer's
			// aggregate revenue figure; only ticket based embedded dues
			// reduce this ticket's payout.
			embeddedFromTicket = embeddedFromTicket.Add(amount)
		}

		lines = append(lines, assessment.Line{
			RuleID:         rule.ID,
			RuleName:       rule.Name,
			Beneficiary:    rule.Beneficiary,
			LegalBasis:     rule.LegalBasis,
			Base:           base,
			ResolvedRate:   rate,
			Amount:         amount,
			IsAddedToPrice: rule.IsAddedToPrice,
		})

		s.Logger.Debugw("applied tax rule",
			"tax_rule_id", rule.ID,
			"beneficiary", rule.Beneficiary,
			"base", base,
			"rate", rate,
			"amount", amount,
			"added_to_price", rule.IsAddedToPrice,
		)
	}

	result := &assessment.Result{
		Lines:                lines,
		GrossPriceToCustomer: runningPrice,
		NetPriceToOrganizer:  evalCtx.TicketGrossPrice.Sub(embeddedFromTicket),
		Currency:             snapshot.Currency(),
	}

	s.Logger.Infow("computed tax breakdown",
		"event_type_id", evalCtx.EventTypeID,
		"lines", len(lines),
		"ticket_gross_price", evalCtx.TicketGrossPrice,
		"gross_price_to_customer", result.GrossPriceToCustomer,
		"net_price_to_organizer", result.NetPriceToOrganizer,
	)

	return result, nil
}

// resolveRate returns the effective rate of a rule against the given base
// and whether the rate is a percentage of the base. Tiered rates are
// always percentages; flat rules follow their value type, where a fixed
// value is a per unit charge that is not multiplied by the base.
func (s *taxService) resolveRate(rule *taxrule.TaxRule, base decimal.Decimal) (decimal.Decimal, bool, error) {
	if rule.HasTieredRates {
		rate, err := rule.ResolveTieredRate(base)
		if err != nil {
			s.Logger.Errorw("tier bracket resolution failed",
				"error", err,
				"tax_rule_id", rule.ID,
				"base", base,
			)
			return decimal.Zero, false, err
		}
		return rate, true, nil
	}

	return rule.Value, rule.ValueType == types.TaxValueTypePercent, nil
}
