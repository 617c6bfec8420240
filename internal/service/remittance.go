package service

import (
	"context"
	"time"

	"github.com/tixera/tixera/internal/domain/assessment"
	"github.com/tixera/tixera/internal/domain/taxrule"
	ierr "github.com/tixera/tixera/internal/errors"
	"github.com/tixera/tixera/internal/types"
)

// RemittanceService turns an applied breakdown into payment obligations,
// one per line, each with a due date computed from the originating rule's
// payment terms. Aggregation by beneficiary is left to the consumer.
type RemittanceService interface {
	Schedule(ctx context.Context, lines []assessment.Line, evalCtx *assessment.Context) ([]assessment.Obligation, error)
}

type remittanceService struct {
	ServiceParams
	catalog CatalogService
}

func NewRemittanceService(params ServiceParams, catalog CatalogService) RemittanceService {
	return &remittanceService{
		ServiceParams: params,
		catalog:       catalog,
	}
}

func (s *remittanceService) Schedule(ctx context.Context, lines []assessment.Line, evalCtx *assessment.Context) ([]assessment.Obligation, error) {
	if evalCtx == nil {
		return nil, ierr.NewError("evaluation context is required").
			WithHint("Evaluation context is required").
			Mark(ierr.ErrValidation)
	}

	snapshot, err := s.catalog.Current()
	if err != nil {
		return nil, err
	}

	rulesByID := make(map[string]*taxrule.TaxRule, len(snapshot.Rules()))
	for _, rule := range snapshot.Rules() {
		rulesByID[rule.ID] = rule
	}

	obligations := make([]assessment.Obligation, 0, len(lines))
	for _, line := range lines {
		rule, ok := rulesByID[line.RuleID]
		if !ok {
			return nil, ierr.NewErrorf("tax rule %s not found in catalog", line.RuleID).
				WithHint("The applied line references a rule missing from the catalog").
				WithReportableDetails(map[string]any{
					"tax_rule_id": line.RuleID,
				}).
				Mark(ierr.ErrNotFound)
		}

		dueDate := dueDateFor(rule, evalCtx)
		obligations = append(obligations, assessment.Obligation{
			RuleID:      line.RuleID,
			Beneficiary: line.Beneficiary,
			Amount:      line.Amount,
			DueDate:     dueDate,
			LegalBasis:  line.LegalBasis,
		})

		s.Logger.Debugw("scheduled remittance obligation",
			"tax_rule_id", line.RuleID,
			"beneficiary", line.Beneficiary,
			"amount", line.Amount,
			"due_date", dueDate,
		)
	}

	return obligations, nil
}

func dueDateFor(rule *taxrule.TaxRule, evalCtx *assessment.Context) time.Time {
	switch rule.PaymentTermType {
	case types.PaymentTermDayOfMonth:
		return dayOfFollowingMonth(evalCtx.SaleDate, *rule.PaymentTermDay)
	case types.PaymentTermDaysAfterEvent:
		return evalCtx.EventDate.AddDate(0, 0, *rule.PaymentTermDaysAfter)
	default:
		return evalCtx.SaleDate
	}
}

// dayOfFollowingMonth returns the given day in the month after the sale
// date's month, clamped to the last day of that month for short months.
func dayOfFollowingMonth(saleDate time.Time, day int) time.Time {
	year, month, _ := saleDate.Date()
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, saleDate.Location())
	lastDay := firstOfNext.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day, 0, 0, 0, 0, saleDate.Location())
}
