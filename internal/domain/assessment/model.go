package assessment

import (
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/tixera/tixera/internal/errors"
)

// Context carries the inputs for one tax evaluation of a single ticket.
// It is supplied fully populated by the order subsystem; in particular
// EventCumulativeGrossExclVAT is a pre computed event level revenue
// snapshot, the engine never aggregates revenue itself.
type Context struct {
	EventTypeID                 string          `json:"event_type_id"`
	TicketGrossPrice            decimal.Decimal `json:"ticket_gross_price"`
	EventCumulativeGrossExclVAT decimal.Decimal `json:"event_cumulative_gross_excl_vat"`
	SaleDate                    time.Time       `json:"sale_date"`
	EventDate                   time.Time       `json:"event_date"`
}

// Validate rejects input errors before any line is computed
func (c *Context) Validate() error {
	if c.EventTypeID == "" {
		return ierr.NewError("event_type_id is required").
			WithHint("Event type ID is required").
			Mark(ierr.ErrValidation)
	}
	if c.TicketGrossPrice.IsNegative() {
		return ierr.NewError("ticket price must not be negative").
			WithHint("Ticket gross price must not be negative").
			Mark(ierr.ErrValidation)
	}
	if c.EventCumulativeGrossExclVAT.IsNegative() {
		return ierr.NewError("event revenue must not be negative").
			WithHint("Event cumulative revenue must not be negative").
			Mark(ierr.ErrValidation)
	}
	if c.SaleDate.IsZero() {
		return ierr.NewError("sale_date is required").
			WithHint("Sale date is required").
			Mark(ierr.ErrValidation)
	}
	if c.EventDate.IsZero() {
		return ierr.NewError("event_date is required").
			WithHint("Event date is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Line is one applied rule of a breakdown. Amount is already rounded to
// the currency minor unit so that summed totals reconcile exactly with
// the sum of the emitted lines.
type Line struct {
	RuleID         string          `json:"rule_id"`
	RuleName       string          `json:"rule_name"`
	Beneficiary    string          `json:"beneficiary"`
	LegalBasis     string          `json:"legal_basis"`
	Base           decimal.Decimal `json:"base"`
	ResolvedRate   decimal.Decimal `json:"resolved_rate"`
	Amount         decimal.Decimal `json:"amount"`
	IsAddedToPrice bool            `json:"is_added_to_price"`
}

// Result is the full breakdown of one evaluation. GrossPriceToCustomer is
// the advertised price plus every added to price surcharge;
// NetPriceToOrganizer is the advertised price minus the embedded ticket
// based dues.
type Result struct {
	Lines                []Line          `json:"lines"`
	GrossPriceToCustomer decimal.Decimal `json:"gross_price_to_customer"`
	NetPriceToOrganizer  decimal.Decimal `json:"net_price_to_organizer"`
	Currency             string          `json:"currency"`
}

// Obligation is a scheduled remittance of one applied line to its
// beneficiary. The scheduler emits one obligation per line; grouping by
// beneficiary is left to the consumer.
type Obligation struct {
	RuleID      string          `json:"rule_id"`
	Beneficiary string          `json:"beneficiary"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	LegalBasis  string          `json:"legal_basis"`
}
