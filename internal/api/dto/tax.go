package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tixera/tixera/internal/domain/assessment"
	"github.com/tixera/tixera/internal/domain/taxrule"
	"github.com/tixera/tixera/internal/validator"
)

// ApplyTaxRequest carries one ticket evaluation from the order subsystem
// @Description Request object for computing the tax breakdown of a ticket sale
type ApplyTaxRequest struct {
	// event_type_id is the id of the event's type in the taxonomy (required)
	EventTypeID string `json:"event_type_id" validate:"required"`

	// ticket_gross_price is the advertised ticket price in main currency units (required)
	TicketGrossPrice decimal.Decimal `json:"ticket_gross_price" validate:"required"`

	// event_cumulative_gross_excl_vat is the event level revenue to date
	// excluding VAT, used as the base of usage tiered dues
	EventCumulativeGrossExclVAT decimal.Decimal `json:"event_cumulative_gross_excl_vat"`

	// sale_date is the date of the ticket sale (required)
	SaleDate time.Time `json:"sale_date" validate:"required"`

	// event_date is the date the event takes place (required)
	EventDate time.Time `json:"event_date" validate:"required"`
}

func (r *ApplyTaxRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *ApplyTaxRequest) ToContext() *assessment.Context {
	return &assessment.Context{
		EventTypeID:                 r.EventTypeID,
		TicketGrossPrice:            r.TicketGrossPrice,
		EventCumulativeGrossExclVAT: r.EventCumulativeGrossExclVAT,
		SaleDate:                    r.SaleDate,
		EventDate:                   r.EventDate,
	}
}

// TaxBreakdownResponse is the computed breakdown of one evaluation
type TaxBreakdownResponse struct {
	*assessment.Result `json:",inline"`
}

// ScheduleObligationsRequest asks for remittance obligations for an
// already computed breakdown
// @Description Request object for scheduling remittance obligations
type ScheduleObligationsRequest struct {
	ApplyTaxRequest `json:",inline"`

	// lines is the previously computed breakdown to schedule (required)
	Lines []assessment.Line `json:"lines" validate:"required,min=1"`
}

func (r *ScheduleObligationsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ObligationsResponse lists the scheduled remittance obligations
type ObligationsResponse struct {
	Items []assessment.Obligation `json:"items"`
}

// TaxRuleResponse represents one configured rule of the catalog
type TaxRuleResponse struct {
	*taxrule.TaxRule `json:",inline"`
}

// ListTaxRulesResponse lists the rules of the current catalog snapshot
type ListTaxRulesResponse struct {
	Items []*TaxRuleResponse `json:"items"`
	// loaded_at is the build time of the served catalog snapshot
	LoadedAt time.Time `json:"loaded_at"`
}
