package types

import (
	"slices"

	ierr "github.com/tixera/tixera/internal/errors"
)

// TaxValueType is the shape of a flat tax rate value
type TaxValueType string

const (
	TaxValueTypePercent TaxValueType = "percent"
	TaxValueTypeFixed   TaxValueType = "fixed"
)

func (t TaxValueType) String() string {
	return string(t)
}

func (t TaxValueType) Validate() error {
	allowedValues := []string{string(TaxValueTypePercent), string(TaxValueTypeFixed)}
	if !slices.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid tax value type").
			WithHint("Tax value type must be either percent or fixed").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// TaxBase selects which monetary figure a rule's rate multiplies
type TaxBase string

const (
	// TaxBaseTicketPrice applies the rate to the running price of the
	// single ticket being evaluated
	TaxBaseTicketPrice TaxBase = "ticket_price"
	// TaxBaseGrossExclVAT applies the rate to the event level cumulative
	// revenue excluding VAT, used by usage tiered collection society dues
	TaxBaseGrossExclVAT TaxBase = "gross_excl_vat"
)

func (b TaxBase) String() string {
	return string(b)
}

func (b TaxBase) Validate() error {
	allowedValues := []string{string(TaxBaseTicketPrice), string(TaxBaseGrossExclVAT)}
	if !slices.Contains(allowedValues, string(b)) {
		return ierr.NewError("invalid tax base").
			WithHint("Tax base must be either ticket_price or gross_excl_vat").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// PaymentTermType defines how the remittance due date of a rule is computed
type PaymentTermType string

const (
	PaymentTermAtSale         PaymentTermType = "at_sale"
	PaymentTermDayOfMonth     PaymentTermType = "day_of_month"
	PaymentTermDaysAfterEvent PaymentTermType = "days_after_event"
)

func (t PaymentTermType) String() string {
	return string(t)
}

func (t PaymentTermType) Validate() error {
	allowedValues := []string{
		string(PaymentTermAtSale),
		string(PaymentTermDayOfMonth),
		string(PaymentTermDaysAfterEvent),
	}
	if !slices.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid payment term type").
			WithHint("Payment term type must be one of at_sale, day_of_month or days_after_event").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// TaxRuleFilter represents filters for tax rule queries
type TaxRuleFilter struct {
	TaxRuleIDs         []string `json:"tax_rule_ids,omitempty" form:"tax_rule_ids" validate:"omitempty"`
	TargetEventTypeIDs []string `json:"target_event_type_ids,omitempty" form:"target_event_type_ids" validate:"omitempty"`
	OnlyActive         bool     `json:"only_active,omitempty" form:"only_active" validate:"omitempty"`
}

// Validate validates the TaxRuleFilter
func (f TaxRuleFilter) Validate() error {
	for _, id := range f.TaxRuleIDs {
		if id == "" {
			return ierr.NewError("tax_rule_ids cannot contain empty strings").
				WithHint("Tax rule IDs must be non-empty strings").
				Mark(ierr.ErrValidation)
		}
	}

	for _, id := range f.TargetEventTypeIDs {
		if id == "" {
			return ierr.NewError("target_event_type_ids cannot contain empty strings").
				WithHint("Event type IDs must be non-empty strings").
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}
