package taxrule

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/tixera/tixera/internal/errors"
	"github.com/tixera/tixera/internal/types"
)

// JSONBTiers is the jsonb persisted form of a rule's tier brackets
type JSONBTiers []TierBracket

// TaxRule is a single configured government levy or collection society due.
// A rule either carries a flat value (ValueType + Value) or an ordered set
// of tier brackets (HasTieredRates + Tiers); the flat fields are ignored
// when the rule is tiered, which Validate enforces at catalog load.
type TaxRule struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	LegalBasis string `db:"legal_basis" json:"legal_basis"`

	// Beneficiary identifies the remittance recipient, e.g. the local tax
	// authority or a collecting society
	Beneficiary string `db:"beneficiary" json:"beneficiary"`

	// TargetEventTypeID scopes the rule to an event type and all of its
	// descendants. Nil means the rule applies to every event type.
	TargetEventTypeID *string `db:"target_event_type_id" json:"target_event_type_id"`

	ValueType types.TaxValueType `db:"value_type" json:"value_type"`
	Value     decimal.Decimal    `db:"value" json:"value"`

	HasTieredRates bool       `db:"has_tiered_rates" json:"has_tiered_rates"`
	Tiers          JSONBTiers `db:"tiers,jsonb" json:"tiers,omitempty"`

	AppliedToBase types.TaxBase `db:"applied_to_base" json:"applied_to_base"`

	// IsAddedToPrice marks a surcharge stacked on top of the advertised
	// price. When false the amount is carved out of the price the customer
	// already paid.
	IsAddedToPrice bool `db:"is_added_to_price" json:"is_added_to_price"`

	// Priority orders rule application; higher values apply earlier
	Priority int `db:"priority" json:"priority"`

	ValidFrom  *time.Time `db:"valid_from" json:"valid_from"`
	ValidUntil *time.Time `db:"valid_until" json:"valid_until"`

	PaymentTermType      types.PaymentTermType `db:"payment_term_type" json:"payment_term_type"`
	PaymentTermDay       *int                  `db:"payment_term_day" json:"payment_term_day,omitempty"`
	PaymentTermDaysAfter *int                  `db:"payment_term_days_after" json:"payment_term_days_after,omitempty"`

	types.BaseModel
}

// TierBracket is one revenue bracket of a usage tiered rule. Brackets are
// inclusive on both ends; Max is nil for the open ended last bracket.
type TierBracket struct {
	Min  decimal.Decimal  `json:"min"`
	Max  *decimal.Decimal `json:"max,omitempty"`
	Rate decimal.Decimal  `json:"rate"`
}

// IsActive reports whether the rule has not been archived or deleted
func (r *TaxRule) IsActive() bool {
	return r.Status == types.StatusPublished
}

// EffectiveAt reports whether the rule's validity window covers the given
// date. Nil bounds are open.
func (r *TaxRule) EffectiveAt(date time.Time) bool {
	if r.ValidFrom != nil && date.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && date.After(*r.ValidUntil) {
		return false
	}
	return true
}

// Validate checks the rule's internal consistency at catalog load time.
// minorUnit is the smallest representable amount of the catalog currency
// and bounds the contiguity check between adjacent tier brackets.
func (r *TaxRule) Validate(minorUnit decimal.Decimal) error {
	if r.Name == "" {
		return r.integrityError("rule name is required")
	}
	if r.Beneficiary == "" {
		return r.integrityError("rule beneficiary is required")
	}

	if err := r.AppliedToBase.Validate(); err != nil {
		return err
	}

	if r.ValidFrom != nil && r.ValidUntil != nil && r.ValidUntil.Before(*r.ValidFrom) {
		return r.integrityError("valid_until precedes valid_from")
	}

	if err := r.validateRate(minorUnit); err != nil {
		return err
	}

	return r.validatePaymentTerm()
}

func (r *TaxRule) validateRate(minorUnit decimal.Decimal) error {
	if !r.HasTieredRates {
		if err := r.ValueType.Validate(); err != nil {
			return err
		}
		if r.Value.IsNegative() {
			return r.integrityError("rule value must not be negative")
		}
		return nil
	}

	if len(r.Tiers) == 0 {
		return r.integrityError("tiered rule without tier brackets")
	}

	if !r.Tiers[0].Min.IsZero() {
		return r.integrityError("tier brackets must start at zero")
	}

	for i, tier := range r.Tiers {
		if tier.Rate.IsNegative() {
			return r.integrityError("tier rate must not be negative")
		}
		if tier.Max != nil && tier.Max.LessThan(tier.Min) {
			return r.integrityError("tier max precedes tier min")
		}
		if i == 0 {
			continue
		}

		prev := r.Tiers[i-1]
		if prev.Max == nil {
			return r.integrityError("open ended tier bracket must be last")
		}
		// Brackets are inclusive on both ends, so adjacent bounds must
		// differ by exactly one minor unit to leave no gap and no overlap.
		if !tier.Min.Equal(prev.Max.Add(minorUnit)) {
			return r.integrityError(fmt.Sprintf(
				"tier bracket starting at %s is not contiguous with previous bracket ending at %s",
				tier.Min.String(), prev.Max.String(),
			))
		}
	}

	return nil
}

func (r *TaxRule) validatePaymentTerm() error {
	if err := r.PaymentTermType.Validate(); err != nil {
		return err
	}

	switch r.PaymentTermType {
	case types.PaymentTermDayOfMonth:
		if r.PaymentTermDay == nil || *r.PaymentTermDay < 1 || *r.PaymentTermDay > 31 {
			return r.integrityError("day_of_month term requires a payment day between 1 and 31")
		}
	case types.PaymentTermDaysAfterEvent:
		if r.PaymentTermDaysAfter == nil || *r.PaymentTermDaysAfter < 0 {
			return r.integrityError("days_after_event term requires a non negative day count")
		}
	}

	return nil
}

func (r *TaxRule) integrityError(msg string) error {
	return ierr.NewError(msg).
		WithHint("Tax rule configuration is invalid").
		WithReportableDetails(map[string]any{
			"tax_rule_id": r.ID,
		}).
		Mark(ierr.ErrCatalogIntegrity)
}

// ResolveTieredRate locates the single bracket covering the given revenue
// and returns its rate. A negative revenue or a revenue beyond the last
// closed bracket is a NoMatchingBracket error, which aborts the whole
// evaluation rather than defaulting the rate to zero.
func (r *TaxRule) ResolveTieredRate(revenue decimal.Decimal) (decimal.Decimal, error) {
	if !r.HasTieredRates {
		return decimal.Zero, ierr.NewErrorf("rule %s has no tiered rates", r.ID).
			WithHint("Tiered rate resolution requires a tiered rule").
			Mark(ierr.ErrInvalidOperation)
	}

	if revenue.IsNegative() {
		return decimal.Zero, r.bracketError(revenue)
	}

	for _, tier := range r.Tiers {
		if revenue.LessThan(tier.Min) {
			continue
		}
		if tier.Max == nil || revenue.LessThanOrEqual(*tier.Max) {
			return tier.Rate, nil
		}
	}

	return decimal.Zero, r.bracketError(revenue)
}

func (r *TaxRule) bracketError(revenue decimal.Decimal) error {
	return ierr.NewErrorf("no tier bracket of rule %s covers revenue %s", r.ID, revenue.String()).
		WithHint("Tier brackets do not cover the queried revenue").
		WithReportableDetails(map[string]any{
			"tax_rule_id": r.ID,
			"revenue":     revenue.String(),
		}).
		Mark(ierr.ErrNoMatchingBracket)
}

// Scanner/Valuer implementations for JSONBTiers
func (j *JSONBTiers) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("invalid type for jsonb tiers")
	}
	return json.Unmarshal(bytes, j)
}

func (j JSONBTiers) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}
