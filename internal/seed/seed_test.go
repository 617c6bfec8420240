package seed

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tixera/tixera/internal/domain/eventtype"
	"github.com/tixera/tixera/internal/types"
)

func TestSeedEventTypesFormAValidTree(t *testing.T) {
	h, err := eventtype.NewHierarchy(EventTypes())
	require.NoError(t, err)

	chain, err := h.AncestorChainOf(EventTypeFestivals)
	require.NoError(t, err)
	assert.Equal(t, []string{
		EventTypeFestivals,
		EventTypeConcerts,
		EventTypePerformances,
		EventTypeEvents,
	}, chain)
}

func TestSeedTaxRulesValidate(t *testing.T) {
	minorUnit := decimal.New(1, -types.GetCurrencyPrecision("ron"))
	h, err := eventtype.NewHierarchy(EventTypes())
	require.NoError(t, err)

	for _, rule := range TaxRules() {
		require.NoError(t, rule.Validate(minorUnit), "rule %s", rule.ID)
		if rule.TargetEventTypeID != nil {
			assert.True(t, h.Contains(*rule.TargetEventTypeID), "rule %s targets unknown event type", rule.ID)
		}
	}
}

func TestSeedRuleIDsAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for _, rule := range TaxRules() {
		_, dup := seen[rule.ID]
		require.False(t, dup, "duplicate rule id %s", rule.ID)
		seen[rule.ID] = struct{}{}
	}
}
