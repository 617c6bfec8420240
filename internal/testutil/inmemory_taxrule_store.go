package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"
	"github.com/tixera/tixera/internal/domain/taxrule"
	ierr "github.com/tixera/tixera/internal/errors"
	"github.com/tixera/tixera/internal/types"
)

type InMemoryTaxRuleStore struct {
	mu    sync.RWMutex
	rules map[string]*taxrule.TaxRule
}

func NewInMemoryTaxRuleStore() *InMemoryTaxRuleStore {
	return &InMemoryTaxRuleStore{
		rules: make(map[string]*taxrule.TaxRule),
	}
}

func (s *InMemoryTaxRuleStore) Create(ctx context.Context, rule *taxrule.TaxRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rule.ID == "" {
		return ierr.NewError("tax rule ID cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if _, exists := s.rules[rule.ID]; exists {
		return ierr.NewError("tax rule already exists").
			WithReportableDetails(map[string]any{"tax_rule_id": rule.ID}).
			Mark(ierr.ErrAlreadyExists)
	}

	s.rules[rule.ID] = rule
	return nil
}

func (s *InMemoryTaxRuleStore) Get(ctx context.Context, id string) (*taxrule.TaxRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rule, exists := s.rules[id]
	if !exists || rule.Status == types.StatusDeleted || rule.TenantID != types.GetTenantID(ctx) {
		return nil, ierr.NewError("tax rule not found").
			WithHint("The requested tax rule does not exist").
			WithReportableDetails(map[string]any{"tax_rule_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return rule, nil
}

func (s *InMemoryTaxRuleStore) List(ctx context.Context, filter *types.TaxRuleFilter) ([]*taxrule.TaxRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if filter == nil {
		filter = &types.TaxRuleFilter{}
	}

	rules := make([]*taxrule.TaxRule, 0, len(s.rules))
	for _, rule := range s.rules {
		if rule.Status == types.StatusDeleted || rule.TenantID != types.GetTenantID(ctx) {
			continue
		}
		if filter.OnlyActive && rule.Status != types.StatusPublished {
			continue
		}
		if len(filter.TaxRuleIDs) > 0 && !lo.Contains(filter.TaxRuleIDs, rule.ID) {
			continue
		}
		if len(filter.TargetEventTypeIDs) > 0 {
			if rule.TargetEventTypeID == nil || !lo.Contains(filter.TargetEventTypeIDs, *rule.TargetEventTypeID) {
				continue
			}
		}
		rules = append(rules, rule)
	}

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].ID < rules[j].ID
	})
	return rules, nil
}

func (s *InMemoryTaxRuleStore) ListAll(ctx context.Context) ([]*taxrule.TaxRule, error) {
	return s.List(ctx, &types.TaxRuleFilter{})
}

func (s *InMemoryTaxRuleStore) Update(ctx context.Context, rule *taxrule.TaxRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.rules[rule.ID]
	if !exists || stored.TenantID != types.GetTenantID(ctx) {
		return ierr.NewError("tax rule not found").
			WithReportableDetails(map[string]any{"tax_rule_id": rule.ID}).
			Mark(ierr.ErrNotFound)
	}
	s.rules[rule.ID] = rule
	return nil
}

func (s *InMemoryTaxRuleStore) Delete(ctx context.Context, rule *taxrule.TaxRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.rules[rule.ID]
	if !exists || stored.TenantID != types.GetTenantID(ctx) {
		return ierr.NewError("tax rule not found").
			WithReportableDetails(map[string]any{"tax_rule_id": rule.ID}).
			Mark(ierr.ErrNotFound)
	}
	stored.Status = types.StatusArchived
	return nil
}

func (s *InMemoryTaxRuleStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = make(map[string]*taxrule.TaxRule)
}
