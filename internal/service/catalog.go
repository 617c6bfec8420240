package service

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"github.com/tixera/tixera/internal/domain/assessment"
	"github.com/tixera/tixera/internal/domain/eventtype"
	"github.com/tixera/tixera/internal/domain/taxrule"
	ierr "github.com/tixera/tixera/internal/errors"
	"github.com/tixera/tixera/internal/types"
)

// Snapshot is an immutable view of the tax catalog: the active rules in
// application order plus the event type ancestor index. Evaluations read a
// single snapshot for their whole duration, so a concurrent refresh can
// never expose a half updated rule set.
type Snapshot struct {
	rules     []*taxrule.TaxRule
	hierarchy *eventtype.Hierarchy
	currency  string
	loadedAt  time.Time
}

// Rules returns every active rule in application order. The returned slice
// must not be mutated.
func (s *Snapshot) Rules() []*taxrule.TaxRule {
	return s.rules
}

// Currency returns the settlement currency of the catalog
func (s *Snapshot) Currency() string {
	return s.currency
}

// LoadedAt returns the time the snapshot was built
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Hierarchy returns the event type ancestor index of the snapshot
func (s *Snapshot) Hierarchy() *eventtype.Hierarchy {
	return s.hierarchy
}

// RulesEffectiveAt returns the active rules whose validity window covers
// the given date, preserving application order.
func (s *Snapshot) RulesEffectiveAt(date time.Time) []*taxrule.TaxRule {
	effective := make([]*taxrule.TaxRule, 0, len(s.rules))
	for _, rule := range s.rules {
		if rule.EffectiveAt(date) {
			effective = append(effective, rule)
		}
	}
	return effective
}

// SelectFor returns the rules applying to the given evaluation context:
// effective at the sale date and targeting the event's type or one of its
// ancestors. An empty result is a legitimate exemption, not an error; an
// unknown event type is fatal because no selection is possible without it.
func (s *Snapshot) SelectFor(evalCtx *assessment.Context) ([]*taxrule.TaxRule, error) {
	// Resolve the chain up front so an unknown event type fails before
	// any rule is considered.
	if _, err := s.hierarchy.AncestorChainOf(evalCtx.EventTypeID); err != nil {
		return nil, err
	}

	selected := make([]*taxrule.TaxRule, 0, len(s.rules))
	for _, rule := range s.RulesEffectiveAt(evalCtx.SaleDate) {
		matches, err := s.hierarchy.Matches(rule.TargetEventTypeID, evalCtx.EventTypeID)
		if err != nil {
			return nil, err
		}
		if matches {
			selected = append(selected, rule)
		}
	}
	return selected, nil
}

// CatalogService loads the tax catalog from the repositories and publishes
// it as an immutable snapshot behind an atomic pointer swap
type CatalogService interface {
	// Refresh loads a fresh snapshot and atomically publishes it
	Refresh(ctx context.Context) error
	// Current returns the published snapshot
	Current() (*Snapshot, error)
	// Run blocks, refreshing the catalog on the configured interval with
	// exponential backoff on transient load failure, until ctx is done
	Run(ctx context.Context) error
}

type catalogService struct {
	ServiceParams
	current atomic.Pointer[Snapshot]
}

func NewCatalogService(params ServiceParams) CatalogService {
	return &catalogService{
		ServiceParams: params,
	}
}

func (s *catalogService) Refresh(ctx context.Context) error {
	nodes, err := s.EventTypeRepo.ListAll(ctx)
	if err != nil {
		s.Logger.Errorw("failed to load event types for catalog snapshot",
			"error", err,
		)
		return err
	}

	hierarchy, err := eventtype.NewHierarchy(nodes)
	if err != nil {
		return err
	}

	rules, err := s.TaxRuleRepo.ListAll(ctx)
	if err != nil {
		s.Logger.Errorw("failed to load tax rules for catalog snapshot",
			"error", err,
		)
		return err
	}

	currency := s.Config.Catalog.Currency
	minorUnit := decimal.New(1, -types.GetCurrencyPrecision(currency))

	active := make([]*taxrule.TaxRule, 0, len(rules))
	for _, rule := range rules {
		if !rule.IsActive() {
			continue
		}
		// Configuration errors surface at load, never silently corrected:
		// a defaulted to zero rate would under collect mandatory dues.
		if err := rule.Validate(minorUnit); err != nil {
			return err
		}
		if rule.TargetEventTypeID != nil && !hierarchy.Contains(*rule.TargetEventTypeID) {
			return ierr.NewErrorf("rule %s targets unknown event type %s", rule.ID, *rule.TargetEventTypeID).
				WithHint("Tax rules must target existing event types").
				Mark(ierr.ErrCatalogIntegrity)
		}
		active = append(active, rule)
	}

	// Application order: priority descending, ties broken by id ascending
	// so repeated evaluations are deterministic.
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Priority != active[j].Priority {
			return active[i].Priority > active[j].Priority
		}
		return active[i].ID < active[j].ID
	})

	snapshot := &Snapshot{
		rules:     active,
		hierarchy: hierarchy,
		currency:  currency,
		loadedAt:  time.Now().UTC(),
	}
	s.current.Store(snapshot)

	s.Logger.Infow("published tax catalog snapshot",
		"rules", len(active),
		"event_types", len(nodes),
		"currency", currency,
	)

	return nil
}

func (s *catalogService) Current() (*Snapshot, error) {
	snapshot := s.current.Load()
	if snapshot == nil {
		return nil, ierr.NewError("tax catalog not loaded").
			WithHint("The tax catalog has not been loaded yet").
			Mark(ierr.ErrSystem)
	}
	return snapshot, nil
}

func (s *catalogService) Run(ctx context.Context) error {
	if err := s.refreshWithRetry(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.Config.Catalog.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// A failed refresh keeps the previous snapshot; in flight
			// evaluations are never blocked by the reload.
			if err := s.refreshWithRetry(ctx); err != nil {
				s.Logger.Errorw("tax catalog refresh failed, keeping previous snapshot",
					"error", err,
				)
			}
		}
	}
}

func (s *catalogService) refreshWithRetry(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = s.Config.Catalog.RefreshInterval / 2

	return backoff.Retry(func() error {
		err := s.Refresh(ctx)
		if err == nil {
			return nil
		}
		// Only transient load failures are retried; a broken catalog
		// stays broken until an operator fixes the configuration.
		if ierr.IsCatalogIntegrity(err) || ierr.IsValidation(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(policy, ctx))
}
