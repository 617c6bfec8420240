package seed

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tixera/tixera/internal/config"
	"github.com/tixera/tixera/internal/domain/eventtype"
	"github.com/tixera/tixera/internal/domain/taxrule"
	ierr "github.com/tixera/tixera/internal/errors"
	"github.com/tixera/tixera/internal/logger"
	"github.com/tixera/tixera/internal/postgres"
	"github.com/tixera/tixera/internal/types"
)

// Seeder upserts the reference catalog. Existing rows are left untouched
// so manual adjustments by operators survive a re-run.
type Seeder struct {
	Logger        *logger.Logger
	Config        *config.Configuration
	DB            *postgres.DB
	EventTypeRepo eventtype.Repository
	TaxRuleRepo   taxrule.Repository
}

// Run seeds the event type taxonomy and the tax rule catalog inside one
// transaction
func (s *Seeder) Run(ctx context.Context) error {
	minorUnit := decimal.New(1, -types.GetCurrencyPrecision(s.Config.Catalog.Currency))

	return s.DB.WithTx(ctx, func(txCtx context.Context) error {
		for _, node := range EventTypes() {
			created, err := s.seedEventType(txCtx, node)
			if err != nil {
				return err
			}
			if created {
				s.Logger.Infow("seeded event type", "event_type_id", node.ID, "slug", node.Slug)
			}
		}

		for _, rule := range TaxRules() {
			if err := rule.Validate(minorUnit); err != nil {
				return err
			}
			created, err := s.seedTaxRule(txCtx, rule)
			if err != nil {
				return err
			}
			if created {
				s.Logger.Infow("seeded tax rule", "tax_rule_id", rule.ID, "name", rule.Name)
			}
		}

		return nil
	})
}

func (s *Seeder) seedEventType(ctx context.Context, node *eventtype.EventTypeNode) (bool, error) {
	_, err := s.EventTypeRepo.Get(ctx, node.ID)
	if err == nil {
		return false, nil
	}
	if !ierr.IsNotFound(err) {
		return false, err
	}

	node.BaseModel = types.GetDefaultBaseModel(ctx)
	if err := s.EventTypeRepo.Create(ctx, node); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Seeder) seedTaxRule(ctx context.Context, rule *taxrule.TaxRule) (bool, error) {
	_, err := s.TaxRuleRepo.Get(ctx, rule.ID)
	if err == nil {
		return false, nil
	}
	if !ierr.IsNotFound(err) {
		return false, err
	}

	rule.BaseModel = types.GetDefaultBaseModel(ctx)
	if err := s.TaxRuleRepo.Create(ctx, rule); err != nil {
		return false, err
	}
	return true, nil
}
