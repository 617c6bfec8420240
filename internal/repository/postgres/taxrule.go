package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"
	taxrule "github.com/tixera/tixera/internal/domain/taxrule"
	ierr "github.com/tixera/tixera/internal/errors"
	"github.com/tixera/tixera/internal/logger"
	"github.com/tixera/tixera/internal/postgres"
	"github.com/tixera/tixera/internal/types"
)

type taxRuleRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTaxRuleRepository(db *postgres.DB, logger *logger.Logger) taxrule.Repository {
	return &taxRuleRepository{db: db, logger: logger}
}

const taxRuleColumns = `
	id, tenant_id, name, legal_basis, beneficiary, target_event_type_id,
	value_type, value, has_tiered_rates, tiers, applied_to_base,
	is_added_to_price, priority, valid_from, valid_until,
	payment_term_type, payment_term_day, payment_term_days_after,
	status, created_at, updated_at, created_by, updated_by`

func (r *taxRuleRepository) Create(ctx context.Context, rule *taxrule.TaxRule) error {
	query := `
		INSERT INTO tax_rules (` + taxRuleColumns + `
		) VALUES (
			:id, :tenant_id, :name, :legal_basis, :beneficiary, :target_event_type_id,
			:value_type, :value, :has_tiered_rates, :tiers, :applied_to_base,
			:is_added_to_price, :priority, :valid_from, :valid_until,
			:payment_term_type, :payment_term_day, :payment_term_days_after,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating tax rule",
		"tax_rule_id", rule.ID,
		"name", rule.Name,
	)

	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create tax rule").
			WithReportableDetails(map[string]any{
				"tax_rule_id": rule.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *taxRuleRepository) Get(ctx context.Context, id string) (*taxrule.TaxRule, error) {
	var rule taxrule.TaxRule
	query := `
		SELECT * FROM tax_rules
		WHERE id = :id
		AND tenant_id = :tenant_id
		AND status != :deleted`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"id":        id,
		"tenant_id": types.GetTenantID(ctx),
		"deleted":   types.StatusDeleted,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get tax rule").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewErrorf("tax rule %s not found", id).
			WithHintf("Tax rule with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	if err := rows.StructScan(&rule); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan tax rule").
			Mark(ierr.ErrDatabase)
	}
	return &rule, nil
}

func (r *taxRuleRepository) List(ctx context.Context, filter *types.TaxRuleFilter) ([]*taxrule.TaxRule, error) {
	query := `
		SELECT * FROM tax_rules
		WHERE tenant_id = :tenant_id
		AND status != :deleted`

	params := map[string]interface{}{
		"tenant_id": types.GetTenantID(ctx),
		"deleted":   types.StatusDeleted,
	}

	if filter != nil {
		if len(filter.TaxRuleIDs) > 0 {
			query += " AND id = ANY(:tax_rule_ids)"
			params["tax_rule_ids"] = pq.StringArray(filter.TaxRuleIDs)
		}
		if len(filter.TargetEventTypeIDs) > 0 {
			query += " AND target_event_type_id = ANY(:target_event_type_ids)"
			params["target_event_type_ids"] = pq.StringArray(filter.TargetEventTypeIDs)
		}
		if filter.OnlyActive {
			query += " AND status = :published"
			params["published"] = types.StatusPublished
		}
	}

	query += " ORDER BY priority DESC, id ASC"

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tax rules").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var rules []*taxrule.TaxRule
	for rows.Next() {
		var rule taxrule.TaxRule
		if err := rows.StructScan(&rule); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan tax rule").
				Mark(ierr.ErrDatabase)
		}
		rules = append(rules, &rule)
	}
	return rules, nil
}

func (r *taxRuleRepository) ListAll(ctx context.Context) ([]*taxrule.TaxRule, error) {
	return r.List(ctx, &types.TaxRuleFilter{})
}

func (r *taxRuleRepository) Update(ctx context.Context, rule *taxrule.TaxRule) error {
	rule.UpdatedAt = time.Now().UTC()
	rule.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE tax_rules SET
			name = :name,
			legal_basis = :legal_basis,
			beneficiary = :beneficiary,
			target_event_type_id = :target_event_type_id,
			value_type = :value_type,
			value = :value,
			has_tiered_rates = :has_tiered_rates,
			tiers = :tiers,
			applied_to_base = :applied_to_base,
			is_added_to_price = :is_added_to_price,
			priority = :priority,
			valid_from = :valid_from,
			valid_until = :valid_until,
			payment_term_type = :payment_term_type,
			payment_term_day = :payment_term_day,
			payment_term_days_after = :payment_term_days_after,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update tax rule").
			WithReportableDetails(map[string]any{
				"tax_rule_id": rule.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// Delete archives a tax rule; archived rules are excluded from catalog
// snapshots but keep their history for past obligations.
func (r *taxRuleRepository) Delete(ctx context.Context, rule *taxrule.TaxRule) error {
	rule.Status = types.StatusArchived
	return r.Update(ctx, rule)
}
