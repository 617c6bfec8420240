package taxrule

import (
	"context"

	"github.com/tixera/tixera/internal/types"
)

// Repository defines the interface for tax rule persistence operations
type Repository interface {
	Create(ctx context.Context, rule *TaxRule) error
	Get(ctx context.Context, id string) (*TaxRule, error)
	List(ctx context.Context, filter *types.TaxRuleFilter) ([]*TaxRule, error)
	ListAll(ctx context.Context) ([]*TaxRule, error)
	Update(ctx context.Context, rule *TaxRule) error
	Delete(ctx context.Context, rule *TaxRule) error
}
