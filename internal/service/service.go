package service

import (
	"github.com/tixera/tixera/internal/config"
	"github.com/tixera/tixera/internal/domain/eventtype"
	"github.com/tixera/tixera/internal/domain/taxrule"
	"github.com/tixera/tixera/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	EventTypeRepo eventtype.Repository
	TaxRuleRepo   taxrule.Repository
}
