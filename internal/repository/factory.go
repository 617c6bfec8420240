package repository

import (
	"github.com/tixera/tixera/internal/domain/eventtype"
	"github.com/tixera/tixera/internal/domain/taxrule"
	"github.com/tixera/tixera/internal/logger"
	"github.com/tixera/tixera/internal/postgres"
	postgresRepo "github.com/tixera/tixera/internal/repository/postgres"
)

func NewTaxRuleRepository(db *postgres.DB, logger *logger.Logger) taxrule.Repository {
	return postgresRepo.NewTaxRuleRepository(db, logger)
}

func NewEventTypeRepository(db *postgres.DB, logger *logger.Logger) eventtype.Repository {
	return postgresRepo.NewEventTypeRepository(db, logger)
}
