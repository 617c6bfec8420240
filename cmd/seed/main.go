package main

import (
	"context"
	"log"
	"time"

	"github.com/tixera/tixera/internal/config"
	"github.com/tixera/tixera/internal/logger"
	"github.com/tixera/tixera/internal/postgres"
	"github.com/tixera/tixera/internal/repository"
	"github.com/tixera/tixera/internal/seed"
	"github.com/tixera/tixera/internal/types"
	"github.com/tixera/tixera/internal/validator"
)

func init() {
	time.Local = time.UTC
}

// Seeds the event type taxonomy and the Romanian tax rule catalog.
// Safe to run repeatedly, existing rows are never overwritten.
func main() {
	validator.NewValidator()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logr, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	db, err := postgres.NewDB(cfg, logr)
	if err != nil {
		logr.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxTenantID, types.DefaultTenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)

	seeder := &seed.Seeder{
		Logger:        logr,
		Config:        cfg,
		DB:            db,
		EventTypeRepo: repository.NewEventTypeRepository(db, logr),
		TaxRuleRepo:   repository.NewTaxRuleRepository(db, logr),
	}

	if err := seeder.Run(ctx); err != nil {
		logr.Fatalf("seeding failed: %v", err)
	}

	logr.Infow("catalog seeded",
		"event_types", len(seed.EventTypes()),
		"tax_rules", len(seed.TaxRules()))
}
