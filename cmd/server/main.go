package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tixera/tixera/internal/api"
	v1 "github.com/tixera/tixera/internal/api/v1"
	"github.com/tixera/tixera/internal/config"
	"github.com/tixera/tixera/internal/domain/eventtype"
	"github.com/tixera/tixera/internal/domain/taxrule"
	"github.com/tixera/tixera/internal/logger"
	"github.com/tixera/tixera/internal/postgres"
	"github.com/tixera/tixera/internal/repository"
	"github.com/tixera/tixera/internal/service"
	"github.com/tixera/tixera/internal/types"
	"github.com/tixera/tixera/internal/validator"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,

			postgres.NewDB,

			repository.NewEventTypeRepository,
			repository.NewTaxRuleRepository,

			provideServiceParams,
			service.NewCatalogService,
			service.NewTaxService,
			service.NewRemittanceService,

			provideHandlers,
			provideRouter,
		),
		fx.Invoke(func() { validator.NewValidator() }),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	eventTypeRepo eventtype.Repository,
	taxRuleRepo taxrule.Repository,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:        log,
		Config:        cfg,
		EventTypeRepo: eventTypeRepo,
		TaxRuleRepo:   taxRuleRepo,
	}
}

func provideHandlers(
	taxService service.TaxService,
	remittanceService service.RemittanceService,
	catalogService service.CatalogService,
	log *logger.Logger,
) api.Handlers {
	return api.Handlers{
		Tax: v1.NewTaxHandler(taxService, remittanceService, catalogService, log),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	catalogService service.CatalogService,
	db *postgres.DB,
	log *logger.Logger,
) {
	// Catalog rows are tenant scoped; refreshes must read under the same
	// tenant the seeder writes, not the bare lifecycle context.
	refreshCtx, cancelRefresh := context.WithCancel(catalogContext())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// The catalog must be live before the first request is served
			if err := catalogService.Refresh(refreshCtx); err != nil {
				return err
			}

			go func() {
				if err := catalogService.Run(refreshCtx); err != nil && refreshCtx.Err() == nil {
					log.Errorw("catalog refresh loop stopped", "error", err)
				}
			}()

			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			cancelRefresh()
			db.Close()
			return nil
		},
	})
}

func catalogContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxTenantID, types.DefaultTenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	return ctx
}
