// Package app wires configuration, storage, the project document and the
// controller manager together and runs them until shutdown.
package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/neobones/melimep/internal/database"
	"github.com/neobones/melimep/internal/document"
	"github.com/neobones/melimep/internal/log"
	"github.com/neobones/melimep/internal/managers"
	"github.com/neobones/melimep/internal/mep"
	"github.com/neobones/melimep/pkg/config"
)

// App represents the main application
type App struct {
	configProvider config.Provider
	configPath     string
	logger         *zap.SugaredLogger
}

// New creates a new application instance. configPath may be empty; when it
// names a YAML file, the file is watched and fluid/material changes are
// applied to running calculations without a restart.
func New(configProvider config.Provider, configPath string, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		configPath:     configPath,
		logger:         logger,
	}
}

// buildCatalog translates the configuration's fluid and material sections
// into the catalog injected into every entity.
func buildCatalog(cfg *config.ConfigData) *mep.Catalog {
	catalog := mep.DefaultCatalog()
	catalog.DensityKgM3 = cfg.Fluid.DensityKgM3
	catalog.KinematicViscosity = cfg.Fluid.KinematicViscosity
	catalog.RoughnessIsMillimeters = cfg.Project.RoughnessInMillimeters

	if len(cfg.Materials) > 0 {
		catalog.MaterialRoughness = make(map[mep.PipeMaterial]float64, len(cfg.Materials))
		for _, m := range cfg.Materials {
			catalog.MaterialRoughness[mep.PipeMaterial(m.Name)] = m.Roughness
		}
	}
	return catalog
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return err
	}

	catalog := buildCatalog(cfg)
	doc := document.New()

	// Initialize the database client when a storage backend is configured
	var db *database.Client
	if cfg.Storage.TimescaleDB != nil {
		db = database.NewClient(cfg.Storage.TimescaleDB.ConnectionString, a.logger)
		if err := db.Connect(); err != nil {
			return err
		}
		log.Info("connected to TimescaleDB storage backend")
	}

	// Initialize the controller manager
	cm, err := managers.NewControllerManager(ctx, &wg, cfg, managers.Deps{
		ProjectName: cfg.Project.Name,
		Doc:         doc,
		Catalog:     catalog,
		DB:          db,
	}, a.logger)
	if err != nil {
		return err
	}
	err = cm.StartControllers()
	if err != nil {
		return err
	}

	// Watch a YAML configuration file for live fluid/material updates
	if a.configPath != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := config.Watch(ctx, a.configPath, func(updated *config.ConfigData) {
				catalog.Replace(buildCatalog(updated))
				log.Info("catalog refreshed from configuration change")
			})
			if err != nil {
				a.logger.Errorf("config watch error: %v", err)
			}
		}()
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
