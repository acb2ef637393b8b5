package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/specialistvlad/plangen/internal/catalog"
	"github.com/specialistvlad/plangen/internal/compiler"
	"github.com/specialistvlad/plangen/internal/ctxlog"
	"github.com/specialistvlad/plangen/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx      context.Context
	outW     io.Writer
	config   *Config
	registry *registry.Registry
	catalog  *catalog.Catalog
	metrics  *prometheus.Registry
	compiler *compiler.Compiler
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Startup failures panic; the entrypoint recovers them.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var cat *catalog.Catalog
	if cfg.CatalogPath != "" {
		var err error
		if cat, err = catalog.Load(ctx, cfg.CatalogPath); err != nil {
			panic(fmt.Errorf("failed to load catalog: %w", err))
		}
	}

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules(cat)
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All operator modules registered.", "count", len(modules), "types", reg.Types())

	// A mismatch between code and its kind metadata is a programmer error.
	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	metrics := prometheus.NewRegistry()
	return &App{
		ctx:      ctx,
		outW:     outW,
		config:   cfg,
		registry: reg,
		catalog:  cat,
		metrics:  metrics,
		compiler: compiler.New(reg, compiler.WithMetrics(compiler.NewMetrics(metrics))),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return ctxlog.FromContext(a.ctx)
}
