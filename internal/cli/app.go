package cli

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/harun/rcrm/internal/config"
	"github.com/harun/rcrm/internal/logger"
	"github.com/harun/rcrm/internal/metrics"
	"github.com/harun/rcrm/internal/observability"
	"github.com/harun/rcrm/internal/tracing"
	"github.com/harun/rcrm/pkg/catalog"
	"github.com/harun/rcrm/pkg/orchestrator"
	"github.com/harun/rcrm/pkg/toolregistry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app is the wiring shared by every command
type app struct {
	ctx     context.Context
	cfg     *config.Config
	log     *logger.Logger
	logger  zerolog.Logger
	metrics *metrics.Metrics
	audit   *observability.AuditLogger // nil when auditing is off
	holder  *catalog.Holder
	orch    *orchestrator.Orchestrator
}

// bootstrap loads config, applies flag overrides and builds the catalog
func bootstrap(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	if logLevel != "" {
		if err := config.NewValidator().ValidateLogLevel(logLevel); err != nil {
			return nil, err
		}
		cfg.Logging.Level = logLevel
	}
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}

	log, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   true,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
		MaxSize:   cfg.Logging.MaxSize,
		MaxAge:    cfg.Logging.MaxAge,
		Compress:  cfg.Logging.Compress,
		Output:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, requestID := tracing.EnsureRequestID(ctx)
	base := log.GetZerolog().With().
		Str("command", cmd.Name()).
		Str("request_id", requestID).
		Logger()

	var audit *observability.AuditLogger
	if cfg.Audit.File != "" {
		audit, err = observability.OpenAuditLogger(cfg.Audit.File)
		if err != nil {
			_ = log.Close()
			return nil, err
		}
	}

	reg, err := loadRegistry(cfg.Catalog.Path, base)
	if err != nil {
		_ = audit.Close()
		_ = log.Close()
		return nil, err
	}

	m := metrics.NewMetrics()
	m.CatalogLoaded(reg.Len())

	holder := catalog.NewHolder(reg)
	orch := orchestrator.New(holder,
		orchestrator.WithLogger(base.With().Str("component", "orchestrator").Logger()),
		orchestrator.WithRecorder(m),
	)

	base.Debug().
		Str("catalog", catalogLabel(cfg.Catalog.Path)).
		Int("tools", reg.Len()).
		Msg("Catalog loaded")

	return &app{
		ctx:     ctx,
		cfg:     cfg,
		log:     log,
		logger:  base,
		metrics: m,
		audit:   audit,
		holder:  holder,
		orch:    orch,
	}, nil
}

func (a *app) close() {
	_ = a.audit.Close()
	_ = a.log.Close()
}

// loadRegistry builds a registry from path, or the built-in catalog when path is empty
func loadRegistry(path string, logger zerolog.Logger) (*toolregistry.Registry, error) {
	opts := toolregistry.WithLogger(logger.With().Str("component", "registry").Logger())
	if path == "" {
		return catalog.NewRegistry(opts)
	}

	tools, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}
	reg := toolregistry.New(tools, opts)
	if missing := reg.MissingHelpers(); len(missing) > 0 {
		logger.Warn().
			Interface("missing", missing).
			Msg("Catalog references helper tools that are not registered")
	}
	return reg, nil
}

// watchCatalog starts hot reload when the config asks for it. The returned
// watcher is nil when watching is disabled.
func (a *app) watchCatalog() (*catalog.Watcher, error) {
	if !a.cfg.Catalog.Watch || a.cfg.Catalog.Path == "" {
		return nil, nil
	}

	w, err := catalog.NewWatcher(a.cfg.Catalog.Path,
		a.logger.With().Str("component", "catalog").Logger(),
		func(reg *toolregistry.Registry) {
			a.holder.Swap(reg)
			a.metrics.CatalogReloaded(reg.Len(), nil)
			a.audit.RecordCatalogReload(a.ctx, a.cfg.Catalog.Path, reg.Len(), nil)
		})
	if err != nil {
		return nil, err
	}
	w.OnError(func(err error) {
		a.metrics.CatalogReloaded(0, err)
		a.audit.RecordCatalogReload(a.ctx, a.cfg.Catalog.Path, 0, err)
	})
	return w, nil
}

func catalogLabel(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}

func joinQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
