package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/joshuapare/pmemkit/internal/config"
	"github.com/joshuapare/pmemkit/internal/logger"
	"github.com/joshuapare/pmemkit/pkg/metrics"
	"github.com/joshuapare/pmemkit/pmem"
	"github.com/joshuapare/pmemkit/pmem/persist"
	"github.com/joshuapare/pmemkit/pmem/region"
)

// app holds what every subcommand needs, built once from the configuration.
type app struct {
	cfg      *config.Config
	sysfs    *region.Sysfs
	syncer   *pmem.Syncer
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	closeLog func() error
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("sysfs-root") {
		cfg.Sysfs.Root = sysfsRoot
	}
	if flags.Changed("metrics-textfile") {
		cfg.Metrics.Textfile = metricsTextfile
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(cfg *config.Config) (*app, error) {
	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	closeLog, err := logger.Init(logger.Options{
		Enabled: true,
		Level:   level,
		Format:  cfg.Logging.Format,
		Output:  cfg.Logging.Output,
	})
	if err != nil {
		return nil, err
	}

	unit := persist.New(persist.Detect(cfg.Persist))
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)
	m.SetPersistStrategy(unit.Name())

	a := &app{
		cfg:      cfg,
		sysfs:    region.NewSysfs(cfg.Sysfs.Root),
		registry: registry,
		metrics:  m,
		closeLog: closeLog,
	}
	a.syncer = pmem.NewSyncer(
		pmem.WithPersist(unit),
		pmem.WithResolver(a.sysfs),
		pmem.WithSysfsRoot(cfg.Sysfs.Root),
		pmem.WithMetrics(m),
		pmem.WithLogger(logger.L()),
	)

	logger.Debug("pmemctl ready", "persist", unit.Name(), "sysfs_root", cfg.Sysfs.Root)
	return a, nil
}

// open maps path using the configured sysfs tree.
func (a *app) open(path string, opts ...pmem.MapOption) (*pmem.Map, error) {
	opts = append([]pmem.MapOption{pmem.WithSysfs(a.sysfs)}, opts...)
	m, err := pmem.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return m, nil
}

// Close writes the metrics textfile, if configured, and releases the log output.
func (a *app) Close() error {
	var errs []error
	if a.cfg.Metrics.Textfile != "" {
		errs = append(errs, metrics.WriteTextfile(a.cfg.Metrics.Textfile, a.registry))
	}
	errs = append(errs, a.closeLog())
	return errors.Join(errs...)
}
