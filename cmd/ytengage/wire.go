package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/ytengage/internal/adapters/driven/chart/terminal"
	configfile "github.com/custodia-labs/ytengage/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ytengage/internal/adapters/driven/kaggle"
	"github.com/custodia-labs/ytengage/internal/adapters/driven/metrics/prometheus"
	storagefile "github.com/custodia-labs/ytengage/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/ytengage/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ytengage/internal/adapters/driving/cli"
	"github.com/custodia-labs/ytengage/internal/core/services"
	"github.com/custodia-labs/ytengage/internal/logger"
)

// metricsNamespace prefixes every exported metric.
const metricsNamespace = "ytengage"

// wire builds every adapter and service from the resolved configuration.
func wire(opts cli.Options) (*cli.Services, error) {
	if err := kaggle.LoadEnvFiles(); err != nil {
		logger.Warn("Ignoring .env: %v", err)
	}

	store, err := openConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	configService := services.NewConfigService(store)

	cfg, err := configService.Pipeline()
	if err != nil {
		// Keep `config set` usable so the file can be repaired.
		logger.Warn("%v", err)
		return &cli.Services{Config: configService}, nil
	}
	logger.Debug("Config loaded from %s", store.Path())

	db, err := sqlite.NewStore(cfg.Paths.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}
	logger.Debug("Run history at %s", db.Path())

	metrics := prometheus.NewRecorder(metricsNamespace, filepath.Join(cfg.Paths.StateDir, prometheus.MetricsFile))

	acquisition := services.NewAcquisitionService(
		cfg,
		kaggle.NewClient(cfg.Provider, nil),
		storagefile.NewHashStore(cfg.HashFilePath()),
		metrics,
	)
	transform := services.NewTransformService(cfg, metrics)
	presentation := services.NewPresentationService(terminal.NewRenderer(cfg.Chart.Width, nil), cfg.Chart.TopN)
	pipeline := services.NewPipelineService(acquisition, transform, presentation, db.RunStore(), metrics)

	return &cli.Services{
		Pipeline:    pipeline,
		Acquirer:    acquisition,
		Transformer: transform,
		Presenter:   presentation,
		Config:      configService,
		Close: func() error {
			return errors.Join(metrics.Flush(), db.Close())
		},
	}, nil
}

func openConfigStore(path string) (*configfile.ConfigStore, error) {
	if path != "" {
		return configfile.NewConfigStoreAt(path)
	}
	return configfile.NewConfigStore("")
}
