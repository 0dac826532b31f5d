package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/ytengage/internal/core/domain"
	"github.com/custodia-labs/ytengage/internal/core/ports/driven"
	"github.com/custodia-labs/ytengage/internal/core/ports/driving"
)

// Ensure ConfigService implements the interface.
var _ driving.ConfigService = (*ConfigService)(nil)

// Config keys for pipeline configuration.
const (
	keyRawDir         = "paths.raw_dir"
	keyProcessedDir   = "paths.processed_dir"
	keyStateDir       = "paths.state_dir"
	keyDatasetOwner   = "dataset.owner"
	keyDatasetName    = "dataset.name"
	keyVideosFile     = "dataset.videos_file"
	keyCategoriesFile = "dataset.categories_file"
	keyKaggleBaseURL  = "kaggle.base_url"
	keyKaggleTimeout  = "kaggle.timeout"
	keyChartTopN      = "chart.top_n"
	keyChartWidth     = "chart.width"
	keyUnmappedLabel  = "transform.unmapped_label"
)

// intKeys are stored as integers; every other key is a string.
var intKeys = map[string]bool{
	keyChartTopN:  true,
	keyChartWidth: true,
}

// knownKeys lists every key Set accepts.
var knownKeys = map[string]bool{
	keyRawDir: true, keyProcessedDir: true, keyStateDir: true,
	keyDatasetOwner: true, keyDatasetName: true,
	keyVideosFile: true, keyCategoriesFile: true,
	keyKaggleBaseURL: true, keyKaggleTimeout: true,
	keyChartTopN: true, keyChartWidth: true,
	keyUnmappedLabel: true,
}

// ConfigService resolves the pipeline configuration from a config store.
type ConfigService struct {
	configStore driven.ConfigStore
}

// NewConfigService creates a new config service.
// configStore is optional - if nil, defaults are used.
func NewConfigService(configStore driven.ConfigStore) *ConfigService {
	return &ConfigService{configStore: configStore}
}

// Pipeline returns the defaults overlaid with stored values.
func (s *ConfigService) Pipeline() (domain.PipelineConfig, error) {
	cfg := domain.DefaultPipelineConfig()
	if s.configStore == nil {
		return cfg, nil
	}

	cfg.Paths.RawDir = s.getString(keyRawDir, cfg.Paths.RawDir)
	cfg.Paths.ProcessedDir = s.getString(keyProcessedDir, cfg.Paths.ProcessedDir)
	cfg.Paths.StateDir = s.getString(keyStateDir, cfg.Paths.StateDir)
	cfg.Dataset.Owner = s.getString(keyDatasetOwner, cfg.Dataset.Owner)
	cfg.Dataset.Name = s.getString(keyDatasetName, cfg.Dataset.Name)
	cfg.Dataset.VideosFile = s.getString(keyVideosFile, cfg.Dataset.VideosFile)
	cfg.Dataset.CategoriesFile = s.getString(keyCategoriesFile, cfg.Dataset.CategoriesFile)
	cfg.Provider.BaseURL = s.getString(keyKaggleBaseURL, cfg.Provider.BaseURL)
	cfg.Chart.TopN = s.getInt(keyChartTopN, cfg.Chart.TopN)
	cfg.Chart.Width = s.getInt(keyChartWidth, cfg.Chart.Width)
	cfg.Transform.UnmappedLabel = s.configStore.GetString(keyUnmappedLabel)

	if raw := s.configStore.GetString(keyKaggleTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, keyKaggleTimeout, err)
		}
		cfg.Provider.Timeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration in %s: %w", s.configStore.Path(), err)
	}
	return cfg, nil
}

// Set stores a single configuration value, converting integer keys.
func (s *ConfigService) Set(key, value string) error {
	if s.configStore == nil {
		return fmt.Errorf("config store not configured")
	}
	if !knownKeys[key] {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}

	if intKeys[key] {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)
	}
	if key == keyKaggleTimeout {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %s must be a duration such as 30s", domain.ErrInvalidInput, key)
		}
	}
	return s.configStore.Set(key, value)
}

func (s *ConfigService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *ConfigService) getInt(key string, fallback int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetInt(key)
}
