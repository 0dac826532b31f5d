package domain

import (
	"path/filepath"
	"time"
)

// Default pipeline values.
const (
	DefaultRawDir         = "data/raw"
	DefaultProcessedDir   = "data/processed"
	DefaultStateDir       = "data/state"
	DefaultDatasetOwner   = "datasnaek"
	DefaultDatasetName    = "youtube-new"
	DefaultVideosFile     = "GBvideos.csv"
	DefaultCategoriesFile = "GB_category_id.json"
	DefaultHashFile       = "dataset_hash.txt"
	DefaultOutputFile     = "engagement_by_category.csv"
	DefaultKaggleBaseURL  = "https://www.kaggle.com/api/v1"
	DefaultTopN           = 10
)

// PathSettings holds the on-disk layout.
type PathSettings struct {
	// RawDir holds the transient archive, the extracted files and the hash file.
	RawDir string

	// ProcessedDir holds the aggregate table.
	ProcessedDir string

	// StateDir holds run history and metrics.
	StateDir string
}

// DatasetSettings identifies the dataset and the members the pipeline needs.
type DatasetSettings struct {
	Owner          string
	Name           string
	VideosFile     string
	CategoriesFile string
}

// Ref returns the "owner/name" dataset reference.
func (d DatasetSettings) Ref() string {
	return d.Owner + "/" + d.Name
}

// RequiredMembers returns the archive members extraction must find.
func (d DatasetSettings) RequiredMembers() []string {
	return []string{d.VideosFile, d.CategoriesFile}
}

// ProviderSettings configures the dataset provider client.
type ProviderSettings struct {
	BaseURL string

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration
}

// ChartSettings configures presentation.
type ChartSettings struct {
	// TopN is how many categories the chart shows.
	TopN int

	// Width is the bar area width in columns. Zero means fit the terminal.
	Width int
}

// TransformSettings configures aggregation.
type TransformSettings struct {
	// UnmappedLabel groups videos whose category has no lookup entry.
	// Empty excludes them from the aggregate.
	UnmappedLabel string
}

// PipelineConfig is the complete configuration handed to each component.
type PipelineConfig struct {
	Paths     PathSettings
	Dataset   DatasetSettings
	Provider  ProviderSettings
	Chart     ChartSettings
	Transform TransformSettings
}

// DefaultPipelineConfig returns the documented defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Paths: PathSettings{
			RawDir:       DefaultRawDir,
			ProcessedDir: DefaultProcessedDir,
			StateDir:     DefaultStateDir,
		},
		Dataset: DatasetSettings{
			Owner:          DefaultDatasetOwner,
			Name:           DefaultDatasetName,
			VideosFile:     DefaultVideosFile,
			CategoriesFile: DefaultCategoriesFile,
		},
		Provider: ProviderSettings{
			BaseURL: DefaultKaggleBaseURL,
		},
		Chart: ChartSettings{
			TopN: DefaultTopN,
		},
	}
}

// HashFilePath returns the location of the persisted archive hash.
func (c PipelineConfig) HashFilePath() string {
	return filepath.Join(c.Paths.RawDir, DefaultHashFile)
}

// VideosPath returns the location of the extracted videos table.
func (c PipelineConfig) VideosPath() string {
	return filepath.Join(c.Paths.RawDir, c.Dataset.VideosFile)
}

// CategoriesPath returns the location of the extracted category lookup.
func (c PipelineConfig) CategoriesPath() string {
	return filepath.Join(c.Paths.RawDir, c.Dataset.CategoriesFile)
}

// OutputPath returns the location of the aggregate table.
func (c PipelineConfig) OutputPath() string {
	return filepath.Join(c.Paths.ProcessedDir, DefaultOutputFile)
}

// Validate checks that every required setting is present.
func (c PipelineConfig) Validate() error {
	switch {
	case c.Paths.RawDir == "", c.Paths.ProcessedDir == "", c.Paths.StateDir == "":
		return ErrInvalidInput
	case c.Dataset.Owner == "", c.Dataset.Name == "":
		return ErrInvalidInput
	case c.Dataset.VideosFile == "", c.Dataset.CategoriesFile == "":
		return ErrInvalidInput
	case c.Chart.TopN <= 0:
		return ErrInvalidInput
	}
	return nil
}
