package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change pipeline configuration",
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Keys:
  paths.raw_dir             Archive, extracted files and hash file
  paths.processed_dir       Engagement table
  paths.state_dir           Run history and metrics
  dataset.owner             Kaggle dataset owner
  dataset.name              Kaggle dataset name
  dataset.videos_file       Videos member to extract
  dataset.categories_file   Categories member to extract
  kaggle.base_url           Kaggle API base URL
  kaggle.timeout            HTTP timeout, e.g. 5m (0 disables)
  chart.top_n               Categories shown in the chart
  chart.width               Chart width in columns (0 fits the terminal)
  transform.unmapped_label  Group unmapped categories under this name`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}

	cfg, err := configService.Pipeline()
	if err != nil {
		return err
	}

	timeout := "none"
	if cfg.Provider.Timeout > 0 {
		timeout = cfg.Provider.Timeout.String()
	}
	width := "terminal"
	if cfg.Chart.Width > 0 {
		width = fmt.Sprintf("%d", cfg.Chart.Width)
	}
	unmapped := "(excluded)"
	if cfg.Transform.UnmappedLabel != "" {
		unmapped = cfg.Transform.UnmappedLabel
	}

	cmd.Println("Paths")
	cmd.Printf("  Raw:        %s\n", cfg.Paths.RawDir)
	cmd.Printf("  Processed:  %s\n", cfg.Paths.ProcessedDir)
	cmd.Printf("  State:      %s\n", cfg.Paths.StateDir)
	cmd.Println()
	cmd.Println("Dataset")
	cmd.Printf("  Reference:  %s\n", cfg.Dataset.Ref())
	cmd.Printf("  Videos:     %s\n", cfg.Dataset.VideosFile)
	cmd.Printf("  Categories: %s\n", cfg.Dataset.CategoriesFile)
	cmd.Println()
	cmd.Println("Kaggle")
	cmd.Printf("  Base URL:   %s\n", cfg.Provider.BaseURL)
	cmd.Printf("  Timeout:    %s\n", timeout)
	cmd.Println()
	cmd.Println("Chart")
	cmd.Printf("  Top N:      %d\n", cfg.Chart.TopN)
	cmd.Printf("  Width:      %s\n", width)
	cmd.Println()
	cmd.Println("Transform")
	cmd.Printf("  Unmapped:   %s\n", unmapped)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}

	if err := configService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}
