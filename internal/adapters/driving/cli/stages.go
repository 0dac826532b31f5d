package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var acquireCmd = &cobra.Command{
	Use:   "acquire",
	Short: "Download the dataset and extract the needed files",
	Long: `Downloads the dataset archive and compares its hash with the one recorded
by the last successful extraction. When the content changed, the videos and
categories files are extracted into the raw directory.`,
	RunE: runAcquire,
}

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Build the engagement table from the extracted files",
	RunE:  runTransform,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Chart the top categories from the engagement table",
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(acquireCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(renderCmd)
}

func runAcquire(cmd *cobra.Command, _ []string) error {
	if acquirer == nil {
		return errors.New("acquisition service not configured")
	}

	cmd.Println("Acquiring dataset...")
	archive, err := acquirer.Sync(cmd.Context())
	if err != nil {
		return err
	}

	if archive == nil {
		cmd.Println("Dataset unchanged, nothing extracted.")
		return nil
	}
	cmd.Printf("Dataset updated (hash %s).\n", archive.Hash)
	return nil
}

func runTransform(cmd *cobra.Command, _ []string) error {
	if transformer == nil {
		return errors.New("transform service not configured")
	}

	table, err := transformer.Transform(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Aggregated %d categories.\n", len(table))
	return nil
}

func runRender(cmd *cobra.Command, _ []string) error {
	if transformer == nil || presenter == nil {
		return errors.New("presentation service not configured")
	}

	table, err := transformer.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("%w (run 'ytengage transform' first)", err)
	}
	return presenter.Render(cmd.OutOrStdout(), table)
}
