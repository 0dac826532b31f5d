package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is how many runs history shows without --limit.
const defaultHistoryLimit = 20

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent pipeline runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", defaultHistoryLimit, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if pipeline == nil {
		return errors.New("pipeline service not configured")
	}

	runs, err := pipeline.History(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("STARTED", "OUTCOME", "DURATION", "HASH", "MESSAGE")
	for _, run := range runs {
		t.Row(
			run.StartedAt.Local().Format(time.DateTime),
			run.Outcome.String(),
			run.Duration().Round(time.Millisecond).String(),
			shortHash(run.ArchiveHash),
			run.Message,
		)
	}
	cmd.Println(t.String())
	return nil
}

func shortHash(hash string) string {
	if hash == "" {
		return "-"
	}
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
