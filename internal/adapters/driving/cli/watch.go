package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ytengage/internal/logger"
)

// watchDebounce collapses the burst of events a single extraction produces.
var watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the table and chart when extracted files change",
	Long: `Watches the raw directory and re-runs transform and render whenever the
videos or categories file is written, for example by 'ytengage acquire' in
another terminal. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if configService == nil || transformer == nil || presenter == nil {
		return errors.New("watch services not configured")
	}

	cfg, err := configService.Pipeline()
	if err != nil {
		return err
	}

	dir := cfg.Paths.RawDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	names := map[string]bool{
		cfg.Dataset.VideosFile:     true,
		cfg.Dataset.CategoriesFile: true,
	}

	cmd.Printf("Watching %s for changes (Ctrl-C to stop)...\n", dir)
	return watchLoop(cmd.Context(), watcher.Events, watcher.Errors, names, func() {
		rebuild(cmd)
	})
}

// watchLoop calls rebuild once per burst of relevant events until ctx ends
// or the event channel closes.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	names map[string]bool,
	rebuild func(),
) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !relevantEvent(ev, names) {
				continue
			}
			logger.Debug("watch: %s", ev)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		case <-fire:
			fire = nil
			rebuild()
		}
	}
}

// relevantEvent reports whether ev creates or writes one of the named files.
func relevantEvent(ev fsnotify.Event, names map[string]bool) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	return names[filepath.Base(ev.Name)]
}

func rebuild(cmd *cobra.Command) {
	ctx := cmd.Context()

	table, err := transformer.Transform(ctx)
	if err != nil {
		reportPipelineError(cmd, err)
		return
	}
	if err := presenter.Render(cmd.OutOrStdout(), table); err != nil {
		reportPipelineError(cmd, err)
		return
	}
	cmd.Printf("Rebuilt at %s.\n", time.Now().Format(time.TimeOnly))
}
