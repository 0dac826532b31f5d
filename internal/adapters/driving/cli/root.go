package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ytengage/internal/core/domain"
	"github.com/custodia-labs/ytengage/internal/core/ports/driving"
	"github.com/custodia-labs/ytengage/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services wired into the commands.
var (
	pipeline      driving.Pipeline
	acquirer      driving.Acquirer
	transformer   driving.Transformer
	presenter     driving.Presenter
	configService driving.ConfigService
)

// Persistent flags.
var (
	verbose    bool
	configPath string
)

// Services bundles everything the commands drive.
type Services struct {
	Pipeline    driving.Pipeline
	Acquirer    driving.Acquirer
	Transformer driving.Transformer
	Presenter   driving.Presenter
	Config      driving.ConfigService

	// Close releases resources held by the services. Optional.
	Close func() error
}

// Options carries flag values into the bootstrap function.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// BootstrapFunc builds the services once flags are parsed.
type BootstrapFunc func(opts Options) (*Services, error)

var (
	bootstrap     BootstrapFunc
	closeServices func() error
)

var rootCmd = &cobra.Command{
	Use:   "ytengage",
	Short: "YouTube engagement pipeline",
	Long: `ytengage downloads the Trending YouTube Video Statistics dataset,
extracts the UK videos and categories, computes the average engagement
(likes + comments + dislikes) per category, and charts the top categories.

Run without a subcommand to execute the full pipeline. Each stage can also
be run on its own, reading the previous stage's output from disk.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE:               runPipeline,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.ytengage/config.toml)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that wires services after flag parsing.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs services directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	pipeline = s.Pipeline
	acquirer = s.Acquirer
	transformer = s.Transformer
	presenter = s.Presenter
	configService = s.Config
	closeServices = s.Close
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, so cancelling ctx aborts
// in-flight downloads.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd == versionCmd {
		return nil
	}
	services, err := bootstrap(Options{ConfigPath: configPath, Verbose: verbose})
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// runPipeline executes every stage. Pipeline failures are reported on
// stderr and never turn into a non-zero exit.
func runPipeline(cmd *cobra.Command, _ []string) error {
	if pipeline == nil {
		return errors.New("pipeline service not configured")
	}

	run, err := pipeline.Run(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		reportPipelineError(cmd, err)
		return nil
	}

	switch run.Outcome {
	case domain.RunUnchanged:
		cmd.Println("Dataset unchanged; table and chart rebuilt from the extracted files.")
	default:
		cmd.Println("Dataset updated; table and chart rebuilt.")
	}
	logger.Info("Run %s finished in %s", run.ID, run.Duration())
	return nil
}

// reportPipelineError prints a message for each error kind.
func reportPipelineError(cmd *cobra.Command, err error) {
	switch {
	case errors.Is(err, domain.ErrAcquisition):
		cmd.PrintErrln(fmt.Sprintf("Data acquisition failed: %v", err))
	case errors.Is(err, domain.ErrTransform):
		cmd.PrintErrln(fmt.Sprintf("Data transformation failed: %v", err))
	default:
		cmd.PrintErrln(fmt.Sprintf("Unexpected error: %v", err))
	}
}
