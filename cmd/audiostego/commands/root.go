package commands

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gostego/audiostego/pkg/cli"

	_ "github.com/gostego/audiostego/pkg/stego/echo"
	_ "github.com/gostego/audiostego/pkg/stego/echohc"
	_ "github.com/gostego/audiostego/pkg/stego/lsb"
	_ "github.com/gostego/audiostego/pkg/stego/phase"
	_ "github.com/gostego/audiostego/pkg/stego/tone"
)

var (
	verbose bool

	globalConfig *cli.Config
	runID        string
	logger       *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "audiostego",
	Short: "Hide and recover payload bits in PCM WAV audio",
	Long: `audiostego - a command line tool for audio steganography.

Hides a payload bit stream inside a cover PCM WAV file using one of several
signal-domain methods, and recovers it again from a stego file:

  lsb      least-significant-bit substitution
  phase    phase coding over a frequency band
  tone     tone insertion / suppression
  echo     echo hiding, one bit per frame
  echo-hc  echo hiding, four bits per frame

Configuration defaults are stored in ~/.audiostego/config.yaml.
Use 'audiostego config' to manage per-method parameter defaults.

Examples:
  audiostego embed -sf out.wav -cf cover.wav -m lsb -mf secret.bin
  audiostego extract -sf out.wav -m lsb -mf recovered.bin
  audiostego info cover.wav`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initRun)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostic logging")

	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(configCmd)
}

// initRun sets up the per-invocation logger and loads stored config
// defaults, run once before any subcommand executes.
func initRun() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	runID = uuid.New().String()
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("run_id", runID)
	slog.SetDefault(logger)

	cfg, err := cli.Load()
	if err != nil {
		logger.Warn("config unavailable, using built-in defaults", "error", err)
		return
	}
	globalConfig = cfg
	cli.PrintVerbose(verbose, "loaded configuration from %s", cfg.Path())
}

// getConfig returns the loaded configuration, or an empty one if it could
// not be loaded (e.g. HOME unset).
func getConfig() *cli.Config {
	if globalConfig == nil {
		return &cli.Config{MethodParams: map[string]map[string]string{}}
	}
	return globalConfig
}
