package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/JPM1118/assetpick/internal/config"
	"github.com/spf13/cobra"
)

// errNoSelection makes the process exit non-zero without printing anything
// when the user picked nothing.
var errNoSelection = errors.New("no image selected")

var (
	configPath string
	debug      bool

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "assetpick [dir]",
	Short: "Pick one image from a folder and print its path",
	Long: `assetpick shows an image picker for a folder and prints the path of
the chosen image on stdout. Nothing is printed and the exit status is 1
when the picker is cancelled.

Run without a subcommand to pick from the configured library root.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)

		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			logger.Warn("using default configuration", "err", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPick(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	addPickFlags(rootCmd)
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNoSelection) {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}
	return nil
}
