package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/invoice-renamer/pkg/logger"
)

const defaultConfigPath = "config.yaml"

// Global flags.
var (
	configPath string
	logDir     string
	verbose    bool
	debug      bool
	quiet      bool
)

var appLog = logger.Discard()

var rootCmd = &cobra.Command{
	Use:   "invoice-renamer",
	Short: "Rename invoice PDFs from their extracted fields",
	Long: `invoice-renamer reads the text layer of electronic invoice PDFs, proposes
a name of the form "{category} {total} {MMDD}.pdf" for each, and renames the
whole batch at once. Duplicate names get numeric suffixes and files that trade
names with each other are swapped through temporary names, so no file is
overwritten.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to config file")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "also write logs to a timestamped file in this directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode with trace logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "no progress bar")
}

func setupLogger(cmd *cobra.Command) error {
	dir := logDir
	if dir == "" {
		if cfg, err := loadConfig(); err == nil {
			dir = cfg.LogDir
		}
	}

	if dir != "" {
		l, path, err := logger.NewFileTee(cmd.ErrOrStderr(), dir, "[invoice-renamer] ")
		if err != nil {
			return err
		}
		appLog = l
		appLog.Debug("Logging to %s", path)
	} else {
		appLog = logger.New(logger.WithOutput(cmd.ErrOrStderr()), logger.WithPrefix("[invoice-renamer] "))
	}

	appLog.SetVerbose(verbose)
	if debug {
		appLog.SetLevel(logger.LevelTrace)
	}
	return nil
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context; a rename batch that already started runs to completion.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
