package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kpauljoseph/invoice-renamer/internal/config"
	"github.com/kpauljoseph/invoice-renamer/internal/invoice"
	"github.com/kpauljoseph/invoice-renamer/internal/scanner"
	"github.com/kpauljoseph/invoice-renamer/internal/workflow"
)

// loadConfig reads the config file. Only the default path may be absent.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath, configPath == defaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}
	return cfg, nil
}

func newService(cfg *config.Config, options ...workflow.ServiceOption) *workflow.Service {
	return workflow.NewService(cfg, invoice.NewFitzTextSource(appLog), appLog, options...)
}

// progressBar draws extraction progress on stderr. It returns the service
// options feeding it and a func that finishes the bar; both are empty when
// quiet is set.
func progressBar(cmd *cobra.Command, total int) ([]workflow.ServiceOption, func()) {
	if quiet {
		return nil, func() {}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	update := func(done, _ int, path string) {
		bar.Describe(truncate(filepath.Base(path), 30))
		_ = bar.Set(done)
	}
	return []workflow.ServiceOption{workflow.WithProgress(update)}, func() { _ = bar.Finish() }
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// collectFiles expands path arguments into absolute file paths, scanning
// directories for PDFs. No arguments means the current directory.
func collectFiles(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	files, err := scanner.New(appLog).Collect(cmd.Context(), args)
	if err != nil {
		return nil, err
	}
	return scanner.AbsolutePaths(files), nil
}

// resolveCategories defaults to the configured category and checks every
// given one against the configured list.
func resolveCategories(cfg *config.Config, given []string) []string {
	if len(given) == 0 {
		return []string{cfg.DefaultCategory}
	}
	for _, c := range given {
		if !cfg.HasCategory(c) {
			appLog.Warn("Category %q is not in the configured list %v", c, cfg.Categories)
		}
	}
	return given
}

func resolveMode(cfg *config.Config, flag string) (config.Mode, error) {
	if flag == "" {
		return cfg.Mode, nil
	}
	m := config.Mode(flag)
	switch m {
	case config.ModeRename, config.ModeSaveAs:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (want %q or %q)", flag, config.ModeRename, config.ModeSaveAs)
}

// printf writes a line to the command's output.
func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}

// applyAndReport runs the workflow and prints the formatted report. A batch
// with any failed file is returned as an error after the report is printed.
func applyAndReport(cmd *cobra.Command, svc *workflow.Service, req workflow.Request) error {
	report, err := svc.Apply(cmd.Context(), req)
	if err != nil {
		return err
	}

	for _, c := range report.Copies {
		if c.Err != nil {
			appLog.Warn("Copy of %s failed: %v", c.Source, c.Err)
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), report.Formatted)

	if failed := report.Result.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, report.Result.Total)
	}
	return nil
}
