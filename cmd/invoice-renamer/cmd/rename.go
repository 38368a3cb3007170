package cmd

import (
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/invoice-renamer/internal/config"
	"github.com/kpauljoseph/invoice-renamer/internal/rename"
	"github.com/kpauljoseph/invoice-renamer/internal/workflow"
)

var (
	renameCategories []string
	renameMode       string
	renameOutputDir  string
	renameDryRun     bool
)

var renameCmd = &cobra.Command{
	Use:   "rename [paths...]",
	Short: "Rename invoices to their proposed names",
	Long: `Extracts every invoice, proposes its name and renames the batch at once.
In save-as mode the files are copied to the output directory first and only
the copies are renamed. If any source is missing, nothing is renamed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		mode, err := resolveMode(cfg, renameMode)
		if err != nil {
			return err
		}

		files, err := collectFiles(cmd, args)
		if err != nil {
			return err
		}

		options, finish := progressBar(cmd, len(files))
		svc := newService(cfg, options...)
		proposals, err := svc.Propose(cmd.Context(), files, resolveCategories(cfg, renameCategories))
		finish()
		if err != nil {
			return err
		}

		req := workflow.Request{
			Sources: make([]string, len(proposals)),
			Names:   make([]string, len(proposals)),
			Mode:    mode,
		}
		for i, p := range proposals {
			req.Sources[i] = p.Source
			req.Names[i] = p.Name
		}
		if mode == config.ModeSaveAs {
			req.OutputDir = workflow.SaveAsDir(cfg, renameOutputDir)
		}

		if renameDryRun {
			return printPlan(cmd, svc, req)
		}
		return applyAndReport(cmd, svc, req)
	},
}

// printPlan shows the final name of every file and the conflicts that were
// resolved, without touching the disk.
func printPlan(cmd *cobra.Command, svc *workflow.Service, req workflow.Request) error {
	staged, conflicts, err := svc.Plan(req)
	if err != nil {
		return err
	}

	final := slices.Clone(staged)
	for _, c := range conflicts {
		if swap, ok := c.(*rename.FileSwap); ok {
			for k, idx := range swap.Indices {
				final[idx] = swap.FinalTargets[k]
			}
		}
	}

	printf(cmd, "Dry run, no files renamed.")
	if req.Mode == config.ModeSaveAs {
		printf(cmd, "Copies would be written to %s", req.OutputDir)
	}
	for i, src := range req.Sources {
		printf(cmd, "  %s -> %s", filepath.Base(src), final[i])
	}
	if len(conflicts) > 0 {
		printf(cmd, "Conflicts:")
		for _, c := range conflicts {
			printf(cmd, "  %s", c.Describe())
		}
	}
	return nil
}

func init() {
	renameCmd.Flags().StringSliceVar(&renameCategories, "category", nil, "expense category; one for all files or one per file")
	renameCmd.Flags().StringVar(&renameMode, "mode", "", `"rename" in place or "save-as" copies (overrides config)`)
	renameCmd.Flags().StringVar(&renameOutputDir, "output-dir", "", "directory for save-as copies (overrides config)")
	renameCmd.Flags().BoolVar(&renameDryRun, "dry-run", false, "show the planned names without renaming")
	rootCmd.AddCommand(renameCmd)
}
