package cmd

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/invoice-renamer/internal/invoice"
	"github.com/kpauljoseph/invoice-renamer/internal/workflow"
)

var (
	namesCategories []string
	namesJSON       bool
)

type proposalView struct {
	invoice.Proposal
	Error string `json:"error,omitempty"`
}

var namesCmd = &cobra.Command{
	Use:   "names [paths...]",
	Short: "List the proposed name for each invoice",
	Long: `Extracts the fields of every invoice and prints the name it would be given.
Directories are scanned recursively for PDFs. Nothing is renamed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		files, err := collectFiles(cmd, args)
		if err != nil {
			return err
		}

		var options []workflow.ServiceOption
		finish := func() {}
		if !namesJSON {
			options, finish = progressBar(cmd, len(files))
		}
		proposals, err := newService(cfg, options...).Propose(cmd.Context(), files, resolveCategories(cfg, namesCategories))
		finish()
		if err != nil {
			return err
		}

		if namesJSON {
			views := make([]proposalView, len(proposals))
			for i, p := range proposals {
				views[i] = proposalView{Proposal: p, Error: p.ErrorText()}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(views)
		}

		for _, p := range proposals {
			if p.Err != nil {
				printf(cmd, "%s -> %s  (%s)", filepath.Base(p.Source), p.Name, p.ErrorText())
				continue
			}
			printf(cmd, "%s -> %s", filepath.Base(p.Source), p.Name)
		}
		return nil
	},
}

func init() {
	namesCmd.Flags().StringSliceVar(&namesCategories, "category", nil, "expense category; one for all files or one per file")
	namesCmd.Flags().BoolVar(&namesJSON, "json", false, "print the extracted fields as JSON")
	rootCmd.AddCommand(namesCmd)
}
