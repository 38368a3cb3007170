package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/cobra"

	"github.com/kpauljoseph/invoice-renamer/internal/invoice"
)

var inspectText bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pdf>",
	Short: "Show what the extractor sees in one PDF",
	Long: `Prints the page count and page dimensions, the document metadata and the
fields parsed from the text layer. Use --text to also print the raw text.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		printf(cmd, "Analyzing PDF: %s", path)

		pageCount, err := api.PageCountFile(path)
		if err != nil {
			return fmt.Errorf("reading PDF structure: %w", err)
		}
		printf(cmd, "Pages: %d", pageCount)

		dims, err := api.PageDimsFile(path)
		if err != nil {
			return fmt.Errorf("reading page dimensions: %w", err)
		}
		for i, dim := range dims {
			printf(cmd, "  Page %d: %.3f x %.3f points", i+1, dim.Width, dim.Height)
		}

		doc, err := fitz.New(path)
		if err != nil {
			return fmt.Errorf("opening PDF: %w", err)
		}
		defer doc.Close()

		meta := doc.Metadata()
		keys := make([]string, 0, len(meta))
		for k, v := range meta {
			if v != "" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		if len(keys) > 0 {
			printf(cmd, "Metadata:")
			for _, k := range keys {
				printf(cmd, "  %s: %s", k, meta[k])
			}
		}

		var b strings.Builder
		for n := 0; n < doc.NumPage(); n++ {
			text, err := doc.Text(n)
			if err != nil {
				appLog.Warn("Error extracting text from page %d: %v", n+1, err)
				continue
			}
			b.WriteString(text)
			b.WriteString("\n")
		}

		if strings.TrimSpace(b.String()) == "" {
			printf(cmd, "No text layer found; the file is probably a scan.")
			return nil
		}
		if inspectText {
			printf(cmd, "Text:\n%s", b.String())
		}

		inv := invoice.Parse(b.String())
		printf(cmd, "Fields:")
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(inv); err != nil {
			return err
		}

		if name, err := invoice.BuildName("", &inv); err == nil {
			printf(cmd, "Name without category: %s", name)
		} else {
			printf(cmd, "No name: %v", err)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectText, "text", false, "print the raw text layer")
	rootCmd.AddCommand(inspectCmd)
}
