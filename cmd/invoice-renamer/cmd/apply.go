package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kpauljoseph/invoice-renamer/internal/config"
	"github.com/kpauljoseph/invoice-renamer/internal/workflow"
)

// mappingFile is an explicit list of renames, for batches whose names were
// chosen by hand rather than extracted.
type mappingFile struct {
	Mode      config.Mode     `yaml:"mode,omitempty"`
	OutputDir string          `yaml:"output_dir,omitempty"`
	Renames   []mappingRename `yaml:"renames"`
}

type mappingRename struct {
	Source string `yaml:"source"`
	Name   string `yaml:"name"`
}

var (
	applyMode      string
	applyOutputDir string
)

var applyCmd = &cobra.Command{
	Use:   "apply <mapping.yaml>",
	Short: "Rename files according to a mapping file",
	Long: `Runs the rename engine on an explicit source to name mapping:

  renames:
    - source: scans/a.pdf
      name: 餐饮费 100.00 0907.pdf

Relative sources and output_dir are resolved against the mapping file's
directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		m, err := loadMapping(args[0])
		if err != nil {
			return err
		}

		mode, err := resolveMode(cfg, applyMode)
		if err != nil {
			return err
		}
		if applyMode == "" && m.Mode != "" {
			if mode, err = resolveMode(cfg, string(m.Mode)); err != nil {
				return err
			}
		}

		req := workflow.Request{Mode: mode}
		base := filepath.Dir(args[0])
		for _, r := range m.Renames {
			src := r.Source
			if !filepath.IsAbs(src) {
				src = filepath.Join(base, src)
			}
			req.Sources = append(req.Sources, src)
			req.Names = append(req.Names, r.Name)
		}

		if mode == config.ModeSaveAs {
			override := applyOutputDir
			if override == "" && m.OutputDir != "" {
				override = m.OutputDir
				if !filepath.IsAbs(override) {
					override = filepath.Join(base, override)
				}
			}
			req.OutputDir = workflow.SaveAsDir(cfg, override)
		}

		return applyAndReport(cmd, newService(cfg), req)
	},
}

func loadMapping(path string) (*mappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping %s: %w", path, err)
	}

	var m mappingFile
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing mapping %s: %w", path, err)
	}
	if len(m.Renames) == 0 {
		return nil, errors.New("mapping has no renames")
	}
	for i, r := range m.Renames {
		if r.Source == "" {
			return nil, fmt.Errorf("rename %d has no source", i+1)
		}
	}
	return &m, nil
}

func init() {
	applyCmd.Flags().StringVar(&applyMode, "mode", "", `"rename" in place or "save-as" copies (overrides mapping and config)`)
	applyCmd.Flags().StringVar(&applyOutputDir, "output-dir", "", "directory for save-as copies (overrides mapping and config)")
	rootCmd.AddCommand(applyCmd)
}
