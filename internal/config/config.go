// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kpauljoseph/invoice-renamer/internal/rename"
)

type Mode string

const (
	ModeRename Mode = "rename"
	ModeSaveAs Mode = "save-as"
)

var DefaultCategories = []string{
	"办公用品",
	"交通费",
	"餐饮费",
	"住宿费",
	"通讯费",
	"其他",
}

type Config struct {
	Categories         []string `yaml:"categories"`
	DefaultCategory    string   `yaml:"default_category"`
	Mode               Mode     `yaml:"mode"`
	OutputDir          string   `yaml:"output_dir"`
	TempSuffix         string   `yaml:"temp_suffix"`
	// ReportPreviewLimit caps the renamed files listed in the report. Zero
	// means the default; a negative value hides the list.
	ReportPreviewLimit int      `yaml:"report_preview_limit"`
	LogDir             string   `yaml:"log_dir"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path and fills unset keys with defaults. A missing file is not an
// error when allowMissing is set; the defaults are returned instead.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Categories) == 0 {
		c.Categories = slices.Clone(DefaultCategories)
	}
	if c.DefaultCategory == "" {
		c.DefaultCategory = c.Categories[0]
	}
	if c.Mode == "" {
		c.Mode = ModeRename
	}
	if c.TempSuffix == "" {
		c.TempSuffix = rename.DefaultTempSuffix
	}
	if c.ReportPreviewLimit == 0 {
		c.ReportPreviewLimit = rename.DefaultPreviewLimit
	}
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeRename, ModeSaveAs:
	default:
		return fmt.Errorf("unknown mode %q (want %q or %q)", c.Mode, ModeRename, ModeSaveAs)
	}

	if !strings.HasPrefix(c.TempSuffix, ".") || len(c.TempSuffix) < 2 {
		return fmt.Errorf("temp_suffix %q must start with a dot", c.TempSuffix)
	}
	if strings.ContainsAny(c.TempSuffix, `/\`) {
		return fmt.Errorf("temp_suffix %q must not contain a path separator", c.TempSuffix)
	}

	if !slices.Contains(c.Categories, c.DefaultCategory) {
		return fmt.Errorf("default_category %q is not one of the categories", c.DefaultCategory)
	}

	return nil
}

// HasCategory reports whether name is a configured category.
func (c *Config) HasCategory(name string) bool {
	return slices.Contains(c.Categories, name)
}
