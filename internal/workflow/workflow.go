package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kpauljoseph/invoice-renamer/internal/config"
	"github.com/kpauljoseph/invoice-renamer/internal/copier"
	"github.com/kpauljoseph/invoice-renamer/internal/invoice"
	"github.com/kpauljoseph/invoice-renamer/internal/rename"
	"github.com/kpauljoseph/invoice-renamer/pkg/logger"
	"github.com/kpauljoseph/invoice-renamer/pkg/utils"
)

var (
	ErrNoOutputDir       = errors.New("save-as mode needs an output directory")
	ErrDuplicateBasename = errors.New("two sources share a file name and would overwrite each other's copy")
	ErrOutputIsSourceDir = errors.New("save-as output directory holds the sources themselves")
)

// Request is what the presentation layer hands over after the user has
// reviewed the proposed names.
type Request struct {
	Sources   []string
	Names     []string
	Mode      config.Mode
	OutputDir string
}

// Report bundles the engine result with the copy step of save-as mode.
type Report struct {
	Mode      config.Mode
	Copies    []copier.CopyOutcome
	Result    *rename.Result
	Formatted string
}

type Service struct {
	extractor    *invoice.Extractor
	copier       *copier.Copier
	executor     *rename.Executor
	previewLimit int
	logger       *logger.Logger
}

type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	extractor []invoice.ExtractorOption
}

// WithProgress reports extraction progress file by file.
func WithProgress(fn invoice.ProgressFunc) ServiceOption {
	return func(o *serviceOptions) {
		o.extractor = append(o.extractor, invoice.WithProgress(fn))
	}
}

func NewService(cfg *config.Config, source invoice.TextSource, log *logger.Logger, options ...ServiceOption) *Service {
	var opts serviceOptions
	for _, opt := range options {
		opt(&opts)
	}

	analyzer := rename.NewAnalyzer(rename.WithTempSuffix(cfg.TempSuffix))
	return &Service{
		extractor: invoice.NewExtractor(source, log, opts.extractor...),
		copier:    copier.New(log),
		executor: rename.NewExecutor(
			rename.WithAnalyzer(analyzer),
			rename.WithLogger(log),
		),
		previewLimit: cfg.ReportPreviewLimit,
		logger:       log,
	}
}

func (s *Service) Propose(ctx context.Context, files []string, categories []string) ([]invoice.Proposal, error) {
	s.logger.Info("Extracting %d invoices", len(files))
	return s.extractor.Propose(ctx, files, categories)
}

// Plan runs only the conflict analysis, for previews and dry runs.
func (s *Service) Plan(req Request) ([]string, []rename.Conflict, error) {
	return s.executor.Analyzer().Resolve(req.Sources, req.Names)
}

// Apply renames the request's sources. In save-as mode the sources are first
// copied into the output directory and the copies are renamed, leaving the
// originals untouched. A source whose copy failed is carried into the engine
// under its would-be copy path so it is reported as not found.
func (s *Service) Apply(ctx context.Context, req Request) (*Report, error) {
	if len(req.Sources) != len(req.Names) {
		return nil, fmt.Errorf("%w: %d sources, %d names", rename.ErrLengthMismatch, len(req.Sources), len(req.Names))
	}

	report := &Report{Mode: req.Mode}
	targets := req.Sources

	switch req.Mode {
	case config.ModeSaveAs:
		if req.OutputDir == "" {
			return nil, ErrNoOutputDir
		}
		if err := checkBasenames(req.Sources); err != nil {
			return nil, err
		}
		if err := checkOutputDir(req.Sources, req.OutputDir); err != nil {
			return nil, err
		}
		copies, err := s.copier.CopyFiles(ctx, req.Sources, req.OutputDir)
		if err != nil {
			return nil, err
		}
		report.Copies = copies

		targets = make([]string, len(copies))
		for i, c := range copies {
			targets[i] = c.Destination
		}
		s.logger.Info("Copied %d files to %s", len(copier.Destinations(copies)), req.OutputDir)
	case config.ModeRename, "":
	default:
		return nil, fmt.Errorf("unknown mode %q", req.Mode)
	}

	result, err := s.executor.Execute(targets, req.Names)
	if err != nil {
		return nil, err
	}

	report.Result = result
	report.Formatted = rename.FormatReport(result, rename.WithPreviewLimit(s.previewLimit))
	s.logger.Info("Renamed %d of %d files", result.Succeeded(), result.Total)
	return report, nil
}

// SaveAsDir returns the directory a save-as run writes into.
func SaveAsDir(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	if cfg.OutputDir != "" {
		return cfg.OutputDir
	}
	return utils.GetDefaultOutputDir()
}

func checkBasenames(sources []string) error {
	seen := make(map[string]string, len(sources))
	for _, src := range sources {
		base := filepath.Base(src)
		if prev, ok := seen[base]; ok && prev != src {
			return fmt.Errorf("%w: %s and %s", ErrDuplicateBasename, prev, src)
		}
		seen[base] = src
	}
	return nil
}

// checkOutputDir rejects an output directory that is the directory of any
// source, where the copy would be the original itself.
func checkOutputDir(sources []string, outputDir string) error {
	out, err := os.Stat(outputDir)
	if err != nil {
		// Not created yet, so it cannot hold a source.
		return nil
	}
	checked := make(map[string]bool)
	for _, src := range sources {
		dir := filepath.Dir(src)
		if checked[dir] {
			continue
		}
		checked[dir] = true

		info, err := os.Stat(dir)
		if err == nil && os.SameFile(info, out) {
			return fmt.Errorf("%w: %s", ErrOutputIsSourceDir, outputDir)
		}
	}
	return nil
}
