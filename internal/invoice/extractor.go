package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/kpauljoseph/invoice-renamer/pkg/logger"
	"github.com/kpauljoseph/invoice-renamer/pkg/models"
)

var ErrNoText = errors.New("no text layer in PDF")

// TextSource returns the text layer of a document.
type TextSource interface {
	Text(ctx context.Context, path string) (string, error)
}

// FitzTextSource reads text with MuPDF after pdfcpu has confirmed the file is
// a PDF with at least one page.
type FitzTextSource struct {
	logger *logger.Logger
}

func NewFitzTextSource(logger *logger.Logger) *FitzTextSource {
	return &FitzTextSource{logger: logger}
}

func (s *FitzTextSource) Text(ctx context.Context, path string) (string, error) {
	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF structure: %w", err)
	}
	if pageCount == 0 {
		return "", fmt.Errorf("%w: %s has no pages", ErrNoText, path)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	//Page numbers are zero indexed in the fitz package.
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		text, err := doc.Text(pageNum)
		if err != nil {
			s.logger.Info("Warning: couldn't extract text from page %d of %s: %v", pageNum, path, err)
			continue
		}
		s.logger.Trace("Page %d of %s: %d bytes of text", pageNum, path, len(text))
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

// Proposal is the suggested name for one source file. Err is set when the
// fields could not be extracted, in which case Name is the fallback name.
type Proposal struct {
	Source   string          `json:"source"`
	Category string          `json:"category"`
	Invoice  *models.Invoice `json:"invoice,omitempty"`
	Name     string          `json:"name"`
	Err      error           `json:"-"`
}

func (p Proposal) ErrorText() string {
	if p.Err == nil {
		return ""
	}
	return p.Err.Error()
}

// ProgressFunc is called after each file of a Propose run.
type ProgressFunc func(done, total int, path string)

type Extractor struct {
	source   TextSource
	logger   *logger.Logger
	progress ProgressFunc
}

type ExtractorOption func(*Extractor)

func WithProgress(fn ProgressFunc) ExtractorOption {
	return func(e *Extractor) {
		e.progress = fn
	}
}

func NewExtractor(source TextSource, logger *logger.Logger, options ...ExtractorOption) *Extractor {
	e := &Extractor{
		source: source,
		logger: logger,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *Extractor) Extract(ctx context.Context, path string) (*models.Invoice, error) {
	text, err := e.source.Text(ctx, path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoText, path)
	}

	inv := Parse(text)
	e.logger.Debug("Extracted %s: number=%q date=%q total=%q", path, inv.Number, inv.IssueDate, inv.Total.Figures)
	return &inv, nil
}

// Propose extracts every file and builds its desired name. categories holds
// either one category for all files or one per file. A file whose fields
// cannot be read gets FallbackName rather than failing the batch; only
// cancellation stops it early.
func (e *Extractor) Propose(ctx context.Context, files []string, categories []string) ([]Proposal, error) {
	if len(categories) != 1 && len(categories) != len(files) {
		return nil, fmt.Errorf("need 1 or %d categories, got %d", len(files), len(categories))
	}

	proposals := make([]Proposal, 0, len(files))
	for i, path := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		category := categories[0]
		if len(categories) > 1 {
			category = categories[i]
		}

		p := Proposal{Source: path, Category: category}
		inv, err := e.Extract(ctx, path)
		if err == nil {
			p.Invoice = inv
			p.Name, err = BuildName(category, inv)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			e.logger.Info("Error extracting %s: %v", path, err)
			p.Err = err
			p.Name = FallbackName(path)
		}

		proposals = append(proposals, p)
		if e.progress != nil {
			e.progress(i+1, len(files), path)
		}
	}

	return proposals, nil
}
