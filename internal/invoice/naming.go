package invoice

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/invoice-renamer/pkg/models"
)

const (
	PDFExtension          = ".pdf"
	ExtractionFailedLabel = "-提取失败"
)

var ErrMissingField = errors.New("invoice field missing")

// BuildName composes "{category} {total} {MMDD}.pdf" from the extracted fields.
func BuildName(category string, inv *models.Invoice) (string, error) {
	if inv == nil {
		return "", fmt.Errorf("%w: no invoice", ErrMissingField)
	}
	if inv.Total.Figures == "" {
		return "", fmt.Errorf("%w: total amount", ErrMissingField)
	}
	date4, err := DateFragment(inv.IssueDate)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, 3)
	if c := strings.TrimSpace(category); c != "" {
		parts = append(parts, c)
	}
	parts = append(parts, inv.Total.Figures, date4)

	return strings.Join(parts, " ") + PDFExtension, nil
}

// DateFragment turns "2025-09-07" into "0907".
func DateFragment(issueDate string) (string, error) {
	digits := strings.ReplaceAll(issueDate, "-", "")
	if len(digits) != 8 {
		return "", fmt.Errorf("%w: issue date %q", ErrMissingField, issueDate)
	}
	return digits[4:8], nil
}

// FallbackName marks a file whose fields could not be extracted. The stem is
// everything before the first dot of the basename.
func FallbackName(path string) string {
	stem, _, _ := strings.Cut(filepath.Base(path), ".")
	return stem + ExtractionFailedLabel + PDFExtension
}
