package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/invoice-renamer/pkg/logger"
)

type PDFFile struct {
	AbsolutePath string
	RelativePath string
}

type DirectoryScanner struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *DirectoryScanner {
	return &DirectoryScanner{logger: logger}
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// FindPDFs walks dir recursively and returns the PDFs in lexical order.
func (s *DirectoryScanner) FindPDFs(ctx context.Context, dir string) ([]PDFFile, error) {
	var pdfs []PDFFile

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	err = filepath.Walk(absDir, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			s.logger.Debug("Scanning directory: %s", path)
			return nil
		}

		if !info.Mode().IsRegular() || !isPDF(path) {
			return nil
		}

		relPath, err := filepath.Rel(absDir, path)
		if err != nil {
			relPath = path
		}
		pdfs = append(pdfs, PDFFile{AbsolutePath: path, RelativePath: relPath})
		s.logger.Trace("Found PDF (%d): %s", len(pdfs), relPath)
		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(pdfs) == 0 {
		return nil, fmt.Errorf("no PDF files found in %s or its subdirectories", dir)
	}

	return pdfs, nil
}

// Collect expands the given paths into PDF files. Directories are scanned,
// files are taken as given whatever their extension, in argument order.
func (s *DirectoryScanner) Collect(ctx context.Context, paths []string) ([]PDFFile, error) {
	var files []PDFFile
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", p, err)
		}

		if !info.IsDir() {
			abs, err := filepath.Abs(p)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
			}
			files = append(files, PDFFile{AbsolutePath: abs, RelativePath: filepath.Base(p)})
			continue
		}

		found, err := s.FindPDFs(ctx, p)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func AbsolutePaths(files []PDFFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.AbsolutePath
	}
	return paths
}
