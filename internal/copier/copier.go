package copier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kpauljoseph/invoice-renamer/pkg/logger"
	"github.com/kpauljoseph/invoice-renamer/pkg/utils"
)

var (
	ErrSourceMissing = errors.New("source file does not exist")
	ErrVerifyFailed  = errors.New("copy does not match source")
	ErrSameFile      = errors.New("source and destination are the same file")
)

type CopyOutcome struct {
	Source      string
	Destination string
	Err         error
}

type Copier struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *Copier {
	return &Copier{logger: logger}
}

// CopyFiles copies every source into dstDir under its own basename,
// overwriting existing files. Per-file failures are reported in the outcomes;
// the returned error is only set when dstDir cannot be created or ctx is done.
func (c *Copier) CopyFiles(ctx context.Context, sources []string, dstDir string) ([]CopyOutcome, error) {
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	outcomes := make([]CopyOutcome, len(sources))
	for i, src := range sources {
		select {
		case <-ctx.Done():
			return outcomes[:i], ctx.Err()
		default:
		}

		dst := filepath.Join(dstDir, filepath.Base(src))
		outcomes[i] = CopyOutcome{Source: src, Destination: dst}

		if err := copyFile(src, dst); err != nil {
			outcomes[i].Err = err
			c.logger.Info("Copy failed: %s -> %s: %v", src, dst, err)
			continue
		}
		c.logger.Debug("Copied: %s -> %s", src, dst)
	}

	return outcomes, nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrSourceMissing, src)
	}

	if same, err := samePath(src, dst); err == nil && same {
		return fmt.Errorf("%w: %s", ErrSameFile, src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to preserve modification time: %w", err)
	}

	return verify(src, dst)
}

func verify(src, dst string) error {
	srcHash, err := utils.FileHash(src)
	if err != nil {
		return err
	}
	dstHash, err := utils.FileHash(dst)
	if err != nil {
		return err
	}
	if srcHash != dstHash {
		return fmt.Errorf("%w: %s", ErrVerifyFailed, dst)
	}
	return nil
}

func samePath(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(ai, bi), nil
}

// Destinations returns the copied paths of successful outcomes, in order.
func Destinations(outcomes []CopyOutcome) []string {
	var paths []string
	for _, o := range outcomes {
		if o.Err == nil {
			paths = append(paths, o.Destination)
		}
	}
	return paths
}
