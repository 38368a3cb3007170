package rename

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/invoice-renamer/pkg/logger"
)

// RenameFunc is the primitive used to move a file. os.Rename by default.
type RenameFunc func(oldPath, newPath string) error

type Executor struct {
	analyzer *Analyzer
	rename   RenameFunc
	logger   *logger.Logger
}

type ExecutorOption func(*Executor)

func WithAnalyzer(a *Analyzer) ExecutorOption {
	return func(e *Executor) {
		e.analyzer = a
	}
}

func WithRenameFunc(fn RenameFunc) ExecutorOption {
	return func(e *Executor) {
		e.rename = fn
	}
}

func WithLogger(l *logger.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = l
	}
}

func NewExecutor(options ...ExecutorOption) *Executor {
	e := &Executor{
		analyzer: NewAnalyzer(),
		rename:   os.Rename,
		logger:   logger.Discard(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *Executor) Analyzer() *Analyzer {
	return e.analyzer
}

// Execute runs a default executor.
func Execute(sources, names []string) (*Result, error) {
	return NewExecutor().Execute(sources, names)
}

// Execute renames every source to its desired name inside the source's own
// directory. A length mismatch is returned as an error. Every other failure is
// reported through the Result: missing sources abort the batch before anything
// is renamed, while per-file rename errors are recorded and the remaining files
// are still processed.
func (e *Executor) Execute(sources, names []string) (*Result, error) {
	if len(sources) != len(names) {
		return nil, fmt.Errorf("%w: %d sources, %d names", ErrLengthMismatch, len(sources), len(names))
	}

	result := &Result{
		Total:    len(sources),
		Outcomes: make([]Outcome, len(sources)),
	}
	for i, src := range sources {
		result.Outcomes[i] = Outcome{Index: i, Source: src}
	}

	if !e.validate(sources, result) {
		return result, nil
	}

	staged, conflicts, err := e.analyzer.Resolve(sources, names)
	if err != nil {
		return nil, err
	}
	result.Conflicts = conflicts
	e.logger.Debug("Resolved %d names with %d conflicts", len(staged), len(conflicts))

	for i, src := range sources {
		dst, err := e.move(src, staged[i])
		if err != nil {
			result.Outcomes[i].Err = fmt.Errorf("%w: %w", ErrRenameFailed, err)
			e.logger.Info("Rename failed: %s -> %s: %v", src, staged[i], err)
			continue
		}
		result.Outcomes[i].Destination = dst
		e.logger.Debug("Renamed: %s -> %s", src, dst)
	}

	for _, swap := range result.Swaps() {
		e.finalizeSwap(swap, result)
	}

	result.Success = result.Failed() == 0
	return result, nil
}

func (e *Executor) validate(sources []string, result *Result) bool {
	missing := 0
	seen := make(map[string]int, len(sources))
	for i, src := range sources {
		if prev, dup := seen[src]; dup {
			e.logger.Warn("Source %s listed twice (entries %d and %d)", src, prev, i)
		}
		seen[src] = i

		info, err := os.Stat(src)
		switch {
		case err != nil:
			result.Outcomes[i].Err = fmt.Errorf("%w: %v", ErrNotFound, err)
			missing++
		case !info.Mode().IsRegular():
			result.Outcomes[i].Err = fmt.Errorf("%w: %s is not a regular file", ErrNotFound, src)
			missing++
		}
	}

	if missing == 0 {
		return true
	}

	for i := range result.Outcomes {
		if result.Outcomes[i].Err == nil {
			result.Outcomes[i].Err = ErrAborted
		}
	}
	e.logger.Info("Batch aborted: %d of %d sources missing", missing, len(sources))
	return false
}

// Pass 2 only moves members whose first pass succeeded. A partner that could
// not be staged still holds the final name, and move refuses to overwrite it.
func (e *Executor) finalizeSwap(swap *FileSwap, result *Result) {
	for k, idx := range swap.Indices {
		out := &result.Outcomes[idx]
		if out.Err != nil {
			continue
		}

		staged := out.Destination
		dst, err := e.move(staged, swap.FinalTargets[k])
		if err != nil {
			out.Destination = ""
			out.Err = fmt.Errorf("%w: left at %s: %w", ErrSwapFinalizeFailed, staged, err)
			e.logger.Info("Swap finalize failed: %s -> %s: %v", staged, swap.FinalTargets[k], err)
			continue
		}
		out.Destination = dst
		e.logger.Debug("Swapped: %s -> %s", swap.Files[k], dst)
	}
}

// move renames src to name inside src's directory and returns the new path.
// An existing target is never overwritten unless it is src itself.
func (e *Executor) move(src, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}

	dst := filepath.Join(filepath.Dir(src), name)
	if dst == filepath.Clean(src) {
		return dst, nil
	}

	if existing, err := os.Lstat(dst); err == nil {
		srcInfo, serr := os.Lstat(src)
		if serr != nil || !os.SameFile(srcInfo, existing) {
			return "", fmt.Errorf("%w: %s", ErrTargetExists, dst)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	if err := e.rename(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func checkName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsRune(name, '/'), strings.ContainsRune(name, filepath.Separator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}
