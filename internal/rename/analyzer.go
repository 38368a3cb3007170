package rename

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Analyzer struct {
	tempSuffix string
}

type AnalyzerOption func(*Analyzer)

func WithTempSuffix(suffix string) AnalyzerOption {
	return func(a *Analyzer) {
		if suffix != "" {
			a.tempSuffix = suffix
		}
	}
}

func NewAnalyzer(options ...AnalyzerOption) *Analyzer {
	a := &Analyzer{tempSuffix: DefaultTempSuffix}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *Analyzer) TempSuffix() string {
	return a.tempSuffix
}

// Resolve runs the default analyzer.
func Resolve(sources, names []string) ([]string, []Conflict, error) {
	return NewAnalyzer().Resolve(sources, names)
}

// Resolve returns the name each source should be renamed to in the first pass
// and the conflicts found on the way. Collisions are resolved before swaps are
// looked for, so swap detection sees the de-duplicated names. Neither input
// slice is modified and the filesystem is never consulted.
func (a *Analyzer) Resolve(sources, names []string) ([]string, []Conflict, error) {
	if len(sources) != len(names) {
		return nil, nil, fmt.Errorf("%w: %d sources, %d names", ErrLengthMismatch, len(sources), len(names))
	}

	resolved, collisions := resolveCollisions(sources, names)
	staged, swaps := a.resolveSwaps(sources, names, resolved)

	conflicts := make([]Conflict, 0, len(collisions)+len(swaps))
	for _, c := range collisions {
		conflicts = append(conflicts, c)
	}
	for _, s := range swaps {
		conflicts = append(conflicts, s)
	}

	return staged, conflicts, nil
}

func resolveCollisions(sources, names []string) ([]string, []*NameCollision) {
	resolved := make([]string, len(names))
	copy(resolved, names)

	var order []string
	groups := make(map[string][]int)
	taken := make(map[string]bool, len(names))
	for i, name := range names {
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], i)
		taken[name] = true
	}

	var collisions []*NameCollision
	for _, name := range order {
		indices := groups[name]
		if len(indices) < 2 {
			continue
		}

		c := &NameCollision{
			TargetName:    name,
			Indices:       append([]int(nil), indices...),
			SourceFiles:   make([]string, len(indices)),
			ResolvedNames: make([]string, len(indices)),
		}

		base, ext := SplitExt(name)
		next := 2
		for pos, idx := range indices {
			c.SourceFiles[pos] = sources[idx]
			if pos == 0 {
				c.ResolvedNames[pos] = name
				continue
			}

			if next < pos+1 {
				next = pos + 1
			}
			candidate := fmt.Sprintf("%s_%d%s", base, next, ext)
			for taken[candidate] {
				next++
				candidate = fmt.Sprintf("%s_%d%s", base, next, ext)
			}
			next++

			taken[candidate] = true
			resolved[idx] = candidate
			c.ResolvedNames[pos] = candidate
		}
		collisions = append(collisions, c)
	}

	return resolved, collisions
}

func (a *Analyzer) resolveSwaps(sources, names, resolved []string) ([]string, []*FileSwap) {
	staged := make([]string, len(resolved))
	copy(staged, resolved)

	bases := make([]string, len(sources))
	dirs := make([]string, len(sources))
	for i, src := range sources {
		bases[i] = filepath.Base(src)
		dirs[i] = filepath.Dir(src)
	}

	processed := make([]bool, len(sources))
	var swaps []*FileSwap
	for i := range sources {
		if processed[i] {
			continue
		}
		for j := range sources {
			// Files in different directories never trade places.
			if j == i || processed[j] || dirs[j] != dirs[i] {
				continue
			}
			if bases[j] != resolved[i] || resolved[j] != bases[i] {
				continue
			}

			processed[i], processed[j] = true, true
			s := &FileSwap{
				Indices:         [2]int{i, j},
				Files:           [2]string{sources[i], sources[j]},
				OriginalTargets: [2]string{names[i], names[j]},
				TemporaryNames:  [2]string{resolved[i] + a.tempSuffix, resolved[j] + a.tempSuffix},
				FinalTargets:    [2]string{resolved[i], resolved[j]},
			}
			staged[i], staged[j] = s.TemporaryNames[0], s.TemporaryNames[1]
			swaps = append(swaps, s)
			break
		}
	}

	return staged, swaps
}

// SplitExt splits name at its last dot. A name whose only dot is the leading
// one has no extension.
func SplitExt(name string) (base, ext string) {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return name, ""
	}
	return name[:dot], name[dot:]
}
