package rename

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultTempSuffix is appended to a swap member's target while its partner
// still occupies that name.
const DefaultTempSuffix = ".tmp_rename"

var (
	ErrLengthMismatch     = errors.New("sources and names differ in length")
	ErrNotFound           = errors.New("source file not found")
	ErrAborted            = errors.New("not renamed: batch failed validation")
	ErrRenameFailed       = errors.New("rename failed")
	ErrSwapFinalizeFailed = errors.New("swap finalize failed")
	ErrTargetExists       = errors.New("target already exists")
	ErrInvalidName        = errors.New("invalid target name")
)

// Request is an index-aligned batch of sources and their desired basenames.
type Request struct {
	Sources []string `yaml:"sources" json:"sources"`
	Names   []string `yaml:"names" json:"names"`
}

func (r Request) Len() int {
	return len(r.Sources)
}

type ConflictKind int

const (
	KindNameCollision ConflictKind = iota
	KindFileSwap
)

func (k ConflictKind) String() string {
	switch k {
	case KindNameCollision:
		return "name collision"
	case KindFileSwap:
		return "file swap"
	}
	return fmt.Sprintf("ConflictKind(%d)", int(k))
}

// Conflict is either a *NameCollision or a *FileSwap.
type Conflict interface {
	Kind() ConflictKind
	Describe() string
}

// NameCollision records several sources that asked for the same name.
type NameCollision struct {
	TargetName    string
	Indices       []int
	SourceFiles   []string
	ResolvedNames []string
}

func (c *NameCollision) Kind() ConflictKind { return KindNameCollision }

func (c *NameCollision) Describe() string {
	return fmt.Sprintf("%d files share the name %q, resolved as %s",
		len(c.SourceFiles), c.TargetName, strings.Join(quoteAll(c.ResolvedNames), ", "))
}

// FileSwap records two sources whose desired names are each other's current
// basenames. TemporaryNames hold the files between the two passes.
type FileSwap struct {
	Indices         [2]int
	Files           [2]string
	OriginalTargets [2]string
	TemporaryNames  [2]string
	FinalTargets    [2]string
}

func (s *FileSwap) Kind() ConflictKind { return KindFileSwap }

func (s *FileSwap) Describe() string {
	return fmt.Sprintf("%q and %q swap names, staged via %q and %q, then renamed to %q and %q",
		s.Files[0], s.Files[1], s.TemporaryNames[0], s.TemporaryNames[1],
		s.FinalTargets[0], s.FinalTargets[1])
}

// Outcome is the per-source result. Exactly one exists per request entry.
type Outcome struct {
	Index       int
	Source      string
	Destination string
	Err         error
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

type Result struct {
	Total     int
	Outcomes  []Outcome
	Conflicts []Conflict
	Success   bool
}

func (r *Result) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

func (r *Result) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Swaps returns the FileSwap records in detection order.
func (r *Result) Swaps() []*FileSwap {
	var swaps []*FileSwap
	for _, c := range r.Conflicts {
		if s, ok := c.(*FileSwap); ok {
			swaps = append(swaps, s)
		}
	}
	return swaps
}

// Collisions returns the NameCollision records in detection order.
func (r *Result) Collisions() []*NameCollision {
	var collisions []*NameCollision
	for _, c := range r.Conflicts {
		if nc, ok := c.(*NameCollision); ok {
			collisions = append(collisions, nc)
		}
	}
	return collisions
}

func quoteAll(names []string) []string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return quoted
}
