package rename

import (
	"fmt"
	"path/filepath"
	"strings"
)

const DefaultPreviewLimit = 10

const (
	summaryBanner = `
+------------------------------------------------------------------------------+
|                              RENAME SUMMARY                                  |
+------------------------------------------------------------------------------+`

	conflictsBanner = `
+------------------------------------------------------------------------------+
|                                CONFLICTS                                     |
+------------------------------------------------------------------------------+`

	failuresBanner = `
+------------------------------------------------------------------------------+
|                                FAILURES                                      |
+------------------------------------------------------------------------------+`

	renamedBanner = `
+------------------------------------------------------------------------------+
|                                RENAMED                                       |
+------------------------------------------------------------------------------+`
)

type reportOptions struct {
	previewLimit int
}

type ReportOption func(*reportOptions)

// WithPreviewLimit caps the number of successful renames listed. Zero or less
// hides the section.
func WithPreviewLimit(n int) ReportOption {
	return func(o *reportOptions) {
		o.previewLimit = n
	}
}

func FormatReport(result *Result, options ...ReportOption) string {
	opts := reportOptions{previewLimit: DefaultPreviewLimit}
	for _, opt := range options {
		opt(&opts)
	}

	if result == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(strings.TrimPrefix(summaryBanner, "\n"))
	b.WriteString("\n")
	status := "OK"
	if !result.Success {
		status = "FAILED"
	}
	fmt.Fprintf(&b, "- Status: %s\n", status)
	fmt.Fprintf(&b, "- Total files: %d\n", result.Total)
	fmt.Fprintf(&b, "- Renamed: %d\n", result.Succeeded())
	fmt.Fprintf(&b, "- Failed: %d\n", result.Failed())
	fmt.Fprintf(&b, "- Name collisions: %d\n", len(result.Collisions()))
	fmt.Fprintf(&b, "- Swaps: %d\n", len(result.Swaps()))

	if len(result.Conflicts) > 0 {
		b.WriteString(conflictsBanner)
		b.WriteString("\n")
		for _, c := range result.Conflicts {
			writeConflict(&b, c)
		}
	}

	if result.Failed() > 0 {
		b.WriteString(failuresBanner)
		b.WriteString("\n")
		for _, o := range result.Outcomes {
			if o.Succeeded() {
				continue
			}
			fmt.Fprintf(&b, "- [%d] %s: %s\n", o.Index, o.Source, o.Reason())
		}
	}

	if opts.previewLimit > 0 && result.Succeeded() > 0 {
		b.WriteString(renamedBanner)
		b.WriteString("\n")
		shown := 0
		for _, o := range result.Outcomes {
			if !o.Succeeded() {
				continue
			}
			if shown == opts.previewLimit {
				fmt.Fprintf(&b, "  ... and %d more\n", result.Succeeded()-shown)
				break
			}
			fmt.Fprintf(&b, "- %s -> %s\n", filepath.Base(o.Source), filepath.Base(o.Destination))
			shown++
		}
	}

	return b.String()
}

func writeConflict(b *strings.Builder, c Conflict) {
	switch c := c.(type) {
	case *NameCollision:
		fmt.Fprintf(b, "- Name collision on %q (%d files):", c.TargetName, len(c.SourceFiles))
		for i := range c.SourceFiles {
			fmt.Fprintf(b, " %s -> %s", filepath.Base(c.SourceFiles[i]), c.ResolvedNames[i])
			if i < len(c.SourceFiles)-1 {
				b.WriteString(";")
			}
		}
		b.WriteString("\n")
	case *FileSwap:
		fmt.Fprintf(b, "- Swap: %s <-> %s, staged as %s and %s -> %s / %s\n",
			filepath.Base(c.Files[0]), filepath.Base(c.Files[1]),
			c.TemporaryNames[0], c.TemporaryNames[1],
			c.FinalTargets[0], c.FinalTargets[1])
	default:
		fmt.Fprintf(b, "- %s: %s\n", c.Kind(), c.Describe())
	}
}
