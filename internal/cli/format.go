package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/term"

	"github.com/architect-io/lokiq/pkg/loki"
)

// ANSI color codes for stream label prefixes.
var colors = []string{
	"\033[36m", // cyan
	"\033[33m", // yellow
	"\033[32m", // green
	"\033[35m", // magenta
	"\033[34m", // blue
	"\033[31m", // red
	"\033[96m", // bright cyan
	"\033[93m", // bright yellow
	"\033[92m", // bright green
	"\033[95m", // bright magenta
}

const colorReset = "\033[0m"

// formatOptions configures how query results are rendered.
type formatOptions struct {
	// Template is an optional Go template applied to each entry. It
	// sees {{.Line}}, {{.Timestamp}} and, in by-stream mode,
	// {{.Labels}}. Sprig functions are available.
	Template string

	// NoColor disables ANSI color codes in the output.
	NoColor bool

	// Timestamps prefixes each line with the entry's timestamp.
	Timestamps bool
}

// Entry is the template context for a single rendered line.
type Entry struct {
	Timestamp time.Time
	Line      string
	Labels    map[string]string
}

// streamGroup is one stream's entries with its label set, ready for
// rendering.
type streamGroup struct {
	Labels  map[string]string
	Entries []Entry
}

// formatLines writes a flattened result, one line per entry.
func formatLines(w io.Writer, entries []Entry, opts formatOptions) error {
	tmpl, err := entryTemplate(opts.Template)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if err := writeEntry(w, tmpl, e, opts); err != nil {
			return err
		}
	}
	return nil
}

// formatStreams writes a grouped result with a color-coded, aligned
// label prefix per stream.
func formatStreams(w io.Writer, groups []streamGroup, opts formatOptions) error {
	tmpl, err := entryTemplate(opts.Template)
	if err != nil {
		return err
	}

	// Find the longest label for alignment.
	labels := make([]string, len(groups))
	maxLen := 0
	for i, g := range groups {
		labels[i] = streamLabel(g.Labels)
		if len(labels[i]) > maxLen {
			maxLen = len(labels[i])
		}
	}

	for i, g := range groups {
		prefix := fmt.Sprintf("%-*s | ", maxLen, labels[i])
		if !opts.NoColor {
			color := colors[i%len(colors)]
			prefix = color + prefix + colorReset
		}
		for _, e := range g.Entries {
			if _, err := io.WriteString(w, prefix); err != nil {
				return err
			}
			e.Labels = g.Labels
			if err := writeEntry(w, tmpl, e, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

// entryTemplate compiles the per-entry template, defaulting to the bare
// line.
func entryTemplate(format string) (*template.Template, error) {
	if format == "" {
		format = "{{.Line}}"
	}
	tmpl, err := template.New("entry").Funcs(sprig.TxtFuncMap()).Parse(format)
	if err != nil {
		return nil, fmt.Errorf("invalid --format template: %w", err)
	}
	return tmpl, nil
}

func writeEntry(w io.Writer, tmpl *template.Template, e Entry, opts formatOptions) error {
	if opts.Timestamps {
		ts := e.Timestamp.Format("2006-01-02T15:04:05.000Z07:00")
		if _, err := io.WriteString(w, ts+"  "); err != nil {
			return err
		}
	}
	if err := tmpl.Execute(w, e); err != nil {
		return fmt.Errorf("failed to render entry: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// streamLabel renders a stream's label set as "k=v" pairs in a stable
// order.
func streamLabel(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+labels[k])
	}
	return strings.Join(pairs, " ")
}

// formatTimerange renders a covered window as local timestamps.
func formatTimerange(tr *loki.Timerange) string {
	start := time.Unix(0, tr.Start)
	end := time.Unix(0, tr.End)
	return fmt.Sprintf("%s to %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
}

// isTerminal reports whether f is attached to a TTY.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
