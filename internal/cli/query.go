package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/architect-io/lokiq/pkg/loki"
)

func newQueryCmd() *cobra.Command {
	var (
		limit      int
		start      string
		end        string
		since      string
		byStream   bool
		output     string
		format     string
		noColor    bool
		timestamps bool
	)

	cmd := &cobra.Command{
		Use:   "query <logql>",
		Short: "Run a LogQL range query",
		Long: `Run a LogQL range query and print the matching log lines.

By default all streams are merged into a single sequence ordered by
timestamp. Use --by-stream to keep results grouped per stream, with a
colored label prefix on each line.

Time bounds:
  lokiq query '{app="api"}' --since 1h             # Last hour
  lokiq query '{app="api"}' --start 2h --end 1h    # A one-hour window
  lokiq query '{app="api"}' --start 1700000000000000000

Output:
  lokiq query '{app="api"}' -o json                # Raw JSON
  lokiq query '{app="api"}' --timestamps           # Prefix entry timestamps
  lokiq query '{app="api"}' --format '{{ .Line | upper }}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			if err := validateOutput(output); err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			opts := loki.QueryOptions{
				Limit: limit,
				Start: parseTimeFlag(start),
				End:   parseTimeFlag(end),
				Since: since,
			}

			fmtOpts := formatOptions{
				Template:   format,
				NoColor:    noColor || !isTerminal(os.Stdout),
				Timestamps: timestamps,
			}

			if byStream {
				var (
					groups  []streamGroup
					tr      *loki.Timerange
					payload interface{}
				)
				if timestamps {
					result, err := client.QueryRangeStreamEntries(ctx, args[0], opts)
					if err != nil {
						return err
					}
					groups, tr, payload = entryGroups(result.Streams), result.Timerange, result
				} else {
					result, err := client.QueryRangeStream(ctx, args[0], opts)
					if err != nil {
						return err
					}
					groups, tr, payload = lineGroups(result.Streams), result.Timerange, result
				}
				if output == "json" {
					return json.NewEncoder(os.Stdout).Encode(payload)
				}
				if err := formatStreams(os.Stdout, groups, fmtOpts); err != nil {
					return err
				}
				printTimerange(tr)
				return nil
			}

			var (
				entries []Entry
				tr      *loki.Timerange
				payload interface{}
			)
			if timestamps {
				result, err := client.QueryRangeEntries(ctx, args[0], opts)
				if err != nil {
					return err
				}
				entries, tr, payload = entryList(result.Logs), result.Timerange, result
			} else {
				result, err := client.QueryRange(ctx, args[0], opts)
				if err != nil {
					return err
				}
				entries, tr, payload = lineList(result.Logs), result.Timerange, result
			}
			if output == "json" {
				return json.NewEncoder(os.Stdout).Encode(payload)
			}
			if err := formatLines(os.Stdout, entries, fmtOpts); err != nil {
				return err
			}
			printTimerange(tr)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of lines to return (default 100)")
	cmd.Flags().StringVar(&start, "start", "", "Window start: duration before now (e.g. 2h) or nanosecond timestamp")
	cmd.Flags().StringVar(&end, "end", "", "Window end: duration before now or nanosecond timestamp")
	cmd.Flags().StringVar(&since, "since", "", "Shorthand window, e.g. 1h for the last hour")
	cmd.Flags().BoolVar(&byStream, "by-stream", false, "Keep results grouped per stream")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")
	cmd.Flags().StringVar(&format, "format", "", "Go template applied to each entry (sprig functions available)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&timestamps, "timestamps", false, "Prefix each line with the entry's timestamp")

	return cmd
}

// validateOutput rejects unknown --output values instead of silently
// falling back to text.
func validateOutput(output string) error {
	switch output {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("invalid --output %q (must be text or json)", output)
}

// lineList wraps plain lines as render entries with no timestamp.
func lineList(lines []string) []Entry {
	entries := make([]Entry, len(lines))
	for i, line := range lines {
		entries[i] = Entry{Line: line}
	}
	return entries
}

// entryList converts library entries to render entries.
func entryList(logs []loki.Entry) []Entry {
	entries := make([]Entry, len(logs))
	for i, e := range logs {
		entries[i] = Entry{Timestamp: time.Unix(0, e.Timestamp), Line: e.Line}
	}
	return entries
}

func lineGroups(streams []loki.Stream[string]) []streamGroup {
	groups := make([]streamGroup, len(streams))
	for i, s := range streams {
		groups[i] = streamGroup{Labels: s.Labels, Entries: lineList(s.Values)}
	}
	return groups
}

func entryGroups(streams []loki.Stream[loki.Entry]) []streamGroup {
	groups := make([]streamGroup, len(streams))
	for i, s := range streams {
		groups[i] = streamGroup{Labels: s.Labels, Entries: entryList(s.Values)}
	}
	return groups
}

// parseTimeFlag maps a flag value to the start/end variant: a purely
// numeric value is an absolute nanosecond timestamp, anything else is
// treated as a relative duration and validated by the client.
func parseTimeFlag(s string) loki.TimeValue {
	if s == "" {
		return loki.TimeValue{}
	}
	if nanos, err := strconv.ParseInt(s, 10, 64); err == nil {
		return loki.At(nanos)
	}
	return loki.Ago(s)
}

// printTimerange summarizes the covered window on stderr so it doesn't
// mix with piped output.
func printTimerange(tr *loki.Timerange) {
	if tr == nil {
		fmt.Fprintln(os.Stderr, "No log lines matched the query.")
		return
	}
	fmt.Fprintf(os.Stderr, "Covered %s\n", formatTimerange(tr))
}
