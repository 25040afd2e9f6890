package loki

import (
	"sort"
	"strconv"

	"github.com/architect-io/lokiq/pkg/parser"
)

// Timerange is the inclusive [Start, End] nanosecond-epoch window covered
// by a result set. A nil *Timerange means the result set was empty, which
// is distinct from a zero-width range.
type Timerange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// QueryResult holds the flattened form of a range query: all streams'
// lines merged oldest-first and run through the parser.
type QueryResult[T any] struct {
	Logs      []T        `json:"logs"`
	Timerange *Timerange `json:"timerange"`
}

// Stream is one log stream with its parsed values.
type Stream[T any] struct {
	Labels map[string]string `json:"labels"`
	Values []T               `json:"values"`
}

// StreamQueryResult holds the grouped form of a range query: parsing is
// applied per stream and grouping is preserved.
type StreamQueryResult[T any] struct {
	Streams   []Stream[T] `json:"streams"`
	Timerange *Timerange  `json:"timerange"`
}

// Entry is one raw log line with its nanosecond-epoch timestamp, for
// callers that need timing information alongside the text.
type Entry struct {
	Timestamp int64  `json:"timestamp"`
	Line      string `json:"line"`
}

// flattenEntries merges all streams' entries into one sequence. Loki
// does not guarantee ordering across streams, so entries are stably
// sorted by timestamp.
func flattenEntries(streams []rawStream) []Entry {
	entries := make([]Entry, 0)
	for _, s := range streams {
		for _, v := range s.Values {
			entries = append(entries, parseValuePair(v))
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp < entries[j].Timestamp
	})
	return entries
}

// normalizeFlat merges all streams into one chronological line sequence
// and applies p to it.
func normalizeFlat[T any](streams []rawStream, p parser.Parser[T]) ([]T, *Timerange) {
	entries := flattenEntries(streams)

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Line
	}

	return p.ExecuteOnLogs(lines), timerangeOf(streams)
}

// groupEntries keeps the per-stream grouping, with each stream's entries
// in the order the server returned them.
func groupEntries(streams []rawStream) []Stream[Entry] {
	out := make([]Stream[Entry], 0, len(streams))
	for _, s := range streams {
		entries := make([]Entry, 0, len(s.Values))
		for _, v := range s.Values {
			entries = append(entries, parseValuePair(v))
		}

		labels := make(map[string]string, len(s.Stream))
		for k, v := range s.Stream {
			labels[k] = v
		}

		out = append(out, Stream[Entry]{Labels: labels, Values: entries})
	}
	return out
}

// normalizeStreams applies p to each stream's lines independently,
// preserving the per-stream grouping. A stream with no lines still
// appears in the output, with empty values.
func normalizeStreams[T any](streams []rawStream, p parser.Parser[T]) ([]Stream[T], *Timerange) {
	out := make([]Stream[T], 0, len(streams))
	for _, s := range streams {
		lines := make([]string, 0, len(s.Values))
		for _, v := range s.Values {
			lines = append(lines, parseValuePair(v).Line)
		}

		// Copy labels so callers can't mutate the decoded response
		labels := make(map[string]string, len(s.Stream))
		for k, v := range s.Stream {
			labels[k] = v
		}

		out = append(out, Stream[T]{
			Labels: labels,
			Values: p.ExecuteOnLogs(lines),
		})
	}
	return out, timerangeOf(streams)
}

// timerangeOf finds the earliest and latest raw timestamp across all
// streams. Returns nil when there are no entries at all.
func timerangeOf(streams []rawStream) *Timerange {
	var tr *Timerange
	for _, s := range streams {
		for _, v := range s.Values {
			ts := parseValuePair(v).Timestamp
			if tr == nil {
				tr = &Timerange{Start: ts, End: ts}
				continue
			}
			if ts < tr.Start {
				tr.Start = ts
			}
			if ts > tr.End {
				tr.End = ts
			}
		}
	}
	return tr
}

// parseValuePair converts a Loki [timestamp, line] pair into an Entry,
// tolerating short arrays.
func parseValuePair(v []string) Entry {
	e := Entry{}
	if len(v) >= 1 {
		e.Timestamp, _ = strconv.ParseInt(v[0], 10, 64)
	}
	if len(v) >= 2 {
		e.Line = v[1]
	}
	return e
}
