package loki

import (
	"testing"

	"github.com/architect-io/lokiq/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFlat_StableSortAcrossStreams(t *testing.T) {
	streams := []rawStream{
		{Stream: map[string]string{"app": "a"}, Values: [][]string{
			{"100", "a-100"},
			{"200", "a-200-first"},
		}},
		{Stream: map[string]string{"app": "b"}, Values: [][]string{
			{"200", "b-200-second"},
			{"300", "b-300"},
		}},
	}

	logs, tr := normalizeFlat(streams, parser.Nop{})

	// Equal timestamps keep their stream order.
	assert.Equal(t, []string{"a-100", "a-200-first", "b-200-second", "b-300"}, logs)
	require.NotNil(t, tr)
	assert.Equal(t, int64(100), tr.Start)
	assert.Equal(t, int64(300), tr.End)
}

func TestNormalizeFlat_Empty(t *testing.T) {
	logs, tr := normalizeFlat(nil, parser.Nop{})

	assert.Empty(t, logs)
	assert.Nil(t, tr)
}

func TestNormalizeStreams_EmptyStreamKept(t *testing.T) {
	streams := []rawStream{
		{Stream: map[string]string{"app": "quiet"}, Values: nil},
		{Stream: map[string]string{"app": "busy"}, Values: [][]string{
			{"500", "only line"},
		}},
	}

	out, tr := normalizeStreams(streams, parser.Nop{})

	require.Len(t, out, 2)
	assert.Empty(t, out[0].Values)
	assert.Equal(t, "quiet", out[0].Labels["app"])
	assert.Equal(t, []string{"only line"}, out[1].Values)

	// The empty stream contributes nothing to the range.
	require.NotNil(t, tr)
	assert.Equal(t, Timerange{Start: 500, End: 500}, *tr)
}

func TestNormalizeStreams_LabelsCopied(t *testing.T) {
	original := map[string]string{"app": "api"}
	streams := []rawStream{{Stream: original, Values: nil}}

	out, _ := normalizeStreams(streams, parser.Nop{})

	out[0].Labels["app"] = "mutated"
	assert.Equal(t, "api", original["app"])
}

func TestNormalizeFlat_FilteringParser(t *testing.T) {
	streams := []rawStream{
		{Values: [][]string{{"1", "keep"}, {"2", "drop"}, {"3", "keep"}}},
	}

	onlyKeep := parser.Func[string](func(lines []string) []string {
		var out []string
		for _, l := range lines {
			if l == "keep" {
				out = append(out, l)
			}
		}
		return out
	})

	logs, tr := normalizeFlat(streams, onlyKeep)

	assert.Equal(t, []string{"keep", "keep"}, logs)
	// The range reflects raw timestamps, not parser output.
	require.NotNil(t, tr)
	assert.Equal(t, Timerange{Start: 1, End: 3}, *tr)
}

func TestParseValuePair_ShortArrays(t *testing.T) {
	assert.Equal(t, Entry{}, parseValuePair(nil))
	assert.Equal(t, Entry{Timestamp: 42}, parseValuePair([]string{"42"}))
	assert.Equal(t, Entry{Timestamp: 42, Line: "x"}, parseValuePair([]string{"42", "x"}))
}

func TestFlattenEntries_StableAcrossStreams(t *testing.T) {
	streams := []rawStream{
		{Values: [][]string{{"100", "a-100"}, {"200", "a-200-first"}}},
		{Values: [][]string{{"200", "b-200-second"}, {"300", "b-300"}}},
	}

	got := flattenEntries(streams)

	assert.Equal(t, []Entry{
		{Timestamp: 100, Line: "a-100"},
		{Timestamp: 200, Line: "a-200-first"},
		{Timestamp: 200, Line: "b-200-second"},
		{Timestamp: 300, Line: "b-300"},
	}, got)
}

func TestGroupEntries_PreservesRawOrder(t *testing.T) {
	streams := []rawStream{
		{Stream: map[string]string{"app": "api"}, Values: [][]string{
			{"300", "newest first"},
			{"100", "oldest last"},
		}},
	}

	got := groupEntries(streams)

	require.Len(t, got, 1)
	assert.Equal(t, "api", got[0].Labels["app"])
	assert.Equal(t, []Entry{
		{Timestamp: 300, Line: "newest first"},
		{Timestamp: 100, Line: "oldest last"},
	}, got[0].Values)
}
