package cli

import (
	"testing"
	"time"

	"github.com/architect-io/lokiq/pkg/loki"
)

func TestValidateOutput(t *testing.T) {
	for _, output := range []string{"text", "json"} {
		if err := validateOutput(output); err != nil {
			t.Errorf("expected %q to be valid: %v", output, err)
		}
	}
	for _, output := range []string{"yaml", "table", ""} {
		if err := validateOutput(output); err == nil {
			t.Errorf("expected %q to be rejected", output)
		}
	}
}

func TestParseTimeFlag(t *testing.T) {
	if !parseTimeFlag("").IsZero() {
		t.Error("expected empty flag to be unset")
	}
	if parseTimeFlag("1700000000000000000").IsZero() {
		t.Error("expected numeric flag to be set")
	}
	if parseTimeFlag("2h").IsZero() {
		t.Error("expected duration flag to be set")
	}
}

func TestEntryList_ConvertsTimestamps(t *testing.T) {
	entries := entryList([]loki.Entry{
		{Timestamp: 1700000000000000000, Line: "line"},
	})

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].Timestamp.Equal(time.Unix(0, 1700000000000000000)) {
		t.Errorf("unexpected timestamp: %v", entries[0].Timestamp)
	}
	if entries[0].Line != "line" {
		t.Errorf("unexpected line: %q", entries[0].Line)
	}
}

func TestLineGroups_KeepsLabels(t *testing.T) {
	groups := lineGroups([]loki.Stream[string]{
		{Labels: map[string]string{"app": "api"}, Values: []string{"a", "b"}},
	})

	if len(groups) != 1 || groups[0].Labels["app"] != "api" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	if len(groups[0].Entries) != 2 || groups[0].Entries[1].Line != "b" {
		t.Errorf("unexpected entries: %+v", groups[0].Entries)
	}
}
