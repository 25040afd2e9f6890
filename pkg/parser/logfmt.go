package parser

import (
	"strings"

	"github.com/go-logfmt/logfmt"
)

// Logfmt parses each line as logfmt (key=value pairs) into a field map.
// Lines that contain no valid pairs produce an empty map rather than
// being dropped, so output stays line-aligned with input.
type Logfmt struct{}

// ExecuteOnLogs implements Parser[map[string]string].
func (Logfmt) ExecuteOnLogs(lines []string) []map[string]string {
	records := make([]map[string]string, 0, len(lines))
	for _, line := range lines {
		fields := map[string]string{}
		d := logfmt.NewDecoder(strings.NewReader(line))
		for d.ScanRecord() {
			for d.ScanKeyval() {
				fields[string(d.Key())] = string(d.Value())
			}
		}
		records = append(records, fields)
	}
	return records
}
