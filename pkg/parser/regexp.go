package parser

import (
	"regexp"
)

// Regexp extracts named capture groups from each line. Lines that do not
// match the expression are dropped.
type Regexp struct {
	re *regexp.Regexp
}

// NewRegexp compiles expr into a Regexp parser. The expression should use
// named groups, e.g. `(?P<level>\w+) (?P<msg>.*)`.
func NewRegexp(expr string) (*Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Regexp{re: re}, nil
}

// ExecuteOnLogs implements Parser[map[string]string].
func (p *Regexp) ExecuteOnLogs(lines []string) []map[string]string {
	names := p.re.SubexpNames()
	records := make([]map[string]string, 0, len(lines))
	for _, line := range lines {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fields := map[string]string{}
		for i, name := range names {
			if i == 0 || name == "" {
				continue
			}
			fields[name] = m[i]
		}
		records = append(records, fields)
	}
	return records
}
