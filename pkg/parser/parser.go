// Package parser defines the pluggable log parsing capability applied to
// raw log lines returned by a query.
//
// A parser receives lines in query order and returns records in output
// order. The two lengths do not have to match: a parser may expand a
// line into several records or drop lines entirely.
package parser

// Parser transforms raw log lines into typed records.
type Parser[T any] interface {
	// ExecuteOnLogs parses the given lines, preserving order.
	ExecuteOnLogs(lines []string) []T
}

// Nop is the default parser. It returns the raw lines unchanged.
type Nop struct{}

// ExecuteOnLogs implements Parser[string].
func (Nop) ExecuteOnLogs(lines []string) []string {
	return lines
}

// Func adapts an ordinary function to the Parser interface.
type Func[T any] func(lines []string) []T

// ExecuteOnLogs implements Parser[T].
func (f Func[T]) ExecuteOnLogs(lines []string) []T {
	return f(lines)
}
