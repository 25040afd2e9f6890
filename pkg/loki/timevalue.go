package loki

import (
	"strconv"
	"time"

	"github.com/architect-io/lokiq/pkg/duration"
)

// TimeValue is one endpoint of a query window: either an absolute
// nanosecond epoch timestamp or an offset relative to now. The zero
// value means "unset" and emits no query parameter.
type TimeValue struct {
	raw string
	set bool
}

// At returns a TimeValue for an absolute nanosecond epoch timestamp.
func At(nanos int64) TimeValue {
	return TimeValue{raw: strconv.FormatInt(nanos, 10), set: true}
}

// Ago returns a TimeValue for a relative offset like "15m" or "2h",
// meaning that long before the moment the request is built. The string
// is validated when the request is built, not here.
func Ago(d string) TimeValue {
	return TimeValue{raw: d, set: true}
}

// IsZero reports whether the value is unset.
func (v TimeValue) IsZero() bool {
	return !v.set
}

// resolve renders the value as an epoch-nanosecond string relative to now.
func (v TimeValue) resolve(now time.Time) (string, error) {
	return duration.ToNanos(v.raw, now)
}
