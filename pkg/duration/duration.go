// Package duration converts relative duration strings and nanosecond
// timestamps into the epoch-nanosecond form the Loki API expects.
package duration

import (
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/architect-io/lokiq/pkg/errors"
)

var (
	numericRe  = regexp.MustCompile(`^\d+$`)
	durationRe = regexp.MustCompile(`^(\d+)([smhd])$`)
)

// unitNanos maps a duration unit to its length in nanoseconds.
var unitNanos = map[string]int64{
	"s": int64(time.Second),
	"m": int64(time.Minute),
	"h": int64(time.Hour),
	"d": 24 * int64(time.Hour),
}

// ToNanos resolves v to an epoch-nanosecond decimal string relative to now.
//
// A purely numeric value is treated as an epoch-nanosecond timestamp and
// passed through unchanged. A value of the form <number><unit> with unit
// s, m, h or d resolves to now minus that offset. Anything else fails
// with INVALID_DURATION.
func ToNanos(v string, now time.Time) (string, error) {
	if numericRe.MatchString(v) {
		return v, nil
	}

	m := durationRe.FindStringSubmatch(v)
	if m == nil {
		return "", errors.InvalidDuration(v)
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return "", errors.InvalidDuration(v)
	}

	// Reject magnitudes whose nanosecond conversion would overflow.
	unit := unitNanos[m[2]]
	if n > math.MaxInt64/unit {
		return "", errors.InvalidDuration(v)
	}

	ts := now.UnixNano() - n*unit
	return strconv.FormatInt(ts, 10), nil
}
