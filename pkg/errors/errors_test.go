package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(ErrCodeDecode, "decode failed", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestIs_MatchesCode(t *testing.T) {
	err := MissingCredential("GRAFANA_API_TOKEN")

	if !Is(err, ErrCodeMissingCredential) {
		t.Error("expected code match")
	}
	if Is(err, ErrCodeHTTP) {
		t.Error("unexpected code match")
	}
	if Is(fmt.Errorf("plain"), ErrCodeMissingCredential) {
		t.Error("plain errors must not match")
	}
}

func TestStatusCode(t *testing.T) {
	err := HTTPError(503, "overloaded")

	if got := StatusCode(err); got != 503 {
		t.Errorf("expected 503, got %d", got)
	}
	if got := StatusCode(fmt.Errorf("plain")); got != 0 {
		t.Errorf("expected 0 for non-HTTP error, got %d", got)
	}
}

func TestError_Message(t *testing.T) {
	err := InvalidDuration("2x")

	want := `[INVALID_DURATION] invalid duration "2x": expected <number><unit> (e.g. 15m, 2h, 7d) or a nanosecond timestamp`
	if err.Error() != want {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
