// Package loki is a client for the Grafana Loki HTTP query API.
//
// A Client issues range queries and label lookups against a configured
// base URL, authenticating with a bearer token. Range query results are
// normalized into either a single chronological log sequence or
// per-stream groups, optionally running each line through a pluggable
// parser (see package parser).
package loki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/architect-io/lokiq/pkg/errors"
	"github.com/architect-io/lokiq/pkg/parser"
)

const (
	// TokenEnvVar is the environment variable consulted when no explicit
	// token is configured.
	TokenEnvVar = "GRAFANA_API_TOKEN"

	// DefaultLimit caps the number of lines returned by a range query
	// when the caller does not set one.
	DefaultLimit = 100

	pathQueryRange  = "loki/api/v1/query_range"
	pathLabels      = "loki/api/v1/labels"
	pathLabelPrefix = "loki/api/v1/label"
)

// Config holds the settings needed to construct a Client.
type Config struct {
	// Address is the base URL of the Loki instance,
	// e.g. "https://logs-prod-008.grafana.net".
	Address string

	// Token is the API token. When empty, the GRAFANA_API_TOKEN
	// environment variable is used instead.
	Token string

	// Env looks up environment variables during token resolution.
	// Defaults to os.Getenv; tests substitute their own.
	Env func(string) string

	// HTTPClient overrides the HTTP client used for requests.
	HTTPClient *http.Client
}

// Client queries a Loki instance. It is immutable after construction and
// safe for concurrent use.
type Client struct {
	base   *url.URL
	token  string
	client *http.Client
}

// New creates a Client from cfg. Token resolution happens here, before
// any network activity: the explicit Token wins, else the environment
// fallback; with neither, construction fails with MISSING_CREDENTIAL.
func New(cfg Config) (*Client, error) {
	if cfg.Address == "" {
		return nil, errors.New(errors.ErrCodeValidation, "loki address must not be empty")
	}
	base, err := url.Parse(cfg.Address)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, fmt.Sprintf("invalid loki address %q", cfg.Address), err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, errors.New(errors.ErrCodeValidation, fmt.Sprintf("loki address %q must be an absolute URL", cfg.Address))
	}

	env := cfg.Env
	if env == nil {
		env = os.Getenv
	}
	token := cfg.Token
	if token == "" {
		token = env(TokenEnvVar)
	}
	if token == "" {
		return nil, errors.MissingCredential(TokenEnvVar)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		base:   base,
		token:  token,
		client: httpClient,
	}, nil
}

// QueryOptions specifies parameters for a range query.
type QueryOptions struct {
	// Limit caps the number of lines returned. Zero or negative means
	// DefaultLimit.
	Limit int

	// Start and End bound the query window. Each may be an absolute
	// nanosecond timestamp (At) or a relative offset (Ago).
	Start TimeValue
	End   TimeValue

	// Since is a duration string passed to the API verbatim,
	// e.g. "1h" for logs from the last hour.
	Since string
}

// LabelOptions specifies the time window for label lookups.
type LabelOptions struct {
	Start TimeValue
	End   TimeValue
	Since string
}

// LabelValueOptions specifies parameters for a label-value lookup.
type LabelValueOptions struct {
	LabelOptions

	// Query restricts results to streams matching this selector,
	// e.g. `{environment="prod"}`.
	Query string
}

// QueryRange runs a range query and returns all matching lines merged
// into a single sequence, oldest first. It is the string-typed form of
// the package-level QueryRange.
func (c *Client) QueryRange(ctx context.Context, logQL string, opts QueryOptions) (*QueryResult[string], error) {
	return QueryRange[string](ctx, c, logQL, parser.Nop{}, opts)
}

// QueryRangeStream runs a range query and returns results grouped by
// stream. It is the string-typed form of the package-level
// QueryRangeStream.
func (c *Client) QueryRangeStream(ctx context.Context, logQL string, opts QueryOptions) (*StreamQueryResult[string], error) {
	return QueryRangeStream[string](ctx, c, logQL, parser.Nop{}, opts)
}

// QueryRange runs a range query, applies p to the merged line sequence
// and returns the parsed records with the covered time range.
func QueryRange[T any](ctx context.Context, c *Client, logQL string, p parser.Parser[T], opts QueryOptions) (*QueryResult[T], error) {
	params, err := rangeParams(logQL, opts)
	if err != nil {
		return nil, err
	}

	var resp queryRangeResponse
	if err := c.get(ctx, params, &resp, pathQueryRange); err != nil {
		return nil, err
	}

	logs, tr := normalizeFlat(resp.Data.Result, p)
	return &QueryResult[T]{Logs: logs, Timerange: tr}, nil
}

// QueryRangeStream runs a range query, applies p independently to each
// stream's lines and returns the per-stream records with the covered
// time range.
func QueryRangeStream[T any](ctx context.Context, c *Client, logQL string, p parser.Parser[T], opts QueryOptions) (*StreamQueryResult[T], error) {
	params, err := rangeParams(logQL, opts)
	if err != nil {
		return nil, err
	}

	var resp queryRangeResponse
	if err := c.get(ctx, params, &resp, pathQueryRange); err != nil {
		return nil, err
	}

	streams, tr := normalizeStreams(resp.Data.Result, p)
	return &StreamQueryResult[T]{Streams: streams, Timerange: tr}, nil
}

// QueryRangeEntries runs a range query and returns the merged lines
// together with their raw timestamps, oldest first. No parser is
// applied.
func (c *Client) QueryRangeEntries(ctx context.Context, logQL string, opts QueryOptions) (*QueryResult[Entry], error) {
	params, err := rangeParams(logQL, opts)
	if err != nil {
		return nil, err
	}

	var resp queryRangeResponse
	if err := c.get(ctx, params, &resp, pathQueryRange); err != nil {
		return nil, err
	}

	return &QueryResult[Entry]{
		Logs:      flattenEntries(resp.Data.Result),
		Timerange: timerangeOf(resp.Data.Result),
	}, nil
}

// QueryRangeStreamEntries runs a range query and returns results grouped
// by stream, with raw timestamps on every entry. No parser is applied.
func (c *Client) QueryRangeStreamEntries(ctx context.Context, logQL string, opts QueryOptions) (*StreamQueryResult[Entry], error) {
	params, err := rangeParams(logQL, opts)
	if err != nil {
		return nil, err
	}

	var resp queryRangeResponse
	if err := c.get(ctx, params, &resp, pathQueryRange); err != nil {
		return nil, err
	}

	return &StreamQueryResult[Entry]{
		Streams:   groupEntries(resp.Data.Result),
		Timerange: timerangeOf(resp.Data.Result),
	}, nil
}

// Labels lists the label names known to Loki in the given time window.
func (c *Client) Labels(ctx context.Context, opts LabelOptions) ([]string, error) {
	params := url.Values{}
	if err := addTimeParams(params, opts.Start, opts.End, opts.Since); err != nil {
		return nil, err
	}

	var resp labelsResponse
	if err := c.get(ctx, params, &resp, pathLabels); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// LabelValues lists the known values for one label, optionally filtered
// by a stream selector.
func (c *Client) LabelValues(ctx context.Context, label string, opts LabelValueOptions) ([]string, error) {
	params := url.Values{}
	if err := addTimeParams(params, opts.Start, opts.End, opts.Since); err != nil {
		return nil, err
	}
	if opts.Query != "" {
		params.Set("query", opts.Query)
	}

	var resp labelsResponse
	if err := c.get(ctx, params, &resp, pathLabelPrefix, label, "values"); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// rangeParams builds the query parameters shared by both range query
// forms.
func rangeParams(logQL string, opts QueryOptions) (url.Values, error) {
	params := url.Values{}
	params.Set("query", logQL)

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	params.Set("limit", strconv.Itoa(limit))

	if err := addTimeParams(params, opts.Start, opts.End, opts.Since); err != nil {
		return nil, err
	}
	return params, nil
}

// addTimeParams resolves start/end against the current clock and appends
// them, plus the verbatim since value, to params.
func addTimeParams(params url.Values, start, end TimeValue, since string) error {
	now := time.Now()

	if !start.IsZero() {
		v, err := start.resolve(now)
		if err != nil {
			return err
		}
		params.Set("start", v)
	}
	if !end.IsZero() {
		v, err := end.resolve(now)
		if err != nil {
			return err
		}
		params.Set("end", v)
	}
	if since != "" {
		params.Set("since", since)
	}
	return nil
}

// get issues one authenticated GET against the joined path segments and
// decodes the JSON response into out.
func (c *Client) get(ctx context.Context, params url.Values, out interface{}, segments ...string) error {
	u := c.base.JoinPath(segments...)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("loki request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return errors.HTTPError(resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.DecodeError(err)
	}
	return nil
}
