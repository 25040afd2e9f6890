package loki

// Loki response shapes, as documented at
// https://grafana.com/docs/loki/latest/reference/loki-http-api/

type queryRangeResponse struct {
	Status string         `json:"status"`
	Data   queryRangeData `json:"data"`
}

type queryRangeData struct {
	ResultType string      `json:"resultType"`
	Result     []rawStream `json:"result"`
}

// rawStream is one stream in a query_range response: a label set plus
// ordered [timestampNanos, line] pairs.
type rawStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

type labelsResponse struct {
	Status string   `json:"status"`
	Data   []string `json:"data"`
}
