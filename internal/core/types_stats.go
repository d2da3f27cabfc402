package core

import "time"

// RequestRecord is one predict request as kept in the bounded history.
type RequestRecord struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Pair       string    `json:"pair"`
	TextCount  int       `json:"text_count"`
	Success    bool      `json:"success"`
	DurationMs int64     `json:"duration_ms"`
}

// RequestStats aggregates predict traffic for persistence and the stats
// endpoint.
type RequestStats struct {
	TotalRequests       int64           `json:"total_requests"`
	SuccessfulRequests  int64           `json:"successful_requests"`
	FailedRequests      int64           `json:"failed_requests"`
	TotalResponseTimeMs int64           `json:"total_response_time_ms"`
	RequestHistory      []RequestRecord `json:"request_history"`
}
