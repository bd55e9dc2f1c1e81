package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int   `json:"sessions_received"`
	SetsReceived     int   `json:"sets_received"`
	SetsInserted     int64 `json:"sets_inserted"`
	SetsSkipped      int64 `json:"sets_skipped"`
	SetsReplaced     int64 `json:"sets_replaced,omitempty"`

	// Techniques counts exercises per recognized technique modifier.
	Techniques map[string]int `json:"techniques,omitempty"`

	Message string `json:"message,omitempty"`
}
