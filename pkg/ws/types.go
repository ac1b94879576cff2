package ws

// ProgressEvent is the wire frame streamed to subscribers while an analysis
// runs. Current never decreases and never exceeds Total.
type ProgressEvent struct {
	AnalysisID string `json:"analysis_id"`
	Current    int    `json:"current"`
	Total      int    `json:"total"`
	Status     string `json:"status"`
}

// Envelope wraps every frame sent over the socket
type Envelope struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content"`
}
