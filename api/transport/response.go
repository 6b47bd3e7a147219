package transport

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DeleteResponse acknowledges a delete. Deletes are idempotent, so success
// is reported even when the id did not exist.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string `json:"status"`
}
