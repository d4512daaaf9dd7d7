package model

// ErrorResponse is the body written by the local provisioning service on failure.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Volumes int    `json:"volumes"`
	Uptime  string `json:"uptime"`
}
