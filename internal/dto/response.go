package dto

import "time"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Ok           bool      `json:"ok"`
	RateLimiting bool      `json:"rateLimiting"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewHealthResponse(rateLimiting bool) HealthResponse {
	return HealthResponse{
		Ok:           true,
		RateLimiting: rateLimiting,
		Timestamp:    time.Now().UTC(),
	}
}
