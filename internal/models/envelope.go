package models

// Envelope is the uniform response shape for every endpoint, success or
// error. Errors carry Success=false and an empty Data.
// swagger:model Envelope
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
}
