package httpresponse

// ErrorResponse represents an error response for a http request
type ErrorResponse struct {
	Error string `json:"error"`
	// per-field messages for rejected form input
	Fields map[string]string `json:"fields,omitempty"`
}
