package api

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a generic success response.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// TextResponse carries a single block of generated or transcribed text.
type TextResponse struct {
	Text string `json:"text"`
}
