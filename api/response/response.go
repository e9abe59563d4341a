package response

// ErrorResponse is the body of every failed REST call.
type ErrorResponse struct {
	Message string `json:"message"`
}
