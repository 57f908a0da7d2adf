package utils

// Response is the envelope every API handler returns: an application status
// code, a human-readable message, and the payload.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"` // always serialized, null when there is no payload
}

func NewResponse(status int, message string, data interface{}) Response {
	return Response{
		Status:  status,
		Message: message,
		Data:    data,
	}
}

// NewSuccessResponse wraps a payload in a 200 envelope.
func NewSuccessResponse(message string, data interface{}) Response {
	return NewResponse(200, message, data)
}

// NewErrorResponse builds an error envelope carrying no payload.
func NewErrorResponse(status int, message string) Response {
	return NewResponse(status, message, nil)
}
