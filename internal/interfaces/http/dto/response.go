package dto

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response carrying the
// request ID for correlation.
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// ValidationDetail is one rejected field with its human-readable reason.
type ValidationDetail struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ValidationErrorResponse is the 400 body for a rejected settings
// update. The shape is flat so clients can map errors onto form fields.
type ValidationErrorResponse struct {
	Detail []ValidationDetail `json:"detail"`
}

// NewValidationErrorResponse creates a validation error response
func NewValidationErrorResponse(details []ValidationDetail) ValidationErrorResponse {
	if details == nil {
		details = []ValidationDetail{}
	}
	return ValidationErrorResponse{Detail: details}
}
