package dto

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKMessage wraps a message (and optional data) in a successful envelope.
func OKMessage(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Error wraps a message in a failed envelope.
func Error(message string) Response {
	return Response{Success: false, Message: message}
}
