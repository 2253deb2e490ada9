package tools

import (
	"fmt"
)

// TextResult creates a simple text result.
func TextResult(text string) *Result {
	return &Result{
		Status:  ResultSuccess,
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

// ErrorResult creates an error result.
// Tools don't return Go errors for expected failures; they return this.
func ErrorResult(toolName, message string) *Result {
	return &Result{
		Status:  ResultError,
		Content: []ContentBlock{{Type: "text", Text: message}},
		Details: map[string]any{"tool": toolName, "error": message},
		Error:   message,
	}
}

// ErrorResultf creates an error result with formatted message.
func ErrorResultf(toolName, format string, args ...any) *Result {
	return ErrorResult(toolName, fmt.Sprintf(format, args...))
}

// IsSuccess returns true if the result indicates success.
func (r *Result) IsSuccess() bool {
	return r.Status == ResultSuccess
}

// IsError returns true if the result indicates an error.
func (r *Result) IsError() bool {
	return r.Status == ResultError
}

// Response is the wire shape handed back to callers that expect a flat
// success/output/error record.
type Response struct {
	Success bool    `json:"success"`
	Output  string  `json:"output"`
	Error   *string `json:"error"`
}

// Response flattens the result. Error results never carry output, and
// successful results never carry an error.
func (r *Result) Response() Response {
	if r.IsError() {
		msg := r.Error
		if msg == "" {
			msg = "tool failed"
		}
		return Response{Success: false, Error: &msg}
	}
	return Response{Success: true, Output: r.Text()}
}
