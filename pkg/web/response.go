// Package web defines common components for a web application.
package web

import (
	"github.com/go-playground/validator/v10"
)

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Error wraps a given err into json frinedly struct.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// GetErrorMsg returns the message suffix describing a failed validation tag.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " field is required"
	case "min":
		return " must be at least " + fe.Param()
	case "max":
		return " must be at most " + fe.Param()
	case "len":
		return " must be " + fe.Param() + " characters long"
	case "email":
		return " must be a valid email"
	case "numeric":
		return " must be numeric"
	case "oneof":
		return " must be one of: " + fe.Param()
	case "accountkind":
		return " is not supported"
	}

	return " is invalid"
}
