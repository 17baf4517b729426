package server

import (
	"github.com/rezonia/ubl/internal/inspect"
	"github.com/rezonia/ubl/internal/validator"
)

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	*validator.Result
	Kind      string `json:"kind"`
	Extension string `json:"extension,omitempty"`
}

// InfoResponse is the response for the info endpoint
type InfoResponse = inspect.Info

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}
