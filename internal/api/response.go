// Package api implements the optional REST + websocket adapter over the
// orchestrator Facade (§6, gated by ORCHESTRATOR_ENABLE_API_ADAPTER),
// generalized from the teacher's internal/api package (handler.go,
// response.go, middleware.go, routes.go) and switched from stdlib
// net/http.ServeMux to go-chi/chi/v5 for path-param routing, matching
// cedricziel-mel-agent's router/ws.go idiom.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/queue"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/registry"
)

// ErrorCode is the machine-readable error discriminant returned in every
// non-2xx response body.
type ErrorCode string

const (
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInvalidState  ErrorCode = "INVALID_STATE"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the code and a human-readable message.
type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// DataResponse wraps a single resource.
type DataResponse struct {
	Data any `json:"data"`
}

// ListResponse wraps a collection with its total count.
type ListResponse struct {
	Data  any `json:"data"`
	Total int `json:"total,omitempty"`
}

// JSON writes status and data as a JSON body.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Success writes a 200 with the data wrapped.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, DataResponse{Data: data})
}

// Created writes a 201 with the data wrapped.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, DataResponse{Data: data})
}

// List writes a 200 with a total count alongside the data.
func List(w http.ResponseWriter, data any, total int) {
	JSON(w, http.StatusOK, ListResponse{Data: data, Total: total})
}

// Error writes a status/code/message error body.
func Error(w http.ResponseWriter, status int, code ErrorCode, message string) {
	JSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, ErrCodeConflict, message)
}

func InvalidState(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnprocessableEntity, ErrCodeInvalidState, message)
}

func InternalError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if logger != nil {
		logger.Error("api: internal error", "error", err)
	}
	Error(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}

// HandleDomainError maps a queue/registry error to the matching HTTP
// response, returning true if it wrote one. notFoundMsg is used when err is
// queue.ErrTaskNotFound.
func HandleDomainError(w http.ResponseWriter, logger *slog.Logger, err error, notFoundMsg string) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, queue.ErrTaskNotFound) {
		NotFound(w, notFoundMsg)
		return true
	}
	var noAgent *registry.ErrNoSuitableAgent
	if errors.As(err, &noAgent) {
		InvalidState(w, err.Error())
		return true
	}

	InternalError(w, logger, err)
	return true
}
