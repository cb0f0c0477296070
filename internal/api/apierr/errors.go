package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/rustdonate/internal/model"
	"github.com/mcoot/rustdonate/internal/services/session"
	"github.com/mcoot/rustdonate/internal/services/steam"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeNoItemSelected        = "NO_ITEM_SELECTED"
	CodeMissingDeliveryTarget = "MISSING_DELIVERY_TARGET"
	CodeItemNotFound          = "ITEM_NOT_FOUND"
	CodeOrderNotFound         = "ORDER_NOT_FOUND"
	CodeAuthFailed            = "AUTH_FAILED"
	CodeLoginSuperseded       = "LOGIN_SUPERSEDED"
	CodeNotAuthenticated      = "NOT_AUTHENTICATED"
	CodeInvalidSteamID        = "INVALID_STEAM_ID"
	CodeSteamUserNotFound     = "STEAM_USER_NOT_FOUND"
	CodeSteamNotConfigured    = "STEAM_NOT_CONFIGURED"
	CodeUpstreamError         = "UPSTREAM_ERROR"
	CodeUnavailable           = "UNAVAILABLE"
	CodeInternalError         = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusCode returns the HTTP status WriteError would use for err
func StatusCode(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	var upstream *steam.UpstreamError
	if errors.As(err, &upstream) {
		return &httpError{http.StatusBadGateway, APIError{CodeUpstreamError, upstream.Error()}}
	}

	switch {
	// Order validation
	case errors.Is(err, model.ErrNoItemSelected):
		return &httpError{http.StatusBadRequest, APIError{CodeNoItemSelected, "Select an item to purchase"}}
	case errors.Is(err, model.ErrMissingDeliveryTarget):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingDeliveryTarget, "Enter your Steam ID"}}

	// Catalog and orders
	case errors.Is(err, model.ErrItemNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeItemNotFound, "Item not found"}}
	case errors.Is(err, model.ErrOrderNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeOrderNotFound, "Order not found"}}
	case errors.Is(err, model.ErrLedgerClosed):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeUnavailable, "Store is shutting down"}}

	// Session errors
	case errors.Is(err, session.ErrEmptyCandidate):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "steam_id is required"}}
	case errors.Is(err, session.ErrLoginSuperseded):
		return &httpError{http.StatusConflict, APIError{CodeLoginSuperseded, "Login was superseded by a newer request"}}
	case errors.Is(err, session.ErrAuthFailed):
		return &httpError{http.StatusUnauthorized, APIError{CodeAuthFailed, "Could not verify Steam profile"}}

	// Steam profile errors
	case errors.Is(err, steam.ErrInvalidSteamID):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSteamID, "Invalid Steam ID format"}}
	case errors.Is(err, steam.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSteamUserNotFound, "Steam user not found"}}
	case errors.Is(err, steam.ErrNotConfigured):
		return &httpError{http.StatusInternalServerError, APIError{CodeSteamNotConfigured, "Steam API key not configured"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewNotAuthenticatedError is returned by endpoints that need a logged in session
func NewNotAuthenticatedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeNotAuthenticated, "Log in with Steam first"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
