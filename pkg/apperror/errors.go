package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet Business Logic (WLT) ----

func ErrWalletNotFound() *AppError {
	return New("WLT_001", "Wallet not found", http.StatusNotFound)
}

func ErrInvalidAmount() *AppError {
	return New("WLT_002", "Invalid amount", http.StatusBadRequest)
}

func ErrInsufficientBalance() *AppError {
	return New("WLT_003", "Insufficient wallet balance", http.StatusPaymentRequired)
}

func ErrNegativeBalance() *AppError {
	return New("WLT_004", "Balance adjustment would drop below zero", http.StatusUnprocessableEntity)
}

func ErrWalletSuspended() *AppError {
	return New("WLT_005", "Wallet is suspended", http.StatusForbidden)
}

func ErrWalletNotAuthorized() *AppError {
	return New("WLT_006", "Wallet is not authorized for this feature", http.StatusForbidden)
}

func ErrWalletExists() *AppError {
	return New("WLT_007", "Wallet ID already registered", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("WLT_008", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// ErrStoreUnavailable signals that the wallet store cannot be reached.
// Callers must surface this distinctly and never treat it as a zero balance.
func ErrStoreUnavailable(err error) *AppError {
	return Wrap("SYS_001", "Wallet store unavailable", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_002 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_002", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a WLT_002-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("WLT_002", message, http.StatusBadRequest)
}
