// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, missing data, type mismatches
//   - Data/Resource errors (200-299): Data not found, query failures, unavailable resources
//   - Indicator errors (300-399): Technical indicator calculation errors
//   - Strategy errors (400-499): Strategy construction, configuration, and model training errors
//   - Trading errors (500-599): Trade ledger and trade lifecycle errors
//   - Backtest errors (600-699): Backtester configuration and input errors
//   - Market data errors (700-799): OHLC and spot price fetching and parsing errors
//   - Notification errors (800-899): Notification sink failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeTradeNotFound, "trade %s not found", tradeID)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodePersistenceFailed, "failed to save trades", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeTradeClosed) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface. The prefix carries the category and the code,
// e.g. "[trading 502] trade is closed".
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s %d] %s: %v", e.Code.Category(), e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%s %d] %s", e.Code.Category(), e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientDataError represents an error when there is not enough data
// for a calculation, e.g. an indicator window longer than the bar series.
type InsufficientDataError struct {
	Required int    // Minimum data points required
	Actual   int    // Actual data points available
	Symbol   string // Optional: symbol context
	Message  string // Human-readable message
}

// Code returns the error code shared by all insufficient data errors.
func (e *InsufficientDataError) Code() ErrorCode {
	return ErrCodeInsufficientData
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(required, actual int, symbol, message string) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  message,
	}
}

// NewInsufficientDataErrorf creates a new InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError checks if an error is an InsufficientDataError.
// It uses errors.As to check the error chain.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}

// IsConfigurationError reports whether err carries one of the configuration error codes.
// Configuration errors are not recoverable at runtime and should stop the caller.
func IsConfigurationError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidConfiguration, ErrCodeInvalidVotingMethod, ErrCodeInvalidWeight,
		ErrCodeStrategyConfigError, ErrCodeUnsupportedStrategy, ErrCodeInvalidVersion:
		return true
	default:
		return false
	}
}

// IsTransient reports whether err comes from an outside service that may answer on the
// next attempt: market data sources, spot prices and the notification sink.
func IsTransient(err error) bool {
	if IsInsufficientDataError(err) {
		return false
	}

	switch GetCode(err) {
	case ErrCodeDataSourceUnavailable, ErrCodeMarketDataFetchFailed, ErrCodePriceUnavailable,
		ErrCodeDataNotFound, ErrCodeNotificationFailed:
		return true
	default:
		return false
	}
}
