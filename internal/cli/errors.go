// Package cli implements the command-line interface.
package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts and agents.
const (
	// Vault errors
	ErrVaultNotFound     = "VAULT_NOT_FOUND"
	ErrVaultNotSpecified = "VAULT_NOT_SPECIFIED"
	ErrVaultLocked       = "VAULT_LOCKED"
	ErrConfigInvalid     = "CONFIG_INVALID"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Report errors
	ErrReportNotFound = "REPORT_NOT_FOUND"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrDuplicateName   = "DUPLICATE_NAME"

	// General errors
	ErrConfirmationRequired = "CONFIRMATION_REQUIRED"
	ErrCheckFailed          = "CHECK_FAILED"
	ErrInternal             = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnVaultConfig        = "VAULT_CONFIG_INVALID"
	WarnFileUnreadable     = "FILE_UNREADABLE"
	WarnCacheUnavailable   = "CACHE_UNAVAILABLE"
	WarnHistoryUnavailable = "HISTORY_UNAVAILABLE"
)
