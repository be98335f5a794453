package dto

import (
	"net/http"
	"strings"

	"github.com/invtrack/backend/internal/domain/backup"
)

// General error codes used by the HTTP layer itself
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeConflict   = "CONFLICT"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes. Backup
// validation codes map to 400 because they describe a rejected client
// document; write and read failures are server-side and map to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	// snapshot validation
	backup.ErrCodeMalformedDocument: http.StatusBadRequest,
	backup.ErrCodeInvalidFormat:     http.StatusBadRequest,
	backup.ErrCodeMissingCategories: http.StatusBadRequest,
	backup.ErrCodeNoUsers:           http.StatusBadRequest,
	backup.ErrCodeIncompleteRecord:  http.StatusBadRequest,

	// snapshot persistence
	backup.ErrCodeImportWriteFailed: http.StatusInternalServerError,
	backup.ErrCodeExportReadFailed:  http.StatusInternalServerError,

	// resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONFLICT":             http.StatusConflict,
	"DUPLICATE_USERNAME":   http.StatusConflict,
	"CATEGORY_IN_USE":      http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DUPLICATE_REQUEST":    http.StatusConflict,

	// business rules
	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,
	"LAST_ADMIN":         http.StatusUnprocessableEntity,
	"INVALID_STATE":      http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unmapped INVALID_* codes are treated as client input errors; anything
// else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
