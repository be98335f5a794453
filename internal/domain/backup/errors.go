package backup

import (
	"fmt"

	"github.com/invtrack/backend/internal/domain/shared"
)

// Backup error codes
const (
	ErrCodeMalformedDocument = "MALFORMED_DOCUMENT"
	ErrCodeInvalidFormat     = "INVALID_FORMAT"
	ErrCodeMissingCategories = "MISSING_CATEGORIES"
	ErrCodeNoUsers           = "NO_USERS"
	ErrCodeIncompleteRecord  = "INCOMPLETE_RECORD"
	ErrCodeImportWriteFailed = "IMPORT_WRITE_FAILED"
	ErrCodeExportReadFailed  = "EXPORT_READ_FAILED"
)

// RecordKind names the record collection an error refers to
type RecordKind string

const (
	KindCategory    RecordKind = "category"
	KindUser        RecordKind = "user"
	KindItem        RecordKind = "item"
	KindTransaction RecordKind = "transaction"

	// KindAll marks failures that precede any per-kind phase, such as the
	// destructive clear
	KindAll RecordKind = "all"
)

// Common backup errors
var (
	// ErrMalformedDocument is returned when the inbound payload is not
	// parseable structured data at all
	ErrMalformedDocument = shared.NewDomainError(ErrCodeMalformedDocument, "Snapshot document is not valid JSON")

	// ErrMissingCategories is returned when the snapshot carries items but
	// no categories to reference
	ErrMissingCategories = shared.NewDomainError(ErrCodeMissingCategories, "Snapshot contains items but no categories")

	// ErrNoUsers is returned when the snapshot carries no users at all
	ErrNoUsers = shared.NewDomainError(ErrCodeNoUsers, "Snapshot must contain at least one user")
)

// NewInvalidFormatError reports a collection that is not a sequence of records
func NewInvalidFormatError(kind RecordKind) *shared.DomainError {
	return shared.NewDomainError(ErrCodeInvalidFormat,
		fmt.Sprintf("Snapshot field %q must be an array of %s records", plural(kind), kind))
}

// IncompleteRecordError reports the first record missing a required field.
// Validation stops at the first failure; no partial results are retained.
type IncompleteRecordError struct {
	Kind  RecordKind
	Index int
	Field string
}

// Error implements the error interface
func (e *IncompleteRecordError) Error() string {
	return fmt.Sprintf("%s record %d is missing required field %q", e.Kind, e.Index, e.Field)
}

// Code returns the stable error code
func (e *IncompleteRecordError) Code() string {
	return ErrCodeIncompleteRecord
}

// WriteError reports a fatal failure during the commit phase. The store may
// hold partial data from earlier phases; AdminRestored records whether the
// admin-user guarantee was successfully re-established before the error was
// surfaced.
type WriteError struct {
	Kind          RecordKind
	Cause         error
	AdminRestored bool
}

// Error implements the error interface
func (e *WriteError) Error() string {
	msg := fmt.Sprintf("import write failed (%s records): %v", e.Kind, e.Cause)
	if e.AdminRestored {
		msg += " (store restored to a safe minimal state)"
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Code returns the stable error code
func (e *WriteError) Code() string {
	return ErrCodeImportWriteFailed
}

// ReadError reports a gateway read failure during export
type ReadError struct {
	Kind  RecordKind
	Cause error
}

// Error implements the error interface
func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s records for export failed: %v", e.Kind, e.Cause)
}

// Unwrap returns the underlying cause
func (e *ReadError) Unwrap() error {
	return e.Cause
}

// Code returns the stable error code
func (e *ReadError) Code() string {
	return ErrCodeExportReadFailed
}

func plural(kind RecordKind) string {
	if kind == KindCategory {
		return "categories"
	}
	return string(kind) + "s"
}
