package dto

import (
	"net/http"
	"testing"

	"github.com/invtrack/backend/internal/domain/backup"
	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	t.Run("snapshot validation codes are client errors", func(t *testing.T) {
		for _, code := range []string{
			backup.ErrCodeMalformedDocument,
			backup.ErrCodeInvalidFormat,
			backup.ErrCodeMissingCategories,
			backup.ErrCodeNoUsers,
			backup.ErrCodeIncompleteRecord,
		} {
			assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(code), code)
		}
	})

	t.Run("snapshot persistence codes are server errors", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(backup.ErrCodeImportWriteFailed))
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(backup.ErrCodeExportReadFailed))
	})

	t.Run("resource codes", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, GetHTTPStatus("NOT_FOUND"))
		assert.Equal(t, http.StatusConflict, GetHTTPStatus("DUPLICATE_USERNAME"))
		assert.Equal(t, http.StatusConflict, GetHTTPStatus("CATEGORY_IN_USE"))
		assert.Equal(t, http.StatusConflict, GetHTTPStatus("DUPLICATE_REQUEST"))
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("INSUFFICIENT_STOCK"))
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("LAST_ADMIN"))
	})

	t.Run("unmapped INVALID codes fall back to bad request", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_PRICE"))
		assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_USERNAME"))
	})

	t.Run("anything unknown is a server error", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_NEW"))
	})
}
