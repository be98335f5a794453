package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	appbackup "github.com/invtrack/backend/internal/application/backup"
	"github.com/invtrack/backend/internal/domain/backup"
	"github.com/invtrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client-chosen key that guards against a
// replayed import
const IdempotencyKeyHeader = "Idempotency-Key"

// BackupHandler handles snapshot export and import endpoints
type BackupHandler struct {
	BaseHandler
	importService    *appbackup.ImportService
	exportService    *appbackup.ExportService
	idempotencyStore shared.IdempotencyStore
	idempotencyTTL   time.Duration
	logger           *zap.Logger
}

// NewBackupHandler creates a new BackupHandler. idempotencyStore may be nil
// when replay protection is disabled.
func NewBackupHandler(
	importService *appbackup.ImportService,
	exportService *appbackup.ExportService,
	idempotencyStore shared.IdempotencyStore,
	idempotencyTTL time.Duration,
	logger *zap.Logger,
) *BackupHandler {
	return &BackupHandler{
		importService:    importService,
		exportService:    exportService,
		idempotencyStore: idempotencyStore,
		idempotencyTTL:   idempotencyTTL,
		logger:           logger,
	}
}

// RegisterRoutes registers backup routes
func (h *BackupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	backupGroup := rg.Group("/backup")
	{
		backupGroup.GET("/export", h.Export)
		backupGroup.POST("/import", h.Import)
	}
}

// Export assembles and returns the full snapshot document. The document
// sits under the envelope's data key, which the import path unwraps, so an
// export response body can be posted back to the import endpoint as is.
func (h *BackupHandler) Export(c *gin.Context) {
	doc, err := h.exportService.Export(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Import validates a snapshot document and rebuilds the store from it. The
// operation is destructive; an Idempotency-Key header protects retried
// requests from replaying the restore.
func (h *BackupHandler) Import(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	if key := c.GetHeader(IdempotencyKeyHeader); key != "" && h.idempotencyStore != nil {
		fresh, err := h.idempotencyStore.MarkProcessed(c.Request.Context(), key, h.idempotencyTTL)
		if err != nil {
			h.logger.Warn("idempotency check failed, proceeding without it", zap.Error(err))
		} else if !fresh {
			h.Error(c, 409, "DUPLICATE_REQUEST", "An import with this idempotency key was already accepted")
			return
		}
	}

	snapshot, err := backup.Decode(raw)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	summary, err := h.importService.Import(c.Request.Context(), snapshot)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
