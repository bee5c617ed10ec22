package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"mediahub_backend/internal/logger"
	"mediahub_backend/internal/models"
	"mediahub_backend/internal/services"
	"mediahub_backend/internal/services/dto"
	"mediahub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ============================================
// UPLOAD HANDLER
// ============================================

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
	stagingDir    string
	maxMemory     int64
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService, stagingDir string, maxMemory int64) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
		stagingDir:    stagingDir,
		maxMemory:     maxMemory,
	}
}

// ============================================
// ROUTES
// ============================================

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/upload", h.Upload)
}

// ============================================
// HANDLERS
// ============================================

// Upload - POST /upload: загрузка файлов формы и сохранение записи
func (h *UploadHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.Request.ParseMultipartForm(h.maxMemory); err != nil {
			logger.CtxWithError(ctx, "Failed to parse multipart form", err)
			apperrors.HandleError(c, apperrors.InvalidForm(err))
			return
		}
	}

	var form dto.UploadForm
	if !h.BindAndValidate(c, &form) {
		return
	}

	files, err := h.stageFiles(c)
	form.Files = files
	defer discardStaged(c, form.StagedPaths())
	if err != nil {
		logger.CtxWithError(ctx, "Failed to stage uploaded files", err)
		apperrors.HandleError(c, apperrors.InvalidForm(err))
		return
	}

	record, err := h.uploadService.CreateRecord(ctx, &form)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{
		Message: dto.UploadSuccessMessage,
		Data:    record,
	})
}

// stageFiles copies the first file of every known file field into the
// staging directory under a collision-free name. Returned paths are valid
// even when an error is returned.
func (h *UploadHandler) stageFiles(c *gin.Context) (map[string]string, error) {
	files := make(map[string]string)

	mf := c.Request.MultipartForm
	if mf == nil {
		return files, nil
	}

	if err := os.MkdirAll(h.stagingDir, 0o750); err != nil {
		return files, err
	}

	for _, field := range models.FileFields {
		headers := mf.File[field]
		if len(headers) == 0 {
			continue
		}

		fh := headers[0]
		dst := filepath.Join(h.stagingDir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
		// записываем путь заранее, чтобы частично сохраненный файл тоже удалился
		files[field] = dst
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			return files, err
		}
	}

	return files, nil
}

func discardStaged(c *gin.Context, paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.CtxWarn(c.Request.Context(), "failed to remove staged file", "path", p, "error", err.Error())
		}
	}
}
