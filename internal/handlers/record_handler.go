package handlers

import (
	"net/http"

	"mediahub_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type RecordHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewRecordHandler(base *BaseHandler, uploadService services.UploadService) *RecordHandler {
	return &RecordHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

func (h *RecordHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/get-api", h.List)
}

// List - GET /get-api: все записи, [] если пусто
func (h *RecordHandler) List(c *gin.Context) {
	records, err := h.uploadService.ListRecords(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
