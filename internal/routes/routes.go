package routes

import (
	"mediahub_backend/internal/handlers"
	"mediahub_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует HTTP маршруты. Других маршрутов нет:
// всё остальное получает стандартный 404 от gin.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	root := &ginRouter.RouterGroup

	appHandlers.UploadHandler.RegisterRoutes(root)
	appHandlers.RecordHandler.RegisterRoutes(root)

	logger.Debug("HTTP routes registered", "routes", len(ginRouter.Routes()))
}
