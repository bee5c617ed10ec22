package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	UploadService UploadService
	MediaUploader *MediaUploader
}
