package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

const (
	// Системные и неизвестные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"

	// Внешние сервисы
	CodeRemoteUploadFailed ErrorCode = "REMOTE_UPLOAD_FAILED"
	CodePersistenceFailed  ErrorCode = "PERSISTENCE_FAILED"
	CodeConnectionFailed   ErrorCode = "CONNECTION_FAILED"

	// Запрос
	CodeInvalidForm      ErrorCode = "INVALID_FORM"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
)
