package apperrors

import (
	"net/http"
)

/*
Фабрики ошибок внешних сервисов. Сообщение всегда равно тексту исходной
ошибки: клиент получает его как есть в поле "error".
*/

// RemoteUploadFailure - хранилище медиа отклонило загрузку или не ответило.
func RemoteUploadFailure(err error) *AppError {
	return Wrap(err, CodeRemoteUploadFailed, "storage", messageOf(err), http.StatusInternalServerError)
}

// PersistenceFailure - документное хранилище не смогло выполнить запись/чтение.
func PersistenceFailure(err error) *AppError {
	return Wrap(err, CodePersistenceFailed, "database", messageOf(err), http.StatusInternalServerError)
}

// ConnectionFailure - не удалось подключиться к хранилищу при старте.
// Только логируется, в HTTP-ответы не попадает.
func ConnectionFailure(err error) *AppError {
	return Wrap(err, CodeConnectionFailed, "database", messageOf(err), http.StatusInternalServerError)
}

// InvalidForm - тело запроса не удалось разобрать или сохранить во временный каталог.
func InvalidForm(err error) *AppError {
	return Wrap(err, CodeInvalidForm, "request", messageOf(err), http.StatusBadRequest)
}
