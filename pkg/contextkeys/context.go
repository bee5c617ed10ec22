package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// RequestIDKey - ключ, по которому в context хранится ID запроса
const RequestIDKey = contextKey("request_id")
