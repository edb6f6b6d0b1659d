package authservice

// Actor субъект действия, от имени которого выполняется операция
type Actor struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"` // carrier | operator | admin
}

// permissionResponse ответ сервиса на проверку права
type permissionResponse struct {
	Allowed bool `json:"allowed"`
}

// ErrorResponse модель ошибки от AuthService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
