package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/TAS-BookingService/internal/api/handlers"
)

const msgMissingUserID = "требуется заголовок X-User-ID"

// userIDKey ключ контекста для ID аутентифицированного субъекта
type userIDKey struct{}

// Auth проверяет наличие заголовка X-User-ID и кладет ID субъекта в контекст
// Идентификацию выполняет внешний шлюз, сервис доверяет заголовку
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID извлекает ID субъекта из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}
