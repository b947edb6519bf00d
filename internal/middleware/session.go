package middleware

import (
	"TravelJournal/internal/model"
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SessionCookieName: cookie с токеном сессии.
const SessionCookieName = "session"

type ctxKey string

const (
	accountKey      ctxKey = "account"
	sessionErrorKey ctxKey = "session_error"
)

// AccountResolver находит учётку по токену сессии.
type AccountResolver interface {
	CurrentAccount(ctx context.Context, token string) (*model.User, error)
}

// WithSession кладёт в контекст учётку из cookie сессии. Запрос без сессии
// проходит анонимно; недействительная сессия дополнительно сбрасывает cookie.
// Сбой хранилища при поиске сессии сохраняется в контексте (SessionErrorFromContext).
func WithSession(resolver AccountResolver, secure bool, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.CurrentAccount(r.Context(), c.Value)
			switch {
			case err == nil:
				r = r.WithContext(WithAccount(r.Context(), user))
			case errors.Is(err, model.ErrUnauthenticated):
				ClearSessionCookie(w, secure)
			default:
				// сессия могла быть валидной: cookie не трогаем, ошибку отдаём хендлерам
				logger.Warnw("session lookup failed", "error", err)
				r = r.WithContext(context.WithValue(r.Context(), sessionErrorKey, err))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetSessionCookie отдаёт клиенту токен сессии.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetAccountFromContext возвращает учётку текущего запроса.
func GetAccountFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(accountKey).(*model.User)
	return user, ok && user != nil
}

// WithAccount: контекст с учёткой текущего запроса.
func WithAccount(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, accountKey, user)
}

// SessionErrorFromContext возвращает ошибку хранилища, из-за которой сессию
// не удалось проверить; nil, если проверка прошла или cookie не было.
func SessionErrorFromContext(ctx context.Context) error {
	err, _ := ctx.Value(sessionErrorKey).(error)
	return err
}
