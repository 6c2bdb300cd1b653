package middleware

import (
	"context"
	"net/http"
	"time"
)

// ctxKey — неэкспортируемый тип для ключей контекста пакета.
type ctxKey int

const (
	ctxSessionID ctxKey = iota
	ctxUser
)

// Session гарантирует наличие серверной сессии у запроса:
//  1. читает cookie с идентификатором сессии, если она есть;
//  2. иначе минтит новый криптостойкий id и выставляет cookie
//     (HttpOnly, SameSite=Lax; Secure — по конфигурации);
//  3. кладёт id в контекст — его читают хендлеры и AuthGate.
//
// Сами токены в cookie не попадают: cookie несёт только opaque id,
// токены живут на сервере в session.Store.
func Session(cookieName string, ttl time.Duration, secure bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
				sid = c.Value
			}

			if sid == "" {
				sid = genID()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(ttl / time.Second),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), ctxSessionID, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID возвращает идентификатор сессии из контекста запроса.
// Пустая строка означает, что Session-мидлвар не был подключён.
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(ctxSessionID).(string)
	return sid
}
