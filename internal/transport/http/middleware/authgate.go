package middleware

import (
	"context"
	"net/http"

	"github.com/Antony2500/teamhub/internal/models"
	"github.com/Antony2500/teamhub/internal/service"
	"github.com/Antony2500/teamhub/internal/transport/http/apierrors"
)

// UserResolver — минимальный контракт сервисного слоя для гейта.
type UserResolver interface {
	CurrentUser(ctx context.Context, sid string) (*models.User, error)
	CurrentAdmin(ctx context.Context, sid string) (*models.User, error)
}

// RequireUser пускает дальше только аутентифицированные запросы:
// достаёт сессию, резолвит пользователя по access-токену из session.Store
// и кладёт его в контекст. Любой отказ — единый 401/unauthenticated.
func RequireUser(resolver UserResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolver.CurrentUser(r.Context(), SessionID(r.Context()))
			if err != nil {
				apierrors.WriteError(w, r, service.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ctxUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin — как RequireUser, но дополнительно требует роль admin.
// Отсутствие роли неотличимо от отсутствия пользователя: тот же 401.
func RequireAdmin(resolver UserResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolver.CurrentAdmin(r.Context(), SessionID(r.Context()))
			if err != nil || !user.IsAdmin() {
				apierrors.WriteError(w, r, service.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ctxUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom возвращает пользователя, положенного в контекст гейтом.
// nil означает, что RequireUser/RequireAdmin не отработали.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(ctxUser).(*models.User)
	return user
}
