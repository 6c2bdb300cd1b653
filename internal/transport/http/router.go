package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Antony2500/teamhub/internal/service"
	"github.com/Antony2500/teamhub/internal/transport/http/handlers"
	"github.com/Antony2500/teamhub/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.

	// Серверная сессия: имя cookie, её TTL и флаг Secure.
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger, opts.CookieName), // кладём request-scoped логгер в контекст и логируем
		middleware.Session(opts.CookieName, opts.SessionTTL, opts.CookieSecure), // opaque session id в cookie и контекст
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Зависимости хендлеров.
	h := handlers.New(svc)

	// Регистрация маршрутов.
	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, svc)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, svc)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, svc *service.Service) {
	// auth — публичные.
	r.Post("/auth/signup", h.Signup)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)

	// auth — за гейтом пользователя.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(svc))
		r.Post("/auth/logout", h.Logout)
		r.Get("/auth/me", h.Me)
		r.Post("/auth/password/reset", h.RequestPasswordReset)
		r.Post("/auth/password/confirm", h.CompletePasswordReset)

		// users
		r.Get("/users", h.ListUsers)
		r.Get("/users/me", h.Me)
		r.Patch("/users/me", h.UpdateProfile)
		r.Delete("/users/me", h.DeleteSelf)

		// teams
		r.Post("/teams", h.CreateTeam)
		r.Get("/teams", h.ListTeams)
		r.Get("/teams/{id}", h.GetTeam)
		r.Post("/teams/{id}/join", h.JoinTeam)
		r.Post("/teams/{id}/leave", h.LeaveTeam)
	})

	// admin — за гейтом администратора.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(svc))
		r.Get("/auth/admin/me", h.AdminMe)
		r.Delete("/users/{username}", h.DeleteUser)
	})
}
