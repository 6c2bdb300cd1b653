package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Antony2500/teamhub/internal/models"
	"github.com/Antony2500/teamhub/internal/service"
	"github.com/google/uuid"
)

// capHandler — тестовый slog.Handler, который:
//   - аккумулирует базовые attrs, приходящие через Logger.With(...);
//   - собирает attrs из каждой записи в map[string]any;
//   - не создаёт реальных I/O, чтобы не паниковать в тестах.
type capHandler struct {
	base    []slog.Attr
	lastMsg string
	lastLvl slog.Level
	attrs   map[string]any
	count   int
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any, len(h.base)+8)

	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}

	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})

	h.count++
	h.lastMsg = r.Message
	h.lastLvl = r.Level
	h.attrs = out

	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) > 0 {
		h.base = append(h.base, attrs...)
	}

	return h
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

func makeReq(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = (&net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 12345}).String()
	return req
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errEnvelope struct {
	Error apiError `json:"error"`
}

func TestChain_Order(t *testing.T) {
	order := []string{}

	m1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m1-begin")
			next.ServeHTTP(w, r)
			order = append(order, "m1-end")
		})
	}

	m2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m2-begin")
			next.ServeHTTP(w, r)
			order = append(order, "m2-end")
		})
	}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusTeapot)
	})

	chain := Chain(final, m1, m2)
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/chain"))

	require.Equal(t, []string{"m1-begin", "m2-begin", "handler", "m2-end", "m1-end"}, order)
	require.Equal(t, http.StatusTeapot, rr.Code)
}

func TestRequestID_Generate(t *testing.T) {
	var seenID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Chain(h, RequestID()).ServeHTTP(rr, makeReq("/rid"))

	require.Len(t, seenID, 32)
	require.Equal(t, seenID, rr.Header().Get("X-Request-Id"))
}

func TestRequestID_PreservesIncoming(t *testing.T) {
	var seenID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	})

	req := makeReq("/rid")
	req.Header.Set("X-Request-Id", "client-supplied")

	rr := httptest.NewRecorder()
	Chain(h, RequestID()).ServeHTTP(rr, req)

	require.Equal(t, "client-supplied", seenID)
	require.Equal(t, "client-supplied", rr.Header().Get("X-Request-Id"))
}

func TestLogging_EmitsRecordWithRequestID(t *testing.T) {
	cap := &capHandler{}
	logger := slog.New(cap)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("payload"))
	})

	rr := httptest.NewRecorder()
	Chain(h, RequestID(), Logging(logger, "sid")).ServeHTTP(rr, makeReq("/logged"))

	require.Equal(t, 1, cap.count)
	require.Equal(t, "http", cap.lastMsg)
	require.Equal(t, "/logged", cap.attrs["path"])
	require.EqualValues(t, http.StatusCreated, cap.attrs["status"])
	require.NotEmpty(t, cap.attrs["request_id"])
	// Запрос пришёл без cookie сессии.
	require.Equal(t, false, cap.attrs["session"])
}

func TestLogging_MarksSessionPresence(t *testing.T) {
	cap := &capHandler{}
	logger := slog.New(cap)

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := makeReq("/logged")
	req.AddCookie(&http.Cookie{Name: "sid", Value: "abc"})

	rr := httptest.NewRecorder()
	Chain(h, Logging(logger, "sid")).ServeHTTP(rr, req)

	require.Equal(t, true, cap.attrs["session"])
}

func TestRecover_PanicBecomesInternal(t *testing.T) {
	cap := &capHandler{}
	logger := slog.New(cap)

	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	Chain(h, Recover(), Logging(logger, "sid")).ServeHTTP(rr, makeReq("/panic"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var env errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "internal", env.Error.Code)
	// Детали паники не утекают на клиент.
	require.NotContains(t, rr.Body.String(), "boom")
}

func TestTimeout_SetsDeadline(t *testing.T) {
	var hadDeadline bool

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadDeadline = r.Context().Deadline()
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Chain(h, Timeout(50*time.Millisecond)).ServeHTTP(rr, makeReq("/deadline"))

	require.True(t, hadDeadline)
}

func TestTimeout_ZeroIsNoop(t *testing.T) {
	var hadDeadline bool

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadDeadline = r.Context().Deadline()
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Chain(h, Timeout(0)).ServeHTTP(rr, makeReq("/deadline"))

	require.False(t, hadDeadline)
}

func TestSession_MintsCookieAndContext(t *testing.T) {
	var seenSID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSID = SessionID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Chain(h, Session("sid", time.Hour, false)).ServeHTTP(rr, makeReq("/session"))

	require.Len(t, seenSID, 32)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "sid", cookies[0].Name)
	require.Equal(t, seenSID, cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
}

func TestSession_ReusesExistingCookie(t *testing.T) {
	var seenSID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSID = SessionID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := makeReq("/session")
	req.AddCookie(&http.Cookie{Name: "sid", Value: "existing-session"})

	rr := httptest.NewRecorder()
	Chain(h, Session("sid", time.Hour, false)).ServeHTTP(rr, req)

	require.Equal(t, "existing-session", seenSID)
	// Повторная установка cookie не нужна.
	require.Empty(t, rr.Result().Cookies())
}

// fakeResolver — ручная заглушка UserResolver для тестов гейта.
type fakeResolver struct {
	user  *models.User
	admin *models.User
	err   error
}

func (f *fakeResolver) CurrentUser(context.Context, string) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeResolver) CurrentAdmin(context.Context, string) (*models.User, error) {
	return f.admin, f.err
}

func TestRequireUser_PutsUserInContext(t *testing.T) {
	want := &models.User{ID: uuid.New(), Username: "alice_01"}
	resolver := &fakeResolver{user: want}

	var got *models.User
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Chain(h, RequireUser(resolver)).ServeHTTP(rr, makeReq("/me"))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, want, got)
}

func TestRequireUser_Unauthorized(t *testing.T) {
	resolver := &fakeResolver{err: service.ErrUnauthorized}

	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not be reached")
	})

	rr := httptest.NewRecorder()
	Chain(h, RequireUser(resolver)).ServeHTTP(rr, makeReq("/me"))

	require.Equal(t, http.StatusUnauthorized, rr.Code)

	var env errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "unauthenticated", env.Error.Code)
}

func TestRequireAdmin_InternalErrorStillUnauthorized(t *testing.T) {
	// Любой сбой гейта, включая внутренний, наружу выглядит одинаково.
	resolver := &fakeResolver{err: errors.New("db down")}

	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not be reached")
	})

	rr := httptest.NewRecorder()
	Chain(h, RequireAdmin(resolver)).ServeHTTP(rr, makeReq("/admin"))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAdmin_NonAdminUserRejected(t *testing.T) {
	// Даже если резолвер вернул пользователя без ошибки, гейт сверяет роль.
	resolver := &fakeResolver{admin: &models.User{ID: uuid.New(), Role: models.RoleUser}}

	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not be reached")
	})

	rr := httptest.NewRecorder()
	Chain(h, RequireAdmin(resolver)).ServeHTTP(rr, makeReq("/admin"))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAdmin_OK(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	resolver := &fakeResolver{admin: admin}

	var got *models.User
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Chain(h, RequireAdmin(resolver)).ServeHTTP(rr, makeReq("/admin"))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, admin, got)
}
