package http

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Antony2500/teamhub/internal/config"
	"github.com/Antony2500/teamhub/internal/models"
	"github.com/Antony2500/teamhub/internal/service"
	"github.com/Antony2500/teamhub/internal/session"
	"github.com/Antony2500/teamhub/internal/storage"
	"github.com/Antony2500/teamhub/mocks"
	"golang.org/x/crypto/bcrypt"
)

var (
	routerKeyOnce sync.Once
	routerKey     *rsa.PrivateKey
)

func routerRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	routerKeyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		routerKey = key
	})
	return routerKey
}

// newTestServer собирает полный HTTP-стек поверх мокнутого хранилища и
// реального in-memory хранилища сессий: сквозные проверки cookie-сессий
// проще и честнее на настоящем Store.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client, *mocks.MockStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	st := mocks.NewMockStorage(ctrl)
	key := routerRSAKey(t)

	cfg := config.AuthConfig{
		AccessTokenTTL:  30 * time.Second,
		RefreshTokenTTL: 24 * time.Hour,
		AuthSecretTTL:   30 * time.Minute,
		ResetWindowTTL:  time.Hour,
	}
	svc := service.NewWithKeys(st, session.NewMemoryStore(), cfg, key, &key.PublicKey)

	handler := NewRouter(svc, Options{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:    5 * time.Second,
		CookieName: "sid",
		SessionTTL: time.Hour,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	return srv, client, st
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func bcryptHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestSignup_EndToEnd(t *testing.T) {
	srv, client, st := newTestServer(t)

	st.EXPECT().UserByUsername(gomock.Any(), "alice_01").Return(nil, storage.ErrNotFound)
	st.EXPECT().UserByEmail(gomock.Any(), "alice@example.com").Return(nil, storage.ErrNotFound)
	st.EXPECT().CreateUserWithSecret(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	resp := postJSON(t, client, srv.URL+"/auth/signup", map[string]string{
		"username": "alice_01",
		"surname":  "Liddell",
		"email":    "Alice@Example.com",
		"password": "Abcdef1!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	tokens := body["tokens"].(map[string]any)
	// Регистрация — единственный эндпойнт, который отдаёт refresh-токен.
	require.NotEmpty(t, tokens["access_token"])
	require.NotEmpty(t, tokens["refresh_token"])

	user := body["user"].(map[string]any)
	require.Equal(t, "alice@example.com", user["email"])
	// Хэш пароля наружу не уходит.
	require.NotContains(t, user, "password_hash")
}

func TestSignup_BadJSON(t *testing.T) {
	srv, client, _ := newTestServer(t)

	resp, err := client.Post(srv.URL+"/auth/signup", "application/json", bytes.NewReader([]byte("{broken")))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignup_ProtectedUsername_400(t *testing.T) {
	srv, client, _ := newTestServer(t)

	resp := postJSON(t, client, srv.URL+"/auth/signup", map[string]string{
		"username": "admin",
		"email":    "a@example.com",
		"password": "Abcdef1!",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, "protected_username", body["error"].(map[string]any)["code"])
}

func TestLogin_ReturnsOnlyAccessToken(t *testing.T) {
	srv, client, st := newTestServer(t)

	user := &models.User{
		ID:           uuid.New(),
		Username:     "alice_01",
		Email:        "alice@example.com",
		PasswordHash: bcryptHash(t, "Abcdef1!"),
		Role:         models.RoleUser,
	}
	st.EXPECT().UserByEmail(gomock.Any(), "alice@example.com").Return(user, nil)

	resp := postJSON(t, client, srv.URL+"/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "Abcdef1!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.NotEmpty(t, body["access_token"])
	// refresh-токен при логине клиенту не отдаётся: он остаётся в сессии.
	require.NotContains(t, body, "refresh_token")
}

func TestLogin_WrongPassword_401(t *testing.T) {
	srv, client, st := newTestServer(t)

	user := &models.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: bcryptHash(t, "Abcdef1!"),
	}
	st.EXPECT().UserByEmail(gomock.Any(), "alice@example.com").Return(user, nil)

	resp := postJSON(t, client, srv.URL+"/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, "unauthenticated", body["error"].(map[string]any)["code"])
}

func TestMe_WithoutSession_401(t *testing.T) {
	srv, client, _ := newTestServer(t)

	resp, err := client.Get(srv.URL + "/auth/me")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginThenMe_SessionFlow(t *testing.T) {
	srv, client, st := newTestServer(t)

	user := &models.User{
		ID:           uuid.New(),
		Username:     "alice_01",
		Email:        "alice@example.com",
		PasswordHash: bcryptHash(t, "Abcdef1!"),
		Role:         models.RoleUser,
	}
	st.EXPECT().UserByEmail(gomock.Any(), "alice@example.com").Return(user, nil).Times(2)

	resp := postJSON(t, client, srv.URL+"/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "Abcdef1!",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// cookie jar переносит session id, /auth/me резолвит пользователя.
	meResp, err := client.Get(srv.URL + "/auth/me")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	body := decodeBody(t, meResp)
	require.Equal(t, "alice_01", body["username"])
}

func TestRefresh_AfterLogin(t *testing.T) {
	srv, client, st := newTestServer(t)

	user := &models.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: bcryptHash(t, "Abcdef1!"),
	}
	st.EXPECT().UserByEmail(gomock.Any(), "alice@example.com").Return(user, nil).Times(2)

	resp := postJSON(t, client, srv.URL+"/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "Abcdef1!",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	refreshResp := postJSON(t, client, srv.URL+"/auth/refresh", map[string]string{})
	require.Equal(t, http.StatusOK, refreshResp.StatusCode)

	body := decodeBody(t, refreshResp)
	require.NotEmpty(t, body["access_token"])
}

func TestRefresh_WithoutSession_401(t *testing.T) {
	srv, client, _ := newTestServer(t)

	resp := postJSON(t, client, srv.URL+"/auth/refresh", map[string]string{})
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_KillsSession(t *testing.T) {
	srv, client, st := newTestServer(t)

	user := &models.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: bcryptHash(t, "Abcdef1!"),
	}
	// Один вызов на логин, второй — гейт на самом logout.
	st.EXPECT().UserByEmail(gomock.Any(), "alice@example.com").Return(user, nil).Times(2)

	resp := postJSON(t, client, srv.URL+"/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "Abcdef1!",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	logoutResp := postJSON(t, client, srv.URL+"/auth/logout", map[string]string{})
	logoutResp.Body.Close()
	require.Equal(t, http.StatusNoContent, logoutResp.StatusCode)

	meResp, err := client.Get(srv.URL + "/auth/me")
	require.NoError(t, err)
	meResp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, meResp.StatusCode)
}

func TestLogout_WithoutSession_401(t *testing.T) {
	srv, client, _ := newTestServer(t)

	resp := postJSON(t, client, srv.URL+"/auth/logout", map[string]string{})
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRoute_PlainUser_401(t *testing.T) {
	srv, client, st := newTestServer(t)

	user := &models.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: bcryptHash(t, "Abcdef1!"),
		Role:         models.RoleUser,
	}
	st.EXPECT().UserByEmail(gomock.Any(), "alice@example.com").Return(user, nil)
	// Обычный пользователь: гейт администратора не находит admin-запись.
	st.EXPECT().AdminByEmail(gomock.Any(), "alice@example.com").Return(nil, storage.ErrNotFound)

	resp := postJSON(t, client, srv.URL+"/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "Abcdef1!",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	adminResp, err := client.Get(srv.URL + "/auth/admin/me")
	require.NoError(t, err)
	adminResp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, adminResp.StatusCode)
}

func TestJoinTeam_BadUUID_404(t *testing.T) {
	srv, client, st := newTestServer(t)

	user := &models.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: bcryptHash(t, "Abcdef1!"),
	}
	st.EXPECT().UserByEmail(gomock.Any(), "alice@example.com").Return(user, nil).Times(2)

	resp := postJSON(t, client, srv.URL+"/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "Abcdef1!",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	joinResp := postJSON(t, client, srv.URL+"/teams/not-a-uuid/join", map[string]string{})
	defer joinResp.Body.Close()
	require.Equal(t, http.StatusNotFound, joinResp.StatusCode)
}

func TestCreateTeam_EndToEnd(t *testing.T) {
	srv, client, st := newTestServer(t)

	user := &models.User{
		ID:           uuid.New(),
		Username:     "alice_01",
		Surname:      "Liddell",
		Email:        "alice@example.com",
		PasswordHash: bcryptHash(t, "Abcdef1!"),
	}
	st.EXPECT().UserByEmail(gomock.Any(), "alice@example.com").Return(user, nil).Times(2)
	st.EXPECT().SaveTeam(gomock.Any(), gomock.Any()).Return(nil)
	st.EXPECT().AddMember(gomock.Any(), gomock.Any(), user.ID).Return(nil)

	resp := postJSON(t, client, srv.URL+"/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "Abcdef1!",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	teamResp := postJSON(t, client, srv.URL+"/teams", map[string]string{"name": "rocket"})
	require.Equal(t, http.StatusCreated, teamResp.StatusCode)

	body := decodeBody(t, teamResp)
	require.Equal(t, "rocket", body["name"])
	members := body["members"].([]any)
	require.Len(t, members, 1)
	require.Equal(t, "alice_01", members[0].(map[string]any)["username"])
}

func TestGetTeam_EndToEnd(t *testing.T) {
	srv, client, st := newTestServer(t)

	user := &models.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: bcryptHash(t, "Abcdef1!"),
	}
	team := &models.Team{
		ID:   uuid.New(),
		Name: "rocket",
		Members: []models.TeamMember{
			{ID: user.ID, Username: "alice_01"},
		},
	}
	st.EXPECT().UserByEmail(gomock.Any(), "alice@example.com").Return(user, nil).Times(2)
	st.EXPECT().TeamByID(gomock.Any(), team.ID).Return(team, nil)

	resp := postJSON(t, client, srv.URL+"/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "Abcdef1!",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	teamResp, err := client.Get(srv.URL + "/teams/" + team.ID.String())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, teamResp.StatusCode)

	body := decodeBody(t, teamResp)
	require.Equal(t, "rocket", body["name"])
	require.Equal(t, team.ID.String(), body["id"])
}
