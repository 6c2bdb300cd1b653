package handlers

import (
	"net/http"
	"time"

	"github.com/Antony2500/teamhub/internal/service"
	"github.com/Antony2500/teamhub/internal/transport/http/apierrors"
	"github.com/Antony2500/teamhub/internal/transport/http/middleware"
)

// tokenResponse — ответ auth-эндпойнтов.
// RefreshToken присутствует только в ответе на регистрацию: при логине
// и refresh наружу уходит только access-токен, refresh живёт в сессии.
type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type signupRequest struct {
	Username string `json:"username"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	User   userResponse  `json:"user"`
	Tokens tokenResponse `json:"tokens"`
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var in signupRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	pair, user, err := h.Service.Signup(r.Context(), middleware.SessionID(r.Context()), service.SignupInput{
		Username: in.Username,
		Surname:  in.Surname,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{
		User: toUserResponse(user),
		Tokens: tokenResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			TokenType:    "bearer",
			ExpiresAt:    pair.AccessExpiresAt,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	pair, err := h.Service.Login(r.Context(), middleware.SessionID(r.Context()), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	// refresh-токен клиенту не отдаётся: он хранится в серверной сессии.
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   pair.AccessExpiresAt,
	})
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	access, err := h.Service.Refresh(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context(), middleware.SessionID(r.Context())); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me отдаёт текущего пользователя (за гейтом RequireUser).
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserResponse(middleware.UserFrom(r.Context())))
}

// AdminMe — то же, но за гейтом RequireAdmin.
func (h *Handlers) AdminMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserResponse(middleware.UserFrom(r.Context())))
}

func (h *Handlers) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	if err := h.Service.RequestPasswordReset(r.Context(), user); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type passwordResetRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *Handlers) CompletePasswordReset(w http.ResponseWriter, r *http.Request) {
	var in passwordResetRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	user := middleware.UserFrom(r.Context())

	if err := h.Service.CompletePasswordReset(r.Context(), user, in.OldPassword, in.NewPassword); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
