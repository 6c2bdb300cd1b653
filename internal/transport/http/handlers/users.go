package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Antony2500/teamhub/internal/service"
	"github.com/Antony2500/teamhub/internal/transport/http/apierrors"
	"github.com/Antony2500/teamhub/internal/transport/http/middleware"
)

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

type updateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in updateProfileRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	user := middleware.UserFrom(r.Context())

	updated, err := h.Service.UpdateProfile(r.Context(), user, service.UpdateProfileInput{
		Username: in.Username,
		Email:    in.Email,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

// DeleteSelf удаляет аккаунт текущего пользователя и гасит его сессию.
func (h *Handlers) DeleteSelf(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	if err := h.Service.DeleteSelf(r.Context(), middleware.SessionID(r.Context()), user); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser — административное удаление по username (за гейтом RequireAdmin).
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := h.Service.DeleteUserByUsername(r.Context(), username); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
