package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Antony2500/teamhub/internal/models"
	"github.com/Antony2500/teamhub/internal/service"
	"github.com/Antony2500/teamhub/internal/transport/http/apierrors"
	"github.com/Antony2500/teamhub/internal/transport/http/middleware"
)

type teamMemberResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Surname  string    `json:"surname"`
}

type teamResponse struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	CreatedAt time.Time            `json:"created_at"`
	Members   []teamMemberResponse `json:"members"`
}

func toTeamResponse(t *models.Team) teamResponse {
	members := make([]teamMemberResponse, 0, len(t.Members))
	for _, m := range t.Members {
		members = append(members, teamMemberResponse{
			ID:       m.ID,
			Username: m.Username,
			Surname:  m.Surname,
		})
	}

	return teamResponse{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		Members:   members,
	}
}

type createTeamRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var in createTeamRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	team, err := h.Service.CreateTeam(r.Context(), middleware.UserFrom(r.Context()), in.Name)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTeamResponse(team))
}

func (h *Handlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.Service.ListTeams(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]teamResponse, 0, len(teams))
	for i := range teams {
		out = append(out, toTeamResponse(&teams[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// teamIDFromURL разбирает {id} маршрута; кривой uuid — это 404, а не 500.
func teamIDFromURL(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, service.ErrTeamNotFound
	}
	return id, nil
}

func (h *Handlers) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := teamIDFromURL(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	team, err := h.Service.GetTeam(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTeamResponse(team))
}

func (h *Handlers) JoinTeam(w http.ResponseWriter, r *http.Request) {
	id, err := teamIDFromURL(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Service.JoinTeam(r.Context(), middleware.UserFrom(r.Context()), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) LeaveTeam(w http.ResponseWriter, r *http.Request) {
	id, err := teamIDFromURL(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Service.LeaveTeam(r.Context(), middleware.UserFrom(r.Context()), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
