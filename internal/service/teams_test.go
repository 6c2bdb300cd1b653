package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Antony2500/teamhub/internal/models"
	"github.com/Antony2500/teamhub/internal/storage"
)

func TestCreateTeam_OK(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	creator := &models.User{ID: uuid.New(), Username: "alice_01", Surname: "Liddell"}

	st.EXPECT().SaveTeam(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, team *models.Team) error {
			require.Equal(t, "rocket", team.Name)
			require.NotEqual(t, uuid.Nil, team.ID)
			return nil
		})
	st.EXPECT().AddMember(gomock.Any(), gomock.Any(), creator.ID).Return(nil)

	team, err := svc.CreateTeam(context.Background(), creator, "rocket")
	require.NoError(t, err)
	require.Len(t, team.Members, 1)
	require.Equal(t, creator.ID, team.Members[0].ID)
	require.Equal(t, "alice_01", team.Members[0].Username)
}

func TestCreateTeam_InvalidName(t *testing.T) {
	t.Parallel()

	svc, _, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	creator := &models.User{ID: uuid.New()}

	for _, name := range []string{"", "abc", "1team", "has space"} {
		_, err := svc.CreateTeam(context.Background(), creator, name)
		require.ErrorIs(t, err, ErrInvalidTeamName, "name=%q", name)
	}
}

func TestCreateTeam_NameTaken(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	creator := &models.User{ID: uuid.New()}
	st.EXPECT().SaveTeam(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists)

	_, err := svc.CreateTeam(context.Background(), creator, "rocket")
	require.ErrorIs(t, err, ErrTeamNameTaken)
}

func TestGetTeam_OK(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	want := &models.Team{
		ID:   uuid.New(),
		Name: "rocket",
		Members: []models.TeamMember{
			{ID: uuid.New(), Username: "alice_01"},
		},
	}
	st.EXPECT().TeamByID(gomock.Any(), want.ID).Return(want, nil)

	got, err := svc.GetTeam(context.Background(), want.ID)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestGetTeam_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	teamID := uuid.New()
	st.EXPECT().TeamByID(gomock.Any(), teamID).Return(nil, storage.ErrNotFound)

	_, err := svc.GetTeam(context.Background(), teamID)
	require.ErrorIs(t, err, ErrTeamNotFound)
}

func TestListTeams_OK(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	want := []models.Team{{ID: uuid.New(), Name: "rocket"}}
	st.EXPECT().ListTeams(gomock.Any()).Return(want, nil)

	got, err := svc.ListTeams(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestJoinTeam_OK(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New()}
	teamID := uuid.New()
	st.EXPECT().AddMember(gomock.Any(), teamID, user.ID).Return(nil)

	require.NoError(t, svc.JoinTeam(context.Background(), user, teamID))
}

func TestJoinTeam_AlreadyMember(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New()}
	teamID := uuid.New()
	st.EXPECT().AddMember(gomock.Any(), teamID, user.ID).Return(storage.ErrAlreadyExists)

	require.ErrorIs(t, svc.JoinTeam(context.Background(), user, teamID), ErrAlreadyMember)
}

func TestJoinTeam_TeamNotFound(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New()}
	teamID := uuid.New()
	st.EXPECT().AddMember(gomock.Any(), teamID, user.ID).Return(storage.ErrNotFound)

	require.ErrorIs(t, svc.JoinTeam(context.Background(), user, teamID), ErrTeamNotFound)
}

func TestLeaveTeam_NotMember(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New()}
	teamID := uuid.New()
	st.EXPECT().RemoveMember(gomock.Any(), teamID, user.ID).Return(storage.ErrNotFound)

	require.ErrorIs(t, svc.LeaveTeam(context.Background(), user, teamID), ErrNotMember)
}

func TestLeaveTeam_OK(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New()}
	teamID := uuid.New()
	st.EXPECT().RemoveMember(gomock.Any(), teamID, user.ID).Return(nil)

	require.NoError(t, svc.LeaveTeam(context.Background(), user, teamID))
}
