package usecase_test

import (
	"context"
	"testing"
	"time"

	"pinstack/internal/boards/domain/model"
	"pinstack/internal/boards/usecase"
	sharederrors "pinstack/internal/shared/errors"
	"pinstack/internal/shared/eventbus"
	"pinstack/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collabFixture struct {
	boards  *fakeBoardRepo
	collabs *fakeCollabRepo
	uc      usecase.CollaboratorUsecase
}

func newCollabFixture(t *testing.T) *collabFixture {
	t.Helper()
	boards := newFakeBoardRepo()
	collabs := newFakeCollabRepo()
	log := logger.NewLogger()
	access := usecase.NewAccessUsecase(boards, collabs, log)
	bus := eventbus.NewEventBus(log)
	return &collabFixture{
		boards:  boards,
		collabs: collabs,
		uc:      usecase.NewCollaboratorUsecase(boards, collabs, access, bus, log),
	}
}

func (f *collabFixture) addBoard(id, ownerID string) {
	_ = f.boards.CreateBoard(context.Background(), &model.Board{
		ID: id, Name: "board " + id, OwnerID: ownerID,
	})
}

func TestInviteCollaborator(t *testing.T) {
	f := newCollabFixture(t)
	f.addBoard("b1", "owner-1")

	collab, err := f.uc.InviteCollaborator(context.Background(), "b1", "owner-1", usecase.InviteRequest{
		Email: "Friend@Example.com",
		Role:  "editor",
	})
	require.NoError(t, err)

	assert.Equal(t, "friend@example.com", collab.Email, "invite email is normalized")
	assert.Equal(t, model.RoleEditor, collab.Role)
	assert.Equal(t, model.StatusPending, collab.Status)
	assert.Empty(t, collab.UserID, "no account linked yet")
}

func TestInviteDefaultsToViewer(t *testing.T) {
	f := newCollabFixture(t)
	f.addBoard("b1", "owner-1")

	collab, err := f.uc.InviteCollaborator(context.Background(), "b1", "owner-1", usecase.InviteRequest{
		Email: "friend@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleViewer, collab.Role)
}

func TestInviteRequiresOwner(t *testing.T) {
	f := newCollabFixture(t)
	f.addBoard("b1", "owner-1")

	_, err := f.uc.InviteCollaborator(context.Background(), "b1", "not-owner", usecase.InviteRequest{
		Email: "friend@example.com",
	})
	assert.ErrorIs(t, err, sharederrors.ErrNotBoardOwner)
}

func TestInviteDuplicateActiveRecordConflicts(t *testing.T) {
	f := newCollabFixture(t)
	f.addBoard("b1", "owner-1")

	_, err := f.uc.InviteCollaborator(context.Background(), "b1", "owner-1", usecase.InviteRequest{
		Email: "friend@example.com",
	})
	require.NoError(t, err)

	_, err = f.uc.InviteCollaborator(context.Background(), "b1", "owner-1", usecase.InviteRequest{
		Email: "friend@example.com",
	})
	assert.ErrorIs(t, err, sharederrors.ErrCollaboratorExists)
}

func TestInviteAgainAfterDecline(t *testing.T) {
	f := newCollabFixture(t)
	f.addBoard("b1", "owner-1")

	collab, err := f.uc.InviteCollaborator(context.Background(), "b1", "owner-1", usecase.InviteRequest{
		Email: "friend@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeclineInvite(context.Background(), "b1", "user-2", "friend@example.com"))

	// A declined record no longer blocks a fresh invite.
	fresh, err := f.uc.InviteCollaborator(context.Background(), "b1", "owner-1", usecase.InviteRequest{
		Email: "friend@example.com",
	})
	require.NoError(t, err)
	assert.NotEqual(t, collab.ID, fresh.ID)
	assert.Equal(t, model.StatusPending, fresh.Status)
}

func TestAcceptInviteLinksAndAccepts(t *testing.T) {
	f := newCollabFixture(t)
	f.addBoard("b1", "owner-1")

	invited, err := f.uc.InviteCollaborator(context.Background(), "b1", "owner-1", usecase.InviteRequest{
		Email: "friend@example.com",
		Role:  "viewer",
	})
	require.NoError(t, err)

	accepted, err := f.uc.AcceptInvite(context.Background(), "b1", "user-7", "friend@example.com")
	require.NoError(t, err)

	assert.Equal(t, invited.ID, accepted.ID)
	assert.Equal(t, model.StatusAccepted, accepted.Status)
	assert.Equal(t, "user-7", accepted.UserID)
	require.NotNil(t, accepted.AcceptedAt)
	assert.WithinDuration(t, time.Now(), *accepted.AcceptedAt, time.Minute)

	stored, err := f.collabs.GetCollaboratorByID(context.Background(), invited.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, stored.Status)
}

func TestAcceptInviteIsIdempotent(t *testing.T) {
	f := newCollabFixture(t)
	f.addBoard("b1", "owner-1")

	_, err := f.uc.InviteCollaborator(context.Background(), "b1", "owner-1", usecase.InviteRequest{
		Email: "friend@example.com",
	})
	require.NoError(t, err)

	first, err := f.uc.AcceptInvite(context.Background(), "b1", "user-7", "friend@example.com")
	require.NoError(t, err)

	second, err := f.uc.AcceptInvite(context.Background(), "b1", "user-7", "friend@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.StatusAccepted, second.Status)
}

func TestAcceptInviteWithoutRecord(t *testing.T) {
	f := newCollabFixture(t)
	f.addBoard("b1", "owner-1")

	_, err := f.uc.AcceptInvite(context.Background(), "b1", "user-7", "stranger@example.com")
	assert.ErrorIs(t, err, sharederrors.ErrCollaboratorNotFound)
}

func TestRemoveCollaborator(t *testing.T) {
	f := newCollabFixture(t)
	f.addBoard("b1", "owner-1")

	collab, err := f.uc.InviteCollaborator(context.Background(), "b1", "owner-1", usecase.InviteRequest{
		Email: "friend@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.RemoveCollaborator(context.Background(), "b1", collab.ID, "owner-1"))

	_, err = f.collabs.GetCollaboratorByID(context.Background(), collab.ID)
	assert.ErrorIs(t, err, sharederrors.ErrCollaboratorNotFound)
}

func TestRemoveCollaboratorRequiresOwner(t *testing.T) {
	f := newCollabFixture(t)
	f.addBoard("b1", "owner-1")

	collab, err := f.uc.InviteCollaborator(context.Background(), "b1", "owner-1", usecase.InviteRequest{
		Email: "friend@example.com",
	})
	require.NoError(t, err)

	err = f.uc.RemoveCollaborator(context.Background(), "b1", collab.ID, "friend-user")
	assert.ErrorIs(t, err, sharederrors.ErrNotBoardOwner)
}

func TestListCollaboratorsRequiresMembership(t *testing.T) {
	f := newCollabFixture(t)
	f.addBoard("b1", "owner-1")

	_, err := f.uc.InviteCollaborator(context.Background(), "b1", "owner-1", usecase.InviteRequest{
		Email: "friend@example.com",
	})
	require.NoError(t, err)

	list, err := f.uc.ListCollaborators(context.Background(), "b1", "owner-1", "")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.uc.ListCollaborators(context.Background(), "b1", "stranger", "stranger@example.com")
	assert.ErrorIs(t, err, sharederrors.ErrBoardAccessDenied)
}
