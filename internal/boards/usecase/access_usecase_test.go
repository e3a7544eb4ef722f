package usecase_test

import (
	"context"
	"testing"
	"time"

	"pinstack/internal/boards/domain/model"
	"pinstack/internal/boards/usecase"
	sharederrors "pinstack/internal/shared/errors"
	"pinstack/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accessFixture struct {
	boards  *fakeBoardRepo
	collabs *fakeCollabRepo
	access  usecase.AccessUsecase
}

func newAccessFixture(t *testing.T) *accessFixture {
	t.Helper()
	boards := newFakeBoardRepo()
	collabs := newFakeCollabRepo()
	return &accessFixture{
		boards:  boards,
		collabs: collabs,
		access:  usecase.NewAccessUsecase(boards, collabs, logger.NewLogger()),
	}
}

func (f *accessFixture) addBoard(id, ownerID string, isPublic bool) {
	_ = f.boards.CreateBoard(context.Background(), &model.Board{
		ID:       id,
		Name:     "board " + id,
		OwnerID:  ownerID,
		IsPublic: isPublic,
	})
}

func (f *accessFixture) addCollaborator(id, boardID, userID, email string, role model.CollaboratorRole, status model.CollaboratorStatus) {
	_ = f.collabs.CreateCollaborator(context.Background(), &model.Collaborator{
		ID:        id,
		BoardID:   boardID,
		UserID:    userID,
		Email:     email,
		Role:      role,
		Status:    status,
		InvitedAt: time.Now(),
	})
}

func TestResolveOwner(t *testing.T) {
	f := newAccessFixture(t)
	f.addBoard("b1", "owner-1", false)

	board, access, err := f.access.Resolve(context.Background(), "b1", "owner-1", "owner@example.com")
	require.NoError(t, err)

	assert.Equal(t, "b1", board.ID)
	assert.Equal(t, model.AccessOwner, access.Level)
	assert.True(t, access.IsOwner)
	assert.True(t, access.CanEdit)
	assert.True(t, access.CanManageCollaborators)
}

func TestResolveAcceptedCollaboratorByUserID(t *testing.T) {
	f := newAccessFixture(t)
	f.addBoard("b1", "owner-1", false)
	f.addCollaborator("c1", "b1", "user-2", "user2@example.com", model.RoleEditor, model.StatusAccepted)

	_, access, err := f.access.Resolve(context.Background(), "b1", "user-2", "user2@example.com")
	require.NoError(t, err)

	assert.Equal(t, model.AccessCollaborator, access.Level)
	assert.True(t, access.IsCollaborator)
	assert.True(t, access.CanEdit, "accepted editor can edit")
	assert.False(t, access.CanManageCollaborators)
}

func TestResolveAcceptedViewerCannotEdit(t *testing.T) {
	f := newAccessFixture(t)
	f.addBoard("b1", "owner-1", false)
	f.addCollaborator("c1", "b1", "user-2", "user2@example.com", model.RoleViewer, model.StatusAccepted)

	_, access, err := f.access.Resolve(context.Background(), "b1", "user-2", "user2@example.com")
	require.NoError(t, err)

	assert.Equal(t, model.AccessCollaborator, access.Level)
	assert.False(t, access.CanEdit)
}

func TestResolveEmailFallbackLinksUserOnce(t *testing.T) {
	f := newAccessFixture(t)
	f.addBoard("b1", "owner-1", false)
	// Invited before the invitee had an account: no userId on the record.
	f.addCollaborator("c1", "b1", "", "invitee@example.com", model.RoleViewer, model.StatusPending)

	// First authenticated visit finds the record by email and patches userId.
	_, access, err := f.access.Resolve(context.Background(), "b1", "user-9", "invitee@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.AccessPending, access.Level)
	require.NotNil(t, access.Collaborator)
	assert.Equal(t, "user-9", access.Collaborator.UserID)
	assert.Equal(t, 1, f.collabs.linkCalls["c1"])

	// Second visit resolves by userId directly; no further link writes.
	_, access, err = f.access.Resolve(context.Background(), "b1", "user-9", "invitee@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.AccessPending, access.Level)
	assert.Equal(t, 1, f.collabs.linkCalls["c1"], "link must run exactly once")
}

func TestResolveEmailFallbackIsCaseInsensitive(t *testing.T) {
	f := newAccessFixture(t)
	f.addBoard("b1", "owner-1", false)
	f.addCollaborator("c1", "b1", "", "invitee@example.com", model.RoleViewer, model.StatusPending)

	_, access, err := f.access.Resolve(context.Background(), "b1", "user-9", "Invitee@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, model.AccessPending, access.Level)
}

func TestResolvePublicBoardAnonymous(t *testing.T) {
	f := newAccessFixture(t)
	f.addBoard("b1", "owner-1", true)

	_, access, err := f.access.Resolve(context.Background(), "b1", "", "")
	require.NoError(t, err)

	assert.Equal(t, model.AccessPublic, access.Level)
	assert.True(t, access.Granted())
	assert.False(t, access.CanEdit)
}

func TestResolvePrivateBoardStranger(t *testing.T) {
	f := newAccessFixture(t)
	f.addBoard("b1", "owner-1", false)

	_, access, err := f.access.Resolve(context.Background(), "b1", "stranger", "stranger@example.com")
	require.NoError(t, err)

	assert.Equal(t, model.AccessNone, access.Level)
	assert.False(t, access.Granted())
}

func TestResolveDeclinedInviteFallsThrough(t *testing.T) {
	f := newAccessFixture(t)
	f.addBoard("b1", "owner-1", true)
	f.addCollaborator("c1", "b1", "user-2", "user2@example.com", model.RoleViewer, model.StatusDeclined)

	// A declined record is inactive; on a public board the user is just a
	// public viewer.
	_, access, err := f.access.Resolve(context.Background(), "b1", "user-2", "user2@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.AccessPublic, access.Level)
	assert.False(t, access.IsCollaborator)
}

func TestResolveMissingBoard(t *testing.T) {
	f := newAccessFixture(t)

	_, _, err := f.access.Resolve(context.Background(), "nope", "user-1", "")
	assert.ErrorIs(t, err, sharederrors.ErrBoardNotFound)
}
