package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"pinstack/internal/pins/domain/model"
	"pinstack/internal/pins/usecase"
	sharederrors "pinstack/internal/shared/errors"
	"pinstack/internal/shared/eventbus"
	"pinstack/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVoteFixture(t *testing.T) (*fakePinRepo, *memoryBroadcaster, usecase.VoteUsecase) {
	t.Helper()
	repo := newFakePinRepo()
	broadcaster := newMemoryBroadcaster()
	log := logger.NewLogger()
	uc := usecase.NewVoteUsecase(repo, broadcaster, eventbus.NewEventBus(log), log)
	return repo, broadcaster, uc
}

func seedVotePin(t *testing.T, repo *fakePinRepo, id string, likedBy ...string) {
	t.Helper()
	require.NoError(t, repo.CreatePin(context.Background(), &model.Pin{
		ID: id, Title: "Pin " + id, Language: "go", UserID: "author-1",
		Status:       model.StatusPublished,
		LikedByUsers: likedBy,
		CreatedAt:    time.Now(),
	}))
}

func TestToggleVoteLikeThenUnlike(t *testing.T) {
	repo, _, uc := newVoteFixture(t)
	seedVotePin(t, repo, "p1")

	state, err := uc.ToggleVote(context.Background(), "p1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count)
	assert.True(t, state.IsLiked)

	state, err = uc.ToggleVote(context.Background(), "p1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, state.Count)
	assert.False(t, state.IsLiked)

	// Toggling twice is an involution: the stored set is back where it started.
	reread, err := uc.GetVotes(context.Background(), "p1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, reread.Count)
	assert.False(t, reread.IsLiked)
}

func TestToggleVoteCountsDistinctUsers(t *testing.T) {
	repo, _, uc := newVoteFixture(t)
	seedVotePin(t, repo, "p1")

	_, err := uc.ToggleVote(context.Background(), "p1", "user-1")
	require.NoError(t, err)
	state, err := uc.ToggleVote(context.Background(), "p1", "user-2")
	require.NoError(t, err)

	assert.Equal(t, 2, state.Count)

	// user-1 unliking does not disturb user-2's vote.
	state, err = uc.ToggleVote(context.Background(), "p1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count)
	assert.False(t, state.IsLiked)

	other, err := uc.GetVotes(context.Background(), "p1", "user-2")
	require.NoError(t, err)
	assert.True(t, other.IsLiked)
}

func TestToggleVoteBroadcastsUpdate(t *testing.T) {
	repo, broadcaster, uc := newVoteFixture(t)
	seedVotePin(t, repo, "p1")

	_, err := uc.ToggleVote(context.Background(), "p1", "user-1")
	require.NoError(t, err)

	payloads := broadcaster.publishedTo(model.VoteChannel("p1"))
	require.Len(t, payloads, 1)

	var update model.VoteUpdate
	require.NoError(t, json.Unmarshal(payloads[0], &update))
	assert.Equal(t, model.VoteUpdateType, update.Type)
	assert.Equal(t, "p1", update.PinID)
	assert.Equal(t, 1, update.Count)
	assert.True(t, update.IsLiked)
	assert.Equal(t, "user-1", update.UserID)
	assert.Equal(t, model.ActionLiked, update.Action)
}

func TestBroadcastIsLikedDescribesActorOnly(t *testing.T) {
	repo, broadcaster, uc := newVoteFixture(t)
	seedVotePin(t, repo, "p1", "user-2")

	// user-1 likes; the broadcast says isLiked=true for user-1. A client
	// rendering for user-3 must key off userId, not copy the flag.
	_, err := uc.ToggleVote(context.Background(), "p1", "user-1")
	require.NoError(t, err)

	payloads := broadcaster.publishedTo(model.VoteChannel("p1"))
	require.Len(t, payloads, 1)

	var update model.VoteUpdate
	require.NoError(t, json.Unmarshal(payloads[0], &update))
	assert.Equal(t, "user-1", update.UserID)
	assert.True(t, update.IsLiked)

	viewer, err := uc.GetVotes(context.Background(), "p1", "user-3")
	require.NoError(t, err)
	assert.Equal(t, update.Count, viewer.Count, "count converges for every viewer")
	assert.False(t, viewer.IsLiked, "bystander's own flag is unaffected")
}

func TestToggleVoteUnknownPin(t *testing.T) {
	_, _, uc := newVoteFixture(t)

	_, err := uc.ToggleVote(context.Background(), "ghost", "user-1")
	assert.ErrorIs(t, err, sharederrors.ErrPinNotFound)
}

func TestGetVotesLegacyCounterFallback(t *testing.T) {
	repo, _, uc := newVoteFixture(t)
	require.NoError(t, repo.CreatePin(context.Background(), &model.Pin{
		ID: "legacy", Title: "Old pin", Language: "go", UserID: "author-1",
		Status:    model.StatusPublished,
		Likes:     7, // document predates the per-user vote set
		CreatedAt: time.Now(),
	}))

	state, err := uc.GetVotes(context.Background(), "legacy", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 7, state.Count)
	assert.False(t, state.IsLiked)
}

func TestGetVotesAnonymous(t *testing.T) {
	repo, _, uc := newVoteFixture(t)
	seedVotePin(t, repo, "p1", "user-1", "user-2")

	state, err := uc.GetVotes(context.Background(), "p1", "")
	require.NoError(t, err)
	assert.Equal(t, 2, state.Count)
	assert.False(t, state.IsLiked)
}
