package usecase_test

import (
	"context"
	"testing"

	"pinstack/internal/boards/domain/client"
	"pinstack/internal/boards/domain/model"
	"pinstack/internal/boards/usecase"
	sharederrors "pinstack/internal/shared/errors"
	"pinstack/internal/shared/eventbus"
	"pinstack/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saveFixture struct {
	boards  *fakeBoardRepo
	saves   *fakeSaveRepo
	pins    *fakePinClient
	boardUC usecase.BoardUsecase
	uc      usecase.SaveUsecase
}

func newSaveFixture(t *testing.T, knownPins ...client.PinSummary) *saveFixture {
	t.Helper()
	boards := newFakeBoardRepo()
	collabs := newFakeCollabRepo()
	boardPins := newFakeBoardPinRepo()
	saves := newFakeSaveRepo()
	pins := newFakePinClient(knownPins...)
	log := logger.NewLogger()
	access := usecase.NewAccessUsecase(boards, collabs, log)
	bus := eventbus.NewEventBus(log)
	boardUC := usecase.NewBoardUsecase(boards, collabs, boardPins, access, pins, log)
	return &saveFixture{
		boards:  boards,
		saves:   saves,
		pins:    pins,
		boardUC: boardUC,
		uc:      usecase.NewSaveUsecase(boards, saves, boardUC, pins, bus, log),
	}
}

func TestSavePinCreatesImplicitSavedBoard(t *testing.T) {
	f := newSaveFixture(t, client.PinSummary{ID: "p1"})

	save, err := f.uc.SavePin(context.Background(), "user-1", "u1@example.com", "p1", "")
	require.NoError(t, err)

	board, err := f.boards.GetBoardByOwnerAndName(context.Background(), "user-1", model.SavedBoardName)
	require.NoError(t, err, "implicit board is created on first save")
	assert.False(t, board.IsPublic)
	assert.Equal(t, board.ID, save.BoardID)

	// A second save of another pin reuses the same board.
	f.pins.existing["p2"] = client.PinSummary{ID: "p2"}
	second, err := f.uc.SavePin(context.Background(), "user-1", "u1@example.com", "p2", "")
	require.NoError(t, err)
	assert.Equal(t, board.ID, second.BoardID)
}

func TestSavePinDuplicateConflicts(t *testing.T) {
	f := newSaveFixture(t, client.PinSummary{ID: "p1"})

	_, err := f.uc.SavePin(context.Background(), "user-1", "", "p1", "")
	require.NoError(t, err)

	_, err = f.uc.SavePin(context.Background(), "user-1", "", "p1", "")
	assert.ErrorIs(t, err, sharederrors.ErrPinAlreadySaved)
}

func TestSavePinUnknownPin(t *testing.T) {
	f := newSaveFixture(t)

	_, err := f.uc.SavePin(context.Background(), "user-1", "", "ghost", "")
	assert.ErrorIs(t, err, sharederrors.ErrPinNotFound)
}

func TestSavePinBumpsSaveCount(t *testing.T) {
	f := newSaveFixture(t, client.PinSummary{ID: "p1"})

	_, err := f.uc.SavePin(context.Background(), "user-1", "", "p1", "")
	require.NoError(t, err)

	assert.Equal(t, []int{1}, f.pins.saveDeltas["p1"])
}

func TestUnsavePin(t *testing.T) {
	f := newSaveFixture(t, client.PinSummary{ID: "p1"})

	_, err := f.uc.SavePin(context.Background(), "user-1", "", "p1", "")
	require.NoError(t, err)

	require.NoError(t, f.uc.UnsavePin(context.Background(), "user-1", "p1", ""))

	saves, err := f.uc.ListSaves(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, saves)

	assert.Equal(t, []int{1, -1}, f.pins.saveDeltas["p1"])
}

func TestUnsavePinWithoutSave(t *testing.T) {
	f := newSaveFixture(t, client.PinSummary{ID: "p1"})

	err := f.uc.UnsavePin(context.Background(), "user-1", "p1", "")
	assert.True(t, sharederrors.IsNotFound(err))
}

func TestSaveIntoExplicitBoard(t *testing.T) {
	f := newSaveFixture(t, client.PinSummary{ID: "p1"})

	board, err := f.boardUC.CreateBoard(context.Background(), "user-1", usecase.CreateBoardRequest{Name: "Inspo"})
	require.NoError(t, err)

	save, err := f.uc.SavePin(context.Background(), "user-1", "", "p1", board.ID)
	require.NoError(t, err)
	assert.Equal(t, board.ID, save.BoardID)

	// The pin also lands on the board itself.
	view, err := f.boardUC.GetBoard(context.Background(), board.ID, "user-1", "")
	require.NoError(t, err)
	require.Len(t, view.Pins, 1)
	assert.Equal(t, "p1", view.Pins[0].ID)
}
