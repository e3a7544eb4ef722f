package usecase_test

import (
	"context"
	"strings"
	"sync"

	"pinstack/internal/boards/domain/client"
	"pinstack/internal/boards/domain/model"
	sharederrors "pinstack/internal/shared/errors"
)

// In-memory repository fakes. They mirror the Mongo adapters' error mapping so
// the usecases see the same sentinels either way.

type fakeBoardRepo struct {
	mu     sync.Mutex
	boards map[string]*model.Board
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{boards: make(map[string]*model.Board)}
}

func (r *fakeBoardRepo) CreateBoard(ctx context.Context, board *model.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *board
	r.boards[board.ID] = &cp
	return nil
}

func (r *fakeBoardRepo) GetBoardByID(ctx context.Context, id string) (*model.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	board, ok := r.boards[id]
	if !ok {
		return nil, sharederrors.ErrBoardNotFound
	}
	cp := *board
	return &cp, nil
}

func (r *fakeBoardRepo) GetBoardsByOwner(ctx context.Context, ownerID string) ([]*model.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Board
	for _, b := range r.boards {
		if b.OwnerID == ownerID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBoardRepo) GetBoardByOwnerAndName(ctx context.Context, ownerID, name string) (*model.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.boards {
		if b.OwnerID == ownerID && b.Name == name {
			cp := *b
			return &cp, nil
		}
	}
	return nil, sharederrors.ErrBoardNotFound
}

func (r *fakeBoardRepo) UpdateBoard(ctx context.Context, board *model.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.boards[board.ID]; !ok {
		return sharederrors.ErrBoardNotFound
	}
	cp := *board
	r.boards[board.ID] = &cp
	return nil
}

func (r *fakeBoardRepo) DeleteBoard(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.boards[id]; !ok {
		return sharederrors.ErrBoardNotFound
	}
	delete(r.boards, id)
	return nil
}

type fakeCollabRepo struct {
	mu      sync.Mutex
	records map[string]*model.Collaborator
	// linkCalls counts LinkUserID invocations per record, to observe that the
	// email-to-user migration runs exactly once.
	linkCalls map[string]int
}

func newFakeCollabRepo() *fakeCollabRepo {
	return &fakeCollabRepo{
		records:   make(map[string]*model.Collaborator),
		linkCalls: make(map[string]int),
	}
}

func (r *fakeCollabRepo) CreateCollaborator(ctx context.Context, collab *model.Collaborator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *collab
	r.records[collab.ID] = &cp
	return nil
}

func (r *fakeCollabRepo) GetCollaboratorByID(ctx context.Context, id string) (*model.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, sharederrors.ErrCollaboratorNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeCollabRepo) GetCollaboratorByBoardAndUser(ctx context.Context, boardID, userID string) (*model.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.BoardID == boardID && rec.UserID == userID && rec.IsActive() {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, sharederrors.ErrCollaboratorNotFound
}

func (r *fakeCollabRepo) GetCollaboratorByBoardAndEmail(ctx context.Context, boardID, email string) (*model.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.BoardID == boardID && strings.EqualFold(rec.Email, email) && rec.IsActive() {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, sharederrors.ErrCollaboratorNotFound
}

func (r *fakeCollabRepo) ListCollaborators(ctx context.Context, boardID string) ([]*model.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Collaborator
	for _, rec := range r.records {
		if rec.BoardID == boardID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCollabRepo) ListCollaborationsForUser(ctx context.Context, userID, email string) ([]*model.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Collaborator
	for _, rec := range r.records {
		if (userID != "" && rec.UserID == userID) || (email != "" && strings.EqualFold(rec.Email, email)) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCollabRepo) UpdateCollaborator(ctx context.Context, collab *model.Collaborator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[collab.ID]; !ok {
		return sharederrors.ErrCollaboratorNotFound
	}
	cp := *collab
	r.records[collab.ID] = &cp
	return nil
}

func (r *fakeCollabRepo) LinkUserID(ctx context.Context, collabID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[collabID]
	if !ok {
		return sharederrors.ErrCollaboratorNotFound
	}
	rec.UserID = userID
	r.linkCalls[collabID]++
	return nil
}

func (r *fakeCollabRepo) DeleteCollaborator(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return sharederrors.ErrCollaboratorNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *fakeCollabRepo) DeleteCollaboratorsForBoard(ctx context.Context, boardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rec := range r.records {
		if rec.BoardID == boardID {
			delete(r.records, id)
		}
	}
	return nil
}

type fakeBoardPinRepo struct {
	mu   sync.Mutex
	pins []*model.BoardPin
}

func newFakeBoardPinRepo() *fakeBoardPinRepo {
	return &fakeBoardPinRepo{}
}

func (r *fakeBoardPinRepo) AddPinToBoard(ctx context.Context, bp *model.BoardPin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.pins {
		if existing.BoardID == bp.BoardID && existing.PinID == bp.PinID {
			return sharederrors.ErrPinAlreadyOnBoard
		}
	}
	cp := *bp
	r.pins = append(r.pins, &cp)
	return nil
}

func (r *fakeBoardPinRepo) GetBoardPin(ctx context.Context, boardID, pinID string) (*model.BoardPin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bp := range r.pins {
		if bp.BoardID == boardID && bp.PinID == pinID {
			cp := *bp
			return &cp, nil
		}
	}
	return nil, sharederrors.ErrNotFound
}

func (r *fakeBoardPinRepo) ListBoardPins(ctx context.Context, boardID string) ([]*model.BoardPin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.BoardPin
	for _, bp := range r.pins {
		if bp.BoardID == boardID {
			cp := *bp
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBoardPinRepo) MaxSortOrder(ctx context.Context, boardID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, bp := range r.pins {
		if bp.BoardID == boardID && bp.SortOrder > max {
			max = bp.SortOrder
		}
	}
	return max, nil
}

func (r *fakeBoardPinRepo) RemovePinFromBoard(ctx context.Context, boardID, pinID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, bp := range r.pins {
		if bp.BoardID == boardID && bp.PinID == pinID {
			r.pins = append(r.pins[:i], r.pins[i+1:]...)
			return nil
		}
	}
	return sharederrors.ErrNotFound
}

func (r *fakeBoardPinRepo) RemovePinsForBoard(ctx context.Context, boardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*model.BoardPin
	for _, bp := range r.pins {
		if bp.BoardID != boardID {
			kept = append(kept, bp)
		}
	}
	r.pins = kept
	return nil
}

type fakeSaveRepo struct {
	mu    sync.Mutex
	saves []*model.PinSave
}

func newFakeSaveRepo() *fakeSaveRepo {
	return &fakeSaveRepo{}
}

func (r *fakeSaveRepo) CreateSave(ctx context.Context, save *model.PinSave) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.saves {
		if s.UserID == save.UserID && s.PinID == save.PinID && s.BoardID == save.BoardID {
			return sharederrors.ErrPinAlreadySaved
		}
	}
	cp := *save
	r.saves = append(r.saves, &cp)
	return nil
}

func (r *fakeSaveRepo) GetSave(ctx context.Context, userID, pinID, boardID string) (*model.PinSave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.saves {
		if s.UserID == userID && s.PinID == pinID && s.BoardID == boardID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, sharederrors.ErrNotFound
}

func (r *fakeSaveRepo) ListSavesForUser(ctx context.Context, userID string) ([]*model.PinSave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PinSave
	for _, s := range r.saves {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSaveRepo) DeleteSave(ctx context.Context, userID, pinID, boardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.saves {
		if s.UserID == userID && s.PinID == pinID && s.BoardID == boardID {
			r.saves = append(r.saves[:i], r.saves[i+1:]...)
			return nil
		}
	}
	return sharederrors.ErrNotFound
}

// fakePinClient answers for the pins module. saveDeltas records AdjustSaveCount
// calls per pin.
type fakePinClient struct {
	mu         sync.Mutex
	existing   map[string]client.PinSummary
	saveDeltas map[string][]int
}

func newFakePinClient(pins ...client.PinSummary) *fakePinClient {
	c := &fakePinClient{
		existing:   make(map[string]client.PinSummary),
		saveDeltas: make(map[string][]int),
	}
	for _, p := range pins {
		c.existing[p.ID] = p
	}
	return c
}

func (c *fakePinClient) PinExists(ctx context.Context, pinID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.existing[pinID]
	return ok, nil
}

func (c *fakePinClient) GetPinSummaries(ctx context.Context, pinIDs []string) ([]client.PinSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]client.PinSummary, 0, len(pinIDs))
	for _, id := range pinIDs {
		if p, ok := c.existing[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *fakePinClient) AdjustSaveCount(ctx context.Context, pinID string, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saveDeltas[pinID] = append(c.saveDeltas[pinID], delta)
	return nil
}
