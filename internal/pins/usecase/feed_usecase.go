package usecase

import (
	"context"
	"strings"

	"pinstack/internal/pins/domain/repository"
	sharederrors "pinstack/internal/shared/errors"
	"pinstack/internal/shared/logger"

	"go.uber.org/zap"
)

const (
	// DefaultFeedLimit is the page size when the client sends none.
	DefaultFeedLimit = 18
	// MaxFeedLimit caps the page size a client may request.
	MaxFeedLimit = 30
)

// FeedRequest carries the raw query parameters of a feed request. All fields
// are optional.
type FeedRequest struct {
	Query    string
	Language string
	// Tags is the raw comma separated tag list.
	Tags   string
	Sort   string
	Cursor int
	Limit  int
}

// FeedPage is one page of feed results. NextCursor is nil when the page is the
// last one.
type FeedPage struct {
	Pins       []*PinView `json:"pins"`
	NextCursor *int       `json:"nextCursor"`
}

// FeedUsecase composes and executes feed queries.
type FeedUsecase interface {
	// GetFeed returns a page of published pins for the viewer. Filters are
	// conjunctive; an empty result is a valid page, not an error.
	GetFeed(ctx context.Context, viewerID string, req FeedRequest) (*FeedPage, error)
}

type feedUsecase struct {
	pins repository.PinRepository
	log  logger.Logger
}

// NewFeedUsecase creates a new feed usecase.
func NewFeedUsecase(pins repository.PinRepository, log logger.Logger) FeedUsecase {
	return &feedUsecase{pins: pins, log: log}
}

// GetFeed normalizes the request, runs the composed query and derives the next
// cursor. A store failure surfaces as ErrFeedUnavailable so callers can tell
// "feed is empty" from "feed is down".
func (uc *feedUsecase) GetFeed(ctx context.Context, viewerID string, req FeedRequest) (*FeedPage, error) {
	q := composeFeedQuery(req)

	pins, err := uc.pins.QueryFeed(ctx, q)
	if err != nil {
		uc.log.Error("feed query failed", zap.Error(err))
		return nil, sharederrors.ErrFeedUnavailable
	}

	views := make([]*PinView, 0, len(pins))
	for _, pin := range pins {
		views = append(views, NewPinView(pin, viewerID))
	}

	page := &FeedPage{Pins: views}

	// A full page suggests more results; a short page is definitive.
	if len(pins) == q.Limit {
		next := q.Offset + q.Limit
		page.NextCursor = &next
	}
	return page, nil
}

// composeFeedQuery normalizes raw parameters into a store query: limits are
// clamped to [1, MaxFeedLimit] with a default, tags are split and trimmed,
// unknown sorts fall back to trending, negative cursors to zero, and a
// language of "all" means no language filter.
func composeFeedQuery(req FeedRequest) repository.FeedQuery {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	offset := req.Cursor
	if offset < 0 {
		offset = 0
	}

	var sort repository.FeedSort
	switch req.Sort {
	case string(repository.SortNewest):
		sort = repository.SortNewest
	case string(repository.SortMostVoted):
		sort = repository.SortMostVoted
	default:
		sort = repository.SortTrending
	}

	var tags []string
	for _, tag := range strings.Split(req.Tags, ",") {
		if t := strings.TrimSpace(tag); t != "" {
			tags = append(tags, t)
		}
	}

	language := strings.TrimSpace(req.Language)
	if strings.EqualFold(language, "all") {
		language = ""
	}

	return repository.FeedQuery{
		Text:     strings.TrimSpace(req.Query),
		Language: language,
		Tags:     tags,
		Sort:     sort,
		Offset:   offset,
		Limit:    limit,
	}
}
