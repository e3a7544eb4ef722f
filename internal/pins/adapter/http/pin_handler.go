package http

import (
	"strconv"

	"pinstack/internal/pins/usecase"
	sharederrors "pinstack/internal/shared/errors"
	"pinstack/internal/shared/logger"
	"pinstack/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// PinHTTPHandler handles HTTP requests for pins, the feed and votes.
type PinHTTPHandler struct {
	pinUC  usecase.PinUsecase
	feedUC usecase.FeedUsecase
	voteUC usecase.VoteUsecase
	log    logger.Logger
}

// NewPinHTTPHandler creates a new pin HTTP handler.
func NewPinHTTPHandler(
	pinUC usecase.PinUsecase,
	feedUC usecase.FeedUsecase,
	voteUC usecase.VoteUsecase,
	log logger.Logger,
) *PinHTTPHandler {
	return &PinHTTPHandler{
		pinUC:  pinUC,
		feedUC: feedUC,
		voteUC: voteUC,
		log:    log,
	}
}

// RegisterRoutes registers pin routes. Reads run behind optional auth so
// anonymous visitors get the feed with isLiked=false; writes require auth.
func (h *PinHTTPHandler) RegisterRoutes(router fiber.Router, protect, optional fiber.Handler) {
	pins := router.Group("/pins")

	pins.Get("/", optional, h.GetFeed)
	pins.Post("/", protect, h.CreatePin)
	pins.Get("/:pinId", optional, h.GetPin)
	pins.Put("/:pinId", protect, h.UpdatePin)
	pins.Delete("/:pinId", protect, h.DeletePin)

	router.Get("/votes", optional, h.GetVotes)
	router.Post("/votes", protect, h.ToggleVote)

	router.Get("/users/:userId/pins", optional, h.ListUserPins)
}

// respondError maps domain errors onto the shared HTTP taxonomy.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case sharederrors.IsNotFound(err):
		status = fiber.StatusNotFound
	case sharederrors.IsAuthorization(err):
		status = fiber.StatusForbidden
	case sharederrors.IsAuthentication(err):
		status = fiber.StatusUnauthorized
	case sharederrors.IsConflict(err):
		status = fiber.StatusConflict
	case sharederrors.IsValidation(err):
		status = fiber.StatusBadRequest
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// GetFeed serves one page of the pin feed.
func (h *PinHTTPHandler) GetFeed(c *fiber.Ctx) error {
	viewerID, _ := utils.GetUserIDFromContext(c.UserContext())

	req := usecase.FeedRequest{
		Query:    c.Query("q"),
		Language: c.Query("lang"),
		Tags:     c.Query("tags"),
		Sort:     c.Query("sort"),
	}
	if v := c.Query("cursor"); v != "" {
		cursor, err := strconv.Atoi(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cursor must be an integer"})
		}
		req.Cursor = cursor
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be an integer"})
		}
		req.Limit = limit
	}

	page, err := h.feedUC.GetFeed(c.UserContext(), viewerID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(page)
}

// CreatePin creates a pin authored by the caller.
func (h *PinHTTPHandler) CreatePin(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req usecase.CreatePinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	pin, err := h.pinUC.CreatePin(c.UserContext(), userID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(pin)
}

// GetPin returns a single pin with viewer-dependent vote fields.
func (h *PinHTTPHandler) GetPin(c *fiber.Ctx) error {
	viewerID, _ := utils.GetUserIDFromContext(c.UserContext())

	view, err := h.pinUC.GetPin(c.UserContext(), c.Params("pinId"), viewerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(view)
}

// UpdatePin applies partial updates; author only.
func (h *PinHTTPHandler) UpdatePin(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req usecase.UpdatePinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	pin, err := h.pinUC.UpdatePin(c.UserContext(), c.Params("pinId"), userID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(pin)
}

// DeletePin removes a pin; author only.
func (h *PinHTTPHandler) DeletePin(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.pinUC.DeletePin(c.UserContext(), c.Params("pinId"), userID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Pin deleted"})
}

// ListUserPins returns a user's pins, filtered to published unless the viewer
// is the author.
func (h *PinHTTPHandler) ListUserPins(c *fiber.Ctx) error {
	viewerID, _ := utils.GetUserIDFromContext(c.UserContext())

	views, err := h.pinUC.ListUserPins(c.UserContext(), c.Params("userId"), viewerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"pins": views})
}

// GetVotes returns a pin's vote count plus the caller's own flag.
func (h *PinHTTPHandler) GetVotes(c *fiber.Ctx) error {
	viewerID, _ := utils.GetUserIDFromContext(c.UserContext())

	pinID := c.Query("pinId")
	if pinID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "pinId is required"})
	}

	state, err := h.voteUC.GetVotes(c.UserContext(), pinID, viewerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(state)
}

// ToggleVote flips the caller's vote on a pin.
func (h *PinHTTPHandler) ToggleVote(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req struct {
		PinID string `json:"pinId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.PinID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "pinId is required"})
	}

	state, err := h.voteUC.ToggleVote(c.UserContext(), req.PinID, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(state)
}
