package http

import (
	"pinstack/internal/boards/usecase"
	"pinstack/internal/shared/logger"
	"pinstack/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// BoardHTTPHandler handles HTTP requests for boards, collaborators and saves.
type BoardHTTPHandler struct {
	boardUC  usecase.BoardUsecase
	collabUC usecase.CollaboratorUsecase
	accessUC usecase.AccessUsecase
	saveUC   usecase.SaveUsecase
	log      logger.Logger
}

// NewBoardHTTPHandler creates a new board HTTP handler.
func NewBoardHTTPHandler(
	boardUC usecase.BoardUsecase,
	collabUC usecase.CollaboratorUsecase,
	accessUC usecase.AccessUsecase,
	saveUC usecase.SaveUsecase,
	log logger.Logger,
) *BoardHTTPHandler {
	return &BoardHTTPHandler{
		boardUC:  boardUC,
		collabUC: collabUC,
		accessUC: accessUC,
		saveUC:   saveUC,
		log:      log,
	}
}

// RegisterRoutes registers board routes; every route requires authentication.
func (h *BoardHTTPHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	boards := router.Group("/boards", protect)
	boards.Get("/", h.ListBoards)
	boards.Post("/", h.CreateBoard)
	boards.Get("/:boardId", h.GetBoard)
	boards.Put("/:boardId", h.UpdateBoard)
	boards.Delete("/:boardId", h.DeleteBoard)

	boards.Get("/:boardId/share", h.GetShareInfo)
	boards.Post("/:boardId/share", h.AcceptInvite)
	boards.Delete("/:boardId/share", h.DeclineInvite)

	boards.Get("/:boardId/collaborators", h.ListCollaborators)
	boards.Post("/:boardId/collaborators", h.InviteCollaborator)
	boards.Delete("/:boardId/collaborators/:collabId", h.RemoveCollaborator)

	boards.Post("/:boardId/pins", h.AddPinToBoard)
	boards.Delete("/:boardId/pins/:pinId", h.RemovePinFromBoard)

	saves := router.Group("/pins", protect)
	saves.Post("/:pinId/save", h.SavePin)
	saves.Delete("/:pinId/save", h.UnsavePin)

	router.Get("/saves", protect, h.ListSaves)
}

// caller extracts the authenticated identity injected by the Protect middleware.
func (h *BoardHTTPHandler) caller(c *fiber.Ctx) (userID, email string, err error) {
	userID, err = utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return "", "", err
	}
	email, _ = utils.GetUserEmailFromContext(c.UserContext())
	return userID, email, nil
}

// ListBoards returns the caller's owned and shared boards.
func (h *BoardHTTPHandler) ListBoards(c *fiber.Ctx) error {
	userID, email, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	boards, err := h.boardUC.ListBoards(c.UserContext(), userID, email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"boards": boards})
}

// CreateBoard creates a board owned by the caller.
func (h *BoardHTTPHandler) CreateBoard(c *fiber.Ctx) error {
	userID, _, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req usecase.CreateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	board, err := h.boardUC.CreateBoard(c.UserContext(), userID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(board)
}

// GetBoard returns the board with its pins and the caller's role.
func (h *BoardHTTPHandler) GetBoard(c *fiber.Ctx) error {
	userID, email, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	view, err := h.boardUC.GetBoard(c.UserContext(), c.Params("boardId"), userID, email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(view)
}

// UpdateBoard applies partial board updates.
func (h *BoardHTTPHandler) UpdateBoard(c *fiber.Ctx) error {
	userID, email, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req usecase.UpdateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	board, err := h.boardUC.UpdateBoard(c.UserContext(), c.Params("boardId"), userID, email, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(board)
}

// DeleteBoard deletes a board; owner only.
func (h *BoardHTTPHandler) DeleteBoard(c *fiber.Ctx) error {
	userID, _, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.boardUC.DeleteBoard(c.UserContext(), c.Params("boardId"), userID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Board deleted"})
}

// GetShareInfo returns the board with the caller's computed access level, used
// by the share-link flow.
func (h *BoardHTTPHandler) GetShareInfo(c *fiber.Ctx) error {
	userID, email, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	board, access, err := h.accessUC.Resolve(c.UserContext(), c.Params("boardId"), userID, email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"board":  board,
		"access": access,
	})
}

// AcceptInvite accepts the caller's pending collaboration invite.
func (h *BoardHTTPHandler) AcceptInvite(c *fiber.Ctx) error {
	userID, email, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	collab, err := h.collabUC.AcceptInvite(c.UserContext(), c.Params("boardId"), userID, email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(collab)
}

// DeclineInvite declines the caller's pending collaboration invite.
func (h *BoardHTTPHandler) DeclineInvite(c *fiber.Ctx) error {
	userID, email, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.collabUC.DeclineInvite(c.UserContext(), c.Params("boardId"), userID, email); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Invite declined"})
}

// ListCollaborators lists a board's collaborator records.
func (h *BoardHTTPHandler) ListCollaborators(c *fiber.Ctx) error {
	userID, email, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	collabs, err := h.collabUC.ListCollaborators(c.UserContext(), c.Params("boardId"), userID, email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"collaborators": collabs})
}

// InviteCollaborator invites a collaborator by email; owner only.
func (h *BoardHTTPHandler) InviteCollaborator(c *fiber.Ctx) error {
	userID, _, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req usecase.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	collab, err := h.collabUC.InviteCollaborator(c.UserContext(), c.Params("boardId"), userID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(collab)
}

// RemoveCollaborator removes a collaborator record; owner only.
func (h *BoardHTTPHandler) RemoveCollaborator(c *fiber.Ctx) error {
	userID, _, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.collabUC.RemoveCollaborator(c.UserContext(), c.Params("boardId"), c.Params("collabId"), userID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Collaborator removed"})
}

// AddPinToBoard places a pin on a board at the end of the display order.
func (h *BoardHTTPHandler) AddPinToBoard(c *fiber.Ctx) error {
	userID, email, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req struct {
		PinID string `json:"pinId"`
	}
	if err := c.BodyParser(&req); err != nil || req.PinID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "pinId is required"})
	}

	bp, err := h.boardUC.AddPinToBoard(c.UserContext(), c.Params("boardId"), req.PinID, userID, email)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(bp)
}

// RemovePinFromBoard removes a pin from a board.
func (h *BoardHTTPHandler) RemovePinFromBoard(c *fiber.Ctx) error {
	userID, email, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.boardUC.RemovePinFromBoard(c.UserContext(), c.Params("boardId"), c.Params("pinId"), userID, email); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Pin removed from board"})
}

// SavePin saves a pin into a board (or the implicit personal board).
func (h *BoardHTTPHandler) SavePin(c *fiber.Ctx) error {
	userID, email, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req struct {
		BoardID string `json:"boardId"`
	}
	// Body is optional: empty body targets the implicit "Saved" board.
	_ = c.BodyParser(&req)

	save, err := h.saveUC.SavePin(c.UserContext(), userID, email, c.Params("pinId"), req.BoardID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(save)
}

// UnsavePin removes a save record.
func (h *BoardHTTPHandler) UnsavePin(c *fiber.Ctx) error {
	userID, _, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	boardID := c.Query("boardId")
	if err := h.saveUC.UnsavePin(c.UserContext(), userID, c.Params("pinId"), boardID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Pin unsaved"})
}

// ListSaves returns the caller's save records.
func (h *BoardHTTPHandler) ListSaves(c *fiber.Ctx) error {
	userID, _, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	saves, err := h.saveUC.ListSaves(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"saves": saves})
}
