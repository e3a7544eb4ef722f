package boards

import (
	"fmt"

	boardshttp "pinstack/internal/boards/adapter/http"
	"pinstack/internal/boards/adapter/persistence/mongodb"
	"pinstack/internal/boards/domain/client"
	"pinstack/internal/boards/domain/repository"
	"pinstack/internal/boards/usecase"
	"pinstack/internal/shared/eventbus"
	"pinstack/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// BoardModule represents the complete boards module: boards, collaborators,
// board-pin membership and saves.
type BoardModule struct {
	boardRepo    repository.BoardRepository
	collabRepo   repository.CollaboratorRepository
	boardPinRepo repository.BoardPinRepository
	saveRepo     repository.SaveRepository

	accessUC usecase.AccessUsecase
	boardUC  usecase.BoardUsecase
	collabUC usecase.CollaboratorUsecase
	saveUC   usecase.SaveUsecase

	handler *boardshttp.BoardHTTPHandler
}

// NewBoardModule creates a new boards module instance. The pin client decouples
// this module from the pins module; the DI container supplies the concrete
// adapter.
func NewBoardModule(
	db *mongo.Database,
	pins client.PinClient,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) (*BoardModule, error) {
	boardRepo, err := mongodb.NewMongoBoardRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create board repository: %w", err)
	}

	collabRepo, err := mongodb.NewMongoCollaboratorRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create collaborator repository: %w", err)
	}

	boardPinRepo, err := mongodb.NewMongoBoardPinRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create board pin repository: %w", err)
	}

	saveRepo, err := mongodb.NewMongoSaveRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create save repository: %w", err)
	}

	accessUC := usecase.NewAccessUsecase(boardRepo, collabRepo, log)
	boardUC := usecase.NewBoardUsecase(boardRepo, collabRepo, boardPinRepo, accessUC, pins, log)
	collabUC := usecase.NewCollaboratorUsecase(boardRepo, collabRepo, accessUC, bus, log)
	saveUC := usecase.NewSaveUsecase(boardRepo, saveRepo, boardUC, pins, bus, log)

	handler := boardshttp.NewBoardHTTPHandler(boardUC, collabUC, accessUC, saveUC, log)

	return &BoardModule{
		boardRepo:    boardRepo,
		collabRepo:   collabRepo,
		boardPinRepo: boardPinRepo,
		saveRepo:     saveRepo,
		accessUC:     accessUC,
		boardUC:      boardUC,
		collabUC:     collabUC,
		saveUC:       saveUC,
		handler:      handler,
	}, nil
}

// RegisterRoutes registers board routes behind the provided auth middleware.
func (bm *BoardModule) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	bm.handler.RegisterRoutes(router, protect)
}

// GetAccessUsecase exposes access resolution for other modules.
func (bm *BoardModule) GetAccessUsecase() usecase.AccessUsecase {
	return bm.accessUC
}

// GetBoardUsecase exposes board operations for other modules.
func (bm *BoardModule) GetBoardUsecase() usecase.BoardUsecase {
	return bm.boardUC
}

// Stop performs cleanup when the module is shut down.
func (bm *BoardModule) Stop() error {
	return nil
}
