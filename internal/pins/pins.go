package pins

import (
	"fmt"

	boardsclient "pinstack/internal/boards/domain/client"
	"pinstack/internal/pins/adapter/broadcast"
	"pinstack/internal/pins/adapter/client"
	pinshttp "pinstack/internal/pins/adapter/http"
	"pinstack/internal/pins/adapter/persistence/mongodb"
	domainbroadcast "pinstack/internal/pins/domain/broadcast"
	"pinstack/internal/pins/domain/repository"
	"pinstack/internal/pins/usecase"
	"pinstack/internal/shared/eventbus"
	"pinstack/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// PinModule represents the complete pins module: pin CRUD, the feed, votes and
// realtime vote fan-out.
type PinModule struct {
	pinRepo     repository.PinRepository
	broadcaster domainbroadcast.Broadcaster

	pinUC      usecase.PinUsecase
	feedUC     usecase.FeedUsecase
	voteUC     usecase.VoteUsecase
	realtimeUC usecase.RealtimeUsecase

	pinHandler *pinshttp.PinHTTPHandler
	wsHandler  *pinshttp.VoteSocketHandler
}

// NewPinModule creates a new pins module instance.
func NewPinModule(
	db *mongo.Database,
	redisClient *redis.Client,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) (*PinModule, error) {
	pinRepo, err := mongodb.NewMongoPinRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create pin repository: %w", err)
	}

	broadcaster := broadcast.NewRedisBroadcaster(redisClient, log)

	pinUC := usecase.NewPinUsecase(pinRepo, log)
	feedUC := usecase.NewFeedUsecase(pinRepo, log)
	voteUC := usecase.NewVoteUsecase(pinRepo, broadcaster, bus, log)
	realtimeUC := usecase.NewRealtimeUsecase(broadcaster, log)

	pinHandler := pinshttp.NewPinHTTPHandler(pinUC, feedUC, voteUC, log)
	wsHandler := pinshttp.NewVoteSocketHandler(realtimeUC, log)

	return &PinModule{
		pinRepo:     pinRepo,
		broadcaster: broadcaster,
		pinUC:       pinUC,
		feedUC:      feedUC,
		voteUC:      voteUC,
		realtimeUC:  realtimeUC,
		pinHandler:  pinHandler,
		wsHandler:   wsHandler,
	}, nil
}

// RegisterRoutes registers pin and websocket routes.
func (pm *PinModule) RegisterRoutes(router fiber.Router, protect, optional fiber.Handler) {
	pm.pinHandler.RegisterRoutes(router, protect, optional)
	pm.wsHandler.RegisterRoutes(router)
}

// GetBoardClient returns the adapter the boards module uses to reach pins.
func (pm *PinModule) GetBoardClient() boardsclient.PinClient {
	return client.NewPinClientAdapter(pm.pinRepo)
}

// Stop tears down realtime subscriptions.
func (pm *PinModule) Stop() error {
	pm.realtimeUC.Stop()
	return pm.broadcaster.Close()
}
