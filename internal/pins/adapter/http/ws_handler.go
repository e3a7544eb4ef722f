package http

import (
	"context"
	"sync"
	"time"

	"pinstack/internal/pins/domain/model"
	"pinstack/internal/pins/usecase"
	"pinstack/internal/shared/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// readDeadline bounds how long a silent connection is kept before the read
// loop gives up on it.
const readDeadline = 60 * time.Second

// VoteSocketHandler manages WebSocket connections for realtime vote updates.
type VoteSocketHandler struct {
	realtimeUC usecase.RealtimeUsecase
	log        logger.Logger
}

// NewVoteSocketHandler creates a new vote WebSocket handler.
func NewVoteSocketHandler(realtimeUC usecase.RealtimeUsecase, log logger.Logger) *VoteSocketHandler {
	return &VoteSocketHandler{
		realtimeUC: realtimeUC,
		log:        log,
	}
}

// RegisterRoutes registers the WebSocket endpoint.
func (h *VoteSocketHandler) RegisterRoutes(router fiber.Router) {
	wsGroup := router.Group("/ws")

	wsGroup.Use("/votes", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	wsGroup.Get("/votes", websocket.New(h.handleConnection))
}

// subscriptionRequest is the client-to-server control message.
type subscriptionRequest struct {
	Action string `json:"action"`
	PinID  string `json:"pinId"`
}

// socketMessage is the server-to-client envelope for everything but vote
// updates, which go out in their native shape.
type socketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// watch is one active pin subscription on a connection.
type watch struct {
	subscriberID string
	stop         chan struct{}
}

// handleConnection runs the lifecycle of a single WebSocket client: a read
// loop for subscribe/unsubscribe control messages, one forwarder goroutine per
// watched pin, and full cleanup on disconnect.
func (h *VoteSocketHandler) handleConnection(conn *websocket.Conn) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	// Socket writes are not concurrency safe; every forwarder shares this lock.
	var writeMu sync.Mutex

	watches := make(map[string]*watch)
	var watchMu sync.Mutex

	defer func() {
		watchMu.Lock()
		for pinID, w := range watches {
			close(w.stop)
			h.realtimeUC.Unsubscribe(pinID, w.subscriberID)
			delete(watches, pinID)
		}
		watchMu.Unlock()

		h.log.Info("vote socket closed")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(readDeadline))

		var req subscriptionRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("vote socket read error", zap.Error(err))
			}
			return
		}

		switch req.Action {
		case "subscribe":
			h.handleSubscribe(ctx, conn, req.PinID, watches, &watchMu, &writeMu)
		case "unsubscribe":
			h.handleUnsubscribe(conn, req.PinID, watches, &watchMu, &writeMu)
		case "ping":
			h.send(conn, &writeMu, socketMessage{Type: "pong"})
		default:
			h.sendError(conn, &writeMu, "invalid_action", "Unknown action: "+req.Action)
		}
	}
}

// handleSubscribe attaches the connection to a pin's vote channel and spawns
// the forwarder. Subscribing twice to the same pin is a no-op.
func (h *VoteSocketHandler) handleSubscribe(
	ctx context.Context,
	conn *websocket.Conn,
	pinID string,
	watches map[string]*watch,
	watchMu *sync.Mutex,
	writeMu *sync.Mutex,
) {
	if pinID == "" {
		h.sendError(conn, writeMu, "invalid_request", "pinId is required")
		return
	}

	watchMu.Lock()
	if _, exists := watches[pinID]; exists {
		watchMu.Unlock()
		h.send(conn, writeMu, socketMessage{Type: "subscription_confirmed", Data: fiber.Map{"pinId": pinID}})
		return
	}
	watchMu.Unlock()

	subscriberID, updates, err := h.realtimeUC.Subscribe(ctx, pinID)
	if err != nil {
		h.log.Error("vote subscription failed", zap.String("pinId", pinID), zap.Error(err))
		h.sendError(conn, writeMu, "subscription_failed", "Failed to subscribe to pin")
		return
	}

	w := &watch{subscriberID: subscriberID, stop: make(chan struct{})}

	watchMu.Lock()
	watches[pinID] = w
	watchMu.Unlock()

	go h.forward(ctx, conn, pinID, updates, w.stop, writeMu)

	h.log.Debug("vote subscription opened",
		zap.String("pinId", pinID),
		zap.String("subscriberId", subscriberID))

	h.send(conn, writeMu, socketMessage{Type: "subscription_confirmed", Data: fiber.Map{"pinId": pinID}})
}

// handleUnsubscribe detaches the connection from a pin.
func (h *VoteSocketHandler) handleUnsubscribe(
	conn *websocket.Conn,
	pinID string,
	watches map[string]*watch,
	watchMu *sync.Mutex,
	writeMu *sync.Mutex,
) {
	watchMu.Lock()
	w, exists := watches[pinID]
	if exists {
		close(w.stop)
		delete(watches, pinID)
	}
	watchMu.Unlock()

	if exists {
		h.realtimeUC.Unsubscribe(pinID, w.subscriberID)
	}

	h.send(conn, writeMu, socketMessage{Type: "unsubscription_confirmed", Data: fiber.Map{"pinId": pinID}})
}

// forward pushes vote updates for one pin to the client until the watch stops
// or the upstream channel closes.
func (h *VoteSocketHandler) forward(
	ctx context.Context,
	conn *websocket.Conn,
	pinID string,
	updates <-chan model.VoteUpdate,
	stop <-chan struct{},
	writeMu *sync.Mutex,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			writeMu.Lock()
			err := conn.WriteJSON(update)
			writeMu.Unlock()
			if err != nil {
				h.log.Warn("failed to push vote update",
					zap.String("pinId", pinID),
					zap.Error(err))
				return
			}
		}
	}
}

func (h *VoteSocketHandler) send(conn *websocket.Conn, writeMu *sync.Mutex, msg socketMessage) {
	writeMu.Lock()
	defer writeMu.Unlock()
	if err := conn.WriteJSON(msg); err != nil {
		h.log.Warn("failed to write socket message", zap.Error(err))
	}
}

func (h *VoteSocketHandler) sendError(conn *websocket.Conn, writeMu *sync.Mutex, errType, message string) {
	h.send(conn, writeMu, socketMessage{
		Type: "error",
		Data: fiber.Map{"error": errType, "message": message},
	})
}
