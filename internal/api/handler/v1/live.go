package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/service"
)

const (
	writeWait      = 10 * time.Second
	clientSendSize = 16
	broadcastSize  = 64
)

type liveClient struct {
	conn     *websocket.Conn
	send     chan []byte
	raffleID uint
}

type liveMessage struct {
	raffleID uint
	payload  []byte
}

type directMessage struct {
	client  *liveClient
	payload []byte
}

// LiveHandler pushes draw outcomes to websocket clients watching a raffle.
// It is the OutcomePublisher handed to the draw service.
type LiveHandler struct {
	svc      RaffleService
	upgrader websocket.Upgrader

	clients    map[*liveClient]struct{}
	broadcast  chan liveMessage
	register   chan *liveClient
	unregister chan *liveClient
	direct     chan directMessage
	done       chan struct{}
}

func NewLiveHandler(svc RaffleService, allowedOrigins []string) *LiveHandler {
	return &LiveHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		clients:    make(map[*liveClient]struct{}),
		broadcast:  make(chan liveMessage, broadcastSize),
		register:   make(chan *liveClient),
		unregister: make(chan *liveClient),
		direct:     make(chan directMessage),
		done:       make(chan struct{}),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Run owns the client set until ctx is done. It must be called once.
func (h *LiveHandler) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			h.drop(client)
		case msg := <-h.direct:
			if _, ok := h.clients[msg.client]; !ok {
				continue
			}
			select {
			case msg.client.send <- msg.payload:
			default:
				h.drop(msg.client)
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				if client.raffleID != msg.raffleID {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					// Slow reader, it can reload the raffle instead.
					h.drop(client)
				}
			}
		}
	}
}

func (h *LiveHandler) drop(client *liveClient) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// Publish never blocks the draw, outcomes are dropped when the hub lags behind.
func (h *LiveHandler) Publish(outcome domain.DrawOutcome) {
	payload, err := json.Marshal(outcome)
	if err != nil {
		zap.L().Error("failed to encode draw outcome", zap.Uint("raffle_id", outcome.RaffleID), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- liveMessage{raffleID: outcome.RaffleID, payload: payload}:
	default:
		zap.L().Warn("live hub is saturated, outcome not pushed", zap.Uint("raffle_id", outcome.RaffleID))
	}
}

// HandleLive godoc
// @Summary      Follow a raffle draw
// @Description  Upgrades to a websocket that receives the draw outcome of the raffle as JSON. Raffles already drawn send their outcome right away.
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path      int  true  "Raffle ID"
// @Success      101       {object}  domain.DrawOutcome
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /raffles/{raffleID}/live [get]
func (h *LiveHandler) HandleLive(ctx *gin.Context) {
	raffleID, err := uintParam(ctx, "raffleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrInvalidParam("raffleID", err))
		return
	}

	raffle, err := h.svc.GetRaffle(ctx.Request.Context(), raffleID)
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("HandleLive -> h.svc.GetRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// The upgrader already replied to the client.
		zap.L().Warn("websocket upgrade failed", zap.Uint("raffle_id", raffleID), zap.Error(err))
		return
	}

	client := &liveClient{
		conn:     conn,
		send:     make(chan []byte, clientSendSize),
		raffleID: raffleID,
	}

	if raffle.Status.IsTerminal() {
		client.send <- snapshotOf(raffle)
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)

	if !raffle.Status.IsTerminal() {
		h.catchUp(ctx.Request.Context(), client)
	}
}

// catchUp covers a draw that finished between the first read and the
// registration, its broadcast went out before the client was listening.
// The client may then see the outcome twice.
func (h *LiveHandler) catchUp(ctx context.Context, client *liveClient) {
	raffle, err := h.svc.GetRaffle(ctx, client.raffleID)
	if err != nil {
		zap.L().Warn("failed to re-read raffle for live client", zap.Uint("raffle_id", client.raffleID), zap.Error(err))
		return
	}
	if !raffle.Status.IsTerminal() {
		return
	}

	select {
	case h.direct <- directMessage{client: client, payload: snapshotOf(raffle)}:
	case <-h.done:
	}
}

func snapshotOf(raffle domain.Raffle) []byte {
	snapshot, _ := json.Marshal(domain.DrawOutcome{
		RaffleID: raffle.ID,
		Status:   raffle.Status,
		Winners:  raffle.Winners,
		Error:    raffle.LastError,
	})

	return snapshot
}

func (c *liveClient) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump only watches for the client going away, inbound messages are ignored.
func (c *liveClient) readPump(h *LiveHandler) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("live client closed", zap.Uint("raffle_id", c.raffleID), zap.Error(err))
			}
			return
		}
	}
}
