package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type Handler struct {
	gateway  *Gateway
	counter  RoomCounter
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// RoomCounter is the slice of the room service the health endpoint needs.
type RoomCounter interface {
	RoomCount() int
}

func NewHandler(gateway *Gateway, counter RoomCounter, log zerolog.Logger) *Handler {
	return &Handler{
		gateway: gateway,
		counter: counter,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// WebsocketHandler upgrades the request and hands the connection to the
// gateway for its whole lifetime. Origin filtering already happened in
// the router middleware.
func (h *Handler) WebsocketHandler(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Str("ip", ctx.ClientIP()).Msg("ws upgrade failed")
		return
	}
	go h.gateway.HandleConnection(newWSConn(conn))
}

func (h *Handler) HealthHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"clients": h.gateway.ClientCount(),
		"rooms":   h.counter.RoomCount(),
	})
}
