package game

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type RoomLister interface {
	Rooms() []RoomDescription
}

type GameHandler struct {
	dispatcher Dispatcher
	rooms      RoomLister
	limits     ConnLimits
	upgrader   websocket.Upgrader
}

// NewGameHandler expects origins to be filtered by the server middleware, so
// the upgrader accepts any origin that reaches it.
func NewGameHandler(dispatcher Dispatcher, rooms RoomLister, limits ConnLimits) *GameHandler {
	return &GameHandler{
		dispatcher: dispatcher,
		rooms:      rooms,
		limits:     limits,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *GameHandler) PlayHandler(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	socket := NewGorillaWebSocketWrapper(conn)
	c := NewConn(h.dispatcher, h.limits)
	h.dispatcher.Connect(c)

	go c.WritePump(socket)
	go c.ReadPump(socket)
}

func (h *GameHandler) ListRoomsHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"rooms": h.rooms.Rooms()})
}
