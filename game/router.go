package game

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
)

const maxJoinAttempts = 3

// Router turns inbound frames into room operations.
type Router struct {
	rooms RoomRegistry
	index ConnIndex
}

func NewRouter(rooms RoomRegistry, index ConnIndex) *Router {
	return &Router{rooms: rooms, index: index}
}

func (rt *Router) Connect(c *Conn) {
	rt.index.Register(c)
	log.Debug().Str("conn", c.ID()).Msg("connection opened")
}

func (rt *Router) Dispatch(ctx context.Context, c *Conn, msg Inbound) {
	switch msg.Type {
	case KindJoinRoom:
		rt.join(ctx, c, msg.RoomID, msg.Username)
	case KindGuess:
		text, ok := guessText(msg.Payload)
		if !ok {
			return
		}
		if room, ok := rt.currentRoom(c.ID()); ok {
			room.Guess(ctx, c.ID(), text)
		}
	case KindStroke:
		if len(msg.Payload) == 0 {
			return
		}
		if room, ok := rt.currentRoom(c.ID()); ok {
			room.Stroke(ctx, c.ID(), msg.Payload)
		}
	case KindClear:
		if room, ok := rt.currentRoom(c.ID()); ok {
			room.Clear(ctx, c.ID())
		}
	case KindPing:
	default:
		log.Debug().Str("conn", c.ID()).Str("type", msg.Type).Msg("unknown message type")
	}
}

// Disconnect unregisters c and makes it leave its room.
func (rt *Router) Disconnect(ctx context.Context, c *Conn) {
	roomID, inRoom := rt.index.RoomOf(c.ID())
	rt.index.Unregister(c.ID())
	if inRoom {
		rt.leave(ctx, c.ID(), roomID)
	}
	log.Debug().Str("conn", c.ID()).Msg("connection closed")
}

func (rt *Router) join(ctx context.Context, c *Conn, roomID, username string) {
	username = strings.TrimSpace(username)
	if roomID == "" || username == "" {
		return
	}

	connID := c.ID()
	if current, ok := rt.index.RoomOf(connID); ok {
		if current == roomID {
			return
		}
		rt.index.Detach(connID)
		rt.leave(ctx, connID, current)
	}

	rt.index.Attach(connID, roomID)
	for range maxJoinAttempts {
		room := rt.rooms.GetOrCreate(roomID)
		err := room.Join(ctx, connID, username)
		if err == nil {
			// the connection may have closed while the join was in flight
			if c.Context().Err() != nil {
				rt.index.Detach(connID)
				room.Leave(context.Background(), connID)
			}
			return
		}
		if !errors.Is(err, ErrRoomClosed) {
			// a join abandoned on context may still reach the lane; the leave
			// queues behind it
			room.Leave(context.Background(), connID)
			break
		}
	}
	rt.index.Detach(connID)
}

func (rt *Router) leave(ctx context.Context, connID, roomID string) {
	if room, ok := rt.rooms.Get(roomID); ok {
		room.Leave(ctx, connID)
	}
}

func (rt *Router) currentRoom(connID string) (Room, bool) {
	roomID, ok := rt.index.RoomOf(connID)
	if !ok {
		return nil, false
	}
	return rt.rooms.Get(roomID)
}
