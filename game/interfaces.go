package game

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

type WebsocketConnection interface {
	Close()
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

// Timer is a handle to a scheduled callback. Stop must be called from the
// lane that owns the timer.
type Timer interface {
	Stop()
}

type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// Gateway is how a room reaches its connections.
type Gateway interface {
	BroadcastToRoom(roomID string, ev Event)
	SendToOne(connID string, ev Event)
}

type RandomWordsGenerator interface {
	Generate(count int) []string
}

type Room interface {
	ID() string
	Join(ctx context.Context, connID, username string) error
	Leave(ctx context.Context, connID string)
	Guess(ctx context.Context, connID, text string)
	Stroke(ctx context.Context, connID string, payload json.RawMessage)
	Clear(ctx context.Context, connID string)
	Description() RoomDescription
}

type RoomRegistry interface {
	GetOrCreate(roomID string) Room
	Get(roomID string) (Room, bool)
}

// ConnIndex knows the live connections and the room each one is in.
type ConnIndex interface {
	Register(c *Conn)
	Unregister(connID string)
	Attach(connID, roomID string)
	Detach(connID string) (roomID string, ok bool)
	RoomOf(connID string) (string, bool)
}

type Dispatcher interface {
	Connect(c *Conn)
	Dispatch(ctx context.Context, c *Conn, msg Inbound)
	Disconnect(ctx context.Context, c *Conn)
}
