package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// ConnLimits bounds what a single client can cost the server.
type ConnLimits struct {
	SendBuffer int
	ChatRate   rate.Limit
	ChatBurst  int
}

func DefaultConnLimits() ConnLimits {
	return ConnLimits{SendBuffer: 256, ChatRate: 1, ChatBurst: 5}
}

// Conn is one client connection. The room only ever sees its id.
type Conn struct {
	id          string
	ctx         context.Context
	cancelCtx   context.CancelFunc
	rateLimiter *rate.Limiter
	inbox       chan []byte
	pingChan    chan struct{}
	dispatcher  Dispatcher
	releaseOnce sync.Once
}

func NewConn(dispatcher Dispatcher, limits ConnLimits) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	return &Conn{
		id:          uuid.NewString(),
		ctx:         ctx,
		cancelCtx:   cancel,
		rateLimiter: rate.NewLimiter(limits.ChatRate, limits.ChatBurst),
		inbox:       make(chan []byte, limits.SendBuffer),
		pingChan:    make(chan struct{}, 1),
		dispatcher:  dispatcher,
	}
}

func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) Context() context.Context {
	return c.ctx
}

// Send queues a frame without blocking. Frames sent after the connection
// closed are dropped silently.
func (c *Conn) Send(data []byte) error {
	if c.ctx.Err() != nil {
		return nil
	}
	select {
	case c.inbox <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *Conn) Ping() {
	select {
	case c.pingChan <- struct{}{}:
	default:
	}
}

// CancelAndRelease stops both pumps and removes the connection from its room.
// Only the first call has an effect.
func (c *Conn) CancelAndRelease() {
	c.releaseOnce.Do(func() {
		c.cancelCtx()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.dispatcher.Disconnect(ctx, c)
	})
}
