package game

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Hub knows every live connection and which room each one is in. It is the
// Gateway rooms talk through.
type Hub struct {
	mu      sync.RWMutex
	conns   map[string]*Conn
	roomOf  map[string]string
	members map[string]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns:   map[string]*Conn{},
		roomOf:  map[string]string{},
		members: map[string]map[string]struct{}{},
	}
}

func (h *Hub) Register(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.ID()] = c
}

// Unregister forgets the connection and detaches it from its room.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, connID)
	h.detachLocked(connID)
}

// Attach moves connID into roomID, dropping any previous room mapping.
func (h *Hub) Attach(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(connID)
	h.roomOf[connID] = roomID
	set, ok := h.members[roomID]
	if !ok {
		set = map[string]struct{}{}
		h.members[roomID] = set
	}
	set[connID] = struct{}{}
}

func (h *Hub) Detach(connID string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.detachLocked(connID)
}

func (h *Hub) RoomOf(connID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	roomID, ok := h.roomOf[connID]
	return roomID, ok
}

func (h *Hub) detachLocked(connID string) (string, bool) {
	roomID, ok := h.roomOf[connID]
	if !ok {
		return "", false
	}
	delete(h.roomOf, connID)
	if set := h.members[roomID]; set != nil {
		delete(set, connID)
		if len(set) == 0 {
			delete(h.members, roomID)
		}
	}
	return roomID, true
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// BroadcastToRoom encodes ev once and queues it on every attached connection.
// A connection whose queue is full misses the frame.
func (h *Hub) BroadcastToRoom(roomID string, ev Event) {
	data, err := encodeEvent(ev)
	if err != nil {
		log.Error().Err(err).Str("room", roomID).Str("type", ev.Type).Msg("encoding event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for connID := range h.members[roomID] {
		h.sendLocked(connID, data)
	}
}

func (h *Hub) SendToOne(connID string, ev Event) {
	data, err := encodeEvent(ev)
	if err != nil {
		log.Error().Err(err).Str("conn", connID).Str("type", ev.Type).Msg("encoding event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	h.sendLocked(connID, data)
}

func (h *Hub) sendLocked(connID string, data []byte) {
	c, ok := h.conns[connID]
	if !ok {
		return
	}
	if err := c.Send(data); err != nil {
		log.Warn().Err(err).Str("conn", connID).Msg("dropping frame")
	}
}

func (h *Hub) PingAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.conns {
		c.Ping()
	}
}

// PingLoop pings every connection each period until ctx is done.
func (h *Hub) PingLoop(ctx context.Context, tickers PeriodicTickerChannelCreator, period time.Duration) {
	ticks := tickers.Create(period)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			h.PingAll()
		}
	}
}
