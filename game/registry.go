package game

import (
	"slices"
	"strings"
	"sync"
)

// Registry owns every live room. Rooms deregister themselves through release
// when their last member leaves.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*room
	rules   Rules
	gateway Gateway
	words   RandomWordsGenerator
}

func NewRegistry(rules Rules, gateway Gateway, words RandomWordsGenerator) *Registry {
	return &Registry{
		rooms:   map[string]*room{},
		rules:   rules,
		gateway: gateway,
		words:   words,
	}
}

func (reg *Registry) GetOrCreate(roomID string) Room {
	reg.mu.RLock()
	r, ok := reg.rooms[roomID]
	reg.mu.RUnlock()
	if ok {
		return r
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if r, ok := reg.rooms[roomID]; ok {
		return r
	}
	r = newRoom(roomID, reg.rules, reg.gateway, reg.words, reg.release)
	reg.rooms[roomID] = r
	go r.GameLoop()
	return r
}

func (reg *Registry) Get(roomID string) (Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[roomID]
	if !ok {
		return nil, false
	}
	return r, true
}

func (reg *Registry) Remove(roomID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, roomID)
}

func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// Rooms returns a snapshot sorted by id.
func (reg *Registry) Rooms() []RoomDescription {
	reg.mu.RLock()
	out := make([]RoomDescription, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r.Description())
	}
	reg.mu.RUnlock()

	slices.SortFunc(out, func(a, b RoomDescription) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// release drops r only if it is still the room registered under its id.
func (reg *Registry) release(r *room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if current, ok := reg.rooms[r.id]; ok && current == r {
		delete(reg.rooms, r.id)
	}
}
