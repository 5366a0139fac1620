package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedGateway is safe to read while a room loop is running.
type lockedGateway struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (g *lockedGateway) BroadcastToRoom(roomID string, ev Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, sentEvent{To: broadcastTarget, Event: ev})
}

func (g *lockedGateway) SendToOne(connID string, ev Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, sentEvent{To: connID, Event: ev})
}

func (g *lockedGateway) count(kind string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, s := range g.sent {
		if s.Event.Type == kind {
			n++
		}
	}
	return n
}

func TestGameLoop_JoinLeaveLifecycle(t *testing.T) {
	t.Parallel()
	gw := &lockedGateway{}
	released := make(chan *room, 1)
	r := newRoom("loop", DefaultRules(), gw, fixedWords{"apple"}, func(rr *room) { released <- rr })
	go r.GameLoop()

	ctx := context.Background()
	require.NoError(t, r.Join(ctx, "c1", "Alice"))
	assert.Eventually(t, func() bool { return r.Description().Players == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, RoomDescription{ID: "loop", Players: 1, Phase: PhaseIdle}, r.Description())

	require.NoError(t, r.Join(ctx, "c2", "Bob"))
	assert.Eventually(t, func() bool { return r.Description().Phase == PhaseCountdown }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return gw.count(KindCountdown) >= 1 }, time.Second, 5*time.Millisecond)

	r.Leave(ctx, "c2")
	assert.Eventually(t, func() bool { return r.Description().Phase == PhaseIdle }, time.Second, 5*time.Millisecond)

	r.Leave(ctx, "c1")
	select {
	case got := <-released:
		assert.Same(t, r, got)
	case <-time.After(time.Second):
		t.Fatal("room was not released")
	}
	<-r.done
	assert.Equal(t, 0, r.Description().Players)

	assert.ErrorIs(t, r.Join(ctx, "c3", "Carol"), ErrRoomClosed)

	// requests to a closed room return instead of blocking
	r.Guess(ctx, "c1", "apple")
	r.Stroke(ctx, "c1", nil)
	r.Clear(ctx, "c1")
	r.Leave(ctx, "c1")
}

func TestGameLoop_JoinHonoursContext(t *testing.T) {
	t.Parallel()
	r := newRoom("idle", DefaultRules(), &lockedGateway{}, fixedWords{"apple"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, r.Join(ctx, "c1", "Alice"), context.Canceled)
}

func TestGameLoop_TimerAfterDestroyIsDropped(t *testing.T) {
	t.Parallel()
	r := newRoom("gone", DefaultRules(), &lockedGateway{}, fixedWords{"apple"}, nil)
	go r.GameLoop()

	require.NoError(t, r.Join(context.Background(), "c1", "Alice"))
	r.Leave(context.Background(), "c1")
	<-r.done

	assert.False(t, r.post(func() { t.Error("callback ran on a stopped lane") }))
}

func TestGameLoop_RequestsKeepArrivalOrder(t *testing.T) {
	t.Parallel()
	rules := DefaultRules()
	rules.MinPlayers = 10

	for range 50 {
		gw := &lockedGateway{}
		r := newRoom("order", rules, gw, fixedWords{"apple"}, nil)
		r.handleJoin("y", "Yan")
		r.handleJoin("x", "Xu")

		ctx := context.Background()
		r.Leave(ctx, "x")
		joined := make(chan error, 1)
		go func() { joined <- r.Join(ctx, "x", "Xu") }()
		go r.GameLoop()

		select {
		case err := <-joined:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("join was not handled")
		}

		member := make(chan bool, 1)
		require.True(t, r.post(func() {
			_, ok := r.members["x"]
			member <- ok
		}))
		assert.True(t, <-member, "x must be a member after leave then join")
		assert.Equal(t, 3, gw.count(KindJoinSuccess))

		r.Leave(ctx, "x")
		r.Leave(ctx, "y")
		<-r.done
	}
}
