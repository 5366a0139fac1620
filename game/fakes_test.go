package game

import (
	"slices"
	"time"
)

// manualScheduler runs callbacks only when the test advances its clock.
type manualScheduler struct {
	now    time.Time
	timers []*manualTimer
	seq    int
}

type manualTimer struct {
	at      time.Time
	every   time.Duration
	fn      func()
	seq     int
	stopped bool
}

func (t *manualTimer) Stop() { t.stopped = true }

func newManualScheduler() *manualScheduler {
	return &manualScheduler{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *manualScheduler) Now() time.Time { return s.now }

func (s *manualScheduler) After(d time.Duration, fn func()) Timer {
	return s.add(&manualTimer{at: s.now.Add(d), fn: fn})
}

func (s *manualScheduler) Every(d time.Duration, fn func()) Timer {
	return s.add(&manualTimer{at: s.now, every: d, fn: fn})
}

func (s *manualScheduler) add(t *manualTimer) *manualTimer {
	s.seq++
	t.seq = s.seq
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in time order.
func (s *manualScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.at
		if next.every > 0 {
			next.at = next.at.Add(next.every)
		} else {
			next.stopped = true
		}
		next.fn()
	}
	s.now = target
	s.timers = slices.DeleteFunc(s.timers, func(t *manualTimer) bool { return t.stopped })
}

func (s *manualScheduler) nextDue(target time.Time) *manualTimer {
	var best *manualTimer
	for _, t := range s.timers {
		if t.stopped || t.at.After(target) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *manualScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

const broadcastTarget = "*"

type sentEvent struct {
	To    string
	Event Event
}

// recordingGateway keeps every event a room emits, in order.
type recordingGateway struct {
	sent []sentEvent
}

func (g *recordingGateway) BroadcastToRoom(roomID string, ev Event) {
	g.sent = append(g.sent, sentEvent{To: broadcastTarget, Event: ev})
}

func (g *recordingGateway) SendToOne(connID string, ev Event) {
	g.sent = append(g.sent, sentEvent{To: connID, Event: ev})
}

func (g *recordingGateway) Reset() { g.sent = nil }

func (g *recordingGateway) OfType(kind string) []sentEvent {
	out := []sentEvent{}
	for _, s := range g.sent {
		if s.Event.Type == kind {
			out = append(out, s)
		}
	}
	return out
}

func (g *recordingGateway) Has(kind string) bool {
	return len(g.OfType(kind)) > 0
}

func (g *recordingGateway) Chats() []ChatMessage {
	out := []ChatMessage{}
	for _, s := range g.OfType(KindChatMessage) {
		out = append(out, s.Event.Payload.(ChatMessage))
	}
	return out
}

func (g *recordingGateway) SystemChats() []string {
	out := []string{}
	for _, c := range g.Chats() {
		if c.From == systemName {
			out = append(out, c.Text)
		}
	}
	return out
}

func (g *recordingGateway) LastScores() map[string]int {
	updates := g.OfType(KindScoreUpdate)
	if len(updates) == 0 {
		return nil
	}
	return updates[len(updates)-1].Event.Payload.(ScoreUpdate).Scores
}

func (g *recordingGateway) LastGameState() GameState {
	states := g.OfType(KindGameState)
	if len(states) == 0 {
		return GameState{}
	}
	return states[len(states)-1].Event.Payload.(GameState)
}

type fixedWords []string

func (w fixedWords) Generate(count int) []string {
	out := make([]string, 0, count)
	for i := range count {
		out = append(out, w[i%len(w)])
	}
	return out
}
