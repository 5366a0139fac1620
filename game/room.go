package game

import (
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
)

type RoomPhase string

const (
	PhaseIdle      RoomPhase = "idle"
	PhaseCountdown RoomPhase = "countdown"
	PhaseActive    RoomPhase = "active"
	PhaseEnding    RoomPhase = "ending"
)

type RoundOutcome string

const (
	OutcomeGuessed   RoundOutcome = "guessed"
	OutcomeTimeout   RoundOutcome = "timeout"
	OutcomeAbandoned RoundOutcome = "abandoned"
)

type Rules struct {
	MinPlayers       int
	CountdownSeconds int
	RoundDuration    time.Duration
	SessionDuration  time.Duration
	RoundGap         time.Duration
	ResetDelay       time.Duration
	GuessPoints      int
	DrawerPoints     int
}

func DefaultRules() Rules {
	return Rules{
		MinPlayers:       2,
		CountdownSeconds: 20,
		RoundDuration:    120 * time.Second,
		SessionDuration:  600 * time.Second,
		RoundGap:         5 * time.Second,
		ResetDelay:       10 * time.Second,
		GuessPoints:      10,
		DrawerPoints:     5,
	}
}

type RoomDescription struct {
	ID      string    `json:"id"`
	Players int       `json:"players"`
	Phase   RoomPhase `json:"phase"`
}

// phase is the room's tagged state. Each variant owns the timers that can
// move it forward; stop cancels all of them.
type phase interface {
	kind() RoomPhase
	stop()
}

type idlePhase struct{}

func (idlePhase) kind() RoomPhase { return PhaseIdle }
func (idlePhase) stop()           {}

type countdownPhase struct {
	ticksLeft int
	ticker    Timer
}

func (p *countdownPhase) kind() RoomPhase { return PhaseCountdown }
func (p *countdownPhase) stop()           { stopTimer(p.ticker) }

type round struct {
	drawer   string
	word     string
	deadline time.Time
	timeout  Timer
}

// activePhase is a running session. round is nil during the pause between
// two rounds, while gap is pending.
type activePhase struct {
	sessionStart    time.Time
	sessionDeadline time.Time
	lastDrawer      string
	round           *round
	gap             Timer
}

func (p *activePhase) kind() RoomPhase { return PhaseActive }
func (p *activePhase) stop() {
	if p.round != nil {
		stopTimer(p.round.timeout)
	}
	stopTimer(p.gap)
}

type endingPhase struct {
	reset Timer
}

func (p *endingPhase) kind() RoomPhase { return PhaseEnding }
func (p *endingPhase) stop()           { stopTimer(p.reset) }

func stopTimer(t Timer) {
	if t != nil {
		t.Stop()
	}
}

type requestKind int

const (
	requestJoin requestKind = iota
	requestLeave
	requestGuess
	requestStroke
	requestClear
)

type roomRequest struct {
	kind    requestKind
	connID  string
	text    string
	payload json.RawMessage
	joined  chan error
}

// room owns all of its state on a single goroutine (GameLoop). Everything
// below the channels is only read or written from that goroutine.
type room struct {
	id      string
	rules   Rules
	gateway Gateway
	words   RandomWordsGenerator
	sched   Scheduler
	release func(*room)

	inbox  chan roomRequest
	timers chan func()
	done   chan struct{}

	description atomic.Pointer[RoomDescription]

	members map[string]string
	order   []string
	scores  map[string]int
	phase   phase
	closed  bool
}

func newRoom(id string, rules Rules, gateway Gateway, words RandomWordsGenerator, release func(*room)) *room {
	r := &room{
		id:      id,
		rules:   rules,
		gateway: gateway,
		words:   words,
		release: release,
		inbox:   make(chan roomRequest, 1024),
		timers:  make(chan func(), 64),
		done:    make(chan struct{}),
		members: make(map[string]string),
		order:   make([]string, 0, 8),
		scores:  make(map[string]int),
		phase:   idlePhase{},
	}
	r.sched = newLaneScheduler(r.post)
	r.publish()
	return r
}

func (r *room) ID() string {
	return r.id
}

func (r *room) Description() RoomDescription {
	return *r.description.Load()
}

func (r *room) publish() {
	r.description.Store(&RoomDescription{ID: r.id, Players: len(r.order), Phase: r.phase.kind()})
}

func (r *room) setPhase(next phase) {
	r.phase.stop()
	r.phase = next
}
