package game

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

func (r *room) handleJoin(connID, username string) {
	if _, ok := r.members[connID]; ok {
		return
	}

	name := r.uniqueName(username)
	r.members[connID] = name
	r.order = append(r.order, connID)
	if _, ok := r.scores[name]; !ok {
		r.scores[name] = 0
	}
	log.Info().Str("room", r.id).Str("conn", connID).Str("username", name).Int("players", len(r.order)).Msg("player joined")

	r.sendTo(connID, KindJoinSuccess, JoinSuccess{Username: name})
	r.broadcast(KindUserList, UserList{Names: r.names()})
	r.broadcastScores()
	r.systemChat(name + " joined.")
	r.broadcastGameState()

	if _, idle := r.phase.(idlePhase); idle && len(r.order) >= r.rules.MinPlayers {
		r.startCountdown()
	}
}

func (r *room) handleLeave(connID string) {
	name, ok := r.members[connID]
	if !ok {
		return
	}
	log.Info().Str("room", r.id).Str("conn", connID).Str("username", name).Msg("player left")

	if len(r.order) == 1 {
		r.removeMember(connID)
		r.destroy()
		return
	}

	if a, ok := r.phase.(*activePhase); ok && a.round != nil && a.round.drawer == connID {
		r.endRound(OutcomeAbandoned)
	}
	r.removeMember(connID)

	r.broadcast(KindUserList, UserList{Names: r.names()})
	r.systemChat(name + " left.")

	if _, counting := r.phase.(*countdownPhase); counting && len(r.order) < r.rules.MinPlayers {
		r.setPhase(idlePhase{})
		r.systemChat("Not enough players, countdown cancelled.")
		log.Info().Str("room", r.id).Msg("countdown aborted")
	}
}

func (r *room) handleGuess(connID, text string) {
	name, ok := r.members[connID]
	if !ok {
		return
	}

	a, active := r.phase.(*activePhase)
	if !active || a.round == nil || a.round.drawer == connID {
		r.broadcast(KindChatMessage, ChatMessage{From: name, Text: text})
		return
	}

	if !strings.EqualFold(strings.TrimSpace(text), a.round.word) {
		r.broadcast(KindChatMessage, ChatMessage{From: name, Text: text})
		return
	}

	r.systemChat(name + " guessed the word!")
	r.scores[name] += r.rules.GuessPoints
	drawerName := r.members[a.round.drawer]
	if _, ok := r.scores[drawerName]; ok {
		r.scores[drawerName] += r.rules.DrawerPoints
	}
	r.broadcastScores()
	r.endRound(OutcomeGuessed)
}

func (r *room) handleStroke(connID string, payload json.RawMessage) {
	if !r.isDrawer(connID) {
		return
	}
	for _, id := range r.order {
		if id != connID {
			r.sendTo(id, KindRemoteStroke, payload)
		}
	}
}

func (r *room) handleClear(connID string) {
	if !r.isDrawer(connID) {
		return
	}
	r.broadcast(KindClearBoard, nil)
}

func (r *room) startCountdown() {
	p := &countdownPhase{ticksLeft: r.rules.CountdownSeconds}
	r.setPhase(p)
	r.systemChat(fmt.Sprintf("Minimum players reached! Starting in %d seconds...", r.rules.CountdownSeconds))
	log.Info().Str("room", r.id).Int("seconds", r.rules.CountdownSeconds).Msg("countdown started")
	p.ticker = r.sched.Every(time.Second, func() { r.countdownTick(p) })
}

func (r *room) countdownTick(p *countdownPhase) {
	r.broadcast(KindCountdown, Countdown{SecondsRemaining: p.ticksLeft})
	p.ticksLeft--
	if p.ticksLeft < 0 {
		r.startSession()
	}
}

func (r *room) startSession() {
	now := r.sched.Now()
	a := &activePhase{sessionStart: now, sessionDeadline: now.Add(r.rules.SessionDuration)}
	r.setPhase(a)
	r.systemChat(fmt.Sprintf("Session Started! %s to play.", humanDuration(r.rules.SessionDuration)))
	log.Info().Str("room", r.id).Time("deadline", a.sessionDeadline).Msg("session started")
	r.startRound(a)
}

func (r *room) startRound(a *activePhase) {
	if len(r.order) == 0 {
		r.endSession()
		return
	}

	drawer := r.nextDrawer(a.lastDrawer)
	rd := &round{
		drawer:   drawer,
		word:     r.pickWord(),
		deadline: r.sched.Now().Add(r.rules.RoundDuration),
	}
	a.round = rd
	a.lastDrawer = drawer
	a.gap = nil
	rd.timeout = r.sched.After(r.rules.RoundDuration, func() { r.endRound(OutcomeTimeout) })

	drawerName := r.members[drawer]
	log.Info().Str("room", r.id).Str("drawer", drawerName).Msg("round started")

	r.broadcast(KindClearBoard, nil)
	r.systemChat(drawerName + " is drawing! Guess the word!")
	r.sendTo(drawer, KindYourWord, YourWord{Word: rd.word})
	r.broadcastGameState()
}

func (r *room) endRound(outcome RoundOutcome) {
	a, ok := r.phase.(*activePhase)
	if !ok || a.round == nil {
		return
	}
	rd := a.round
	stopTimer(rd.timeout)
	a.round = nil
	log.Info().Str("room", r.id).Str("outcome", string(outcome)).Msg("round ended")

	switch outcome {
	case OutcomeGuessed:
		r.systemChat("Round ended! The word was " + rd.word)
	case OutcomeTimeout:
		r.systemChat("Time's up! The word was " + rd.word)
	case OutcomeAbandoned:
		r.systemChat(r.members[rd.drawer] + " left. The word was " + rd.word)
	}
	r.broadcast(KindRoundEnded, RoundEnded{Outcome: outcome, Word: rd.word})
	r.broadcastGameState()

	if r.sched.Now().Sub(a.sessionStart) >= r.rules.SessionDuration {
		r.endSession()
		return
	}
	a.gap = r.sched.After(r.rules.RoundGap, func() { r.startRound(a) })
}

func (r *room) endSession() {
	board := r.leaderboard()
	winner := "No one"
	if len(board) > 0 {
		winner = board[0].Name
	}

	ending := &endingPhase{}
	r.setPhase(ending)
	log.Info().Str("room", r.id).Str("winner", winner).Msg("session ended")

	r.broadcast(KindSessionEnded, SessionEnded{Winner: winner, Leaderboard: board})
	r.systemChat("Session Ended. Winner: " + winner)
	r.broadcastGameState()
	ending.reset = r.sched.After(r.rules.ResetDelay, r.resetScores)
}

func (r *room) resetScores() {
	for name := range r.scores {
		r.scores[name] = 0
	}
	r.setPhase(idlePhase{})
	r.broadcastScores()
	r.broadcastGameState()

	if len(r.order) >= r.rules.MinPlayers {
		r.startCountdown()
	}
}

func (r *room) isDrawer(connID string) bool {
	a, ok := r.phase.(*activePhase)
	return ok && a.round != nil && a.round.drawer == connID
}

// nextDrawer follows join order and wraps to the first member when last is
// the final member or no longer present.
func (r *room) nextDrawer(last string) string {
	idx := slices.Index(r.order, last)
	if idx < 0 {
		return r.order[0]
	}
	return r.order[(idx+1)%len(r.order)]
}

func (r *room) pickWord() string {
	if words := r.words.Generate(1); len(words) > 0 {
		return words[0]
	}
	return DefaultWords[0]
}

func (r *room) uniqueName(requested string) string {
	taken := make(map[string]bool, len(r.members))
	for _, n := range r.members {
		taken[n] = true
	}
	name := requested
	for i := 1; taken[name]; i++ {
		name = requested + strconv.Itoa(i)
	}
	return name
}

func (r *room) removeMember(connID string) {
	delete(r.members, connID)
	r.order = slices.DeleteFunc(r.order, func(id string) bool { return id == connID })
}

func (r *room) names() []string {
	names := make([]string, 0, len(r.order))
	for _, id := range r.order {
		names = append(names, r.members[id])
	}
	return names
}

func (r *room) leaderboard() []LeaderboardEntry {
	board := make([]LeaderboardEntry, 0, len(r.scores))
	for name, score := range r.scores {
		board = append(board, LeaderboardEntry{Name: name, Score: score})
	}
	slices.SortFunc(board, func(a, b LeaderboardEntry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return board
}

func (r *room) broadcast(kind string, payload any) {
	r.gateway.BroadcastToRoom(r.id, newEvent(r.id, kind, payload))
}

func (r *room) sendTo(connID, kind string, payload any) {
	r.gateway.SendToOne(connID, newEvent(r.id, kind, payload))
}

func (r *room) systemChat(text string) {
	r.broadcast(KindChatMessage, ChatMessage{From: systemName, Text: text})
}

func (r *room) broadcastScores() {
	r.broadcast(KindScoreUpdate, ScoreUpdate{Scores: maps.Clone(r.scores)})
}

func (r *room) broadcastGameState() {
	st := GameState{}
	if a, ok := r.phase.(*activePhase); ok {
		now := r.sched.Now()
		st.GameActive = true
		st.SessionTimeRemaining = secondsLeft(a.sessionDeadline, now)
		if a.round != nil {
			st.CurrentDrawer = r.members[a.round.drawer]
			st.HasWord = true
			st.TimeRemaining = secondsLeft(a.round.deadline, now)
		}
	}
	r.broadcast(KindGameState, st)
}

func secondsLeft(deadline, now time.Time) int64 {
	return max(0, int64(deadline.Sub(now)/time.Second))
}

func humanDuration(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
	return fmt.Sprintf("%d seconds", int(d/time.Second))
}
