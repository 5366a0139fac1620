package game

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// GameLoop is the room's lane. It returns once the last member has left.
func (r *room) GameLoop() {
	log.Debug().Str("room", r.id).Msg("room loop started")
	for !r.closed {
		select {
		case req := <-r.inbox:
			r.handleRequest(req)
		case fn := <-r.timers:
			fn()
		}
		r.publish()
	}
	log.Debug().Str("room", r.id).Msg("room loop stopped")
}

func (r *room) handleRequest(req roomRequest) {
	switch req.kind {
	case requestJoin:
		r.handleJoin(req.connID, req.text)
		req.joined <- nil
	case requestLeave:
		r.handleLeave(req.connID)
	case requestGuess:
		r.handleGuess(req.connID, req.text)
	case requestStroke:
		r.handleStroke(req.connID, req.payload)
	case requestClear:
		r.handleClear(req.connID)
	}
}

// post hands a timer callback to the lane. It reports false once the lane has
// stopped.
func (r *room) post(fn func()) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.timers <- fn:
		return true
	case <-r.done:
		return false
	}
}

func (r *room) send(ctx context.Context, req roomRequest) {
	select {
	case r.inbox <- req:
	case <-r.done:
	case <-ctx.Done():
	}
}

// Join queues behind every earlier request of the room and blocks until the
// lane has handled it. It returns ErrRoomClosed when the room shut down first;
// the caller should look the room up again. On a context error the join may
// still be applied later.
func (r *room) Join(ctx context.Context, connID, username string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	joined := make(chan error, 1)
	select {
	case r.inbox <- roomRequest{kind: requestJoin, connID: connID, text: username, joined: joined}:
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-joined:
		return err
	case <-r.done:
		// the lane may have handled the join right before closing
		select {
		case err := <-joined:
			return err
		default:
			return ErrRoomClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *room) Leave(ctx context.Context, connID string) {
	r.send(ctx, roomRequest{kind: requestLeave, connID: connID})
}

func (r *room) Guess(ctx context.Context, connID, text string) {
	r.send(ctx, roomRequest{kind: requestGuess, connID: connID, text: text})
}

func (r *room) Stroke(ctx context.Context, connID string, payload json.RawMessage) {
	r.send(ctx, roomRequest{kind: requestStroke, connID: connID, payload: payload})
}

func (r *room) Clear(ctx context.Context, connID string) {
	r.send(ctx, roomRequest{kind: requestClear, connID: connID})
}

// destroy stops every timer, deregisters the room and ends the lane.
func (r *room) destroy() {
	r.setPhase(idlePhase{})
	r.closed = true
	r.publish()
	if r.release != nil {
		r.release(r)
	}
	close(r.done)
	log.Info().Str("room", r.id).Msg("room destroyed")
}
