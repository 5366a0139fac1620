package game

import (
	"github.com/goccy/go-json"
)

// inbound kinds
const (
	KindJoinRoom = "joinRoom"
	KindStroke   = "stroke"
	KindClear    = "clear"
	KindGuess    = "guess"
	KindPing     = "ping"
)

// outbound kinds
const (
	KindJoinSuccess  = "joinSuccess"
	KindUserList     = "userList"
	KindScoreUpdate  = "scoreUpdate"
	KindChatMessage  = "chatMessage"
	KindCountdown    = "countdown"
	KindClearBoard   = "clearBoard"
	KindRemoteStroke = "remoteStroke"
	KindYourWord     = "yourWord"
	KindGameState    = "gameState"
	KindRoundEnded   = "roundEnded"
	KindSessionEnded = "sessionEnded"
)

const systemName = "System"

// Inbound is a frame received from a client.
type Inbound struct {
	Type     string          `json:"type"`
	RoomID   string          `json:"roomId"`
	Username string          `json:"username"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Event is a frame sent to clients.
type Event struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	Payload  any    `json:"payload,omitempty"`
}

type JoinSuccess struct {
	Username string `json:"username"`
}

type UserList struct {
	Names []string `json:"names"`
}

type ScoreUpdate struct {
	Scores map[string]int `json:"scores"`
}

type ChatMessage struct {
	From string `json:"from"`
	Text string `json:"text"`
}

type Countdown struct {
	SecondsRemaining int `json:"secondsRemaining"`
}

type YourWord struct {
	Word string `json:"word"`
}

type GameState struct {
	GameActive           bool   `json:"gameActive"`
	CurrentDrawer        string `json:"currentDrawer"`
	HasWord              bool   `json:"hasWord"`
	TimeRemaining        int64  `json:"timeRemaining"`
	SessionTimeRemaining int64  `json:"sessionTimeRemaining"`
}

type RoundEnded struct {
	Outcome RoundOutcome `json:"outcome"`
	Word    string       `json:"word"`
}

type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type SessionEnded struct {
	Winner      string             `json:"winner"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type guessPayload struct {
	Text *string `json:"text"`
}

func newEvent(roomID, kind string, payload any) Event {
	return Event{Type: kind, RoomID: roomID, Username: systemName, Payload: payload}
}

func encodeEvent(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

func decodeInbound(data []byte) (Inbound, error) {
	msg := Inbound{}
	if err := json.Unmarshal(data, &msg); err != nil {
		return Inbound{}, ErrMalformedFrame
	}
	if msg.Type == "" {
		return Inbound{}, ErrMalformedFrame
	}
	return msg, nil
}

// guessText extracts payload.text; ok is false when the field is missing.
func guessText(payload json.RawMessage) (string, bool) {
	if len(payload) == 0 {
		return "", false
	}
	p := guessPayload{}
	if err := json.Unmarshal(payload, &p); err != nil || p.Text == nil {
		return "", false
	}
	return *p.Text, true
}
