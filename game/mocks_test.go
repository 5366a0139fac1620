package game

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/mock"
)

// --- WebsocketConnection ---

type MockWebsocketConnection struct {
	mock.Mock
}

func (m *MockWebsocketConnection) Close() {
	m.Called()
}

func (m *MockWebsocketConnection) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockWebsocketConnection) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockWebsocketConnection) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- RandomWordsGenerator ---

type MockRandomWordsGenerator struct {
	mock.Mock
}

func (m *MockRandomWordsGenerator) Generate(count int) []string {
	args := m.Called(count)
	return args.Get(0).([]string)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}

// --- Room ---

type MockRoom struct {
	mock.Mock
}

func (m *MockRoom) ID() string {
	return m.Called().String(0)
}

func (m *MockRoom) Join(ctx context.Context, connID, username string) error {
	return m.Called(ctx, connID, username).Error(0)
}

func (m *MockRoom) Leave(ctx context.Context, connID string) {
	m.Called(ctx, connID)
}

func (m *MockRoom) Guess(ctx context.Context, connID, text string) {
	m.Called(ctx, connID, text)
}

func (m *MockRoom) Stroke(ctx context.Context, connID string, payload json.RawMessage) {
	m.Called(ctx, connID, payload)
}

func (m *MockRoom) Clear(ctx context.Context, connID string) {
	m.Called(ctx, connID)
}

func (m *MockRoom) Description() RoomDescription {
	return m.Called().Get(0).(RoomDescription)
}

// --- RoomRegistry ---

type MockRoomRegistry struct {
	mock.Mock
}

func (m *MockRoomRegistry) GetOrCreate(roomID string) Room {
	return m.Called(roomID).Get(0).(Room)
}

func (m *MockRoomRegistry) Get(roomID string) (Room, bool) {
	args := m.Called(roomID)
	room, _ := args.Get(0).(Room)
	return room, args.Bool(1)
}

// --- Dispatcher ---

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Connect(c *Conn) {
	m.Called(c)
}

func (m *MockDispatcher) Dispatch(ctx context.Context, c *Conn, msg Inbound) {
	m.Called(ctx, c, msg)
}

func (m *MockDispatcher) Disconnect(ctx context.Context, c *Conn) {
	m.Called(ctx, c)
}
