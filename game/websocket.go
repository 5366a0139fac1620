package game

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	pongWait  = time.Minute
)

type gorillaWebSocketWrapper struct {
	socket    *websocket.Conn
	closeOnce sync.Once
}

// NewGorillaWebSocketWrapper wraps an upgraded socket. Every pong pushes the read
// deadline forward, so a client that stops answering pings is dropped.
func NewGorillaWebSocketWrapper(conn *websocket.Conn) WebsocketConnection {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	return &gorillaWebSocketWrapper{socket: conn}
}

func (wc *gorillaWebSocketWrapper) Write(data []byte) error {
	wc.socket.SetWriteDeadline(time.Now().Add(writeWait))
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *gorillaWebSocketWrapper) Ping() error {
	return wc.socket.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (wc *gorillaWebSocketWrapper) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *gorillaWebSocketWrapper) Close() {
	wc.closeOnce.Do(func() {
		wc.socket.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		wc.socket.Close()
	})
}
