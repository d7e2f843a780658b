package server

import (
	"time"

	"github.com/gorilla/websocket"
)

// connection abstracts the transport so the gateway and its tests do not
// need a live websocket.
type connection interface {
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
	Close(reason string)
}

const (
	readDeadline  = time.Minute
	closeDeadline = 20 * time.Second
)

type wsConn struct {
	socket *websocket.Conn
}

func newWSConn(conn *websocket.Conn) *wsConn {
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})
	return &wsConn{socket: conn}
}

func (wc *wsConn) Write(data []byte) error {
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *wsConn) Ping() error {
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *wsConn) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *wsConn) Close(reason string) {
	wc.socket.SetWriteDeadline(time.Now().Add(closeDeadline))
	wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	wc.socket.Close()
}
