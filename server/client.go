package server

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// client is one connected participant. Its id doubles as the player id
// inside rooms and is unique for the connection's lifetime.
type client struct {
	id      string
	socket  connection
	limiter *rate.Limiter
	inbox   chan []byte
	pings   chan struct{}
	done    chan struct{}
	closing sync.Once
}

func newClient(socket connection) *client {
	return &client{
		id:      uuid.NewString(),
		socket:  socket,
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		inbox:   make(chan []byte, 256),
		pings:   make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// readPump decodes inbound envelopes and hands them to the gateway until
// the connection drops. Actions over the rate limit are dropped, not
// queued.
func (c *client) readPump(g *Gateway) {
	defer g.disconnect(c)
	for {
		data, err := c.socket.Read()
		if err != nil {
			return
		}
		if !c.limiter.Allow() {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		g.dispatch(c, env)
	}
}

func (c *client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.inbox:
			if err := c.socket.Write(data); err != nil {
				return
			}
		case <-c.pings:
			if err := c.socket.Ping(); err != nil {
				return
			}
		}
	}
}

// send queues data without blocking; it reports false when the client's
// buffer is full. Sending to a released client is a no-op.
func (c *client) send(data []byte) bool {
	select {
	case <-c.done:
		return true
	default:
	}
	select {
	case c.inbox <- data:
		return true
	default:
		return false
	}
}

func (c *client) ping() {
	select {
	case c.pings <- struct{}{}:
	default:
	}
}

// release stops the write pump. Idempotent.
func (c *client) release() {
	c.closing.Do(func() {
		close(c.done)
	})
}
