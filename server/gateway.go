package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/krismos64/Skyjo/game"
)

const pingInterval = 30 * time.Second

// Gateway maps inbound client actions onto the room service and fans the
// resulting snapshots out to every member of the affected room.
type Gateway struct {
	service *game.Service
	log     zerolog.Logger

	locker  sync.RWMutex
	clients map[*client]struct{}
	members map[string]map[*client]struct{}
	lastSeq map[string]uint64
}

func NewGateway(service *game.Service, log zerolog.Logger) *Gateway {
	return &Gateway{
		service: service,
		log:     log,
		clients: make(map[*client]struct{}),
		members: make(map[string]map[*client]struct{}),
		lastSeq: make(map[string]uint64),
	}
}

// HandleConnection owns the connection for its whole lifetime: it
// registers a fresh client, runs the pumps, and tears everything down
// when the read side drops.
func (g *Gateway) HandleConnection(socket connection) {
	c := newClient(socket)

	g.locker.Lock()
	g.clients[c] = struct{}{}
	g.locker.Unlock()

	g.log.Debug().Str("client", c.id).Msg("client connected")
	go c.writePump()
	c.readPump(g)
}

// Run pings every client on a fixed interval until ctx is done, so dead
// connections trip their read deadlines.
func (g *Gateway) Run(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.locker.RLock()
			for c := range g.clients {
				c.ping()
			}
			g.locker.RUnlock()
		}
	}
}

// ClientCount reports the number of live connections, for the health
// endpoint.
func (g *Gateway) ClientCount() int {
	g.locker.RLock()
	defer g.locker.RUnlock()
	return len(g.clients)
}

func (g *Gateway) dispatch(c *client, env Envelope) {
	switch env.Event {
	case actionCreateRoom:
		g.handleCreateRoom(c, env.Data)
	case actionJoinRoom:
		g.handleJoinRoom(c, env.Data)
	case actionRevealCard:
		g.handleCardAction(c, env.Data, g.service.Reveal)
	case actionDrawCard:
		g.handleDrawCard(c, env.Data)
	case actionReplaceCard:
		g.handleCardAction(c, env.Data, g.service.Replace)
	default:
		g.log.Debug().Str("client", c.id).Str("event", env.Event).Msg("unknown event dropped")
	}
}

func (g *Gateway) handleCreateRoom(c *client, data []byte) {
	var payload createRoomPayload
	if err := unmarshalPayload(data, &payload); err != nil {
		g.sendError(c, "invalid request")
		return
	}
	events, err := g.service.CreateRoom(c.id, payload.PlayerName, payload.PlayerPhoto, payload.MaxPlayers)
	if err != nil {
		g.sendError(c, "could not create the room")
		return
	}
	code := events[0].Room.Code
	g.enroll(c, code)
	g.broadcast(code, events)
}

func (g *Gateway) handleJoinRoom(c *client, data []byte) {
	var payload joinRoomPayload
	if err := unmarshalPayload(data, &payload); err != nil {
		g.sendError(c, "invalid request")
		return
	}
	events, err := g.service.Join(payload.RoomCode, c.id, payload.PlayerName, payload.PlayerPhoto)
	if err != nil {
		g.sendError(c, joinErrorMessage(err))
		return
	}
	code := game.NormalizeCode(payload.RoomCode)
	g.enroll(c, code)
	g.broadcast(code, events)
}

// handleCardAction covers reveal and replace, which share a payload.
// Rejections stay silent toward the client.
func (g *Gateway) handleCardAction(c *client, data []byte, op func(code, playerID string, cardIndex int) ([]game.Event, error)) {
	var payload cardActionPayload
	if err := unmarshalPayload(data, &payload); err != nil {
		return
	}
	events, err := op(payload.RoomCode, c.id, payload.CardIndex)
	if err != nil {
		g.logRejection(c, err)
		return
	}
	g.broadcast(game.NormalizeCode(payload.RoomCode), events)
}

func (g *Gateway) handleDrawCard(c *client, data []byte) {
	var payload cardActionPayload
	if err := unmarshalPayload(data, &payload); err != nil {
		return
	}
	events, err := g.service.Draw(payload.RoomCode, c.id)
	if err != nil {
		g.logRejection(c, err)
		return
	}
	g.broadcast(game.NormalizeCode(payload.RoomCode), events)
}

// disconnect tears down a client: membership in every room it joined,
// room state, pumps. A client can sit in several rooms at once, so the
// sweep mirrors Service.RemovePlayer and touches all of them. Safe to
// call more than once.
func (g *Gateway) disconnect(c *client) {
	g.locker.Lock()
	_, live := g.clients[c]
	delete(g.clients, c)
	for code, room := range g.members {
		delete(room, c)
		if len(room) == 0 {
			delete(g.members, code)
			delete(g.lastSeq, code)
		}
	}
	g.locker.Unlock()

	if !live {
		return
	}
	g.log.Debug().Str("client", c.id).Msg("client disconnected")
	updates, deletedRooms := g.service.RemovePlayer(c.id)
	for code, events := range updates {
		g.broadcast(code, events)
	}
	g.locker.Lock()
	for _, code := range deletedRooms {
		delete(g.members, code)
		delete(g.lastSeq, code)
	}
	g.locker.Unlock()
	c.release()
}

func (g *Gateway) enroll(c *client, code string) {
	g.locker.Lock()
	defer g.locker.Unlock()
	if _, live := g.clients[c]; !live {
		return
	}
	if g.members[code] == nil {
		g.members[code] = make(map[*client]struct{})
	}
	g.members[code][c] = struct{}{}
}

// broadcast sends each event to every current member of the room.
// Delivery is kept in room order: a snapshot older than the last one
// delivered for the code is dropped, so a sender preempted between the
// room mutation and the fan-out can never overwrite a newer state. The
// check and the sends share the lock because sends never block; a member
// whose buffer is full is cut loose instead of stalling the rest.
func (g *Gateway) broadcast(code string, events []game.Event) {
	g.locker.Lock()
	defer g.locker.Unlock()
	for _, ev := range events {
		if ev.Room.Version < g.lastSeq[code] {
			g.log.Debug().Str("room", code).Uint64("version", ev.Room.Version).Msg("stale snapshot dropped")
			continue
		}
		data, err := marshalEnvelope(string(ev.Kind), ev.Room)
		if err != nil {
			g.log.Error().Err(err).Str("room", code).Msg("snapshot marshal failed")
			continue
		}
		g.lastSeq[code] = ev.Room.Version
		for m := range g.members[code] {
			if !m.send(data) {
				g.log.Warn().Str("client", m.id).Str("room", code).Msg("slow consumer dropped")
				m.socket.Close("slow consumer")
			}
		}
	}
}

func (g *Gateway) sendError(c *client, message string) {
	data, err := marshalEnvelope(eventError, errorPayload{Message: message})
	if err != nil {
		return
	}
	c.send(data)
}

func (g *Gateway) logRejection(c *client, err error) {
	if errors.Is(err, game.ErrRejected) || errors.Is(err, game.ErrRoomNotFound) {
		g.log.Debug().Str("client", c.id).Err(err).Msg("action dropped")
		return
	}
	g.log.Warn().Str("client", c.id).Err(err).Msg("action failed")
}

func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		return "invalid code"
	case errors.Is(err, game.ErrRoomFull):
		return "room is full"
	case errors.Is(err, game.ErrRoomNotJoinable):
		return "game already started"
	default:
		return "could not join the room"
	}
}
