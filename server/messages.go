package server

import (
	"encoding/json"
	"errors"
)

// Envelope frames every message in both directions: a named event plus
// its raw payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound event names.
const (
	actionCreateRoom  = "createRoom"
	actionJoinRoom    = "joinRoom"
	actionRevealCard  = "revealCard"
	actionDrawCard    = "drawCard"
	actionReplaceCard = "replaceCard"
)

const eventError = "error"

type createRoomPayload struct {
	PlayerName  string `json:"playerName"`
	PlayerPhoto string `json:"playerPhoto"`
	MaxPlayers  int    `json:"maxPlayers"`
}

type joinRoomPayload struct {
	RoomCode    string `json:"roomCode"`
	PlayerName  string `json:"playerName"`
	PlayerPhoto string `json:"playerPhoto"`
}

type cardActionPayload struct {
	RoomCode  string `json:"roomCode"`
	CardIndex int    `json:"cardIndex"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func unmarshalPayload(data []byte, v any) error {
	if len(data) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(data, v)
}

func marshalEnvelope(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
