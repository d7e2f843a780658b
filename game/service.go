package game

import (
	"sync"

	"github.com/rs/zerolog"
)

// Service owns the room registry and is the sole mutator of room state.
// Registry inserts and deletes are atomic under locker; every mutation of
// one room is serialized under that room's own mutex, so actions against
// different rooms proceed concurrently.
type Service struct {
	locker sync.RWMutex
	rooms  map[string]*Room
	codes  *codeGenerator
	log    zerolog.Logger
}

func NewService(log zerolog.Logger) *Service {
	return &Service{
		rooms: make(map[string]*Room),
		codes: newCodeGenerator(),
		log:   log,
	}
}

// CreateRoom registers a new waiting room and seats the creator as its
// first player. The requested capacity is clamped to the legal range, so
// creation never fails.
func (s *Service) CreateRoom(playerID, name, photo string, maxPlayers int) ([]Event, error) {
	code := s.codes.Generate()
	room := newRoom(code, maxPlayers)

	s.locker.Lock()
	s.rooms[code] = room
	s.locker.Unlock()

	s.log.Info().Str("room", code).Int("maxPlayers", room.maxPlayers).Msg("room created")
	return s.Join(code, playerID, name, photo)
}

// Join seats a player in the room identified by code (normalized before
// lookup). When the room fills, the round starts in the same critical
// section so no action can slip between the join and the deal.
func (s *Service) Join(code, playerID, name, photo string) ([]Event, error) {
	room, err := s.lookup(code)
	if err != nil {
		return nil, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return nil, ErrRoomNotFound
	}
	if err := room.join(newPlayer(playerID, name, photo)); err != nil {
		return nil, err
	}
	events := []Event{{Kind: EventRoomUpdate, Room: room.snapshot()}}
	if room.full() {
		room.startRound()
		events = append(events, Event{Kind: EventGameStart, Room: room.snapshot()})
		s.log.Info().Str("room", room.code).Msg("round started")
	}
	return events, nil
}

// Reveal flips a hidden card for the acting player.
func (s *Service) Reveal(code, playerID string, cardIndex int) ([]Event, error) {
	return s.mutate(code, func(r *Room) error {
		return r.reveal(playerID, cardIndex)
	})
}

// Draw takes the visible discard card into the acting player's hold.
func (s *Service) Draw(code, playerID string) ([]Event, error) {
	return s.mutate(code, func(r *Room) error {
		return r.draw(playerID)
	})
}

// Replace resolves a held card by swapping it into the grid.
func (s *Service) Replace(code, playerID string, cardIndex int) ([]Event, error) {
	return s.mutate(code, func(r *Room) error {
		return r.replace(playerID, cardIndex)
	})
}

func (s *Service) mutate(code string, fn func(*Room) error) ([]Event, error) {
	room, err := s.lookup(code)
	if err != nil {
		return nil, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return nil, ErrRoomNotFound
	}
	before := room.status
	if err := fn(room); err != nil {
		return nil, err
	}
	events := []Event{{Kind: EventGameUpdate, Room: room.snapshot()}}
	if before == StatusPlaying && room.status == StatusFinished {
		events = append(events, Event{Kind: EventGameEnd, Room: room.snapshot()})
		s.log.Info().Str("room", room.code).Msg("round finished")
	}
	return events, nil
}

// RemovePlayer sweeps every room for the disconnecting player. Rooms that
// become empty are deleted from the registry whatever their status, and
// their codes released. It returns the events owed to the survivors keyed
// by room code, plus the codes of the rooms it deleted. Removing an
// already-removed player is a no-op.
func (s *Service) RemovePlayer(playerID string) (map[string][]Event, []string) {
	s.locker.RLock()
	rooms := make(map[string]*Room, len(s.rooms))
	for code, room := range s.rooms {
		rooms[code] = room
	}
	s.locker.RUnlock()

	out := make(map[string][]Event)
	var deleted []string
	for code, room := range rooms {
		room.mu.Lock()
		if room.closed {
			room.mu.Unlock()
			continue
		}
		removed, empty := room.removePlayer(playerID)
		if empty {
			room.closed = true
			room.mu.Unlock()
			s.locker.Lock()
			delete(s.rooms, code)
			s.locker.Unlock()
			s.codes.Release(code)
			deleted = append(deleted, code)
			s.log.Info().Str("room", code).Msg("room cleaned up")
			continue
		}
		if removed {
			out[code] = []Event{{Kind: EventGameUpdate, Room: room.snapshot()}}
		}
		room.mu.Unlock()
	}
	return out, deleted
}

// RoomCount reports the number of live rooms, for the health endpoint.
func (s *Service) RoomCount() int {
	s.locker.RLock()
	defer s.locker.RUnlock()
	return len(s.rooms)
}

func (s *Service) lookup(code string) (*Room, error) {
	code = NormalizeCode(code)
	s.locker.RLock()
	room, ok := s.rooms[code]
	s.locker.RUnlock()
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}
