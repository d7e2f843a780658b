package game

import (
	"math/rand/v2"
	"strings"
	"sync"
	"unicode/utf8"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// GridSize is the number of card slots dealt to each player.
const GridSize = 12

const (
	minPlayers  = 2
	maxCapacity = 4
	maxNameLen  = 24
	defaultName = "Player"
)

type Player struct {
	id        string
	name      string
	photo     string
	grid      []Card
	drawnCard *Card
	score     int
}

// Room is the authoritative state of one session. All access goes through
// the Service, which serializes it under mu; the transition methods below
// assume the lock is held.
type Room struct {
	mu sync.Mutex

	code        string
	maxPlayers  int
	status      Status
	players     []*Player
	deck        []Card
	discardPile []Card
	currentTurn int

	// seq counts accepted mutations. Snapshots carry it as their version
	// so deliveries for a room can be kept from going backwards.
	seq uint64

	// closed marks a room deleted from the registry; a goroutine that
	// grabbed the pointer before the delete must not revive it.
	closed bool
}

func newRoom(code string, maxPlayers int) *Room {
	if maxPlayers < minPlayers {
		maxPlayers = minPlayers
	}
	if maxPlayers > maxCapacity {
		maxPlayers = maxCapacity
	}
	return &Room{
		code:       code,
		maxPlayers: maxPlayers,
		status:     StatusWaiting,
	}
}

func newPlayer(id, name, photo string) *Player {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}
	// truncate on a rune boundary so a multi-byte name stays valid UTF-8
	if utf8.RuneCountInString(name) > maxNameLen {
		name = string([]rune(name)[:maxNameLen])
	}
	return &Player{id: id, name: name, photo: photo}
}

func (r *Room) join(p *Player) error {
	if r.status != StatusWaiting {
		return ErrRoomNotJoinable
	}
	if len(r.players) >= r.maxPlayers {
		return ErrRoomFull
	}
	r.players = append(r.players, p)
	r.seq++
	return nil
}

func (r *Room) full() bool {
	return len(r.players) == r.maxPlayers
}

// startRound deals the shuffled deck: twelve hidden cards per player in
// join order, then one card flipped onto the discard pile. The starting
// turn is uniform over the players.
func (r *Room) startRound() {
	deck := Shuffle(NewDeck())
	for _, p := range r.players {
		p.grid = make([]Card, GridSize)
		copy(p.grid, deck[:GridSize])
		deck = deck[GridSize:]
		p.score = 0
	}
	r.discardPile = []Card{{Value: deck[0].Value, Revealed: true}}
	r.deck = deck[1:]
	r.currentTurn = rand.IntN(len(r.players))
	r.status = StatusPlaying
	r.seq++
}

// reveal flips a hidden grid card for the player whose turn it is. If the
// actor still holds a drawn card, the hold resolves as a discard-back
// before the flip.
func (r *Room) reveal(playerID string, cardIndex int) error {
	if r.status != StatusPlaying {
		return ErrRejected
	}
	p := r.players[r.currentTurn]
	if p.id != playerID {
		return ErrRejected
	}
	if cardIndex < 0 || cardIndex >= len(p.grid) {
		return ErrRejected
	}
	if p.grid[cardIndex].Revealed {
		return ErrRejected
	}
	if p.drawnCard != nil {
		r.discardPile = append(r.discardPile, *p.drawnCard)
		p.drawnCard = nil
	}
	p.grid[cardIndex].Revealed = true
	p.score = Score(p.grid)
	r.advanceTurn()
	r.checkEnd()
	r.seq++
	return nil
}

// draw moves the visible discard top into the actor's holding slot and
// replenishes the discard top from the deck. The turn does not advance
// until the hold is resolved by replace or discard-back.
func (r *Room) draw(playerID string) error {
	if r.status != StatusPlaying {
		return ErrRejected
	}
	p := r.players[r.currentTurn]
	if p.id != playerID || p.drawnCard != nil {
		return ErrRejected
	}
	if len(r.discardPile) == 0 {
		return ErrRejected
	}
	top := r.discardPile[len(r.discardPile)-1]
	r.discardPile = r.discardPile[:len(r.discardPile)-1]
	p.drawnCard = &top
	if len(r.deck) > 0 {
		next := r.deck[0]
		r.deck = r.deck[1:]
		next.Revealed = true
		r.discardPile = append(r.discardPile, next)
	}
	r.seq++
	return nil
}

// replace swaps the held card into the grid face-up and discards the
// displaced slot.
func (r *Room) replace(playerID string, cardIndex int) error {
	if r.status != StatusPlaying {
		return ErrRejected
	}
	p := r.players[r.currentTurn]
	if p.id != playerID || p.drawnCard == nil {
		return ErrRejected
	}
	if cardIndex < 0 || cardIndex >= len(p.grid) {
		return ErrRejected
	}
	displaced := p.grid[cardIndex]
	p.grid[cardIndex] = Card{Value: p.drawnCard.Value, Revealed: true}
	r.discardPile = append(r.discardPile, Card{Value: displaced.Value, Revealed: true})
	p.drawnCard = nil
	p.score = Score(p.grid)
	r.advanceTurn()
	r.checkEnd()
	r.seq++
	return nil
}

func (r *Room) advanceTurn() {
	r.currentTurn = (r.currentTurn + 1) % len(r.players)
}

// checkEnd finishes the round once any grid is fully revealed. Status
// never regresses.
func (r *Room) checkEnd() {
	if r.status != StatusPlaying {
		return
	}
	for _, p := range r.players {
		if gridFullyRevealed(p.grid) {
			r.status = StatusFinished
			return
		}
	}
}

func gridFullyRevealed(grid []Card) bool {
	if len(grid) == 0 {
		return false
	}
	for _, c := range grid {
		if !c.Revealed {
			return false
		}
	}
	return true
}

// removePlayer drops the player from the room, keeping currentTurn on a
// valid remaining player and preserving relative turn order. Removing an
// absent player is a no-op. It reports whether the player was present and
// whether the room is now empty.
func (r *Room) removePlayer(playerID string) (removed, empty bool) {
	idx := -1
	for i, p := range r.players {
		if p.id == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, len(r.players) == 0
	}
	leaver := r.players[idx]
	if leaver.drawnCard != nil {
		r.discardPile = append(r.discardPile, *leaver.drawnCard)
		leaver.drawnCard = nil
	}
	r.players = append(r.players[:idx:idx], r.players[idx+1:]...)
	r.seq++
	if len(r.players) == 0 {
		return true, true
	}
	if idx < r.currentTurn {
		r.currentTurn--
	}
	r.currentTurn %= len(r.players)
	return true, false
}
