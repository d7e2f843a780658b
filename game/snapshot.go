package game

// Snapshot is the full room view broadcast to every member after each
// accepted action. Clients render from it directly; the server never
// sends diffs.
type Snapshot struct {
	Code string `json:"code"`
	// Version increases with every accepted mutation of the room;
	// deliveries for a room never go backwards, and clients may discard
	// any snapshot older than the last one they rendered.
	Version     uint64           `json:"version"`
	Status      Status           `json:"status"`
	MaxPlayers  int              `json:"maxPlayers"`
	CurrentTurn int              `json:"currentTurn"`
	Players     []PlayerSnapshot `json:"players"`
	DiscardPile []Card           `json:"discardPile"`
	DeckCount   int              `json:"deckCount"`
}

type PlayerSnapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Photo     string `json:"photo,omitempty"`
	Grid      []Card `json:"grid"`
	DrawnCard *Card  `json:"drawnCard,omitempty"`
	Score     int    `json:"score"`
	// Ready stays on the wire for client compatibility; round start is
	// gated on the room filling up, not on readiness.
	Ready bool `json:"ready"`
}

// snapshot deep-copies the room state so the caller can release the lock
// before marshalling.
func (r *Room) snapshot() Snapshot {
	players := make([]PlayerSnapshot, len(r.players))
	for i, p := range r.players {
		grid := make([]Card, len(p.grid))
		copy(grid, p.grid)
		ps := PlayerSnapshot{
			ID:    p.id,
			Name:  p.name,
			Photo: p.photo,
			Grid:  grid,
			Score: p.score,
		}
		if p.drawnCard != nil {
			held := *p.drawnCard
			ps.DrawnCard = &held
		}
		players[i] = ps
	}
	discard := make([]Card, len(r.discardPile))
	copy(discard, r.discardPile)
	return Snapshot{
		Code:        r.code,
		Version:     r.seq,
		Status:      r.status,
		MaxPlayers:  r.maxPlayers,
		CurrentTurn: r.currentTurn,
		Players:     players,
		DiscardPile: discard,
		DeckCount:   len(r.deck),
	}
}
