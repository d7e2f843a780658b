package game

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playingRoom seats n players, starts the round, and pins the turn on
// players[0] so tests are deterministic.
func playingRoom(t *testing.T, n int) *Room {
	t.Helper()
	r := newRoom("TESTAA", n)
	for i := 0; i < n; i++ {
		require.NoError(t, r.join(newPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("player %d", i), "")))
	}
	r.startRound()
	require.Equal(t, StatusPlaying, r.status)
	r.currentTurn = 0
	return r
}

func TestNewRoomClampsCapacity(t *testing.T) {
	assert.Equal(t, 2, newRoom("A", 0).maxPlayers)
	assert.Equal(t, 2, newRoom("B", -3).maxPlayers)
	assert.Equal(t, 3, newRoom("C", 3).maxPlayers)
	assert.Equal(t, 4, newRoom("D", 9).maxPlayers)
}

func TestNewPlayerNormalizesName(t *testing.T) {
	assert.Equal(t, "Alice", newPlayer("id", "  Alice  ", "").name)
	assert.Equal(t, defaultName, newPlayer("id", "   ", "").name)
	long := newPlayer("id", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "")
	assert.Len(t, long.name, maxNameLen)
}

func TestNewPlayerTruncatesOnRuneBoundary(t *testing.T) {
	accented := newPlayer("id", strings.Repeat("é", maxNameLen+5), "")
	assert.True(t, utf8.ValidString(accented.name))
	assert.Equal(t, maxNameLen, utf8.RuneCountInString(accented.name))

	wide := newPlayer("id", strings.Repeat("牌", maxNameLen+1), "")
	assert.True(t, utf8.ValidString(wide.name))
	assert.Equal(t, maxNameLen, utf8.RuneCountInString(wide.name))
}

func TestJoinOrderIsTurnOrder(t *testing.T) {
	r := newRoom("TESTAA", 4)
	for i := 0; i < 3; i++ {
		require.NoError(t, r.join(newPlayer(fmt.Sprintf("p%d", i), "x", "")))
	}
	for i, p := range r.players {
		assert.Equal(t, fmt.Sprintf("p%d", i), p.id)
	}
}

func TestJoinFullRoom(t *testing.T) {
	r := newRoom("TESTAA", 2)
	require.NoError(t, r.join(newPlayer("p0", "a", "")))
	require.NoError(t, r.join(newPlayer("p1", "b", "")))
	assert.ErrorIs(t, r.join(newPlayer("p2", "c", "")), ErrRoomFull)
}

func TestJoinAfterStart(t *testing.T) {
	r := playingRoom(t, 2)
	assert.ErrorIs(t, r.join(newPlayer("p9", "late", "")), ErrRoomNotJoinable)
}

func TestStartRoundDealsGrids(t *testing.T) {
	for _, n := range []int{2, 3, 4} {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			r := playingRoom(t, n)

			for _, p := range r.players {
				require.Len(t, p.grid, GridSize)
				for _, c := range p.grid {
					assert.False(t, c.Revealed)
				}
				assert.Zero(t, p.score)
			}
			require.Len(t, r.discardPile, 1)
			assert.True(t, r.discardPile[0].Revealed)
			assert.Len(t, r.deck, deckSize-n*GridSize-1)
		})
	}
}

func TestStartRoundTurnInRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		r := newRoom("TESTAA", 3)
		for j := 0; j < 3; j++ {
			require.NoError(t, r.join(newPlayer(fmt.Sprintf("p%d", j), "x", "")))
		}
		r.startRound()
		assert.GreaterOrEqual(t, r.currentTurn, 0)
		assert.Less(t, r.currentTurn, 3)
	}
}

func TestRevealScoresAndAdvancesTurn(t *testing.T) {
	r := playingRoom(t, 2)

	require.NoError(t, r.reveal("p0", 3))

	assert.True(t, r.players[0].grid[3].Revealed)
	assert.Equal(t, r.players[0].grid[3].Value, r.players[0].score)
	assert.Equal(t, 1, r.currentTurn)
}

func TestRevealOutOfTurnIsRejected(t *testing.T) {
	r := playingRoom(t, 2)
	before := r.snapshot()

	assert.ErrorIs(t, r.reveal("p1", 3), ErrRejected)

	if diff := cmp.Diff(before, r.snapshot()); diff != "" {
		t.Fatalf("state changed (-before +after):\n%s", diff)
	}
}

func TestRevealAlreadyRevealedIsRejected(t *testing.T) {
	r := playingRoom(t, 2)
	require.NoError(t, r.reveal("p0", 3))
	require.NoError(t, r.reveal("p1", 0))
	before := r.snapshot()

	assert.ErrorIs(t, r.reveal("p0", 3), ErrRejected)

	if diff := cmp.Diff(before, r.snapshot()); diff != "" {
		t.Fatalf("state changed (-before +after):\n%s", diff)
	}
}

func TestRevealOutOfRangeIsRejected(t *testing.T) {
	r := playingRoom(t, 2)
	assert.ErrorIs(t, r.reveal("p0", -1), ErrRejected)
	assert.ErrorIs(t, r.reveal("p0", GridSize), ErrRejected)
	assert.Equal(t, 0, r.currentTurn)
}

func TestTurnWrapsAroundTable(t *testing.T) {
	r := playingRoom(t, 3)

	require.NoError(t, r.reveal("p0", 0))
	assert.Equal(t, 1, r.currentTurn)
	require.NoError(t, r.reveal("p1", 0))
	assert.Equal(t, 2, r.currentTurn)
	require.NoError(t, r.reveal("p2", 0))
	assert.Equal(t, 0, r.currentTurn)
}

func TestDrawHoldsTopAndReplenishes(t *testing.T) {
	r := playingRoom(t, 2)
	discardTop := r.discardPile[len(r.discardPile)-1]
	deckTop := r.deck[0]
	deckLen := len(r.deck)

	require.NoError(t, r.draw("p0"))

	p := r.players[0]
	require.NotNil(t, p.drawnCard)
	assert.Equal(t, discardTop.Value, p.drawnCard.Value)
	require.Len(t, r.discardPile, 1)
	assert.Equal(t, deckTop.Value, r.discardPile[0].Value)
	assert.True(t, r.discardPile[0].Revealed)
	assert.Len(t, r.deck, deckLen-1)
	// the turn only advances once the hold is resolved
	assert.Equal(t, 0, r.currentTurn)
}

func TestDrawWhileHoldingIsRejected(t *testing.T) {
	r := playingRoom(t, 2)
	require.NoError(t, r.draw("p0"))
	assert.ErrorIs(t, r.draw("p0"), ErrRejected)
}

func TestDrawOutOfTurnIsRejected(t *testing.T) {
	r := playingRoom(t, 2)
	assert.ErrorIs(t, r.draw("p1"), ErrRejected)
	assert.Nil(t, r.players[1].drawnCard)
}

func TestReplaceSwapsHeldCardIntoGrid(t *testing.T) {
	r := playingRoom(t, 2)
	require.NoError(t, r.draw("p0"))
	p := r.players[0]
	held := *p.drawnCard
	displaced := p.grid[5]

	require.NoError(t, r.replace("p0", 5))

	assert.Equal(t, Card{Value: held.Value, Revealed: true}, p.grid[5])
	top := r.discardPile[len(r.discardPile)-1]
	assert.Equal(t, Card{Value: displaced.Value, Revealed: true}, top)
	assert.Nil(t, p.drawnCard)
	assert.Equal(t, Score(p.grid), p.score)
	assert.Equal(t, 1, r.currentTurn)
}

func TestReplaceWithoutHoldIsRejected(t *testing.T) {
	r := playingRoom(t, 2)
	assert.ErrorIs(t, r.replace("p0", 5), ErrRejected)
	assert.Equal(t, 0, r.currentTurn)
}

func TestRevealWhileHoldingDiscardsBack(t *testing.T) {
	r := playingRoom(t, 2)
	require.NoError(t, r.draw("p0"))
	held := *r.players[0].drawnCard

	require.NoError(t, r.reveal("p0", 2))

	p := r.players[0]
	assert.Nil(t, p.drawnCard)
	assert.True(t, p.grid[2].Revealed)
	top := r.discardPile[len(r.discardPile)-1]
	assert.Equal(t, held.Value, top.Value)
	assert.Equal(t, 1, r.currentTurn)
}

func TestFullyRevealedGridFinishesRound(t *testing.T) {
	r := playingRoom(t, 2)
	p := r.players[0]
	for i := range p.grid {
		if i != 7 {
			p.grid[i].Revealed = true
		}
	}

	require.NoError(t, r.reveal("p0", 7))

	assert.Equal(t, StatusFinished, r.status)
	assert.Equal(t, Score(p.grid), p.score)
}

func TestNoActionAfterFinish(t *testing.T) {
	r := playingRoom(t, 2)
	r.status = StatusFinished

	assert.ErrorIs(t, r.reveal("p0", 0), ErrRejected)
	assert.ErrorIs(t, r.draw("p0"), ErrRejected)
	assert.ErrorIs(t, r.replace("p0", 0), ErrRejected)
}

func TestRemovePlayerKeepsTurnValid(t *testing.T) {
	t.Run("current player at tail leaves", func(t *testing.T) {
		r := playingRoom(t, 3)
		r.currentTurn = 2

		removed, empty := r.removePlayer("p2")

		require.True(t, removed)
		require.False(t, empty)
		assert.Equal(t, 0, r.currentTurn)
	})

	t.Run("earlier player leaves", func(t *testing.T) {
		r := playingRoom(t, 3)
		r.currentTurn = 2

		removed, _ := r.removePlayer("p0")

		require.True(t, removed)
		assert.Equal(t, 1, r.currentTurn)
		assert.Equal(t, "p2", r.players[r.currentTurn].id)
	})

	t.Run("current player mid-table leaves", func(t *testing.T) {
		r := playingRoom(t, 3)
		r.currentTurn = 1

		removed, _ := r.removePlayer("p1")

		require.True(t, removed)
		assert.Equal(t, "p2", r.players[r.currentTurn].id)
	})
}

func TestRemovePlayerReturnsHeldCardToDiscard(t *testing.T) {
	r := playingRoom(t, 2)
	require.NoError(t, r.draw("p0"))
	held := *r.players[0].drawnCard
	pileLen := len(r.discardPile)

	removed, empty := r.removePlayer("p0")

	require.True(t, removed)
	require.False(t, empty)
	require.Len(t, r.discardPile, pileLen+1)
	assert.Equal(t, held.Value, r.discardPile[len(r.discardPile)-1].Value)
}

func TestRemovePlayerIdempotent(t *testing.T) {
	r := playingRoom(t, 2)

	removed, empty := r.removePlayer("p0")
	require.True(t, removed)
	require.False(t, empty)

	removed, empty = r.removePlayer("p0")
	assert.False(t, removed)
	assert.False(t, empty)
}

func TestSnapshotVersionTracksAcceptedMutations(t *testing.T) {
	r := newRoom("TESTAA", 2)
	v0 := r.snapshot().Version

	require.NoError(t, r.join(newPlayer("p0", "a", "")))
	v1 := r.snapshot().Version
	assert.Greater(t, v1, v0)

	require.NoError(t, r.join(newPlayer("p1", "b", "")))
	r.startRound()
	r.currentTurn = 0
	v2 := r.snapshot().Version
	assert.Greater(t, v2, v1)

	// rejected actions leave the version alone
	require.ErrorIs(t, r.reveal("p1", 0), ErrRejected)
	assert.Equal(t, v2, r.snapshot().Version)

	require.NoError(t, r.reveal("p0", 0))
	assert.Greater(t, r.snapshot().Version, v2)
}

func TestRemoveLastPlayerReportsEmpty(t *testing.T) {
	r := newRoom("TESTAA", 2)
	require.NoError(t, r.join(newPlayer("p0", "solo", "")))

	removed, empty := r.removePlayer("p0")

	assert.True(t, removed)
	assert.True(t, empty)
	assert.Empty(t, r.players)
}
