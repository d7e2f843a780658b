package game

import "math/rand/v2"

// Card is a single card slot. Value is fixed when dealt; Revealed flips
// false to true at most once during normal play.
type Card struct {
	Value    int  `json:"value"`
	Revealed bool `json:"revealed"`
}

// cardDistribution maps a card value to how many copies of it the deck
// holds. Zero is the most common value, -2 the rarest. The total of 150
// cards covers a full four-player deal (48 cards) plus the discard flip
// with a deep draw pile left over.
var cardDistribution = map[int]int{
	-2: 5,
	-1: 10,
	0:  15,
	1:  10,
	2:  10,
	3:  10,
	4:  10,
	5:  10,
	6:  10,
	7:  10,
	8:  10,
	9:  10,
	10: 10,
	11: 10,
	12: 10,
}

const deckSize = 150

// NewDeck builds the full unshuffled deck. Composition is deterministic.
func NewDeck() []Card {
	deck := make([]Card, 0, deckSize)
	for value := -2; value <= 12; value++ {
		for i := 0; i < cardDistribution[value]; i++ {
			deck = append(deck, Card{Value: value})
		}
	}
	return deck
}

// Shuffle returns a uniformly random permutation of cards, Fisher-Yates
// over a copy. The input slice is never mutated.
func Shuffle(cards []Card) []Card {
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
