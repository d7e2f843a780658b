package game

// Score sums the values of the revealed cards in a grid. Hidden cards
// count for zero.
func Score(grid []Card) int {
	total := 0
	for _, card := range grid {
		if card.Revealed {
			total += card.Value
		}
	}
	return total
}
