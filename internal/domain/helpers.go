package domain

// RemoveCards removes the specified cards from a hand using multiset
// semantics and returns the updated hand.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}

	removeCounts := make(map[Card]int, len(toRemove))
	for _, card := range toRemove {
		removeCounts[card]++
	}

	updated := make([]Card, 0, len(hand))
	for _, card := range hand {
		if count, ok := removeCounts[card]; ok && count > 0 {
			removeCounts[card] = count - 1
			continue
		}
		updated = append(updated, card)
	}

	return updated
}

// ContainsCards reports whether hand holds every card in want, counting
// duplicates.
func ContainsCards(hand []Card, want []Card) bool {
	held := make(map[Card]int, len(hand))
	for _, c := range hand {
		held[c]++
	}
	for _, c := range want {
		if held[c] == 0 {
			return false
		}
		held[c]--
	}
	return true
}

// CountByRank groups cards by rank and returns the group sizes.
func CountByRank(cards []Card) map[Rank]int {
	counts := make(map[Rank]int, len(cards))
	for _, c := range cards {
		counts[c.Rank]++
	}
	return counts
}
