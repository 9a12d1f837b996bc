// Package hint enumerates legal plays over a hand snapshot. All functions
// are pure and read-only; callers apply any returned card set through the
// match's single mutating play entry point.
package hint

import "doudizhu/internal/domain"

// GetHint returns one suggestion from the combined leading/beating list,
// rotating through the list on repeated calls via the caller-owned cursor.
// Callers reset the cursor whenever the turn passes to the player anew.
// Returns nil when no play is available.
func GetHint(hand []domain.Card, last *domain.Pattern, cursor *int) []domain.Card {
	var list [][]domain.Card
	if last == nil || last.Type == domain.Invalid {
		list = SuggestLeadingPlays(hand)
	} else {
		list = SuggestBeating(hand, *last)
	}
	if len(list) == 0 {
		return nil
	}

	pick := list[*cursor%len(list)]
	*cursor++
	return pick
}

// WholeHand returns the entire hand, display-sorted, if and only if it
// classifies as one legal pattern covering every card. Used to
// auto-complete a play when the remainder is itself a single pattern.
func WholeHand(hand []domain.Card) []domain.Card {
	p := domain.Classify(hand)
	if p.Type == domain.Invalid || p.Length != len(hand) {
		return nil
	}
	return p.Cards
}

// LowestSingle returns the single lowest-ranked card, the guaranteed
// fallback when no richer suggestion exists.
func LowestSingle(hand []domain.Card) []domain.Card {
	if len(hand) == 0 {
		return nil
	}
	low := hand[0]
	for _, c := range hand[1:] {
		if domain.CompareForDisplay(c, low) < 0 {
			low = c
		}
	}
	return []domain.Card{low}
}
