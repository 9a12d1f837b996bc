package domain

import "sort"

// NewDeck returns the ordered 54-card deck: 13 ranks across 4 suits plus
// both jokers.
func NewDeck() []Card {
	deck := make([]Card, 0, 54)
	for r := Rank3; r <= Rank2; r++ {
		for s := SuitSpades; s <= SuitClubs; s++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	deck = append(deck, Card{Rank: RankSmallJoker, Suit: SuitNone})
	deck = append(deck, Card{Rank: RankBigJoker, Suit: SuitNone})
	return deck
}

// SortHand orders a hand for display: rank ascending, then the fixed suit
// precedence.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return CompareForDisplay(cards[i], cards[j]) < 0
	})
}
