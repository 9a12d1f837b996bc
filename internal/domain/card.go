package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidCardToken reports a card token that does not name one of the
// 54 deck identities.
var ErrInvalidCardToken = errors.New("invalid card token")

// Suit identifies a card suit. Suit never affects play strength; it only
// keeps display ordering stable.
type Suit int32

const (
	SuitSpades Suit = iota
	SuitHearts
	SuitDiamonds
	SuitClubs
	// SuitNone is used by the two jokers.
	SuitNone
)

// Rank is the play strength of a card. Weights run 3 < 4 < ... < A < 2 <
// small joker < big joker.
type Rank int32

const (
	Rank3  Rank = 3
	Rank4  Rank = 4
	Rank5  Rank = 5
	Rank6  Rank = 6
	Rank7  Rank = 7
	Rank8  Rank = 8
	Rank9  Rank = 9
	Rank10 Rank = 10
	RankJ  Rank = 11
	RankQ  Rank = 12
	RankK  Rank = 13
	RankA  Rank = 14
	Rank2  Rank = 15
	// RankSmallJoker and RankBigJoker sit above every suited rank.
	RankSmallJoker Rank = 16
	RankBigJoker   Rank = 17
)

// Card is one of the 54 deck identities. Equality is by identity; ordering
// for rule purposes is by Rank alone.
type Card struct {
	Rank Rank
	Suit Suit
}

var rankTokens = map[Rank]string{
	Rank3: "3", Rank4: "4", Rank5: "5", Rank6: "6", Rank7: "7",
	Rank8: "8", Rank9: "9", Rank10: "10", RankJ: "J", RankQ: "Q",
	RankK: "K", RankA: "A", Rank2: "2",
}

var suitTokens = map[Suit]string{
	SuitSpades:   "S",
	SuitHearts:   "H",
	SuitDiamonds: "D",
	SuitClubs:    "C",
}

// ParseCard converts a wire token into a Card. Tokens are rank-first
// ("3S", "10H", "QD", "2C"); the jokers are "SJ" and "BJ". It fails with
// ErrInvalidCardToken instead of defaulting.
func ParseCard(token string) (Card, error) {
	switch token {
	case "SJ":
		return Card{Rank: RankSmallJoker, Suit: SuitNone}, nil
	case "BJ":
		return Card{Rank: RankBigJoker, Suit: SuitNone}, nil
	}

	if len(token) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCardToken, token)
	}

	rankPart, suitPart := token[:len(token)-1], token[len(token)-1:]

	var rank Rank
	found := false
	for r, tok := range rankTokens {
		if tok == rankPart {
			rank = r
			found = true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCardToken, token)
	}

	var suit Suit
	found = false
	for s, tok := range suitTokens {
		if tok == suitPart {
			suit = s
			found = true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCardToken, token)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards converts a slice of wire tokens, failing on the first bad one.
func ParseCards(tokens []string) ([]Card, error) {
	cards := make([]Card, 0, len(tokens))
	for _, tok := range tokens {
		c, err := ParseCard(tok)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// String renders the card in the same token form ParseCard accepts.
func (c Card) String() string {
	switch c.Rank {
	case RankSmallJoker:
		return "SJ"
	case RankBigJoker:
		return "BJ"
	}
	return rankTokens[c.Rank] + suitTokens[c.Suit]
}

// IsJoker reports whether the card is one of the two jokers.
func (c Card) IsJoker() bool {
	return c.Rank == RankSmallJoker || c.Rank == RankBigJoker
}

// CardTokens renders a card slice as wire tokens.
func CardTokens(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

// CompareForDisplay orders cards by rank ascending, breaking ties with a
// fixed suit precedence (spades, hearts, diamonds, clubs). The suit order
// carries no rule meaning.
func CompareForDisplay(a, b Card) int {
	if a.Rank != b.Rank {
		if a.Rank < b.Rank {
			return -1
		}
		return 1
	}
	if a.Suit != b.Suit {
		if a.Suit < b.Suit {
			return -1
		}
		return 1
	}
	return 0
}
