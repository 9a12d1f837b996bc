package domain

import "sort"

// PatternType is the discriminant of a classified play.
type PatternType int

const (
	Invalid PatternType = iota
	Single
	Pair
	Triple
	TripleWithSingle
	TripleWithPair
	FourWithTwo
	Straight
	PairSequence
	Bomb
	Rocket
)

var patternNames = map[PatternType]string{
	Invalid:          "invalid",
	Single:           "single",
	Pair:             "pair",
	Triple:           "triple",
	TripleWithSingle: "triple_with_single",
	TripleWithPair:   "triple_with_pair",
	FourWithTwo:      "four_with_two",
	Straight:         "straight",
	PairSequence:     "pair_sequence",
	Bomb:             "bomb",
	Rocket:           "rocket",
}

func (t PatternType) String() string {
	if name, ok := patternNames[t]; ok {
		return name
	}
	return "unknown"
}

// Pattern is a classified card set. Two patterns of the same Type and
// Length compare by Value; Bomb and Rocket compare across all types.
type Pattern struct {
	Type   PatternType
	Value  Rank // primary rank; lowest rank for Straight/PairSequence
	Length int
	Cards  []Card // the classified cards, display-sorted
}

// Classify maps an arbitrary card set to its pattern, or to a Pattern
// with Type Invalid when the set is not a legal play.
func Classify(cards []Card) Pattern {
	n := len(cards)
	if n == 0 {
		return Pattern{Type: Invalid}
	}

	sorted := make([]Card, n)
	copy(sorted, cards)
	SortHand(sorted)

	counts := CountByRank(sorted)

	if n == 2 && counts[RankSmallJoker] == 1 && counts[RankBigJoker] == 1 {
		return Pattern{Type: Rocket, Value: RankBigJoker, Length: 2, Cards: sorted}
	}

	// Group size profile, e.g. {3,1} for a triple with one kicker.
	sizes := make([]int, 0, len(counts))
	for _, c := range counts {
		sizes = append(sizes, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	switch n {
	case 1:
		return Pattern{Type: Single, Value: sorted[0].Rank, Length: 1, Cards: sorted}
	case 2:
		if sizes[0] == 2 {
			return Pattern{Type: Pair, Value: sorted[0].Rank, Length: 2, Cards: sorted}
		}
	case 3:
		if sizes[0] == 3 {
			return Pattern{Type: Triple, Value: sorted[0].Rank, Length: 3, Cards: sorted}
		}
	case 4:
		if sizes[0] == 4 {
			return Pattern{Type: Bomb, Value: sorted[0].Rank, Length: 4, Cards: sorted}
		}
		if sizes[0] == 3 {
			return Pattern{Type: TripleWithSingle, Value: rankOfGroup(counts, 3), Length: 4, Cards: sorted}
		}
	case 5:
		if sizes[0] == 3 && sizes[1] == 2 {
			return Pattern{Type: TripleWithPair, Value: rankOfGroup(counts, 3), Length: 5, Cards: sorted}
		}
	case 6:
		// Four with two singles ({4,1,1}) or with one spare pair ({4,2}).
		if sizes[0] == 4 {
			return Pattern{Type: FourWithTwo, Value: rankOfGroup(counts, 4), Length: 6, Cards: sorted}
		}
	case 8:
		if sizes[0] == 4 && len(sizes) == 3 && sizes[1] == 2 && sizes[2] == 2 {
			return Pattern{Type: FourWithTwo, Value: rankOfGroup(counts, 4), Length: 8, Cards: sorted}
		}
	}

	if low, ok := straightLow(counts, n); ok {
		return Pattern{Type: Straight, Value: low, Length: n, Cards: sorted}
	}
	if low, ok := pairSequenceLow(counts, n); ok {
		return Pattern{Type: PairSequence, Value: low, Length: n, Cards: sorted}
	}

	return Pattern{Type: Invalid}
}

// CanBeat reports whether next beats prev. Callers classify both sets
// first; an Invalid pattern never beats and is never beaten.
func CanBeat(prev, next Pattern) bool {
	if prev.Type == Invalid || next.Type == Invalid {
		return false
	}

	if next.Type == Rocket {
		return prev.Type != Rocket
	}
	if prev.Type == Rocket {
		return false
	}

	if next.Type == Bomb {
		if prev.Type == Bomb {
			return next.Value > prev.Value
		}
		return true
	}
	if prev.Type == Bomb {
		return false
	}

	return next.Type == prev.Type && next.Length == prev.Length && next.Value > prev.Value
}

// rankOfGroup returns the rank whose group has exactly the given size.
func rankOfGroup(counts map[Rank]int, size int) Rank {
	for r, c := range counts {
		if c == size {
			return r
		}
	}
	return 0
}

// straightLow checks for n distinct, strictly consecutive ranks bounded
// within [3..A] and returns the lowest rank.
func straightLow(counts map[Rank]int, n int) (Rank, bool) {
	if n < 5 || len(counts) != n {
		return 0, false
	}
	return consecutiveLow(counts, 1)
}

// pairSequenceLow checks for an even-count run of exact pairs with
// strictly consecutive ranks bounded within [3..A].
func pairSequenceLow(counts map[Rank]int, n int) (Rank, bool) {
	if n < 6 || n%2 != 0 || len(counts) != n/2 {
		return 0, false
	}
	return consecutiveLow(counts, 2)
}

func consecutiveLow(counts map[Rank]int, width int) (Rank, bool) {
	low, high := RankBigJoker, Rank(0)
	for r, c := range counts {
		if c != width {
			return 0, false
		}
		if r > RankA { // 2 and jokers never join a run
			return 0, false
		}
		if r < low {
			low = r
		}
		if r > high {
			high = r
		}
	}
	if int(high-low)+1 != len(counts) {
		return 0, false
	}
	return low, true
}
