package hint

import (
	"sort"

	"doudizhu/internal/domain"
)

// SuggestLeadingPlays enumerates every combination of the hand that is a
// legal leading play. Non-power combinations come first, ordered by lowest
// rank ascending then length descending, which favors clearing small,
// structurally flexible cards before protecting long runs. FourWithTwo,
// Bomb and Rocket are bucketed last as power plays, ordered by primary
// value ascending.
func SuggestLeadingPlays(hand []domain.Card) [][]domain.Card {
	groups := groupByRank(hand)
	picker := newKickerPicker(hand)

	var nonPower [][]domain.Card
	nonPower = append(nonPower, findStraights(groups)...)
	nonPower = append(nonPower, findPairSequences(groups)...)
	nonPower = append(nonPower, triplesWithKickers(groups, picker, false)...)
	nonPower = append(nonPower, triplesWithKickers(groups, picker, true)...)
	nonPower = append(nonPower, findSets(groups, 3)...)
	nonPower = append(nonPower, findSets(groups, 2)...)
	nonPower = append(nonPower, findSets(groups, 1)...)

	sort.SliceStable(nonPower, func(i, j int) bool {
		li, lj := lowestRank(nonPower[i]), lowestRank(nonPower[j])
		if li != lj {
			return li < lj
		}
		return len(nonPower[i]) > len(nonPower[j])
	})

	var power [][]domain.Card
	power = append(power, foursWithKickers(groups, picker, false)...)
	power = append(power, foursWithKickers(groups, picker, true)...)
	power = append(power, findSets(groups, 4)...)
	power = append(power, findRocket(groups)...)
	sort.SliceStable(power, func(i, j int) bool {
		return domain.Classify(power[i]).Value < domain.Classify(power[j]).Value
	})

	return append(nonPower, power...)
}

// SuggestBeating enumerates every combination of the hand able to beat
// last. Same-type candidates come first by ascending primary value, then
// Bombs and the Rocket as overrides; when last itself is a Bomb or
// Rocket, only stronger Bombs or the Rocket qualify.
func SuggestBeating(hand []domain.Card, last domain.Pattern) [][]domain.Card {
	groups := groupByRank(hand)

	if last.Type == domain.Rocket {
		return nil
	}
	if last.Type == domain.Bomb {
		var out [][]domain.Card
		for _, set := range findSets(groups, 4) {
			if set[0].Rank > last.Value {
				out = append(out, set)
			}
		}
		return append(out, findRocket(groups)...)
	}

	picker := newKickerPicker(hand)
	var sameType [][]domain.Card

	switch last.Type {
	case domain.Single, domain.Pair, domain.Triple:
		width := map[domain.PatternType]int{domain.Single: 1, domain.Pair: 2, domain.Triple: 3}[last.Type]
		for _, set := range findSets(groups, width) {
			if set[0].Rank > last.Value {
				sameType = append(sameType, set)
			}
		}
	case domain.TripleWithSingle, domain.TripleWithPair:
		withPair := last.Type == domain.TripleWithPair
		for _, set := range triplesWithKickers(groups, picker, withPair) {
			if domain.Classify(set).Value > last.Value {
				sameType = append(sameType, set)
			}
		}
	case domain.FourWithTwo:
		pairVariant := last.Length == 8
		for _, set := range foursWithKickers(groups, picker, pairVariant) {
			if domain.Classify(set).Value > last.Value {
				sameType = append(sameType, set)
			}
		}
	case domain.Straight:
		for _, set := range findStraights(groups) {
			if len(set) == last.Length && set[0].Rank > last.Value {
				sameType = append(sameType, set)
			}
		}
	case domain.PairSequence:
		for _, set := range findPairSequences(groups) {
			if len(set) == last.Length && set[0].Rank > last.Value {
				sameType = append(sameType, set)
			}
		}
	}

	sort.SliceStable(sameType, func(i, j int) bool {
		return domain.Classify(sameType[i]).Value < domain.Classify(sameType[j]).Value
	})

	var power [][]domain.Card
	power = append(power, findSets(groups, 4)...)
	power = append(power, findRocket(groups)...)

	return append(sameType, power...)
}

// triplesWithKickers builds one TripleWithSingle or TripleWithPair per
// triple rank, paying the lowest-cost kicker. Triples that cannot pay are
// skipped.
func triplesWithKickers(groups []rankGroup, picker *kickerPicker, withPair bool) [][]domain.Card {
	var out [][]domain.Card
	for _, core := range findSets(groups, 3) {
		exclude := map[domain.Rank]bool{core[0].Rank: true}
		var kicker []domain.Card
		if withPair {
			kicker = picker.pickPairs(1, exclude)
		} else {
			kicker = picker.pickSingles(1, exclude)
		}
		if kicker == nil {
			continue
		}
		out = append(out, append(append([]domain.Card{}, core...), kicker...))
	}
	return out
}

// foursWithKickers builds one FourWithTwo per quad rank: the length-6
// variant with the two cheapest single kickers, or the length-8 variant
// with the two cheapest pairs.
func foursWithKickers(groups []rankGroup, picker *kickerPicker, pairVariant bool) [][]domain.Card {
	var out [][]domain.Card
	for _, core := range findSets(groups, 4) {
		exclude := map[domain.Rank]bool{core[0].Rank: true}
		var kickers []domain.Card
		if pairVariant {
			kickers = picker.pickPairs(2, exclude)
		} else {
			kickers = picker.pickSingles(2, exclude)
		}
		if kickers == nil {
			continue
		}
		out = append(out, append(append([]domain.Card{}, core...), kickers...))
	}
	return out
}

func lowestRank(cards []domain.Card) domain.Rank {
	low := cards[0].Rank
	for _, c := range cards[1:] {
		if c.Rank < low {
			low = c.Rank
		}
	}
	return low
}
