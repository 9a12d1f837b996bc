package hint

import (
	"sort"

	"doudizhu/internal/domain"
)

// rankGroup is the cards of one rank in a hand, display-sorted.
type rankGroup struct {
	rank  domain.Rank
	cards []domain.Card
}

// groupByRank splits a hand into per-rank groups ordered by ascending rank.
func groupByRank(hand []domain.Card) []rankGroup {
	byRank := make(map[domain.Rank][]domain.Card, len(hand))
	for _, c := range hand {
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}

	groups := make([]rankGroup, 0, len(byRank))
	for r, cards := range byRank {
		domain.SortHand(cards)
		groups = append(groups, rankGroup{rank: r, cards: cards})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].rank < groups[j].rank })
	return groups
}

// findSets returns one canonical card set of the given size per rank group
// holding at least size cards, ascending by rank.
func findSets(groups []rankGroup, size int) [][]domain.Card {
	var sets [][]domain.Card
	for _, g := range groups {
		if len(g.cards) >= size {
			set := make([]domain.Card, size)
			copy(set, g.cards[:size])
			sets = append(sets, set)
		}
	}
	return sets
}

// findRocket returns both jokers when the hand holds them.
func findRocket(groups []rankGroup) [][]domain.Card {
	var small, big []domain.Card
	for _, g := range groups {
		switch g.rank {
		case domain.RankSmallJoker:
			small = g.cards
		case domain.RankBigJoker:
			big = g.cards
		}
	}
	if len(small) == 0 || len(big) == 0 {
		return nil
	}
	return [][]domain.Card{{small[0], big[0]}}
}

// sequenceRuns returns the maximal runs of strictly consecutive ranks,
// bounded within [3..A], considering only groups with at least width cards.
func sequenceRuns(groups []rankGroup, width int) [][]rankGroup {
	var eligible []rankGroup
	for _, g := range groups {
		if g.rank <= domain.RankA && len(g.cards) >= width {
			eligible = append(eligible, g)
		}
	}

	var runs [][]rankGroup
	for i := 0; i < len(eligible); {
		j := i + 1
		for j < len(eligible) && eligible[j].rank == eligible[j-1].rank+1 {
			j++
		}
		runs = append(runs, eligible[i:j])
		i = j
	}
	return runs
}

// findStraights enumerates every straight (>=5 distinct consecutive ranks)
// the hand can form, one canonical card set per (start, length) window.
func findStraights(groups []rankGroup) [][]domain.Card {
	var out [][]domain.Card
	for _, run := range sequenceRuns(groups, 1) {
		for length := 5; length <= len(run); length++ {
			for start := 0; start+length <= len(run); start++ {
				set := make([]domain.Card, 0, length)
				for _, g := range run[start : start+length] {
					set = append(set, g.cards[0])
				}
				out = append(out, set)
			}
		}
	}
	return out
}

// findPairSequences enumerates every pair sequence (>=3 consecutive pair
// ranks) the hand can form.
func findPairSequences(groups []rankGroup) [][]domain.Card {
	var out [][]domain.Card
	for _, run := range sequenceRuns(groups, 2) {
		for pairs := 3; pairs <= len(run); pairs++ {
			for start := 0; start+pairs <= len(run); start++ {
				set := make([]domain.Card, 0, pairs*2)
				for _, g := range run[start : start+pairs] {
					set = append(set, g.cards[0], g.cards[1])
				}
				out = append(out, set)
			}
		}
	}
	return out
}
