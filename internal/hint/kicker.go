package hint

import (
	"sort"

	"doudizhu/internal/domain"
)

// breakRunPenalty is added when paying a kicker would leave its rank
// unable to contribute to a straight or pair sequence the hand can
// currently form.
const breakRunPenalty = 100

// leftoverScale separates candidates by how much of the rank group is
// left behind, so loose singles are consumed before pairs and pairs
// before triples.
const leftoverScale = 10

// kickerPicker scores candidate kickers against the structure of a hand.
type kickerPicker struct {
	groups       []rankGroup
	counts       map[domain.Rank]int
	straightRank map[domain.Rank]bool
	pairSeqRank  map[domain.Rank]bool
}

func newKickerPicker(hand []domain.Card) *kickerPicker {
	groups := groupByRank(hand)
	p := &kickerPicker{
		groups:       groups,
		counts:       domain.CountByRank(hand),
		straightRank: make(map[domain.Rank]bool),
		pairSeqRank:  make(map[domain.Rank]bool),
	}
	for _, run := range sequenceRuns(groups, 1) {
		if len(run) >= 5 {
			for _, g := range run {
				p.straightRank[g.rank] = true
			}
		}
	}
	for _, run := range sequenceRuns(groups, 2) {
		if len(run) >= 3 {
			for _, g := range run {
				p.pairSeqRank[g.rank] = true
			}
		}
	}
	return p
}

// cost scores taking `used` cards of a rank: leftover group size scaled,
// plus the run penalty when the remainder can no longer serve its run.
func (p *kickerPicker) cost(rank domain.Rank, used int) int {
	remaining := p.counts[rank] - used
	c := remaining * leftoverScale
	if p.straightRank[rank] && remaining < 1 {
		c += breakRunPenalty
	}
	if p.pairSeqRank[rank] && remaining < 2 {
		c += breakRunPenalty
	}
	return c
}

type kickerCandidate struct {
	rank domain.Rank
	cost int
}

// rankKickers lists candidate kicker ranks holding at least width cards,
// sorted by ascending cost then ascending rank. Ranks in exclude are
// skipped.
func (p *kickerPicker) rankKickers(width int, exclude map[domain.Rank]bool) []kickerCandidate {
	var out []kickerCandidate
	for _, g := range p.groups {
		if exclude[g.rank] || len(g.cards) < width {
			continue
		}
		out = append(out, kickerCandidate{rank: g.rank, cost: p.cost(g.rank, width)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].cost != out[j].cost {
			return out[i].cost < out[j].cost
		}
		return out[i].rank < out[j].rank
	})
	return out
}

// pickSingles selects the n cheapest single kicker cards greedily, costing
// every pick against the cards already taken: the first card out of a pair
// still pays the pair-breaking leftover, so a loose single always wins the
// tie. Both singles of a FourWithTwo may come from the same pair. Returns
// nil when the hand cannot pay.
func (p *kickerPicker) pickSingles(n int, exclude map[domain.Rank]bool) []domain.Card {
	taken := make(map[domain.Rank]int, len(p.groups))
	picked := make([]domain.Card, 0, n)
	for len(picked) < n {
		best, bestCost := -1, 0
		for i, g := range p.groups {
			if exclude[g.rank] || taken[g.rank] >= len(g.cards) {
				continue
			}
			c := p.cost(g.rank, taken[g.rank]+1)
			if best < 0 || c < bestCost {
				best, bestCost = i, c
			}
		}
		if best < 0 {
			return nil
		}
		g := p.groups[best]
		picked = append(picked, g.cards[taken[g.rank]])
		taken[g.rank]++
	}
	return picked
}

// pickPairs selects the n cheapest pair kickers from distinct ranks.
func (p *kickerPicker) pickPairs(n int, exclude map[domain.Rank]bool) []domain.Card {
	candidates := p.rankKickers(2, exclude)
	if len(candidates) < n {
		return nil
	}
	picked := make([]domain.Card, 0, n*2)
	for _, cand := range candidates[:n] {
		for _, g := range p.groups {
			if g.rank == cand.rank {
				picked = append(picked, g.cards[0], g.cards[1])
				break
			}
		}
	}
	return picked
}
