package bot

import (
	"doudizhu/internal/domain"
	"doudizhu/internal/hint"
)

// Move represents the decision made by an agent.
type Move struct {
	Pass   bool
	Accept bool // bidding decision
	Cards  []domain.Card
}

// Agent is an autonomous player used to fill empty seats. Its play
// decisions ride the same suggestion engine that backs player hints and
// timeout fallbacks.
type Agent struct {
	ID   string
	Name string
}

// Decide calculates the agent's action for its turn in the given match.
func (a *Agent) Decide(m *domain.Match, seat int) Move {
	player := m.Players[seat]

	switch m.Phase {
	case domain.PhaseBidding:
		return Move{Accept: wantsLandlord(player.Hand)}
	case domain.PhasePlaying:
	default:
		return Move{Pass: true}
	}

	if whole := hint.WholeHand(player.Hand); whole != nil {
		if m.LastPlay == nil || domain.CanBeat(m.LastPlay.Pattern, domain.Classify(whole)) {
			return Move{Cards: whole}
		}
	}

	if m.LastPlay == nil {
		plays := hint.SuggestLeadingPlays(player.Hand)
		if len(plays) == 0 {
			return Move{Cards: hint.LowestSingle(player.Hand)}
		}
		return Move{Cards: plays[0]}
	}

	beats := hint.SuggestBeating(player.Hand, m.LastPlay.Pattern)
	if len(beats) == 0 {
		return Move{Pass: true}
	}
	// Don't spend bombs on small tables: skip power overrides unless the
	// hand is nearly empty.
	pick := beats[0]
	if p := domain.Classify(pick); (p.Type == domain.Bomb || p.Type == domain.Rocket) &&
		m.LastPlay.Pattern.Type != domain.Bomb && len(player.Hand) > 6 {
		return Move{Pass: true}
	}
	return Move{Cards: pick}
}

// wantsLandlord accepts the bid on hands with heavy top-end strength.
func wantsLandlord(hand []domain.Card) bool {
	counts := domain.CountByRank(hand)
	strength := counts[domain.Rank2]
	if counts[domain.RankSmallJoker] > 0 {
		strength++
	}
	if counts[domain.RankBigJoker] > 0 {
		strength += 2
	}
	for _, c := range counts {
		if c == 4 {
			strength += 2
		}
	}
	return strength >= 3
}
