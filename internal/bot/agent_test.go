package bot

import (
	"testing"

	"doudizhu/internal/domain"
)

func cards(t *testing.T, tokens ...string) []domain.Card {
	t.Helper()
	out, err := domain.ParseCards(tokens)
	if err != nil {
		t.Fatalf("ParseCards(%v): %v", tokens, err)
	}
	return out
}

func matchWithHand(t *testing.T, phase domain.Phase, hand []domain.Card) *domain.Match {
	t.Helper()
	m := domain.NewMatch("m1", [domain.PlayerCount]string{"b0", "b1", "b2"}, 100)
	m.Phase = phase
	m.CurrentSeat = 0
	m.Players[0].Hand = hand
	return m
}

func TestDecideBidding(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		accept bool
	}{
		{"BothJokersAccept", []string{"SJ", "BJ", "3S", "4S", "5S"}, true},
		{"QuadAndTwoAccept", []string{"9S", "9H", "9D", "9C", "2S", "3S"}, true},
		{"WeakHandDeclines", []string{"3S", "4H", "5D", "8C", "10S", "JC"}, false},
		{"SingleTwoDeclines", []string{"2S", "3S", "4H", "5D", "8C"}, false},
	}

	agent := &Agent{ID: "bot-x", Name: "x"}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := matchWithHand(t, domain.PhaseBidding, cards(t, test.tokens...))
			move := agent.Decide(m, 0)
			if move.Accept != test.accept {
				t.Fatalf("accept = %t, want %t", move.Accept, test.accept)
			}
		})
	}
}

func TestDecidePlaysWholeHandWhenLegal(t *testing.T) {
	agent := &Agent{ID: "bot-x", Name: "x"}
	m := matchWithHand(t, domain.PhasePlaying, cards(t, "8S", "8H", "8D", "KC"))

	move := agent.Decide(m, 0)
	if move.Pass || len(move.Cards) != 4 {
		t.Fatalf("move = %+v, want the whole triple-with-single", move)
	}
}

func TestDecidePassesWhenNothingBeats(t *testing.T) {
	agent := &Agent{ID: "bot-x", Name: "x"}
	m := matchWithHand(t, domain.PhasePlaying, cards(t, "3S", "4H", "6C"))
	last := domain.Classify(cards(t, "2S", "2H"))
	m.LastPlay = &domain.PlayRecord{Seat: 1, UserID: "b1", Pattern: last}

	move := agent.Decide(m, 0)
	if !move.Pass {
		t.Fatalf("move = %+v, want pass", move)
	}
}

func TestDecideHoldsBombEarly(t *testing.T) {
	agent := &Agent{ID: "bot-x", Name: "x"}
	// Nine cards left and only a bomb answers: keep it.
	m := matchWithHand(t, domain.PhasePlaying,
		cards(t, "5S", "5H", "5D", "5C", "3S", "4H", "6C", "8D", "10S"))
	last := domain.Classify(cards(t, "2S", "2H"))
	m.LastPlay = &domain.PlayRecord{Seat: 1, UserID: "b1", Pattern: last}

	move := agent.Decide(m, 0)
	if !move.Pass {
		t.Fatalf("move = %+v, want pass to preserve the bomb", move)
	}
}

func TestDecideSpendsBombNearTheEnd(t *testing.T) {
	agent := &Agent{ID: "bot-x", Name: "x"}
	m := matchWithHand(t, domain.PhasePlaying, cards(t, "5S", "5H", "5D", "5C", "3S"))
	last := domain.Classify(cards(t, "2S", "2H"))
	m.LastPlay = &domain.PlayRecord{Seat: 1, UserID: "b1", Pattern: last}

	move := agent.Decide(m, 0)
	if move.Pass {
		t.Fatal("with five cards left the bomb should be spent")
	}
	if p := domain.Classify(move.Cards); p.Type != domain.Bomb {
		t.Fatalf("played %v, want the bomb", domain.CardTokens(move.Cards))
	}
}

func TestIsBot(t *testing.T) {
	agent := NewAgent(0)
	if !IsBot(agent.ID) {
		t.Fatalf("agent id %q not recognized as bot", agent.ID)
	}
	if IsBot("user-123") {
		t.Fatal("human id misclassified as bot")
	}
	if agent.Name == "" {
		t.Fatal("agent must carry a display name")
	}
}

func TestNewAgentIDsAreUnique(t *testing.T) {
	a, b := NewAgent(0), NewAgent(0)
	if a.ID == b.ID {
		t.Fatalf("duplicate agent ids: %s", a.ID)
	}
}
