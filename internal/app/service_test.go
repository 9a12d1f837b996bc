package app

import (
	"errors"
	"math/rand"
	"testing"

	"doudizhu/internal/domain"
)

func newTestService(seed int64) *Service {
	return NewService(rand.New(rand.NewSource(seed)))
}

func newWaitingMatch() *domain.Match {
	return domain.NewMatch("m1", [domain.PlayerCount]string{"u0", "u1", "u2"}, 100)
}

// readyAll readies every seat and returns the deal events.
func readyAll(t *testing.T, svc *Service, m *domain.Match) []Event {
	t.Helper()
	var events []Event
	for seat := 0; seat < domain.PlayerCount; seat++ {
		evs, err := svc.Ready(m, seat)
		if err != nil {
			t.Fatalf("Ready(%d): %v", seat, err)
		}
		events = append(events, evs...)
	}
	return events
}

// playingMatch builds a match directly in the playing phase with the
// given hands, bypassing the deal. Seat 0 is the landlord and leads.
func playingMatch(t *testing.T, hands [domain.PlayerCount][]string) *domain.Match {
	t.Helper()
	m := newWaitingMatch()
	m.Phase = domain.PhasePlaying
	m.LandlordSeat = 0
	m.CurrentSeat = 0
	for seat, tokens := range hands {
		cards, err := domain.ParseCards(tokens)
		if err != nil {
			t.Fatalf("hand %d: %v", seat, err)
		}
		m.Players[seat].Hand = cards
		m.Players[seat].Role = domain.RoleFarmer
	}
	m.Players[0].Role = domain.RoleLandlord
	return m
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestReadyDealsWhenAllSeated(t *testing.T) {
	svc := newTestService(1)
	m := newWaitingMatch()

	events := readyAll(t, svc, m)

	if m.Phase != domain.PhaseBidding {
		t.Fatalf("phase = %v, want bidding", m.Phase)
	}
	for seat, p := range m.Players {
		if len(p.Hand) != domain.HandSize {
			t.Fatalf("seat %d hand = %d cards, want %d", seat, len(p.Hand), domain.HandSize)
		}
	}
	if len(m.BottomCards) != domain.BottomSize {
		t.Fatalf("bottom = %d cards, want %d", len(m.BottomCards), domain.BottomSize)
	}
	if m.TotalCards() != 54 {
		t.Fatalf("total cards = %d, want 54", m.TotalCards())
	}

	dealt := 0
	for _, ev := range events {
		if ev.Kind != EventHandDealt {
			continue
		}
		dealt++
		p := ev.Payload.(HandDealtPayload)
		if len(ev.Recipients) != 1 || ev.Recipients[0] != p.UserID {
			t.Fatalf("hand for %s must be private to its owner, recipients = %v", p.UserID, ev.Recipients)
		}
	}
	if dealt != domain.PlayerCount {
		t.Fatalf("hand_dealt events = %d, want %d", dealt, domain.PlayerCount)
	}
}

func TestReadyRejectsWrongPhase(t *testing.T) {
	svc := newTestService(1)
	m := newWaitingMatch()
	readyAll(t, svc, m)

	if _, err := svc.Ready(m, 0); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("err = %v, want ErrWrongPhase", err)
	}
}

func TestBidAcceptAssignsLandlord(t *testing.T) {
	svc := newTestService(1)
	m := newWaitingMatch()
	readyAll(t, svc, m)

	bidder := m.CurrentSeat
	events, err := svc.Bid(m, bidder, true)
	if err != nil {
		t.Fatalf("Bid: %v", err)
	}

	if m.Phase != domain.PhasePlaying {
		t.Fatalf("phase = %v, want playing", m.Phase)
	}
	if m.LandlordSeat != bidder || m.CurrentSeat != bidder {
		t.Fatalf("landlord/current = %d/%d, want %d", m.LandlordSeat, m.CurrentSeat, bidder)
	}
	if got := len(m.Players[bidder].Hand); got != domain.HandSize+domain.BottomSize {
		t.Fatalf("landlord hand = %d, want %d", got, domain.HandSize+domain.BottomSize)
	}
	if m.Players[bidder].Role != domain.RoleLandlord {
		t.Fatalf("bidder role = %v", m.Players[bidder].Role)
	}
	for seat, p := range m.Players {
		if seat != bidder && p.Role != domain.RoleFarmer {
			t.Fatalf("seat %d role = %v, want farmer", seat, p.Role)
		}
	}

	var assigned *LandlordAssignedPayload
	for _, ev := range events {
		if ev.Kind == EventLandlordAssigned {
			p := ev.Payload.(LandlordAssignedPayload)
			assigned = &p
		}
	}
	if assigned == nil {
		t.Fatalf("missing landlord_assigned in %v", kinds(events))
	}
	if assigned.Forced {
		t.Fatal("a voluntary bid must not be flagged forced")
	}
}

func TestBidRejectsOutOfTurn(t *testing.T) {
	svc := newTestService(1)
	m := newWaitingMatch()
	readyAll(t, svc, m)

	other := domain.NextSeat(m.CurrentSeat)
	if _, err := svc.Bid(m, other, true); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
}

func TestBidFullDeclineRedeals(t *testing.T) {
	svc := newTestService(1)
	m := newWaitingMatch()
	readyAll(t, svc, m)

	firstBidder := m.FirstBidderSeat
	before := append([]domain.Card{}, m.Players[0].Hand...)

	for i := 0; i < domain.PlayerCount; i++ {
		if _, err := svc.Bid(m, m.CurrentSeat, false); err != nil {
			t.Fatalf("decline %d: %v", i, err)
		}
	}

	if m.Phase != domain.PhaseBidding {
		t.Fatalf("phase = %v, want bidding after redeal", m.Phase)
	}
	if m.BidRounds != 1 {
		t.Fatalf("bid rounds = %d, want 1", m.BidRounds)
	}
	if m.FirstBidderSeat != domain.NextSeat(firstBidder) {
		t.Fatalf("first bidder = %d, want rotation from %d", m.FirstBidderSeat, firstBidder)
	}
	if m.CurrentSeat != m.FirstBidderSeat {
		t.Fatalf("current seat = %d, want new first bidder %d", m.CurrentSeat, m.FirstBidderSeat)
	}
	if m.TotalCards() != 54 {
		t.Fatalf("total cards = %d after redeal, want 54", m.TotalCards())
	}
	if domain.ContainsCards(m.Players[0].Hand, before) && len(before) == len(m.Players[0].Hand) {
		// An identical redeal is astronomically unlikely with this seed.
		t.Fatal("redeal produced the identical hand")
	}
}

func TestBidForcedLandlordAfterMaxRounds(t *testing.T) {
	svc := newTestService(1)
	svc.MaxBidRounds = 1
	m := newWaitingMatch()
	readyAll(t, svc, m)

	firstBidder := m.FirstBidderSeat
	var events []Event
	for i := 0; i < domain.PlayerCount; i++ {
		evs, err := svc.Bid(m, m.CurrentSeat, false)
		if err != nil {
			t.Fatalf("decline %d: %v", i, err)
		}
		events = evs
	}

	if m.Phase != domain.PhasePlaying {
		t.Fatalf("phase = %v, want playing after forced assignment", m.Phase)
	}
	if m.LandlordSeat != firstBidder {
		t.Fatalf("landlord = %d, want first bidder %d", m.LandlordSeat, firstBidder)
	}

	found := false
	for _, ev := range events {
		if ev.Kind == EventLandlordAssigned {
			if !ev.Payload.(LandlordAssignedPayload).Forced {
				t.Fatal("forced assignment must be flagged")
			}
			found = true
		}
	}
	if !found {
		t.Fatalf("missing landlord_assigned in %v", kinds(events))
	}
}

func TestPlayCardsValidation(t *testing.T) {
	m := playingMatch(t, [domain.PlayerCount][]string{
		{"3S", "3H", "9S"},
		{"4S", "4H", "KS"},
		{"5S", "5H", "AS"},
	})
	svc := newTestService(1)

	tests := []struct {
		name   string
		seat   int
		tokens []string
		want   error
	}{
		{"OutOfTurn", 1, []string{"4S"}, ErrNotYourTurn},
		{"NotInHand", 0, []string{"KD"}, ErrCardsNotInHand},
		{"InvalidPattern", 0, []string{"3S", "9S"}, ErrInvalidPattern},
		{"Empty", 0, nil, ErrNoPlays},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cards, err := domain.ParseCards(test.tokens)
			if err != nil {
				t.Fatalf("ParseCards: %v", err)
			}
			if _, err := svc.PlayCards(m, test.seat, cards); !errors.Is(err, test.want) {
				t.Fatalf("err = %v, want %v", err, test.want)
			}
			// Rejections never mutate state.
			if len(m.Players[0].Hand) != 3 || m.TurnIndex != 0 {
				t.Fatal("rejected play mutated the match")
			}
		})
	}
}

func TestPlayCardsTooWeak(t *testing.T) {
	m := playingMatch(t, [domain.PlayerCount][]string{
		{"9S", "3H"},
		{"4S", "KS"},
		{"5S", "AS"},
	})
	svc := newTestService(1)

	if _, err := svc.PlayCards(m, 0, mustCards(t, "9S")); err != nil {
		t.Fatalf("lead: %v", err)
	}
	if _, err := svc.PlayCards(m, 1, mustCards(t, "4S")); !errors.Is(err, ErrPatternTooWeak) {
		t.Fatalf("err = %v, want ErrPatternTooWeak", err)
	}
}

func TestPassReturnsLeadAfterFullRound(t *testing.T) {
	m := playingMatch(t, [domain.PlayerCount][]string{
		{"9S", "3H"},
		{"4S", "KS"},
		{"5S", "AS"},
	})
	svc := newTestService(1)

	if _, err := svc.PlayCards(m, 0, mustCards(t, "9S")); err != nil {
		t.Fatalf("lead: %v", err)
	}
	if _, err := svc.PassTurn(m, 1); err != nil {
		t.Fatalf("pass 1: %v", err)
	}
	events, err := svc.PassTurn(m, 2)
	if err != nil {
		t.Fatalf("pass 2: %v", err)
	}

	if m.CurrentSeat != 0 {
		t.Fatalf("current seat = %d, want lead back at 0", m.CurrentSeat)
	}
	if m.LastPlay != nil {
		t.Fatal("lead turn must have no table constraint")
	}

	p := events[0].Payload.(PlayerPassedPayload)
	if !p.NewLead {
		t.Fatal("second pass must report the new lead")
	}

	// With the constraint cleared the weak 3 is now playable.
	if _, err := svc.PlayCards(m, 0, mustCards(t, "3H")); err != nil {
		t.Fatalf("new lead play: %v", err)
	}
}

func TestPassRejectedWhenLeading(t *testing.T) {
	m := playingMatch(t, [domain.PlayerCount][]string{
		{"9S", "3H"},
		{"4S", "KS"},
		{"5S", "AS"},
	})
	svc := newTestService(1)

	if _, err := svc.PassTurn(m, 0); !errors.Is(err, ErrIllegalPass) {
		t.Fatalf("err = %v, want ErrIllegalPass", err)
	}

	// The winner of a round cannot pass its own lead either.
	if _, err := svc.PlayCards(m, 0, mustCards(t, "9S")); err != nil {
		t.Fatalf("lead: %v", err)
	}
	if _, err := svc.PassTurn(m, 1); err != nil {
		t.Fatalf("pass 1: %v", err)
	}
	if _, err := svc.PassTurn(m, 2); err != nil {
		t.Fatalf("pass 2: %v", err)
	}
	if _, err := svc.PassTurn(m, 0); !errors.Is(err, ErrIllegalPass) {
		t.Fatalf("err = %v, want ErrIllegalPass on regained lead", err)
	}
}

func TestEmptyHandFinishesMatch(t *testing.T) {
	m := playingMatch(t, [domain.PlayerCount][]string{
		{"9S"},
		{"4S", "KS"},
		{"5S", "AS"},
	})
	svc := newTestService(1)

	events, err := svc.PlayCards(m, 0, mustCards(t, "9S"))
	if err != nil {
		t.Fatalf("final play: %v", err)
	}

	if m.Phase != domain.PhaseFinished {
		t.Fatalf("phase = %v, want finished", m.Phase)
	}
	if m.WinnerSeat != 0 {
		t.Fatalf("winner = %d, want 0", m.WinnerSeat)
	}

	var finished *MatchFinishedPayload
	for _, ev := range events {
		if ev.Kind == EventMatchFinished {
			p := ev.Payload.(MatchFinishedPayload)
			finished = &p
		}
	}
	if finished == nil {
		t.Fatalf("missing match_finished in %v", kinds(events))
	}
	if finished.WinnerRole != domain.RoleLandlord {
		t.Fatalf("winner role = %v, want landlord", finished.WinnerRole)
	}

	var sum int64
	for _, d := range finished.Settlement.Deltas {
		sum += d
	}
	if sum != 0 {
		t.Fatalf("settlement not zero-sum: %v", finished.Settlement.Deltas)
	}

	// The finished match accepts nothing further.
	if _, err := svc.PlayCards(m, 1, mustCards(t, "4S")); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("err = %v, want ErrWrongPhase", err)
	}
}

func TestRequestHintRotatesAndResetsPerTurn(t *testing.T) {
	m := playingMatch(t, [domain.PlayerCount][]string{
		{"3S", "3H", "9S", "KS"},
		{"4S", "4H", "10S", "AS"},
		{"5S", "5H", "JS", "2S"},
	})
	svc := newTestService(1)

	first, err := svc.RequestHint(m, 0)
	if err != nil {
		t.Fatalf("hint: %v", err)
	}
	second, err := svc.RequestHint(m, 0)
	if err != nil {
		t.Fatalf("hint: %v", err)
	}
	if first == nil || second == nil {
		t.Fatal("leading hints must exist")
	}
	if domain.Classify(first).Type == domain.Classify(second).Type &&
		domain.Classify(first).Value == domain.Classify(second).Value {
		t.Fatalf("repeated hints did not rotate: %v then %v",
			domain.CardTokens(first), domain.CardTokens(second))
	}

	if _, err := svc.RequestHint(m, 1); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}

	// After the turn comes back the rotation restarts.
	if _, err := svc.PlayCards(m, 0, mustCards(t, "9S")); err != nil {
		t.Fatalf("play: %v", err)
	}
	if m.Players[1].HintCursor != 0 {
		t.Fatalf("next player's cursor = %d, want 0", m.Players[1].HintCursor)
	}
}

func TestForceActionDeclinesBid(t *testing.T) {
	svc := newTestService(1)
	m := newWaitingMatch()
	readyAll(t, svc, m)

	seat := m.CurrentSeat
	events, err := svc.ForceAction(m, seat)
	if err != nil {
		t.Fatalf("ForceAction: %v", err)
	}
	if len(m.BiddingHistory) != 1 || m.BiddingHistory[0].Accept {
		t.Fatalf("bidding history = %+v, want one decline", m.BiddingHistory)
	}
	if events[0].Kind != EventBidPlaced {
		t.Fatalf("first event = %v, want bid_placed", events[0].Kind)
	}
}

func TestForceActionPassesWhenLegal(t *testing.T) {
	m := playingMatch(t, [domain.PlayerCount][]string{
		{"9S", "3H"},
		{"4S", "KS"},
		{"5S", "AS"},
	})
	svc := newTestService(1)

	if _, err := svc.PlayCards(m, 0, mustCards(t, "9S")); err != nil {
		t.Fatalf("lead: %v", err)
	}
	events, err := svc.ForceAction(m, 1)
	if err != nil {
		t.Fatalf("ForceAction: %v", err)
	}
	p := events[0].Payload.(PlayerPassedPayload)
	if !p.Auto {
		t.Fatal("fallback pass must be flagged auto")
	}
	if len(m.Players[1].Hand) != 2 {
		t.Fatal("fallback pass must not spend cards")
	}
}

func TestForceActionPlaysWholeHandWhenPatternable(t *testing.T) {
	m := playingMatch(t, [domain.PlayerCount][]string{
		{"8S", "8H"},
		{"4S", "KS"},
		{"5S", "AS"},
	})
	svc := newTestService(1)

	events, err := svc.ForceAction(m, 0)
	if err != nil {
		t.Fatalf("ForceAction: %v", err)
	}
	p := events[0].Payload.(CardsPlayedPayload)
	if !p.Auto {
		t.Fatal("fallback play must be flagged auto")
	}
	if len(p.Cards) != 2 {
		t.Fatalf("fallback played %d cards, want the whole pair", len(p.Cards))
	}
	if m.Phase != domain.PhaseFinished {
		t.Fatalf("phase = %v, want finished", m.Phase)
	}
}

// TestFullGameSimulation drives complete matches with the suggestion
// engine on all three seats and checks the global invariants hold for
// every deal.
func TestFullGameSimulation(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		svc := newTestService(seed)
		m := newWaitingMatch()
		readyAll(t, svc, m)

		for turns := 0; m.Phase != domain.PhaseFinished; turns++ {
			if turns > 2000 {
				t.Fatalf("seed %d: match did not finish", seed)
			}

			seat := m.CurrentSeat
			if m.Phase == domain.PhaseBidding {
				if _, err := svc.Bid(m, seat, turns%4 == 0); err != nil {
					t.Fatalf("seed %d: bid: %v", seed, err)
				}
				continue
			}

			before := m.TotalCards()
			if _, err := svc.ForceAction(m, seat); err != nil {
				t.Fatalf("seed %d: force: %v", seed, err)
			}
			if m.TotalCards() > before {
				t.Fatalf("seed %d: cards increased %d -> %d", seed, before, m.TotalCards())
			}
		}

		settlement := domain.CalculateSettlement(m)
		var sum int64
		for _, d := range settlement.Deltas {
			sum += d
		}
		if sum != 0 {
			t.Fatalf("seed %d: settlement not zero-sum: %v", seed, settlement.Deltas)
		}
		if len(m.Players[m.WinnerSeat].Hand) != 0 {
			t.Fatalf("seed %d: winner still holds cards", seed)
		}
	}
}

func TestWholeHandShortcutRespectsTable(t *testing.T) {
	// Seat 1 holds a pair that cannot beat the table; the fallback must
	// not dump it illegally.
	m := playingMatch(t, [domain.PlayerCount][]string{
		{"KS", "KH", "3D"},
		{"4S", "4H"},
		{"5S", "AS"},
	})
	svc := newTestService(1)

	if _, err := svc.PlayCards(m, 0, mustCards(t, "KS", "KH")); err != nil {
		t.Fatalf("lead: %v", err)
	}
	events, err := svc.ForceAction(m, 1)
	if err != nil {
		t.Fatalf("ForceAction: %v", err)
	}
	if events[0].Kind != EventPlayerPassed {
		t.Fatalf("event = %v, want player_passed", events[0].Kind)
	}
	if len(m.Players[1].Hand) != 2 {
		t.Fatal("hand must be untouched after the auto pass")
	}
}

func mustCards(t *testing.T, tokens ...string) []domain.Card {
	t.Helper()
	cards, err := domain.ParseCards(tokens)
	if err != nil {
		t.Fatalf("ParseCards(%v): %v", tokens, err)
	}
	return cards
}
