package app

import (
	"math/rand"
	"time"

	"doudizhu/internal/domain"
	"doudizhu/internal/hint"
)

// Default timing and retry values; the transport layer overrides them
// from configuration.
const (
	DefaultTurnSeconds  = 30
	DefaultBidSeconds   = 15
	DefaultMaxBidRounds = 3
)

// Service contains the match use-cases operating on domain state. One
// inbound action is applied fully, or rejected, before the next is
// accepted; callers provide that serialization (Session or match loop).
type Service struct {
	rng *rand.Rand

	TurnSeconds  int
	BidSeconds   int
	MaxBidRounds int
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		rng:          rng,
		TurnSeconds:  DefaultTurnSeconds,
		BidSeconds:   DefaultBidSeconds,
		MaxBidRounds: DefaultMaxBidRounds,
	}
}

// Ready marks a seat ready. When the last seat readies up the deal runs
// and bidding starts.
func (s *Service) Ready(m *domain.Match, seat int) ([]Event, error) {
	if m.Phase != domain.PhaseWaiting {
		return nil, ErrWrongPhase
	}
	if seat < 0 || seat >= domain.PlayerCount {
		return nil, ErrUnknownPlayer
	}

	m.Players[seat].Ready = true
	if !m.AllReady() {
		return nil, nil
	}

	m.FirstBidderSeat = s.rng.Intn(domain.PlayerCount)
	return s.startBidding(m), nil
}

// startBidding deals 17/17/17 plus the 3 bottom cards and opens bidding
// with the current first bidder.
func (s *Service) startBidding(m *domain.Match) []Event {
	deck := domain.NewDeck()
	s.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	events := make([]Event, 0, domain.PlayerCount+3)
	m.Phase = domain.PhaseBidding
	events = append(events, Event{Kind: EventPhaseChanged, Payload: PhaseChangedPayload{Phase: m.Phase}})

	for _, p := range m.Players {
		p.Hand = append([]domain.Card{}, deck[p.Seat*domain.HandSize:(p.Seat+1)*domain.HandSize]...)
		domain.SortHand(p.Hand)
		p.Role = domain.RoleUnassigned
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{UserID: p.UserID, Seat: p.Seat, Hand: p.Hand},
			Recipients: []string{p.UserID},
		})
	}
	m.BottomCards = append([]domain.Card{}, deck[domain.PlayerCount*domain.HandSize:]...)
	domain.SortHand(m.BottomCards)

	m.RoundDeclines = 0
	m.CurrentSeat = m.FirstBidderSeat
	events = append(events, s.turnChanged(m))
	return events
}

// Bid records one bidding decision. The first acceptance assigns the
// landlord; a full round of declines redeals, bounded by MaxBidRounds,
// after which the first bidder is assigned landlord rather than looping
// forever.
func (s *Service) Bid(m *domain.Match, seat int, accept bool) ([]Event, error) {
	if m.Phase != domain.PhaseBidding {
		return nil, ErrWrongPhase
	}
	if seat != m.CurrentSeat {
		return nil, ErrNotYourTurn
	}

	m.BiddingHistory = append(m.BiddingHistory, domain.BidRecord{Seat: seat, Accept: accept})
	events := []Event{{
		Kind:    EventBidPlaced,
		Payload: BidPlacedPayload{UserID: m.Players[seat].UserID, Seat: seat, Accept: accept},
	}}

	if accept {
		return append(events, s.assignLandlord(m, seat, false)...), nil
	}

	m.RoundDeclines++
	if m.RoundDeclines < domain.PlayerCount {
		m.CurrentSeat = domain.NextSeat(seat)
		return append(events, s.turnChanged(m)), nil
	}

	// Everyone declined this deal.
	m.BidRounds++
	if m.BidRounds >= s.MaxBidRounds {
		return append(events, s.assignLandlord(m, m.FirstBidderSeat, true)...), nil
	}
	m.FirstBidderSeat = domain.NextSeat(m.FirstBidderSeat)
	return append(events, s.startBidding(m)...), nil
}

// assignLandlord resolves the bid: the landlord takes the bottom cards
// and leads the first playing turn.
func (s *Service) assignLandlord(m *domain.Match, seat int, forced bool) []Event {
	m.LandlordSeat = seat
	for _, p := range m.Players {
		if p.Seat == seat {
			p.Role = domain.RoleLandlord
		} else {
			p.Role = domain.RoleFarmer
		}
	}

	landlord := m.Players[seat]
	landlord.Hand = append(landlord.Hand, m.BottomCards...)
	domain.SortHand(landlord.Hand)

	m.Phase = domain.PhasePlaying
	m.CurrentSeat = seat
	m.LastPlay = nil
	m.ConsecutivePasses = 0
	landlord.HintCursor = 0

	return []Event{
		{Kind: EventLandlordAssigned, Payload: LandlordAssignedPayload{
			UserID:      landlord.UserID,
			Seat:        seat,
			BottomCards: m.BottomCards,
			Forced:      forced,
		}},
		{Kind: EventPhaseChanged, Payload: PhaseChangedPayload{Phase: m.Phase}},
		s.turnChanged(m),
	}
}

// PlayCards validates and applies a play for the current seat.
func (s *Service) PlayCards(m *domain.Match, seat int, cards []domain.Card) ([]Event, error) {
	return s.playCards(m, seat, cards, false)
}

func (s *Service) playCards(m *domain.Match, seat int, cards []domain.Card, auto bool) ([]Event, error) {
	if m.Phase != domain.PhasePlaying {
		return nil, ErrWrongPhase
	}
	if seat != m.CurrentSeat {
		return nil, ErrNotYourTurn
	}
	if len(cards) == 0 {
		return nil, ErrNoPlays
	}

	player := m.Players[seat]
	if !domain.ContainsCards(player.Hand, cards) {
		return nil, ErrCardsNotInHand
	}

	pattern := domain.Classify(cards)
	if pattern.Type == domain.Invalid {
		return nil, ErrInvalidPattern
	}
	if m.LastPlay != nil && !domain.CanBeat(m.LastPlay.Pattern, pattern) {
		return nil, ErrPatternTooWeak
	}

	player.Hand = domain.RemoveCards(player.Hand, cards)
	record := domain.PlayRecord{
		Seat:      seat,
		UserID:    player.UserID,
		Cards:     pattern.Cards,
		Pattern:   pattern,
		TurnIndex: m.TurnIndex,
	}
	m.PlayHistory = append(m.PlayHistory, record)
	m.LastPlay = &record
	m.ConsecutivePasses = 0
	m.TurnIndex++

	events := []Event{{
		Kind:    EventCardsPlayed,
		Payload: CardsPlayedPayload{UserID: player.UserID, Seat: seat, Cards: pattern.Cards, Pattern: pattern, Auto: auto},
	}}

	if len(player.Hand) == 0 {
		return append(events, s.finish(m, seat)...), nil
	}

	m.CurrentSeat = domain.NextSeat(seat)
	m.Players[m.CurrentSeat].HintCursor = 0
	return append(events, s.turnChanged(m)), nil
}

// PassTurn applies a pass for the current seat. Passing is illegal when
// the player must lead.
func (s *Service) PassTurn(m *domain.Match, seat int) ([]Event, error) {
	return s.passTurn(m, seat, false)
}

func (s *Service) passTurn(m *domain.Match, seat int, auto bool) ([]Event, error) {
	if m.Phase != domain.PhasePlaying {
		return nil, ErrWrongPhase
	}
	if seat != m.CurrentSeat {
		return nil, ErrNotYourTurn
	}
	if m.LastPlay == nil || m.LastPlay.Seat == seat {
		return nil, ErrIllegalPass
	}

	m.ConsecutivePasses++
	m.TurnIndex++

	newLead := m.ConsecutivePasses == domain.PlayerCount-1
	if newLead {
		// The round passed back: its owner leads with no constraint.
		m.CurrentSeat = m.LastPlay.Seat
		m.LastPlay = nil
		m.ConsecutivePasses = 0
	} else {
		m.CurrentSeat = domain.NextSeat(seat)
	}
	m.Players[m.CurrentSeat].HintCursor = 0

	return []Event{
		{Kind: EventPlayerPassed, Payload: PlayerPassedPayload{
			UserID:  m.Players[seat].UserID,
			Seat:    seat,
			Auto:    auto,
			NewLead: newLead,
		}},
		s.turnChanged(m),
	}, nil
}

// RequestHint returns one rotating suggestion for the current seat, or
// nil when no play beats the table. Read-only apart from the player's
// rotation cursor.
func (s *Service) RequestHint(m *domain.Match, seat int) ([]domain.Card, error) {
	if m.Phase != domain.PhasePlaying {
		return nil, ErrWrongPhase
	}
	if seat != m.CurrentSeat {
		return nil, ErrNotYourTurn
	}

	player := m.Players[seat]
	var last *domain.Pattern
	if m.LastPlay != nil {
		last = &m.LastPlay.Pattern
	}
	return hint.GetHint(player.Hand, last, &player.HintCursor), nil
}

// ForceAction is the timeout fallback for the current seat: auto-decline
// in bidding; auto-pass when passing is legal; otherwise auto-play a
// suggestion. It always produces a legal action.
func (s *Service) ForceAction(m *domain.Match, seat int) ([]Event, error) {
	switch m.Phase {
	case domain.PhaseBidding:
		return s.Bid(m, seat, false)
	case domain.PhasePlaying:
	default:
		return nil, ErrWrongPhase
	}
	if seat != m.CurrentSeat {
		return nil, ErrNotYourTurn
	}

	if m.LastPlay != nil && m.LastPlay.Seat != seat {
		return s.passTurn(m, seat, true)
	}

	player := m.Players[seat]
	cards := hint.WholeHand(player.Hand)
	if cards == nil {
		cursor := 0
		cards = hint.GetHint(player.Hand, nil, &cursor)
	}
	if cards == nil {
		// Unreachable for 1..N card hands, but never stall.
		cards = hint.LowestSingle(player.Hand)
	}
	return s.playCards(m, seat, cards, true)
}

// finish seals the match and emits the settlement.
func (s *Service) finish(m *domain.Match, winnerSeat int) []Event {
	m.Phase = domain.PhaseFinished
	m.WinnerSeat = winnerSeat
	m.CurrentSeat = -1

	settlement := domain.CalculateSettlement(m)
	return []Event{
		{Kind: EventPhaseChanged, Payload: PhaseChangedPayload{Phase: m.Phase}},
		{Kind: EventMatchFinished, Payload: MatchFinishedPayload{
			WinnerUserID: m.Players[winnerSeat].UserID,
			WinnerSeat:   winnerSeat,
			WinnerRole:   m.WinnerRole(),
			Settlement:   settlement,
		}},
	}
}

func (s *Service) turnChanged(m *domain.Match) Event {
	timeout := s.TurnSeconds
	if m.Phase == domain.PhaseBidding {
		timeout = s.BidSeconds
	}
	return Event{Kind: EventTurnChanged, Payload: TurnChangedPayload{
		UserID:    m.Players[m.CurrentSeat].UserID,
		Seat:      m.CurrentSeat,
		TimeoutMs: timeout * 1000,
	}}
}
