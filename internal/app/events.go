package app

import "doudizhu/internal/domain"

// EventKind identifies emitted domain events for transport dispatch.
type EventKind string

const (
	EventPhaseChanged     EventKind = "phase_changed"
	EventHandDealt        EventKind = "hand_dealt"
	EventTurnChanged      EventKind = "turn_changed"
	EventBidPlaced        EventKind = "bid_placed"
	EventLandlordAssigned EventKind = "landlord_assigned"
	EventCardsPlayed      EventKind = "cards_played"
	EventPlayerPassed     EventKind = "player_passed"
	EventMatchFinished    EventKind = "match_finished"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PhaseChangedPayload struct {
	Phase domain.Phase
}

type HandDealtPayload struct {
	UserID string
	Seat   int
	Hand   []domain.Card
}

type TurnChangedPayload struct {
	UserID    string
	Seat      int
	TimeoutMs int
}

type BidPlacedPayload struct {
	UserID string
	Seat   int
	Accept bool
}

type LandlordAssignedPayload struct {
	UserID      string
	Seat        int
	BottomCards []domain.Card
	// Forced marks a landlord assigned after the bounded redeal budget
	// ran out with every seat declining.
	Forced bool
}

type CardsPlayedPayload struct {
	UserID  string
	Seat    int
	Cards   []domain.Card
	Pattern domain.Pattern
	// Auto marks a timeout fallback play, distinct from player actions.
	Auto bool
}

type PlayerPassedPayload struct {
	UserID string
	Seat   int
	Auto   bool
	// NewLead is set when the pass handed the lead back to the last
	// play's owner.
	NewLead bool
}

type MatchFinishedPayload struct {
	WinnerUserID string
	WinnerSeat   int
	WinnerRole   domain.Role
	Settlement   domain.Settlement
}
