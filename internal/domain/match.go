package domain

// Phase represents the lifecycle stage of a match.
type Phase string

const (
	// PhaseWaiting indicates the match is waiting for all seats to ready up.
	PhaseWaiting Phase = "waiting"
	// PhaseBidding indicates players are bidding for the landlord role.
	PhaseBidding Phase = "bidding"
	// PhasePlaying indicates the match is actively in progress.
	PhasePlaying Phase = "playing"
	// PhaseFinished is terminal; the match is immutable afterwards.
	PhaseFinished Phase = "finished"
)

// Role is a player's side once the bid resolves.
type Role string

const (
	RoleUnassigned Role = "unassigned"
	RoleLandlord   Role = "landlord"
	RoleFarmer     Role = "farmer"
)

// PlayerCount is fixed: one landlord against two farmers.
const PlayerCount = 3

// HandSize is the dealt hand size before the bottom cards move.
const HandSize = 17

// BottomSize is the number of face-down cards the landlord receives.
const BottomSize = 3

// Player holds the domain state for one seat.
type Player struct {
	UserID string
	Seat   int // 0-based
	Role   Role
	Hand   []Card
	Ready  bool

	// HintCursor rotates repeated hint requests within one turn. It is
	// reset whenever the turn passes to this player anew.
	HintCursor int
}

// BidRecord is one bidding decision, in order taken.
type BidRecord struct {
	Seat   int
	Accept bool
}

// PlayRecord is an accepted play. Records are append-only; they are never
// mutated after creation.
type PlayRecord struct {
	Seat      int
	UserID    string
	Cards     []Card
	Pattern   Pattern
	TurnIndex int
}

// Match is the aggregate root for one game of three players.
type Match struct {
	ID      string
	Phase   Phase
	Players [PlayerCount]*Player

	CurrentSeat  int
	LandlordSeat int
	BottomCards  []Card

	// LastPlay is the play the current turn must beat; nil on a leading
	// turn.
	LastPlay          *PlayRecord
	ConsecutivePasses int
	TurnIndex         int

	BiddingHistory  []BidRecord
	FirstBidderSeat int
	// RoundDeclines counts declines on the current deal; BidRounds counts
	// deals on which every seat declined.
	RoundDeclines int
	BidRounds     int
	PlayHistory   []PlayRecord

	WinnerSeat int
	BaseScore  int64
}

// NewMatch seats the given users in order. Scores settle against
// baseScore when the match finishes.
func NewMatch(id string, userIDs [PlayerCount]string, baseScore int64) *Match {
	m := &Match{
		ID:           id,
		Phase:        PhaseWaiting,
		CurrentSeat:  -1,
		LandlordSeat: -1,
		WinnerSeat:   -1,
		BaseScore:    baseScore,
	}
	for i, uid := range userIDs {
		m.Players[i] = &Player{UserID: uid, Seat: i, Role: RoleUnassigned}
	}
	return m
}

// SeatOf returns the seat index for a user, or -1 when not seated.
func (m *Match) SeatOf(userID string) int {
	for _, p := range m.Players {
		if p.UserID == userID {
			return p.Seat
		}
	}
	return -1
}

// NextSeat returns the seat after the given one in turn order.
func NextSeat(seat int) int {
	return (seat + 1) % PlayerCount
}

// AllReady reports whether every seat has readied up.
func (m *Match) AllReady() bool {
	for _, p := range m.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// WinnerRole returns the role of the winning seat, or RoleUnassigned
// before the match finishes.
func (m *Match) WinnerRole() Role {
	if m.WinnerSeat < 0 {
		return RoleUnassigned
	}
	return m.Players[m.WinnerSeat].Role
}

// TotalCards counts cards across all hands plus the undealt bottom. The
// deal establishes 54 and every accepted play strictly decreases it.
func (m *Match) TotalCards() int {
	total := len(m.BottomCards)
	for _, p := range m.Players {
		total += len(p.Hand)
	}
	return total
}
