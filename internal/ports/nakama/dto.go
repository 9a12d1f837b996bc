package nakama

// Wire payloads are JSON; cards travel as their wire tokens ("3S", "10H",
// "SJ", ...). Any serializable schema carrying these fields is compliant.

type BidRequest struct {
	Accept bool `json:"accept"`
}

type PlayCardsRequest struct {
	Cards []string `json:"cards"`
}

type PlayerInfo struct {
	UserID         string `json:"user_id"`
	Seat           int    `json:"seat"`
	DisplayName    string `json:"display_name"`
	IsBot          bool   `json:"is_bot"`
	CardsRemaining int    `json:"cards_remaining"`
	Role           string `json:"role"`
}

type MatchSnapshot struct {
	Phase       string       `json:"phase"`
	Players     []PlayerInfo `json:"players"`
	CurrentSeat int          `json:"current_seat"`
}

type PlayerLeftEvent struct {
	UserID string `json:"user_id"`
	// Seat is -1 when the leaver never held a seat.
	Seat int `json:"seat"`
}

type PhaseChangedEvent struct {
	Phase string `json:"phase"`
}

type HandDealtEvent struct {
	Seat  int      `json:"seat"`
	Cards []string `json:"cards"`
}

type TurnChangedEvent struct {
	UserID    string `json:"user_id"`
	Seat      int    `json:"seat"`
	TimeoutMs int    `json:"timeout_ms"`
}

type BidPlacedEvent struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
	Accept bool   `json:"accept"`
}

type LandlordAssignedEvent struct {
	UserID      string   `json:"user_id"`
	Seat        int      `json:"seat"`
	BottomCards []string `json:"bottom_cards"`
	Forced      bool     `json:"forced"`
}

type CardsPlayedEvent struct {
	UserID       string   `json:"user_id"`
	Seat         int      `json:"seat"`
	Cards        []string `json:"cards"`
	PatternType  string   `json:"pattern_type"`
	PatternValue int32    `json:"pattern_value"`
	Auto         bool     `json:"auto"`
}

type PlayerPassedEvent struct {
	UserID  string `json:"user_id"`
	Seat    int    `json:"seat"`
	Auto    bool   `json:"auto"`
	NewLead bool   `json:"new_lead"`
}

type SettlementInfo struct {
	BaseScore  int64            `json:"base_score"`
	Multiplier int64            `json:"multiplier"`
	Bombs      int              `json:"bombs"`
	Rockets    int              `json:"rockets"`
	Spring     bool             `json:"spring"`
	AntiSpring bool             `json:"anti_spring"`
	Deltas     map[string]int64 `json:"deltas"`
}

type MatchFinishedEvent struct {
	WinnerUserID string         `json:"winner_user_id"`
	WinnerSeat   int            `json:"winner_seat"`
	WinnerRole   string         `json:"winner_role"`
	Settlement   SettlementInfo `json:"settlement"`
}

type HintResult struct {
	Cards []string `json:"cards"`
}

type GameError struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}
