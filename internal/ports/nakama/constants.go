package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameDoudizhu is the authoritative match handler name registered with Nakama.
	MatchNameDoudizhu = "doudizhu_match"

	// MatchLabelKey_OpenSeats is the label key advertising free seats.
	MatchLabelKey_OpenSeats = "open"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpReady       int64 = 1
	OpBid         int64 = 2
	OpPlayCards   int64 = 3
	OpPassTurn    int64 = 4
	OpRequestHint int64 = 5

	// Server -> Client events
	OpPlayerJoined     int64 = 101
	OpPlayerLeft       int64 = 102
	OpPhaseChanged     int64 = 103
	OpHandDealt        int64 = 104 // sent privately
	OpTurnChanged      int64 = 105
	OpBidPlaced        int64 = 106
	OpLandlordAssigned int64 = 107
	OpCardsPlayed      int64 = 108
	OpPlayerPassed     int64 = 109
	OpMatchFinished    int64 = 110
	OpHintResult       int64 = 111 // sent privately
	OpGameError        int64 = 112 // sent privately
)
