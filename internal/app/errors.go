package app

import "errors"

// Rejections are local: they never advance the turn, never mutate hands,
// and are reported back to the acting player only.
var (
	ErrWrongPhase     = errors.New("action not legal in current phase")
	ErrUnknownPlayer  = errors.New("player not found")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrCardsNotInHand = errors.New("cards not in hand")
	ErrInvalidPattern = errors.New("cards do not form a playable pattern")
	ErrPatternTooWeak = errors.New("pattern does not beat the last play")
	ErrIllegalPass    = errors.New("cannot pass when leading")
	ErrNoPlays        = errors.New("no cards to play")
)
