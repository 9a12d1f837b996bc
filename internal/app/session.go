package app

import (
	"sync"
	"time"

	"doudizhu/internal/domain"
)

// Scheduler is the injectable, cancellable timer capability the session
// uses for turn deadlines, keeping timing logic deterministic in tests.
type Scheduler interface {
	// Schedule runs fn after d unless the returned cancel func is called
	// first.
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler schedules on the wall clock.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Session hosts one match: it serializes inbound actions, owns the
// per-turn timer, and forwards events to the sink. Every legal transition
// cancels the pending timer before arming the next, so at most one
// fallback fires per turn.
type Session struct {
	mu sync.Mutex

	match *domain.Match
	svc   *Service
	sched Scheduler
	emit  func(Event)

	cancelTimer func()
	// timerGen invalidates timer callbacks that already fired when their
	// cancel raced: only the most recently armed generation may act.
	timerGen int
	closed   bool
}

// NewSession wires a session around an existing match. emit receives
// every event in order, under the session lock.
func NewSession(match *domain.Match, svc *Service, sched Scheduler, emit func(Event)) *Session {
	if emit == nil {
		emit = func(Event) {}
	}
	return &Session{match: match, svc: svc, sched: sched, emit: emit}
}

// Ready marks the player's seat ready.
func (s *Session) Ready(userID string) error {
	return s.do(userID, func(seat int) ([]Event, error) {
		return s.svc.Ready(s.match, seat)
	})
}

// Bid applies a bidding decision for the player.
func (s *Session) Bid(userID string, accept bool) error {
	return s.do(userID, func(seat int) ([]Event, error) {
		return s.svc.Bid(s.match, seat, accept)
	})
}

// Play parses the card tokens and applies the play.
func (s *Session) Play(userID string, tokens []string) error {
	cards, err := domain.ParseCards(tokens)
	if err != nil {
		return err
	}
	return s.do(userID, func(seat int) ([]Event, error) {
		return s.svc.PlayCards(s.match, seat, cards)
	})
}

// Pass applies a pass for the player.
func (s *Session) Pass(userID string) error {
	return s.do(userID, func(seat int) ([]Event, error) {
		return s.svc.PassTurn(s.match, seat)
	})
}

// RequestHint returns a rotating suggestion for the player, as tokens.
func (s *Session) RequestHint(userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seat := s.match.SeatOf(userID)
	if seat < 0 {
		return nil, ErrUnknownPlayer
	}
	cards, err := s.svc.RequestHint(s.match, seat)
	if err != nil || cards == nil {
		return nil, err
	}
	return domain.CardTokens(cards), nil
}

// Match exposes the session's match for read-side consumers.
func (s *Session) Match() *domain.Match {
	return s.match
}

// Close cancels any pending timer; the session accepts no further
// actions.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimer()
	s.closed = true
}

func (s *Session) do(userID string, action func(seat int) ([]Event, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrWrongPhase
	}
	seat := s.match.SeatOf(userID)
	if seat < 0 {
		return ErrUnknownPlayer
	}

	events, err := action(seat)
	if err != nil {
		return err
	}
	s.dispatch(events)
	return nil
}

// dispatch emits events and re-arms the turn timer; the pending timer for
// the outgoing turn is cancelled first.
func (s *Session) dispatch(events []Event) {
	if len(events) == 0 {
		return
	}
	s.stopTimer()
	for _, ev := range events {
		s.emit(ev)
		if tc, ok := ev.Payload.(TurnChangedPayload); ok {
			s.armTimer(tc.Seat, time.Duration(tc.TimeoutMs)*time.Millisecond)
		}
	}
}

func (s *Session) armTimer(seat int, d time.Duration) {
	s.stopTimer()
	gen := s.timerGen
	s.cancelTimer = s.sched.Schedule(d, func() { s.onTimeout(seat, gen) })
}

func (s *Session) stopTimer() {
	s.timerGen++
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
}

// onTimeout runs the fallback for the turn the timer was armed on. The
// generation check discards callbacks that fired before their cancel took
// effect, including ones whose seat has since regained the lead.
func (s *Session) onTimeout(seat, gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.timerGen || s.match.CurrentSeat != seat {
		return
	}
	events, err := s.svc.ForceAction(s.match, seat)
	if err != nil {
		return
	}
	s.dispatch(events)
}
