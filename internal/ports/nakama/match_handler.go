package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"

	"doudizhu/internal/app"
	"doudizhu/internal/bot"
	"doudizhu/internal/config"
	"doudizhu/internal/domain"
	"doudizhu/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [domain.PlayerCount]string  `json:"seats"` // user IDs, empty string means seat is empty
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"` // user ID -> presence for targeted messaging
	App       *app.Service                `json:"-"`
	Match     *domain.Match               `json:"-"` // current match (nil between games)
	MatchID   string                      `json:"match_id"`
	ScoreTier string                      `json:"score_tier"`

	// TurnDeadlineTick is the tick at which the current turn's fallback
	// fires; zero means no pending deadline. It is cleared on every
	// transition before the next turn arms it, so at most one fallback
	// fires per turn.
	TurnDeadlineTick int64 `json:"turn_deadline_tick"`

	BotsEnabled          bool                  `json:"bots_enabled"`
	BotMinDelay          int                   `json:"bot_min_delay"` // seconds a bot waits before acting
	BotMaxDelay          int                   `json:"bot_max_delay"`
	BotAutoFillDelay     int                   `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64                 `json:"bot_wait_until"`
	LastSinglePlayerTick int64                 `json:"last_single_player_tick"`
	Bots                 map[string]*bot.Agent `json:"-"`

	Economy ports.EconomyPort `json:"-"`
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !bot.IsBot(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) int {
	for i, uid := range ms.Seats {
		if uid == userID {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	for _, userID := range seats {
		if userID != "" && !bot.IsBot(userID) {
			return false
		}
	}
	return true
}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	state := &MatchState{
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(nil),
		Bots:      make(map[string]*bot.Agent),
		Economy:   NewNakamaEconomyAdapter(nk),
	}
	if matchID, ok := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string); ok {
		state.MatchID = matchID
	}
	if tier, ok := params["tier"].(string); ok {
		state.ScoreTier = tier
	}

	if cfg := config.GetGameConfig(); cfg != nil {
		if cfg.TurnDurationSeconds > 0 {
			state.App.TurnSeconds = cfg.TurnDurationSeconds
		}
		if cfg.BidDurationSeconds > 0 {
			state.App.BidSeconds = cfg.BidDurationSeconds
		}
		if cfg.MaxBidRounds > 0 {
			state.App.MaxBidRounds = cfg.MaxBidRounds
		}
		if cfg.BotAutoFillDelaySeconds > 0 {
			state.BotAutoFillDelay = cfg.BotAutoFillDelaySeconds
		}
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["doudizhu_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["doudizhu_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["doudizhu_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}

	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay == 0 {
		state.BotMaxDelay = 3
	}
	// An inverted env range would make the bot delay roll panic.
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = 5
	}

	label, err := marshalLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // one tick per second; deadlines are counted in ticks
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Rejoins are always allowed; the seat never freed.
	if matchState.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}

	if matchState.GetOpenSeatsCount() <= 0 {
		// A bot can be displaced until the first deal happens.
		hasBot := false
		if matchState.Match == nil || matchState.Match.Phase == domain.PhaseWaiting {
			for _, seat := range matchState.Seats {
				if bot.IsBot(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		if matchState.seatOf(p.GetUserId()) >= 0 {
			continue // rejoin
		}

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && (matchState.Match == nil || matchState.Match.Phase == domain.PhaseWaiting) {
			for i, seatUserID := range matchState.Seats {
				if bot.IsBot(seatUserID) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserID, p.GetUserId(), i)
					delete(matchState.Bots, seatUserID)
					matchState.Seats[i] = p.GetUserId()
					// The unstarted match is rebuilt below with the new
					// seating.
					matchState.Match = nil
					matchState.TurnDeadlineTick = 0
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", p.GetUserId())
		}
	}

	mh.maybeCreateMatch(matchState, dispatcher, logger)
	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave removes presences. Seats are kept: an absent player's turns
// resolve through the timeout fallback, so a match in progress always
// reaches the finished phase.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		seat := matchState.seatOf(p.GetUserId())
		// Free the seat only between games; mid-match the deadline
		// fallback plays for the absentee.
		if matchState.Match == nil && seat >= 0 {
			matchState.Seats[seat] = ""
		}

		if data, err := json.Marshal(PlayerLeftEvent{UserID: p.GetUserId(), Seat: seat}); err == nil {
			dispatcher.BroadcastMessage(OpPlayerLeft, data, nil, nil, true)
		}
	}

	if len(matchState.Presences) == 0 && (matchState.Match == nil || shouldTerminateNoHumans(matchState.Seats[:])) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpReady:
			mh.handleReady(ctx, matchState, dispatcher, logger, msg)
		case OpBid:
			mh.handleBid(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		case OpRequestHint:
			mh.handleRequestHint(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.enforceTurnDeadline(ctx, matchState, dispatcher, logger)

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

// enforceTurnDeadline fires the engine's timeout fallback when the
// current turn's deadline tick passes without an action.
func (mh *matchHandler) enforceTurnDeadline(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	m := state.Match
	if m == nil || state.TurnDeadlineTick == 0 || state.Tick < state.TurnDeadlineTick {
		return
	}
	if m.Phase != domain.PhaseBidding && m.Phase != domain.PhasePlaying {
		state.TurnDeadlineTick = 0
		return
	}

	seat := m.CurrentSeat
	state.TurnDeadlineTick = 0
	events, err := state.App.ForceAction(m, seat)
	if err != nil {
		logger.Error("enforceTurnDeadline: fallback for seat %d failed: %v", seat, err)
		return
	}
	logger.Info("enforceTurnDeadline: seat %d timed out, fallback applied.", seat)
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Auto-fill the lobby after a lone human has waited long enough.
	if state.Match == nil {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
			}
			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				added := false
				for i, seat := range state.Seats {
					if seat == "" {
						agent := bot.NewAgent(i)
						state.Seats[i] = agent.ID
						state.Bots[agent.ID] = agent
						logger.Info("processBots: Added bot %s (%s) to seat %d", agent.Name, agent.ID, i)
						added = true
					}
				}
				if added {
					mh.maybeCreateMatch(state, dispatcher, logger)
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastSnapshot(state, dispatcher, logger)
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	m := state.Match
	if m.Phase != domain.PhaseBidding && m.Phase != domain.PhasePlaying {
		return
	}

	currentUserID := state.Seats[m.CurrentSeat]
	agent, isBot := state.Bots[currentUserID]
	if !isBot {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	move := agent.Decide(m, m.CurrentSeat)
	var events []app.Event
	var err error
	switch {
	case m.Phase == domain.PhaseBidding:
		events, err = state.App.Bid(m, m.CurrentSeat, move.Accept)
	case move.Pass:
		events, err = state.App.PassTurn(m, m.CurrentSeat)
	default:
		events, err = state.App.PlayCards(m, m.CurrentSeat, move.Cards)
	}
	if err != nil {
		// The agent proposed something the rules rejected; fall back to
		// the engine's guaranteed-legal action.
		events, err = state.App.ForceAction(m, m.CurrentSeat)
		if err != nil {
			logger.Error("processBots: Bot %s failed to act: %v", currentUserID, err)
			return
		}
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

// maybeCreateMatch starts a fresh match once every seat is occupied. Bot
// seats ready up immediately; humans send OpReady.
func (mh *matchHandler) maybeCreateMatch(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Match != nil || state.GetOpenSeatsCount() > 0 {
		return
	}

	baseScore := config.GetBaseScore(state.ScoreTier)
	state.Match = domain.NewMatch(state.MatchID, state.Seats, baseScore)
	state.TurnDeadlineTick = 0
	logger.Info("maybeCreateMatch: Match created (base score %d).", baseScore)

	for seat, userID := range state.Seats {
		if bot.IsBot(userID) {
			if events, err := state.App.Ready(state.Match, seat); err == nil {
				mh.dispatchEvents(context.Background(), state, dispatcher, logger, events)
			}
		}
	}
}

func (mh *matchHandler) handleReady(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat := state.seatOf(msg.GetUserId())
	if state.Match == nil {
		// Covers the rematch case: the previous game cleared the match
		// and every seat is still occupied.
		mh.maybeCreateMatch(state, dispatcher, logger)
	}
	if state.Match == nil || seat < 0 {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "match not ready to start")
		return
	}

	events, err := state.App.Ready(state.Match, seat)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleBid(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat := state.seatOf(msg.GetUserId())
	if state.Match == nil || seat < 0 {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "no active match")
		return
	}

	var request BidRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleBid: Invalid BidRequest from %s: %v", msg.GetUserId(), err)
		return
	}

	events, err := state.App.Bid(state.Match, seat, request.Accept)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handlePlayCards(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat := state.seatOf(msg.GetUserId())
	if state.Match == nil || seat < 0 {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "no active match")
		return
	}

	var request PlayCardsRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handlePlayCards: Invalid PlayCardsRequest from %s: %v", msg.GetUserId(), err)
		return
	}

	cards, err := domain.ParseCards(request.Cards)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}

	events, err := state.App.PlayCards(state.Match, seat, cards)
	if err != nil {
		logger.Warn("handlePlayCards: User %s (seat %d) failed to play cards: %v. Requested: %v", msg.GetUserId(), seat, err, request.Cards)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat := state.seatOf(msg.GetUserId())
	if state.Match == nil || seat < 0 {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "no active match")
		return
	}

	events, err := state.App.PassTurn(state.Match, seat)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleRequestHint(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat := state.seatOf(msg.GetUserId())
	if state.Match == nil || seat < 0 {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "no active match")
		return
	}

	cards, err := state.App.RequestHint(state.Match, seat)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}

	mh.sendTo(state, dispatcher, logger, msg.GetUserId(), OpHintResult, HintResult{Cards: domain.CardTokens(cards)})
}

// dispatchEvents converts app events to wire payloads, manages the turn
// deadline, and applies the settlement on match end.
func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		var opCode int64
		var payload any

		switch ev.Kind {
		case app.EventPhaseChanged:
			p := ev.Payload.(app.PhaseChangedPayload)
			opCode = OpPhaseChanged
			payload = PhaseChangedEvent{Phase: string(p.Phase)}
		case app.EventHandDealt:
			p := ev.Payload.(app.HandDealtPayload)
			opCode = OpHandDealt
			payload = HandDealtEvent{Seat: p.Seat, Cards: domain.CardTokens(p.Hand)}
		case app.EventTurnChanged:
			p := ev.Payload.(app.TurnChangedPayload)
			opCode = OpTurnChanged
			payload = TurnChangedEvent{UserID: p.UserID, Seat: p.Seat, TimeoutMs: p.TimeoutMs}
			// Arm the deadline for the incoming turn; rounded up so a
			// fallback never fires early.
			state.TurnDeadlineTick = state.Tick + int64((p.TimeoutMs+999)/1000)
		case app.EventBidPlaced:
			p := ev.Payload.(app.BidPlacedPayload)
			opCode = OpBidPlaced
			payload = BidPlacedEvent{UserID: p.UserID, Seat: p.Seat, Accept: p.Accept}
		case app.EventLandlordAssigned:
			p := ev.Payload.(app.LandlordAssignedPayload)
			opCode = OpLandlordAssigned
			payload = LandlordAssignedEvent{UserID: p.UserID, Seat: p.Seat, BottomCards: domain.CardTokens(p.BottomCards), Forced: p.Forced}
		case app.EventCardsPlayed:
			p := ev.Payload.(app.CardsPlayedPayload)
			opCode = OpCardsPlayed
			payload = CardsPlayedEvent{
				UserID:       p.UserID,
				Seat:         p.Seat,
				Cards:        domain.CardTokens(p.Cards),
				PatternType:  p.Pattern.Type.String(),
				PatternValue: int32(p.Pattern.Value),
				Auto:         p.Auto,
			}
		case app.EventPlayerPassed:
			p := ev.Payload.(app.PlayerPassedPayload)
			opCode = OpPlayerPassed
			payload = PlayerPassedEvent{UserID: p.UserID, Seat: p.Seat, Auto: p.Auto, NewLead: p.NewLead}
		case app.EventMatchFinished:
			p := ev.Payload.(app.MatchFinishedPayload)
			opCode = OpMatchFinished
			payload = MatchFinishedEvent{
				WinnerUserID: p.WinnerUserID,
				WinnerSeat:   p.WinnerSeat,
				WinnerRole:   string(p.WinnerRole),
				Settlement: SettlementInfo{
					BaseScore:  p.Settlement.BaseScore,
					Multiplier: p.Settlement.Multiplier,
					Bombs:      p.Settlement.Bombs,
					Rockets:    p.Settlement.Rockets,
					Spring:     p.Settlement.Spring,
					AntiSpring: p.Settlement.AntiSpring,
					Deltas:     p.Settlement.Deltas,
				},
			}
			mh.applySettlement(ctx, state, logger, p.Settlement.Deltas)
			state.TurnDeadlineTick = 0
			state.Match = nil
		default:
			logger.Warn("dispatchEvents: Unknown event kind: %v", ev.Kind)
			continue
		}

		data, err := json.Marshal(payload)
		if err != nil {
			logger.Error("dispatchEvents: Failed to marshal event %v: %v", ev.Kind, err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if p, ok := state.Presences[uid]; ok {
					recipients = append(recipients, p)
				}
			}
			// Targeted events with no connected recipients (bots) must
			// not leak to everyone else.
			if len(recipients) == 0 {
				continue
			}
		}

		dispatcher.BroadcastMessage(opCode, data, recipients, nil, true)
	}

	if state.Match == nil {
		mh.updateLabel(state, dispatcher, logger)
	}
}

// applySettlement moves the zero-sum deltas into wallets, skipping bots.
func (mh *matchHandler) applySettlement(ctx context.Context, state *MatchState, logger runtime.Logger, deltas map[string]int64) {
	if state.Economy == nil {
		return
	}
	updates := make([]ports.WalletUpdate, 0, len(deltas))
	for userID, amount := range deltas {
		if bot.IsBot(userID) {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: userID,
			Amount: amount,
			Metadata: map[string]interface{}{
				"match_id": state.MatchID,
				"reason":   "match_settlement",
			},
		})
	}
	if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("applySettlement: Failed to update balances: %v", err)
	}
}

func (mh *matchHandler) broadcastSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	snapshot := MatchSnapshot{CurrentSeat: -1, Phase: "lobby"}
	if state.Match != nil {
		snapshot.Phase = string(state.Match.Phase)
		snapshot.CurrentSeat = state.Match.CurrentSeat
	}

	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}

		displayName := userID
		if p, exists := state.Presences[userID]; exists {
			displayName = p.GetUsername()
		} else if agent, exists := state.Bots[userID]; exists {
			displayName = agent.Name
		}

		info := PlayerInfo{
			UserID:      userID,
			Seat:        i,
			DisplayName: displayName,
			IsBot:       bot.IsBot(userID),
			Role:        string(domain.RoleUnassigned),
		}
		if state.Match != nil {
			player := state.Match.Players[i]
			info.CardsRemaining = len(player.Hand)
			info.Role = string(player.Role)
		}
		snapshot.Players = append(snapshot.Players, info)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("broadcastSnapshot: Failed to marshal: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpPlayerJoined, data, nil, nil, true)
}

// sendError sends a GameError to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int32, message string) {
	mh.sendTo(state, dispatcher, logger, userID, OpGameError, GameError{Code: code, Message: message})
}

func (mh *matchHandler) sendTo(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, opCode int64, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("sendTo: Failed to marshal payload: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := marshalLabel(state)
	if err != nil {
		logger.Error("updateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("updateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
