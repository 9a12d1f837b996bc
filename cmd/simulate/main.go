package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"doudizhu/internal/app"
	"doudizhu/internal/bot"
	"doudizhu/internal/domain"

	"go.uber.org/zap"
)

// simulate plays full bot-vs-bot matches through the rules engine. It is
// the fastest way to exercise the whole engine end to end and to check
// that settlements stay zero-sum over many shuffles.
func main() {
	seed := flag.Int64("seed", time.Now().UnixNano(), "rng seed for reproducible runs")
	games := flag.Int("games", 1, "number of matches to play")
	verbose := flag.Bool("v", false, "log every event")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	sugar.Infow("simulation starting", "seed", *seed, "games", *games)

	rng := rand.New(rand.NewSource(*seed))
	svc := app.NewService(rng)

	for g := 0; g < *games; g++ {
		if err := runGame(sugar, svc, g, *verbose); err != nil {
			sugar.Errorw("game failed", "game", g, "error", err)
			os.Exit(1)
		}
	}

	sugar.Infow("simulation finished", "games", *games)
}

func runGame(sugar *zap.SugaredLogger, svc *app.Service, game int, verbose bool) error {
	var agents [domain.PlayerCount]*bot.Agent
	var userIDs [domain.PlayerCount]string
	for i := range agents {
		agents[i] = bot.NewAgent(i)
		userIDs[i] = agents[i].ID
	}

	m := domain.NewMatch(fmt.Sprintf("sim-%d", game), userIDs, 100)

	for seat := 0; seat < domain.PlayerCount; seat++ {
		events, err := svc.Ready(m, seat)
		if err != nil {
			return fmt.Errorf("ready seat %d: %w", seat, err)
		}
		logEvents(sugar, events, verbose)
	}

	const maxActions = 2000 // guards against a stuck loop
	for i := 0; i < maxActions; i++ {
		if m.Phase == domain.PhaseFinished {
			return checkSettlement(sugar, m, game)
		}

		seat := m.CurrentSeat
		move := agents[seat].Decide(m, seat)

		var events []app.Event
		var err error
		switch {
		case m.Phase == domain.PhaseBidding:
			events, err = svc.Bid(m, seat, move.Accept)
		case move.Pass:
			events, err = svc.PassTurn(m, seat)
		default:
			events, err = svc.PlayCards(m, seat, move.Cards)
		}
		if err != nil {
			events, err = svc.ForceAction(m, seat)
			if err != nil {
				return fmt.Errorf("seat %d stuck: %w", seat, err)
			}
		}
		logEvents(sugar, events, verbose)
	}
	return fmt.Errorf("game %d did not finish within %d actions", game, maxActions)
}

func logEvents(sugar *zap.SugaredLogger, events []app.Event, verbose bool) {
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.LandlordAssignedPayload:
			sugar.Infow("landlord assigned", "seat", p.Seat, "forced", p.Forced,
				"bottom", domain.CardTokens(p.BottomCards))
		case app.MatchFinishedPayload:
			sugar.Infow("match finished",
				"winner_seat", p.WinnerSeat,
				"winner_role", p.WinnerRole,
				"multiplier", p.Settlement.Multiplier,
				"bombs", p.Settlement.Bombs,
				"rockets", p.Settlement.Rockets,
				"spring", p.Settlement.Spring,
				"anti_spring", p.Settlement.AntiSpring,
				"deltas", p.Settlement.Deltas)
		case app.CardsPlayedPayload:
			if verbose {
				sugar.Debugw("cards played", "seat", p.Seat,
					"pattern", p.Pattern.Type.String(),
					"cards", domain.CardTokens(p.Cards), "auto", p.Auto)
			}
		case app.PlayerPassedPayload:
			if verbose {
				sugar.Debugw("passed", "seat", p.Seat, "new_lead", p.NewLead)
			}
		case app.BidPlacedPayload:
			if verbose {
				sugar.Debugw("bid", "seat", p.Seat, "accept", p.Accept)
			}
		}
	}
}

func checkSettlement(sugar *zap.SugaredLogger, m *domain.Match, game int) error {
	settlement := domain.CalculateSettlement(m)
	var sum int64
	for _, delta := range settlement.Deltas {
		sum += delta
	}
	if sum != 0 {
		return fmt.Errorf("game %d settlement not zero-sum: %d", game, sum)
	}
	sugar.Infow("game complete", "game", game, "turns", m.TurnIndex)
	return nil
}
