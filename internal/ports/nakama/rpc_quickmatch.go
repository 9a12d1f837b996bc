package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest optionally selects a score tier for the table.
type QuickMatchRequest struct {
	Tier string `json:"tier"`
}

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var request QuickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &request); err != nil {
			logger.Warn("rpcQuickMatch: invalid payload: %v", err)
		}
	}

	// Find any open lobby for our game, matching the requested tier.
	query := "+label.game:doudizhu +label.phase:lobby +label.open:>0"
	if request.Tier != "" {
		query += " +label.tier:" + request.Tier
	}

	limit := 10
	authoritative := true

	minSize := 1
	maxSize := 2 // ensure < 3 players

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	// Create new match; seat assignment happens in MatchJoin (server-authoritative).
	matchID, err := nk.MatchCreate(ctx, MatchNameDoudizhu, map[string]interface{}{"tier": request.Tier})
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	resp := QuickMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}
