package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type ScoreTier struct {
	ID        string `json:"id"`
	BaseScore int64  `json:"base_score"`
}

type GameConfig struct {
	DefaultTier         string      `json:"default_tier"`
	Tiers               []ScoreTier `json:"tiers"`
	TurnDurationSeconds int         `json:"turn_duration_seconds"`
	BidDurationSeconds  int         `json:"bid_duration_seconds"`
	// MaxBidRounds bounds redeals when every seat keeps declining the bid.
	MaxBidRounds int `json:"max_bid_rounds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding bots to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetBaseScore returns the base score for a given tier ID, or the default
// if not found.
func GetBaseScore(tierID string) int64 {
	if cfg == nil {
		return 100 // Safe default
	}

	target := tierID
	if target == "" {
		target = cfg.DefaultTier
	}

	for _, tier := range cfg.Tiers {
		if tier.ID == target {
			return tier.BaseScore
		}
	}

	for _, tier := range cfg.Tiers {
		if tier.ID == cfg.DefaultTier {
			return tier.BaseScore
		}
	}

	return 100
}
