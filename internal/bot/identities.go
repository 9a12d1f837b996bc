package bot

import (
	"strings"

	"github.com/google/uuid"
)

// botIDPrefix marks user IDs that belong to agents rather than humans.
const botIDPrefix = "bot-"

var botNames = []string{
	"Old Wang", "Auntie Li", "Iron Zhou", "Lucky Chen",
	"Quiet Zhao", "Sharp Sun", "Steady Wu", "Night Owl",
}

// IsBot reports whether the given user id represents an agent seat.
func IsBot(userID string) bool {
	return strings.HasPrefix(userID, botIDPrefix)
}

// NewAgent provisions an agent with a fresh bot user id. nameHint picks a
// stable display name per seat.
func NewAgent(nameHint int) *Agent {
	return &Agent{
		ID:   botIDPrefix + uuid.NewString(),
		Name: botNames[nameHint%len(botNames)],
	}
}
