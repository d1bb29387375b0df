package common

import (
	"context"
)

// PlayerRepository defines player persistence operations
type PlayerRepository interface {
	FindByID(ctx context.Context, playerID int) (*Player, error)
	FindByAgentSymbol(ctx context.Context, agentSymbol string) (*Player, error)
	Save(ctx context.Context, player *Player) error
}

// Player is the application-level view of a registered player/agent.
type Player struct {
	ID              int
	AgentSymbol     string
	Token           string
	Credits         int
	StartingFaction string
	Metadata        map[string]interface{}
}
