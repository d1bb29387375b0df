package rpcserver

import (
	"fmt"

	contractCmd "github.com/nullpilot/voyager/internal/application/contract/commands"
	scoutingCmd "github.com/nullpilot/voyager/internal/application/scouting/commands"
	shipyardCmd "github.com/nullpilot/voyager/internal/application/shipyard/commands"
	"github.com/nullpilot/voyager/internal/domain/shared"
)

// registerCommandFactories registers command factories for container recovery
// Adding a new container type only requires adding a factory here - no changes to recovery logic
func (s *DaemonServer) registerCommandFactories() {
	// Scout tour factory
	s.commandFactories["scout_tour"] = func(config map[string]interface{}, playerID int) (interface{}, error) {
		shipSymbol, ok := config["ship_symbol"].(string)
		if !ok {
			return nil, fmt.Errorf("missing or invalid ship_symbol")
		}

		marketsRaw, ok := config["markets"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("missing or invalid markets")
		}

		markets := make([]string, len(marketsRaw))
		for i, m := range marketsRaw {
			markets[i], ok = m.(string)
			if !ok {
				return nil, fmt.Errorf("invalid market entry at index %d", i)
			}
		}

		iterations, ok := config["iterations"].(float64)
		if !ok {
			return nil, fmt.Errorf("missing or invalid iterations")
		}

		return &scoutingCmd.ScoutTourCommand{
			PlayerID:   shared.MustNewPlayerID(int(playerID)),
			ShipSymbol: shipSymbol,
			Markets:    markets,
			Iterations: int(iterations),
		}, nil
	}

	// Contract workflow factory (single contract execution)
	s.commandFactories["contract_workflow"] = func(config map[string]interface{}, playerID int) (interface{}, error) {
		shipSymbol, ok := config["ship_symbol"].(string)
		if !ok {
			return nil, fmt.Errorf("missing or invalid ship_symbol")
		}

		coordinatorID, _ := config["coordinator_id"].(string) // Optional

		return &contractCmd.RunWorkflowCommand{
			ShipSymbol:         shipSymbol,
			PlayerID:           shared.MustNewPlayerID(playerID),
			CoordinatorID:      coordinatorID,
			CompletionCallback: nil, // Will be set by container runner if needed
		}, nil
	}

	// Purchase ship factory
	s.commandFactories["purchase_ship"] = func(config map[string]interface{}, playerID int) (interface{}, error) {
		shipSymbol, ok := config["ship_symbol"].(string)
		if !ok {
			return nil, fmt.Errorf("missing or invalid ship_symbol")
		}

		shipType, ok := config["ship_type"].(string)
		if !ok {
			return nil, fmt.Errorf("missing or invalid ship_type")
		}

		shipyardWaypoint, _ := config["shipyard"].(string) // Optional

		return &shipyardCmd.PurchaseShipCommand{
			PurchasingShipSymbol: shipSymbol,
			ShipType:             shipType,
			PlayerID:             shared.MustNewPlayerID(playerID),
			ShipyardWaypoint:     shipyardWaypoint,
		}, nil
	}

	// Batch purchase ships factory
	s.commandFactories["batch_purchase_ships"] = func(config map[string]interface{}, playerID int) (interface{}, error) {
		shipSymbol, ok := config["ship_symbol"].(string)
		if !ok {
			return nil, fmt.Errorf("missing or invalid ship_symbol")
		}

		shipType, ok := config["ship_type"].(string)
		if !ok {
			return nil, fmt.Errorf("missing or invalid ship_type")
		}

		quantity, ok := config["quantity"].(float64)
		if !ok {
			return nil, fmt.Errorf("missing or invalid quantity")
		}

		maxBudget, ok := config["max_budget"].(float64)
		if !ok {
			return nil, fmt.Errorf("missing or invalid max_budget")
		}

		shipyardWaypoint, _ := config["shipyard"].(string) // Optional

		return &shipyardCmd.BatchPurchaseShipsCommand{
			PurchasingShipSymbol: shipSymbol,
			ShipType:             shipType,
			Quantity:             int(quantity),
			MaxBudget:            int(maxBudget),
			PlayerID:             shared.MustNewPlayerID(playerID),
			ShipyardWaypoint:     shipyardWaypoint,
		}, nil
	}

}
