package rpcserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nullpilot/voyager/internal/domain/container"
)

// Dispatch wires the RPC frontend's named methods (§4.1) to DaemonServer
// operations. It implements Handler and is the single entry point the
// FrameServer calls for every decoded request.
func (s *DaemonServer) Dispatch(method string, rawParams json.RawMessage) (interface{}, error) {
	ctx := context.Background()

	switch method {
	case "Navigate":
		var p struct {
			ShipSymbol  string `json:"ship_symbol"`
			Destination string `json:"destination"`
			PlayerID    int    `json:"player_id"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		containerID, err := s.NavigateShip(ctx, p.ShipSymbol, p.Destination, p.PlayerID)
		if err != nil {
			return nil, err
		}
		return map[string]string{"container_id": containerID}, nil

	case "Dock":
		var p struct {
			ShipSymbol string `json:"ship_symbol"`
			PlayerID   int    `json:"player_id"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		containerID, err := s.DockShip(ctx, p.ShipSymbol, p.PlayerID)
		if err != nil {
			return nil, err
		}
		return map[string]string{"container_id": containerID}, nil

	case "Orbit":
		var p struct {
			ShipSymbol string `json:"ship_symbol"`
			PlayerID   int    `json:"player_id"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		containerID, err := s.OrbitShip(ctx, p.ShipSymbol, p.PlayerID)
		if err != nil {
			return nil, err
		}
		return map[string]string{"container_id": containerID}, nil

	case "Refuel":
		var p struct {
			ShipSymbol string `json:"ship_symbol"`
			PlayerID   int    `json:"player_id"`
			Units      *int   `json:"units,omitempty"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		containerID, err := s.RefuelShip(ctx, p.ShipSymbol, p.PlayerID, p.Units)
		if err != nil {
			return nil, err
		}
		return map[string]string{"container_id": containerID}, nil

	case "ShipyardPurchase":
		var p struct {
			PurchasingShipSymbol string  `json:"purchasing_ship_symbol"`
			ShipType             string  `json:"ship_type"`
			PlayerID             int     `json:"player_id"`
			ShipyardWaypoint     *string `json:"shipyard_waypoint,omitempty"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		containerID, _, _, _, _, err := s.PurchaseShip(ctx, p.PurchasingShipSymbol, p.ShipType, p.PlayerID, p.ShipyardWaypoint)
		if err != nil {
			return nil, err
		}
		return map[string]string{"container_id": containerID, "status": "starting"}, nil

	case "ShipyardBatchPurchase":
		var p struct {
			PurchasingShipSymbol string  `json:"purchasing_ship_symbol"`
			ShipType             string  `json:"ship_type"`
			Quantity             int     `json:"quantity"`
			MaxBudget            int     `json:"max_budget"`
			PlayerID             int     `json:"player_id"`
			ShipyardWaypoint     *string `json:"shipyard_waypoint,omitempty"`
			Iterations           *int    `json:"iterations,omitempty"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		containerID, _, _, _, _, err := s.BatchPurchaseShips(ctx, p.PurchasingShipSymbol, p.ShipType, p.Quantity, p.MaxBudget, p.PlayerID, p.ShipyardWaypoint, p.Iterations)
		if err != nil {
			return nil, err
		}
		return map[string]string{"container_id": containerID, "status": "starting"}, nil

	case "ScoutMarkets":
		var p struct {
			ShipSymbols  []string `json:"ship_symbols"`
			SystemSymbol string   `json:"system_symbol"`
			Markets      []string `json:"markets"`
			Iterations   int      `json:"iterations"`
			PlayerID     int      `json:"player_id"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		containerIDs, assignments, reused, err := s.ScoutMarkets(ctx, p.ShipSymbols, p.SystemSymbol, p.Markets, p.Iterations, p.PlayerID)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"container_ids":     containerIDs,
			"assignments":       assignments,
			"reused_containers": reused,
		}, nil

	case "AssignScoutingFleet":
		var p struct {
			SystemSymbol string `json:"system_symbol"`
			PlayerID     int    `json:"player_id"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		containerID, err := s.AssignScoutingFleet(ctx, p.SystemSymbol, p.PlayerID)
		if err != nil {
			return nil, err
		}
		return map[string]string{"container_id": containerID}, nil

	case "ContractBatchWorkflow":
		var p struct {
			ShipSymbol string `json:"ship_symbol"`
			Iterations int    `json:"iterations"`
			PlayerID   int    `json:"player_id"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		containerID, err := s.BatchContractWorkflow(ctx, p.ShipSymbol, p.Iterations, p.PlayerID)
		if err != nil {
			return nil, err
		}
		return map[string]string{"container_id": containerID}, nil

	case "DaemonList":
		var p struct {
			PlayerID *int    `json:"player_id,omitempty"`
			Status   *string `json:"status,omitempty"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		containers := s.ListContainers(p.PlayerID, p.Status)
		return map[string]interface{}{"containers": containerSummaries(containers)}, nil

	case "DaemonInspect":
		var p struct {
			ContainerID string `json:"container_id"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		cont, err := s.GetContainer(p.ContainerID)
		if err != nil {
			return nil, err
		}
		return containerSummary(cont), nil

	case "DaemonStop":
		var p struct {
			ContainerID string `json:"container_id"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		if err := s.StopContainer(p.ContainerID); err != nil {
			return nil, err
		}
		return map[string]string{"container_id": p.ContainerID, "status": "STOPPED"}, nil

	case "DaemonRemove":
		var p struct {
			ContainerID string `json:"container_id"`
			PlayerID    int    `json:"player_id"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		if err := s.DeleteContainer(ctx, p.ContainerID, p.PlayerID); err != nil {
			return nil, err
		}
		return map[string]string{"container_id": p.ContainerID, "status": "REMOVED"}, nil

	case "DaemonLogs":
		var p struct {
			ContainerID string `json:"container_id"`
			PlayerID    int    `json:"player_id"`
			Limit       int    `json:"limit,omitempty"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		limit := p.Limit
		if limit <= 0 {
			limit = 100
		}
		logs, err := s.logRepo.GetLogs(ctx, p.ContainerID, p.PlayerID, limit, nil, nil)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"logs": logs}, nil

	case "ListShips":
		var p struct {
			PlayerID    *int   `json:"player_id,omitempty"`
			AgentSymbol string `json:"agent_symbol,omitempty"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		return s.ListShips(ctx, p.PlayerID, p.AgentSymbol)

	case "GetShip":
		var p struct {
			ShipSymbol  string `json:"ship_symbol"`
			PlayerID    *int   `json:"player_id,omitempty"`
			AgentSymbol string `json:"agent_symbol,omitempty"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		return s.GetShip(ctx, p.ShipSymbol, p.PlayerID, p.AgentSymbol)

	case "GetShipyardListings":
		var p struct {
			SystemSymbol   string `json:"system_symbol"`
			WaypointSymbol string `json:"waypoint_symbol"`
			PlayerID       *int   `json:"player_id,omitempty"`
			AgentSymbol    string `json:"agent_symbol,omitempty"`
		}
		if err := decode(rawParams, &p); err != nil {
			return nil, &InvalidParamsError{Err: err}
		}
		listings, symbol, fee, err := s.GetShipyardListings(ctx, p.SystemSymbol, p.WaypointSymbol, p.PlayerID, p.AgentSymbol)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"listings": listings, "shipyard": symbol, "modification_fee": fee}, nil

	default:
		return nil, &UnknownMethodError{Method: method}
	}
}

func decode(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing params")
	}
	return json.Unmarshal(raw, v)
}

type containerView struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	Status           string    `json:"status"`
	PlayerID         int       `json:"player_id"`
	CurrentIteration int       `json:"current_iteration"`
	MaxIterations    int       `json:"max_iterations"`
	RestartCount     int       `json:"restart_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func containerSummary(c *container.Container) *containerView {
	return &containerView{
		ID:               c.ID(),
		Type:             string(c.Type()),
		Status:           string(c.Status()),
		PlayerID:         c.PlayerID(),
		CurrentIteration: c.CurrentIteration(),
		MaxIterations:    c.MaxIterations(),
		RestartCount:     c.RestartCount(),
		CreatedAt:        c.CreatedAt(),
		UpdatedAt:        c.UpdatedAt(),
	}
}

func containerSummaries(containers []*container.Container) []*containerView {
	views := make([]*containerView, 0, len(containers))
	for _, c := range containers {
		views = append(views, containerSummary(c))
	}
	return views
}
