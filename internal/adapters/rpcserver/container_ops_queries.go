package rpcserver

import (
	"context"
	"fmt"

	shipQuery "github.com/nullpilot/voyager/internal/application/ship/queries"
	shipyardQuery "github.com/nullpilot/voyager/internal/application/shipyard/queries"
	"github.com/nullpilot/voyager/internal/domain/shared"
)

// ShipInfo is the wire-level summary of a ship's current state.
type ShipInfo struct {
	Symbol        string `json:"symbol"`
	Location      string `json:"location"`
	NavStatus     string `json:"nav_status"`
	FuelCurrent   int    `json:"fuel_current"`
	FuelCapacity  int    `json:"fuel_capacity"`
	CargoUnits    int    `json:"cargo_units"`
	CargoCapacity int    `json:"cargo_capacity"`
	EngineSpeed   int    `json:"engine_speed"`
}

// CargoItem is one entry of a ship's cargo inventory.
type CargoItem struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Units  int    `json:"units"`
}

// ShipDetail is the full wire-level detail of a single ship.
type ShipDetail struct {
	Symbol         string       `json:"symbol"`
	Location       string       `json:"location"`
	NavStatus      string       `json:"nav_status"`
	FuelCurrent    int          `json:"fuel_current"`
	FuelCapacity   int          `json:"fuel_capacity"`
	CargoUnits     int          `json:"cargo_units"`
	CargoCapacity  int          `json:"cargo_capacity"`
	CargoInventory []*CargoItem `json:"cargo_inventory"`
	EngineSpeed    int          `json:"engine_speed"`
	Role           string       `json:"role"`
}

// ShipListing is one shipyard purchase offer.
type ShipListing struct {
	ShipType      string `json:"ship_type"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PurchasePrice int    `json:"purchase_price"`
}

// ListShips handles ship listing requests.
func (s *DaemonServer) ListShips(ctx context.Context, playerID *int, agentSymbol string) ([]*ShipInfo, error) {
	query := &shipQuery.ListShipsQuery{
		PlayerID:    playerID,
		AgentSymbol: agentSymbol,
	}

	response, err := s.mediator.Send(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ships: %w", err)
	}

	listResp, ok := response.(*shipQuery.ListShipsResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type")
	}

	ships := make([]*ShipInfo, 0, len(listResp.Ships))
	for _, domainShip := range listResp.Ships {
		ships = append(ships, &ShipInfo{
			Symbol:        domainShip.ShipSymbol(),
			Location:      domainShip.CurrentLocation().Symbol,
			NavStatus:     string(domainShip.NavStatus()),
			FuelCurrent:   domainShip.Fuel().Current,
			FuelCapacity:  domainShip.Fuel().Capacity,
			CargoUnits:    domainShip.CargoUnits(),
			CargoCapacity: domainShip.CargoCapacity(),
			EngineSpeed:   domainShip.EngineSpeed(),
		})
	}

	return ships, nil
}

// GetShip handles ship detail requests.
func (s *DaemonServer) GetShip(ctx context.Context, shipSymbol string, playerID *int, agentSymbol string) (*ShipDetail, error) {
	query := &shipQuery.GetShipQuery{
		ShipSymbol:  shipSymbol,
		PlayerID:    playerID,
		AgentSymbol: agentSymbol,
	}

	response, err := s.mediator.Send(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get ship: %w", err)
	}

	getResp, ok := response.(*shipQuery.GetShipResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type")
	}

	domainShip := getResp.Ship

	cargoItems := make([]*CargoItem, 0, len(domainShip.Cargo().Inventory))
	for _, item := range domainShip.Cargo().Inventory {
		cargoItems = append(cargoItems, &CargoItem{
			Symbol: item.Symbol,
			Name:   item.Name,
			Units:  item.Units,
		})
	}

	return &ShipDetail{
		Symbol:         domainShip.ShipSymbol(),
		Location:       domainShip.CurrentLocation().Symbol,
		NavStatus:      string(domainShip.NavStatus()),
		FuelCurrent:    domainShip.Fuel().Current,
		FuelCapacity:   domainShip.Fuel().Capacity,
		CargoUnits:     domainShip.CargoUnits(),
		CargoCapacity:  domainShip.CargoCapacity(),
		CargoInventory: cargoItems,
		EngineSpeed:    domainShip.EngineSpeed(),
		Role:           domainShip.Role(),
	}, nil
}

// GetShipyardListings retrieves available ships at a shipyard.
func (s *DaemonServer) GetShipyardListings(ctx context.Context, systemSymbol, waypointSymbol string, playerID *int, agentSymbol string) ([]*ShipListing, string, int, error) {
	if playerID == nil || *playerID == 0 {
		return nil, "", 0, fmt.Errorf("player_id is required")
	}

	query := &shipyardQuery.GetShipyardListingsQuery{
		SystemSymbol:   systemSymbol,
		WaypointSymbol: waypointSymbol,
		PlayerID:       shared.MustNewPlayerID(*playerID),
	}

	response, err := s.mediator.Send(ctx, query)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to get shipyard listings: %w", err)
	}

	listingsResp, ok := response.(*shipyardQuery.GetShipyardListingsResponse)
	if !ok {
		return nil, "", 0, fmt.Errorf("unexpected response type")
	}

	listings := make([]*ShipListing, len(listingsResp.Shipyard.Listings))
	for i, listing := range listingsResp.Shipyard.Listings {
		listings[i] = &ShipListing{
			ShipType:      listing.ShipType,
			Name:          listing.Name,
			Description:   listing.Description,
			PurchasePrice: listing.PurchasePrice,
		}
	}

	return listings, listingsResp.Shipyard.Symbol, listingsResp.Shipyard.ModificationFee, nil
}
