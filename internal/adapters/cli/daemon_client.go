package cli

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"
)

// DaemonClient talks to the daemon's RPC frontend: one framed-JSON
// request/response exchange per Unix socket connection.
type DaemonClient struct {
	socketPath string
}

// NewDaemonClient creates a new daemon client bound to socketPath. Each call
// opens its own connection since the frontend handles one request per conn.
func NewDaemonClient(socketPath string) (*DaemonClient, error) {
	return &DaemonClient{socketPath: socketPath}, nil
}

// Close is a no-op; DaemonClient holds no persistent connection.
func (c *DaemonClient) Close() error { return nil }

type rpcError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func (c *DaemonClient) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	rawParams, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}
	reqBody, err := json.Marshal(struct {
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}{Method: method, Params: rawParams})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(reqBody)))
	if _, err := conn.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("failed to write request: %w", err)
	}
	if _, err := conn.Write(reqBody); err != nil {
		return fmt.Errorf("failed to write request: %w", err)
	}

	if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	respBody := make([]byte, binary.BigEndian.Uint32(lenBuf[:]))
	if _, err := io.ReadFull(conn, respBody); err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var resp struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Error != nil {
		return resp.Error
	}
	if result != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("failed to decode result: %w", err)
		}
	}
	return nil
}

// Response types

type NavigateResponse struct {
	ContainerID string `json:"container_id"`
}

type DockResponse struct {
	ContainerID string `json:"container_id"`
}

type OrbitResponse struct {
	ContainerID string `json:"container_id"`
}

type RefuelResponse struct {
	ContainerID string `json:"container_id"`
}

type BatchContractWorkflowResponse struct {
	ContainerID string `json:"container_id"`
}

type ScoutMarketsResponse struct {
	ContainerIDs     []string            `json:"container_ids"`
	Assignments      map[string][]string `json:"assignments"`
	ReusedContainers []string            `json:"reused_containers"`
}

type AssignScoutingFleetResponse struct {
	ContainerID string `json:"container_id"`
}

// ContainerInfo mirrors one entry of DaemonList/DaemonInspect for CLI display.
type ContainerInfo struct {
	ContainerID      string    `json:"id"`
	ContainerType    string    `json:"type"`
	Status           string    `json:"status"`
	PlayerID         int       `json:"player_id"`
	CurrentIteration int       `json:"current_iteration"`
	MaxIterations    int       `json:"max_iterations"`
	RestartCount     int       `json:"restart_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type StopContainerResponse struct {
	ContainerID string `json:"container_id"`
	Status      string `json:"status"`
}

type HealthResponse struct {
	Status           string `json:"status"`
	Version          string `json:"version"`
	ActiveContainers int    `json:"active_containers"`
}

type ShipyardPurchaseResponse struct {
	ContainerID string `json:"container_id"`
	Status      string `json:"status"`
}

type BatchPurchaseShipsResponse struct {
	ContainerID string `json:"container_id"`
	Status      string `json:"status"`
}

// ShipSummary mirrors one entry of ListShips' result array.
type ShipSummary struct {
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

// ShipDetail mirrors GetShip's result.
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

// ShipyardListing is one purchasable ship offer returned by GetShipyardListings.
type ShipyardListing struct {
	ShipType      string `json:"ship_type"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PurchasePrice int    `json:"purchase_price"`
}

type ShipyardListingsResponse struct {
	Listings        []ShipyardListing `json:"listings"`
	ShipyardSymbol  string            `json:"shipyard"`
	ModificationFee int               `json:"modification_fee"`
}

// NavigateShip initiates ship navigation
func (c *DaemonClient) NavigateShip(ctx context.Context, shipSymbol, destination string, playerID int, agentSymbol string) (*NavigateResponse, error) {
	var resp NavigateResponse
	err := c.call(ctx, "Navigate", map[string]interface{}{
		"ship_symbol": shipSymbol,
		"destination": destination,
		"player_id":   playerID,
	}, &resp)
	return &resp, err
}

// DockShip initiates ship docking
func (c *DaemonClient) DockShip(ctx context.Context, shipSymbol string, playerID int, agentSymbol string) (*DockResponse, error) {
	var resp DockResponse
	err := c.call(ctx, "Dock", map[string]interface{}{
		"ship_symbol": shipSymbol,
		"player_id":   playerID,
	}, &resp)
	return &resp, err
}

// OrbitShip initiates ship orbit
func (c *DaemonClient) OrbitShip(ctx context.Context, shipSymbol string, playerID int, agentSymbol string) (*OrbitResponse, error) {
	var resp OrbitResponse
	err := c.call(ctx, "Orbit", map[string]interface{}{
		"ship_symbol": shipSymbol,
		"player_id":   playerID,
	}, &resp)
	return &resp, err
}

// RefuelShip initiates ship refuel
func (c *DaemonClient) RefuelShip(ctx context.Context, shipSymbol string, playerID int, agentSymbol string, units *int) (*RefuelResponse, error) {
	var resp RefuelResponse
	err := c.call(ctx, "Refuel", map[string]interface{}{
		"ship_symbol": shipSymbol,
		"player_id":   playerID,
		"units":       units,
	}, &resp)
	return &resp, err
}

// BatchContractWorkflow initiates batch contract workflow
func (c *DaemonClient) BatchContractWorkflow(ctx context.Context, shipSymbol string, iterations int, playerID int, agentSymbol string) (*BatchContractWorkflowResponse, error) {
	var resp BatchContractWorkflowResponse
	err := c.call(ctx, "ContractBatchWorkflow", map[string]interface{}{
		"ship_symbol": shipSymbol,
		"iterations":  iterations,
		"player_id":   playerID,
	}, &resp)
	return &resp, err
}

// ScoutMarkets initiates fleet market scouting with VRP optimization (multi-ship)
func (c *DaemonClient) ScoutMarkets(ctx context.Context, shipSymbols []string, systemSymbol string, markets []string, iterations int, playerID int, agentSymbol string) (*ScoutMarketsResponse, error) {
	var resp ScoutMarketsResponse
	err := c.call(ctx, "ScoutMarkets", map[string]interface{}{
		"ship_symbols":  shipSymbols,
		"system_symbol": systemSymbol,
		"markets":       markets,
		"iterations":    iterations,
		"player_id":     playerID,
	}, &resp)
	return &resp, err
}

// AssignScoutingFleet creates a fleet-assignment container for async VRP optimization
func (c *DaemonClient) AssignScoutingFleet(ctx context.Context, systemSymbol string, playerID int, agentSymbol string) (*AssignScoutingFleetResponse, error) {
	var resp AssignScoutingFleetResponse
	err := c.call(ctx, "AssignScoutingFleet", map[string]interface{}{
		"system_symbol": systemSymbol,
		"player_id":     playerID,
	}, &resp)
	return &resp, err
}

// ListContainers lists all containers
func (c *DaemonClient) ListContainers(ctx context.Context, playerID *int, status *string) ([]*ContainerInfo, error) {
	var resp struct {
		Containers []*ContainerInfo `json:"containers"`
	}
	err := c.call(ctx, "DaemonList", map[string]interface{}{
		"player_id": playerID,
		"status":    status,
	}, &resp)
	return resp.Containers, err
}

// GetContainer retrieves container details
func (c *DaemonClient) GetContainer(ctx context.Context, containerID string) (*ContainerInfo, error) {
	var resp ContainerInfo
	err := c.call(ctx, "DaemonInspect", map[string]interface{}{
		"container_id": containerID,
	}, &resp)
	return &resp, err
}

// StopContainer stops a container
func (c *DaemonClient) StopContainer(ctx context.Context, containerID string) (*StopContainerResponse, error) {
	var resp StopContainerResponse
	err := c.call(ctx, "DaemonStop", map[string]interface{}{
		"container_id": containerID,
	}, &resp)
	return &resp, err
}

// RemoveContainer deletes a container's persisted record
func (c *DaemonClient) RemoveContainer(ctx context.Context, containerID string, playerID int) error {
	return c.call(ctx, "DaemonRemove", map[string]interface{}{
		"container_id": containerID,
		"player_id":    playerID,
	}, nil)
}

// HealthCheck verifies daemon health via a lightweight container listing.
func (c *DaemonClient) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	var resp struct {
		Containers []*ContainerInfo `json:"containers"`
	}
	if err := c.call(ctx, "DaemonList", map[string]interface{}{}, &resp); err != nil {
		return nil, err
	}
	active := 0
	for _, cont := range resp.Containers {
		if cont.Status == "RUNNING" {
			active++
		}
	}
	return &HealthResponse{Status: "OK", ActiveContainers: active}, nil
}

type ListShipsResponse struct {
	Ships []*ShipSummary
}

type GetShipResponse struct {
	Ship *ShipDetail
}

// ListShips lists ships owned by a player
func (c *DaemonClient) ListShips(ctx context.Context, playerID *int32, agentSymbol *string) (*ListShipsResponse, error) {
	var resp []*ShipSummary
	var pid *int
	if playerID != nil {
		v := int(*playerID)
		pid = &v
	}
	var agent string
	if agentSymbol != nil {
		agent = *agentSymbol
	}
	err := c.call(ctx, "ListShips", map[string]interface{}{
		"player_id":    pid,
		"agent_symbol": agent,
	}, &resp)
	return &ListShipsResponse{Ships: resp}, err
}

// GetShip retrieves detailed information for a single ship
func (c *DaemonClient) GetShip(ctx context.Context, shipSymbol string, playerID *int32, agentSymbol *string) (*GetShipResponse, error) {
	var resp ShipDetail
	var pid *int
	if playerID != nil {
		v := int(*playerID)
		pid = &v
	}
	var agent string
	if agentSymbol != nil {
		agent = *agentSymbol
	}
	err := c.call(ctx, "GetShip", map[string]interface{}{
		"ship_symbol":  shipSymbol,
		"player_id":    pid,
		"agent_symbol": agent,
	}, &resp)
	return &GetShipResponse{Ship: &resp}, err
}

// GetShipyardListings gets shipyard listings at a waypoint
func (c *DaemonClient) GetShipyardListings(ctx context.Context, systemSymbol, waypointSymbol string, playerID int) (*ShipyardListingsResponse, error) {
	var resp ShipyardListingsResponse
	err := c.call(ctx, "GetShipyardListings", map[string]interface{}{
		"system_symbol":   systemSymbol,
		"waypoint_symbol": waypointSymbol,
		"player_id":       playerID,
	}, &resp)
	return &resp, err
}

// PurchaseShip purchases a ship from a shipyard
func (c *DaemonClient) PurchaseShip(ctx context.Context, purchasingShipSymbol, shipType string, playerID int, agentSymbol, shipyardWaypoint string) (*ShipyardPurchaseResponse, error) {
	var waypoint *string
	if shipyardWaypoint != "" {
		waypoint = &shipyardWaypoint
	}
	var resp ShipyardPurchaseResponse
	err := c.call(ctx, "ShipyardPurchase", map[string]interface{}{
		"purchasing_ship_symbol": purchasingShipSymbol,
		"ship_type":              shipType,
		"player_id":              playerID,
		"shipyard_waypoint":      waypoint,
	}, &resp)
	return &resp, err
}

// BatchPurchaseShips purchases multiple ships in batch
func (c *DaemonClient) BatchPurchaseShips(ctx context.Context, purchasingShipSymbol, shipType string, quantity, maxBudget, playerID int, agentSymbol, shipyardWaypoint string) (*BatchPurchaseShipsResponse, error) {
	var waypoint *string
	if shipyardWaypoint != "" {
		waypoint = &shipyardWaypoint
	}
	var resp BatchPurchaseShipsResponse
	err := c.call(ctx, "ShipyardBatchPurchase", map[string]interface{}{
		"purchasing_ship_symbol": purchasingShipSymbol,
		"ship_type":              shipType,
		"quantity":               quantity,
		"max_budget":             maxBudget,
		"player_id":              playerID,
		"shipyard_waypoint":      waypoint,
	}, &resp)
	return &resp, err
}
