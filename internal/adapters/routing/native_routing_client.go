package routing

import (
	"context"
	"fmt"

	applicationRouting "github.com/nullpilot/voyager/internal/application/routing"
	domainRouting "github.com/nullpilot/voyager/internal/domain/routing"
	"github.com/nullpilot/voyager/internal/domain/system"
)

// NativeRoutingClient implements domain/routing.RoutingClient in-process
// using application/routing's fuel-aware pathfinder, tour planner and
// fleet partitioner. It is the routing engine the daemon wires in; no
// remote (gRPC) routing client exists in this module.
type NativeRoutingClient struct{}

// NewNativeRoutingClient creates a new in-process routing client.
func NewNativeRoutingClient() *NativeRoutingClient {
	return &NativeRoutingClient{}
}

func toNodes(waypoints []*system.WaypointData) map[string]applicationRouting.Node {
	nodes := make(map[string]applicationRouting.Node, len(waypoints))
	for _, wp := range waypoints {
		nodes[wp.Symbol] = applicationRouting.Node{
			Symbol:  wp.Symbol,
			X:       wp.X,
			Y:       wp.Y,
			HasFuel: wp.HasFuel,
		}
	}
	return nodes
}

func toRouteSteps(steps []applicationRouting.Step) []*domainRouting.RouteStepData {
	out := make([]*domainRouting.RouteStepData, 0, len(steps))
	for _, s := range steps {
		action := domainRouting.RouteActionTravel
		mode := ""
		if s.Action == applicationRouting.StepRefuel {
			action = domainRouting.RouteActionRefuel
		} else {
			mode = s.Mode.Name()
		}
		out = append(out, &domainRouting.RouteStepData{
			Action:      action,
			Waypoint:    s.Waypoint,
			FuelCost:    s.FuelCost,
			TimeSeconds: s.TimeSeconds,
			Mode:        mode,
		})
	}
	return out
}

// PlanRoute implements RoutingClient.PlanRoute using the native pathfinder.
func (c *NativeRoutingClient) PlanRoute(ctx context.Context, req *domainRouting.RouteRequest) (*domainRouting.RouteResponse, error) {
	nodes := toNodes(req.Waypoints)
	plan, err := applicationRouting.PlanRoute(nodes, req.StartWaypoint, req.GoalWaypoint, req.CurrentFuel, req.FuelCapacity, req.EngineSpeed)
	if err != nil {
		return nil, fmt.Errorf("native routing engine: %w", err)
	}
	return &domainRouting.RouteResponse{
		Steps:            toRouteSteps(plan.Steps),
		TotalFuelCost:    plan.TotalFuelCost,
		TotalTimeSeconds: plan.TotalTimeSeconds,
		TotalDistance:    plan.TotalDistance,
	}, nil
}

// OptimizeTour implements RoutingClient.OptimizeTour using nearest-neighbor
// tour construction over the native pathfinder's leg costs. The ship is
// assumed to begin the tour with a full tank, matching how tours are
// dispatched as freshly-created workflows.
func (c *NativeRoutingClient) OptimizeTour(ctx context.Context, req *domainRouting.TourRequest) (*domainRouting.TourResponse, error) {
	nodes := toNodes(req.AllWaypoints)
	tour, err := applicationRouting.PlanTour(nodes, req.StartWaypoint, req.Waypoints, req.FuelCapacity, req.FuelCapacity, req.EngineSpeed)
	if err != nil {
		return nil, fmt.Errorf("native routing engine: %w", err)
	}
	var combined []*domainRouting.RouteStepData
	for _, leg := range tour.Legs {
		combined = append(combined, toRouteSteps(leg.Steps)...)
	}
	return &domainRouting.TourResponse{
		VisitOrder:       tour.VisitOrder,
		CombinedRoute:    combined,
		TotalTimeSeconds: tour.TotalTime,
	}, nil
}

// OptimizeFueledTour implements RoutingClient.OptimizeFueledTour, carrying
// the ship's actual starting fuel through the tour (rather than assuming a
// full tank) and reporting flight mode / refuel detail per leg.
func (c *NativeRoutingClient) OptimizeFueledTour(ctx context.Context, req *domainRouting.FueledTourRequest) (*domainRouting.FueledTourResponse, error) {
	nodes := toNodes(req.AllWaypoints)
	waypoints := req.TargetWaypoints
	if req.ReturnWaypoint != "" {
		waypoints = append(append([]string{}, waypoints...), req.ReturnWaypoint)
	}
	tour, err := applicationRouting.PlanTour(nodes, req.StartWaypoint, waypoints, req.CurrentFuel, req.FuelCapacity, req.EngineSpeed)
	if err != nil {
		return nil, fmt.Errorf("native routing engine: %w", err)
	}

	legs := make([]*domainRouting.TourLegData, 0, len(tour.Legs))
	refuelStops := 0
	fuel := req.CurrentFuel
	for i, plan := range tour.Legs {
		from := req.StartWaypoint
		if i > 0 {
			from = tour.VisitOrder[i]
		}
		to := tour.VisitOrder[i+1]

		leg := &domainRouting.TourLegData{
			FromWaypoint: from,
			ToWaypoint:   to,
			FuelCost:     plan.TotalFuelCost,
			TimeSeconds:  plan.TotalTimeSeconds,
			Distance:     plan.TotalDistance,
		}
		for _, step := range plan.Steps {
			if step.Action == applicationRouting.StepRefuel {
				leg.RefuelBefore = true
				leg.RefuelAmount = req.FuelCapacity - fuel
				refuelStops++
				fuel = req.FuelCapacity
				continue
			}
			leg.FlightMode = step.Mode.Name()
			fuel -= step.FuelCost
			leg.IntermediateStops = append(leg.IntermediateStops, &domainRouting.IntermediateStopData{
				Waypoint:    step.Waypoint,
				FlightMode:  step.Mode.Name(),
				FuelCost:    step.FuelCost,
				TimeSeconds: step.TimeSeconds,
			})
		}
		legs = append(legs, leg)
	}

	return &domainRouting.FueledTourResponse{
		VisitOrder:       tour.VisitOrder,
		Legs:             legs,
		TotalTimeSeconds: tour.TotalTime,
		TotalFuelCost:    tour.TotalFuel,
		TotalDistance:    tour.TotalDist,
		RefuelStops:      refuelStops,
	}, nil
}

// PartitionFleet implements RoutingClient.PartitionFleet using the native
// greedy load-balancing partitioner.
func (c *NativeRoutingClient) PartitionFleet(ctx context.Context, req *domainRouting.VRPRequest) (*domainRouting.VRPResponse, error) {
	nodes := toNodes(req.AllWaypoints)
	ships := make([]applicationRouting.ShipState, 0, len(req.ShipSymbols))
	for _, symbol := range req.ShipSymbols {
		cfg, ok := req.ShipConfigs[symbol]
		if !ok {
			return nil, fmt.Errorf("missing ship config for %s", symbol)
		}
		ships = append(ships, applicationRouting.ShipState{
			Symbol:          symbol,
			CurrentLocation: cfg.CurrentLocation,
			CurrentFuel:     cfg.FuelCapacity,
			FuelCapacity:    cfg.FuelCapacity,
			EngineSpeed:     cfg.EngineSpeed,
		})
	}

	partition, err := applicationRouting.PartitionFleet(nodes, ships, req.MarketWaypoints)
	if err != nil {
		return nil, fmt.Errorf("native routing engine: %w", err)
	}

	assignments := make(map[string]*domainRouting.ShipTourData, len(partition))
	for symbol, ft := range partition {
		var combined []*domainRouting.RouteStepData
		if ft.Tour != nil {
			for _, leg := range ft.Tour.Legs {
				combined = append(combined, toRouteSteps(leg.Steps)...)
			}
		}
		assignments[symbol] = &domainRouting.ShipTourData{
			Waypoints: ft.Waypoints,
			Route:     combined,
		}
	}

	return &domainRouting.VRPResponse{Assignments: assignments}, nil
}
