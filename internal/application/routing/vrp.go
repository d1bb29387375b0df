package routing

// ShipState is a fleet member's starting condition for fleet partitioning.
type ShipState struct {
	Symbol          string
	CurrentLocation string
	CurrentFuel     int
	FuelCapacity    int
	EngineSpeed     int
}

// FleetTour is one ship's assigned markets and the tour that visits them.
type FleetTour struct {
	Waypoints []string
	Tour      *Tour
}

// PartitionFleet splits a set of market waypoints across ships and returns a
// tour per ship. It uses a greedy, load-balancing savings heuristic: at each
// step, assign the unassigned market with the cheapest marginal travel time
// to whichever ship would incur that cost, always preferring the ship that
// currently carries the least total time so no single ship is overloaded
// while another sits idle. The distance matrix driving every marginal-cost
// computation is §4.5.1's fuel-aware pathfinding, not straight-line
// distance, so a ship that would need a refuel detour is correctly charged
// more than one that would not.
//
// Every market that some ship can reach fuel-feasibly is assigned to exactly
// one ship; a market no ship can reach is left out of every assignment. No
// ship is left with an empty assignment unless there are more ships than
// markets, or the markets left over are out of that ship's reach.
func PartitionFleet(nodes map[string]Node, ships []ShipState, markets []string) (map[string]*FleetTour, error) {
	assignments := make(map[string]*FleetTour, len(ships))
	shipLoad := make(map[string]int, len(ships))
	shipEnd := make(map[string]string, len(ships))
	shipFuel := make(map[string]int, len(ships))
	for _, s := range ships {
		assignments[s.Symbol] = &FleetTour{Waypoints: []string{}}
		shipEnd[s.Symbol] = s.CurrentLocation
		shipFuel[s.Symbol] = s.CurrentFuel
	}

	remaining := append([]string{}, markets...)
	shipIdx := make(map[string]ShipState, len(ships))
	for _, s := range ships {
		shipIdx[s.Symbol] = s
	}

	for len(remaining) > 0 {
		type candidate struct {
			ship    string
			market  string
			idx     int
			time     int
			hasPlan  bool
			priority bool
		}
		var best *candidate

		// While no more markets remain than ships without a stop, those
		// ships take priority so none is left empty; once every ship has at
		// least one stop, keep balancing by total load rather than starving
		// a ship.
		emptyShips := 0
		for _, s := range ships {
			if len(assignments[s.Symbol].Waypoints) == 0 {
				emptyShips++
			}
		}
		reserveForEmpty := emptyShips > 0 && len(remaining) <= emptyShips
		for _, s := range ships {
			priority := reserveForEmpty && len(assignments[s.Symbol].Waypoints) == 0
			end := shipEnd[s.Symbol]
			fuel := shipFuel[s.Symbol]
			for i, m := range remaining {
				plan, err := PlanRoute(nodes, end, m, fuel, s.FuelCapacity, s.EngineSpeed)
				if err != nil {
					continue
				}
				projectedLoad := shipLoad[s.Symbol] + plan.TotalTimeSeconds
				if best == nil || (priority && !best.priority) ||
					(priority == best.priority && (projectedLoad < best.time ||
						(projectedLoad == best.time && s.Symbol < best.ship))) {
					best = &candidate{ship: s.Symbol, market: m, idx: i, time: projectedLoad, hasPlan: true, priority: priority}
				}
			}
		}

		if best == nil {
			// No ship can fuel-feasibly reach any remaining market.
			break
		}

		ft := assignments[best.ship]
		ft.Waypoints = append(ft.Waypoints, best.market)
		s := shipIdx[best.ship]
		plan, err := PlanRoute(nodes, shipEnd[best.ship], best.market, shipFuel[best.ship], s.FuelCapacity, s.EngineSpeed)
		if err != nil {
			return nil, err
		}
		shipFuel[best.ship] = fuelAfterPlan(nodes, plan, shipFuel[best.ship], s.FuelCapacity)
		shipLoad[best.ship] += plan.TotalTimeSeconds
		shipEnd[best.ship] = best.market
		remaining = append(remaining[:best.idx], remaining[best.idx+1:]...)
	}

	for _, s := range ships {
		ft := assignments[s.Symbol]
		tour, err := PlanTour(nodes, s.CurrentLocation, appendStart(ft.Waypoints, s.CurrentLocation), s.CurrentFuel, s.FuelCapacity, s.EngineSpeed)
		if err != nil {
			return nil, err
		}
		ft.Tour = tour
	}
	return assignments, nil
}

// appendStart ensures PlanTour always has a non-empty waypoint set even for
// a ship assigned nothing (it simply has a stationary tour at its start).
func appendStart(waypoints []string, start string) []string {
	if len(waypoints) == 0 {
		return []string{start}
	}
	return waypoints
}
