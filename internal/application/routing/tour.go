package routing

import "sort"

// Tour is a fuel-aware visit order over a set of waypoints starting (and,
// unless it is the degenerate single-waypoint case, ending) at start.
type Tour struct {
	VisitOrder []string
	Legs       []Plan
	TotalTime  int
	TotalFuel  int
	TotalDist  float64
}

// PlanTour orders waypoints with a nearest-neighbor construction heuristic
// (grounded on raw Euclidean distance, since the exact fuel-aware cost of a
// candidate leg is only known once the rest of the tour is fixed) and then
// walks the resulting order through PlanRoute, carrying fuel forward leg by
// leg so the totals reflect genuine refuel stops rather than an assumption
// of a full tank at every waypoint.
//
// A single-waypoint tour is stationary: the ship is already there, so no
// travel is produced and the tour does not return to start.
func PlanTour(nodes map[string]Node, start string, waypoints []string, currentFuel, fuelCapacity, engineSpeed int) (*Tour, error) {
	if len(waypoints) == 0 {
		return &Tour{VisitOrder: []string{}}, nil
	}
	if len(waypoints) == 1 && waypoints[0] == start {
		return &Tour{VisitOrder: []string{start}}, nil
	}

	order := nearestNeighborOrder(nodes, start, waypoints)
	if len(waypoints) > 1 || waypoints[0] != start {
		order = append(order, start) // tours always return to start
	}

	tour := &Tour{VisitOrder: append([]string{start}, order...)}
	current := start
	fuel := currentFuel
	for _, next := range order {
		plan, err := PlanRoute(nodes, current, next, fuel, fuelCapacity, engineSpeed)
		if err != nil {
			return nil, err
		}
		tour.Legs = append(tour.Legs, *plan)
		tour.TotalTime += plan.TotalTimeSeconds
		tour.TotalFuel += plan.TotalFuelCost
		tour.TotalDist += plan.TotalDistance
		fuel = fuelAfterPlan(nodes, plan, fuel, fuelCapacity)
		current = next
	}
	return tour, nil
}

// fuelAfterPlan replays a plan's steps to determine the fuel remaining once
// it completes, so successive legs of a tour see the ship's real state.
func fuelAfterPlan(nodes map[string]Node, plan *Plan, fuel, fuelCapacity int) int {
	for _, step := range plan.Steps {
		if step.Action == StepRefuel {
			fuel = fuelCapacity
		} else {
			fuel -= step.FuelCost
		}
	}
	return fuel
}

// nearestNeighborOrder greedily visits the closest remaining waypoint.
func nearestNeighborOrder(nodes map[string]Node, start string, waypoints []string) []string {
	remaining := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		if w != start {
			remaining = append(remaining, w)
		}
	}
	sort.Strings(remaining) // deterministic tie-break

	order := make([]string, 0, len(remaining))
	current := nodes[start]
	for len(remaining) > 0 {
		bestIdx := 0
		bestDist := Distance(current, nodes[remaining[0]])
		for i := 1; i < len(remaining); i++ {
			d := Distance(current, nodes[remaining[i]])
			if d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		order = append(order, remaining[bestIdx])
		current = nodes[remaining[bestIdx]]
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return order
}

// Rotate returns the visit order starting at the ship's current waypoint
// instead of the tour's nominal start, preserving the relative order so
// execution can begin wherever the ship already is.
func Rotate(order []string, current string) []string {
	idx := -1
	for i, w := range order {
		if w == current {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return order
	}
	rotated := make([]string, 0, len(order))
	rotated = append(rotated, order[idx:]...)
	rotated = append(rotated, order[:idx]...)
	return rotated
}
