// Package routing implements the fleet routing engine: fuel-aware
// single-source path search plus tour and fleet-partition optimization.
//
// The waypoint graph is treated as complete (any waypoint can be reached
// from any other in a single hop) since travel distance is the Euclidean
// distance between coordinates; orbital siblings share coordinates with
// their parent and therefore already cost zero without special-casing.
package routing

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/nullpilot/voyager/internal/domain/shared"
)

// fuelReserve is the minimum fuel that must remain after arriving at a
// waypoint that has no fuel available.
const fuelReserve = 4

// refuelTimeCost is the nominal time cost charged for a REFUEL step during
// planning. It is never surfaced to callers (refuel duration is an
// execution-time concern) but it keeps the search from refueling whenever
// it is not needed: since every other edge cost is strictly positive,
// adding a free action would make the search always take it. A small
// positive cost makes refueling only worthwhile when it unlocks an
// otherwise infeasible or slower path, which reproduces the "opportunistic"
// refuel behavior without hard-coded threshold checks.
const refuelTimeCost = 1

// Node is a waypoint as seen by the routing engine.
type Node struct {
	Symbol  string
	X       float64
	Y       float64
	HasFuel bool
}

// Distance returns the rounded Euclidean distance between two nodes.
func Distance(a, b Node) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	d := math.Sqrt(dx*dx + dy*dy)
	return math.Round(d*100) / 100
}

// StepAction mirrors domain/routing.RouteAction without importing it, so
// this package stays free of any adapter-facing dependency.
type StepAction int

const (
	StepTravel StepAction = iota
	StepRefuel
)

// Step is one leg of a planned route.
type Step struct {
	Action      StepAction
	Waypoint    string
	Mode        shared.FlightMode
	FuelCost    int
	TimeSeconds int
	Distance    float64
}

// Plan is the result of a single-source path search.
type Plan struct {
	Steps            []Step
	TotalFuelCost    int
	TotalTimeSeconds int
	TotalDistance    float64
}

// ErrNoPath indicates no sequence of travel/refuel steps reaches the goal
// without fuel ever going negative.
var ErrNoPath = fmt.Errorf("no path: no route keeps fuel non-negative while reaching the goal")

// searchState is a search-graph vertex: a waypoint plus the fuel on hand
// when arriving there. Two paths to the same waypoint with different fuel
// are genuinely different states because future reachability depends on it.
type searchState struct {
	waypoint string
	fuel     int
}

type cameFrom struct {
	state  searchState
	step   Step
	hasPrev bool
}

// queueItem is an entry in the Dijkstra priority queue.
type queueItem struct {
	state    searchState
	priority int
	index    int
}

type priorityQueue []*queueItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i]; pq[i].index = i; pq[j].index = j }
func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*queueItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// PlanRoute searches for the minimum-time sequence of TRAVEL/REFUEL steps
// from start to goal given the ship's current fuel, capacity and engine
// speed. BURN and CRUISE are the only travel modes ever produced; DRIFT is
// never modeled as a usable edge, so it can never appear in the output, and
// whenever neither BURN nor CRUISE is affordable the search instead relies
// on a REFUEL edge (only available at fuel-bearing waypoints) to make later
// edges feasible.
func PlanRoute(nodes map[string]Node, start, goal string, currentFuel, fuelCapacity, engineSpeed int) (*Plan, error) {
	if start == goal {
		return &Plan{Steps: []Step{}}, nil
	}
	if _, ok := nodes[start]; !ok {
		return nil, fmt.Errorf("start waypoint %s not found", start)
	}
	if _, ok := nodes[goal]; !ok {
		return nil, fmt.Errorf("goal waypoint %s not found", goal)
	}

	startState := searchState{waypoint: start, fuel: currentFuel}
	dist := map[searchState]int{startState: 0}
	prev := map[searchState]cameFrom{}
	visited := map[searchState]bool{}

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &queueItem{state: startState, priority: 0})

	var goalState *searchState

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*queueItem)
		if visited[current.state] {
			continue
		}
		visited[current.state] = true

		if current.state.waypoint == goal {
			gs := current.state
			goalState = &gs
			break
		}

		currentNode := nodes[current.state.waypoint]
		currentCost := dist[current.state]

		// REFUEL: only at a fuel-bearing waypoint, only if not already full.
		if currentNode.HasFuel && current.state.fuel < fuelCapacity {
			next := searchState{waypoint: current.state.waypoint, fuel: fuelCapacity}
			newCost := currentCost + refuelTimeCost
			if existing, ok := dist[next]; !ok || newCost < existing {
				dist[next] = newCost
				prev[next] = cameFrom{
					state: current.state,
					step: Step{
						Action:   StepRefuel,
						Waypoint: current.state.waypoint,
					},
					hasPrev: true,
				}
				heap.Push(pq, &queueItem{state: next, priority: newCost})
			}
		}

		// TRAVEL: to every other waypoint, trying both usable modes.
		for symbol, node := range nodes {
			if symbol == current.state.waypoint {
				continue
			}
			d := Distance(currentNode, node)
			for _, mode := range []shared.FlightMode{shared.FlightModeBurn, shared.FlightModeCruise} {
				fuelCost := mode.FuelCost(d)
				if fuelCost > current.state.fuel {
					continue
				}
				remaining := current.state.fuel - fuelCost
				if !node.HasFuel && remaining < fuelReserve {
					// Landing at a waypoint with no fuel must leave a
					// reserve in case further travel is later required.
					continue
				}
				timeCost := mode.TravelTime(d, engineSpeed)
				next := searchState{waypoint: symbol, fuel: remaining}
				newCost := currentCost + timeCost
				if existing, ok := dist[next]; !ok || newCost < existing {
					dist[next] = newCost
					prev[next] = cameFrom{
						state: current.state,
						step: Step{
							Action:      StepTravel,
							Waypoint:    symbol,
							Mode:        mode,
							FuelCost:    fuelCost,
							TimeSeconds: timeCost,
							Distance:    d,
						},
						hasPrev: true,
					}
					heap.Push(pq, &queueItem{state: next, priority: newCost})
				}
			}
		}
	}

	if goalState == nil {
		return nil, ErrNoPath
	}

	// Reconstruct the path by walking cameFrom back to the start.
	var steps []Step
	for s := *goalState; ; {
		cf, ok := prev[s]
		if !ok {
			break
		}
		steps = append([]Step{cf.step}, steps...)
		if !cf.hasPrev {
			break
		}
		s = cf.state
		if s == startState {
			break
		}
	}

	plan := &Plan{Steps: steps}
	for _, step := range steps {
		if step.Action == StepTravel {
			plan.TotalFuelCost += step.FuelCost
			plan.TotalTimeSeconds += step.TimeSeconds
			plan.TotalDistance += step.Distance
		}
	}
	return plan, nil
}
