package routingalgorithm

import (
	"lintang/fleetrouter/pkg/datastructure"
	"lintang/fleetrouter/pkg/server"
	"lintang/fleetrouter/pkg/util"
)

type RoadGraph interface {
	NumNodes() int
	HasNode(id datastructure.NodeID) bool
	GetNode(id datastructure.NodeID) datastructure.Coordinate
	GetFirstOutEdge(id datastructure.NodeID) []int32
	GetOutEdge(edgeIDx int32) datastructure.Edge
}

type NodeLocator interface {
	Nearest(c datastructure.Coordinate) (datastructure.NodeID, bool)
}

// RouteAlgorithm answers shortest travel time queries on a frozen graph. Search state lives in
// each call, so one RouteAlgorithm is safe for concurrent use.
type RouteAlgorithm struct {
	g             RoadGraph
	locator       NodeLocator
	maxExpansions int
}

// NewRouteAlgorithm maxExpansions caps settled nodes per query, 0 means unlimited.
func NewRouteAlgorithm(g RoadGraph, locator NodeLocator, maxExpansions int) *RouteAlgorithm {
	if maxExpansions < 0 {
		maxExpansions = 0
	}
	return &RouteAlgorithm{
		g:             g,
		locator:       locator,
		maxExpansions: maxExpansions,
	}
}

// Plan snaps both coordinates to their nearest node and routes between them. The returned path
// starts and ends at the snapped nodes, not at the query coordinates.
func (rt *RouteAlgorithm) Plan(start, end datastructure.Coordinate) (datastructure.Route, error) {
	from, ok := rt.locator.Nearest(start)
	if !ok {
		return datastructure.Route{}, server.WrapErrorf(nil, server.ErrNoRouteFound, "road graph is empty")
	}
	to, _ := rt.locator.Nearest(end)
	return rt.ShortestPath(from, to)
}

// ShortestPath dijkstra minimizing cumulative travel time, stops as soon as to is settled.
func (rt *RouteAlgorithm) ShortestPath(from, to datastructure.NodeID) (datastructure.Route, error) {
	if !rt.g.HasNode(from) || !rt.g.HasNode(to) {
		return datastructure.Route{}, server.WrapErrorf(nil, server.ErrNoRouteFound,
			"node %d or %d is not in the road graph", from, to)
	}
	if from == to {
		return datastructure.Route{
			Nodes:    []datastructure.NodeID{from},
			Path:     []datastructure.Coordinate{rt.g.GetNode(from)},
			Geometry: []datastructure.Coordinate{rt.g.GetNode(from)},
		}, nil
	}

	costSoFar := map[datastructure.NodeID]float64{from: 0}
	cameFrom := map[datastructure.NodeID]int32{} // node -> edge index used to reach it
	settled := map[datastructure.NodeID]struct{}{}

	heap := NewMinHeap[datastructure.NodeID]()
	heap.Insert(PriorityQueueNode[datastructure.NodeID]{Rank: 0, Item: from})

	for heap.Size() > 0 {
		node, _ := heap.ExtractMin()
		settled[node.Item] = struct{}{}
		if node.Item == to {
			return rt.buildRoute(from, to, cameFrom), nil
		}
		if rt.maxExpansions > 0 && len(settled) >= rt.maxExpansions {
			return datastructure.Route{}, server.WrapErrorf(nil, server.ErrNoRouteFound,
				"search from node %d gave up after %d expansions", from, rt.maxExpansions)
		}

		for _, edgeIDx := range rt.g.GetFirstOutEdge(node.Item) {
			edge := rt.g.GetOutEdge(edgeIDx)
			if _, done := settled[edge.To]; done {
				continue
			}
			newCost := node.Rank + edge.TravelTimeSeconds
			oldCost, seen := costSoFar[edge.To]
			if seen && newCost >= oldCost {
				continue
			}
			costSoFar[edge.To] = newCost
			cameFrom[edge.To] = edgeIDx
			next := PriorityQueueNode[datastructure.NodeID]{Rank: newCost, Item: edge.To}
			if heap.Contains(edge.To) {
				// newCost < oldCost, so this never fails
				_ = heap.DecreaseKey(next)
			} else {
				heap.Insert(next)
			}
		}
	}

	return datastructure.Route{}, server.WrapErrorf(nil, server.ErrNoRouteFound,
		"node %d is not reachable from node %d", to, from)
}

func (rt *RouteAlgorithm) buildRoute(from, to datastructure.NodeID, cameFrom map[datastructure.NodeID]int32) datastructure.Route {
	edges := []datastructure.Edge{}
	for curr := to; curr != from; {
		e := rt.g.GetOutEdge(cameFrom[curr])
		edges = append(edges, e)
		curr = e.From
	}
	util.ReverseG(edges)

	route := datastructure.Route{
		Nodes: make([]datastructure.NodeID, 0, len(edges)+1),
		Path:  make([]datastructure.Coordinate, 0, len(edges)+1),
	}
	route.Nodes = append(route.Nodes, from)
	route.Path = append(route.Path, rt.g.GetNode(from))
	for i, e := range edges {
		route.Nodes = append(route.Nodes, e.To)
		route.Path = append(route.Path, rt.g.GetNode(e.To))
		route.DistanceMeters += e.LengthMeters
		route.TravelTimeSeconds += e.TravelTimeSeconds

		geom := e.Geometry
		if i > 0 && len(geom) > 0 {
			// shared with the previous edge's last point
			geom = geom[1:]
		}
		route.Geometry = append(route.Geometry, geom...)
	}
	return route
}
