package graph

import (
	"fmt"

	"lintang/fleetrouter/pkg/datastructure"
	"lintang/fleetrouter/pkg/server"
)

// Graph is a directed road multigraph. It is never mutated after New returns, so any number of
// goroutines may query it concurrently.
type Graph struct {
	nodes    []datastructure.Coordinate // nodes[id-1]
	edges    []datastructure.Edge
	firstOut [][]int32 // outgoing edge indices per node, nodes order
}

// New assembles a graph from node coordinates (node id = index + 1) and edges in insertion order.
func New(nodes []datastructure.Coordinate, edges []datastructure.Edge) (*Graph, error) {
	g := &Graph{
		nodes:    nodes,
		edges:    edges,
		firstOut: make([][]int32, len(nodes)),
	}
	for i, e := range edges {
		if !g.HasNode(e.From) || !g.HasNode(e.To) {
			return nil, server.WrapErrorf(nil, server.ErrInternalServerError,
				"edge %d references unknown node (%d -> %d), graph has %d nodes", i, e.From, e.To, len(nodes))
		}
		g.firstOut[e.From-1] = append(g.firstOut[e.From-1], int32(i))
	}
	return g, nil
}

func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

func (g *Graph) NumEdges() int {
	return len(g.edges)
}

func (g *Graph) HasNode(id datastructure.NodeID) bool {
	return id >= 1 && int(id) <= len(g.nodes)
}

func (g *Graph) GetNode(id datastructure.NodeID) datastructure.Coordinate {
	return g.nodes[id-1]
}

// GetFirstOutEdge returns indices of the edges leaving id.
func (g *Graph) GetFirstOutEdge(id datastructure.NodeID) []int32 {
	return g.firstOut[id-1]
}

func (g *Graph) GetOutEdge(edgeIDx int32) datastructure.Edge {
	return g.edges[edgeIDx]
}

// Nodes exposes the node coordinates in id order. Callers must not modify the slice.
func (g *Graph) Nodes() []datastructure.Coordinate {
	return g.nodes
}

// Edges exposes the edges in insertion order. Callers must not modify the slice.
func (g *Graph) Edges() []datastructure.Edge {
	return g.edges
}

// Validate reports ErrEmptyGraph when the build produced no nodes.
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 {
		return server.WrapErrorf(nil, server.ErrEmptyGraph, "road graph has no nodes")
	}
	return nil
}

func (g *Graph) String() string {
	return fmt.Sprintf("graph{nodes: %d, edges: %d}", len(g.nodes), len(g.edges))
}
