package graph

import (
	"lintang/fleetrouter/pkg/datastructure"
	"lintang/fleetrouter/pkg/util"
)

// NodeRegistry interns coordinates into sequential node ids. It is owned by a single build and only grows.
type NodeRegistry struct {
	ids       map[datastructure.Coordinate]datastructure.NodeID
	coords    []datastructure.Coordinate // coords[id-1]
	precision uint
}

// NewNodeRegistry with snapPrecision 0 dedups by exact float equality. A positive snapPrecision rounds both
// fields to that many decimal places before lookup, merging endpoints that differ only by float noise.
func NewNodeRegistry(snapPrecision uint) *NodeRegistry {
	return &NodeRegistry{
		ids:       make(map[datastructure.Coordinate]datastructure.NodeID),
		coords:    make([]datastructure.Coordinate, 0),
		precision: snapPrecision,
	}
}

// Intern returns the id of c, assigning the next id if c has not been seen.
func (r *NodeRegistry) Intern(c datastructure.Coordinate) datastructure.NodeID {
	if r.precision > 0 {
		c = datastructure.NewCoordinate(util.RoundFloat(c.Lon, r.precision), util.RoundFloat(c.Lat, r.precision))
	}
	if id, ok := r.ids[c]; ok {
		return id
	}
	r.coords = append(r.coords, c)
	id := datastructure.NodeID(len(r.coords))
	r.ids[c] = id
	return id
}

func (r *NodeRegistry) Len() int {
	return len(r.coords)
}

// Coordinates in id order.
func (r *NodeRegistry) Coordinates() []datastructure.Coordinate {
	return r.coords
}
