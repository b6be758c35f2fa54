package spatialindex

import (
	"math"

	"lintang/fleetrouter/pkg/datastructure"

	"github.com/dhconnelly/rtreego"
)

// DefaultLinearScanThreshold below this many nodes a plain scan is used instead of the r-tree.
// The scan is O(n) per lookup and is only meant for small graphs and tests.
const DefaultLinearScanThreshold = 64

const tol = 1e-9

type nodePoint struct {
	location rtreego.Point
	id       datastructure.NodeID
}

func (n *nodePoint) Bounds() rtreego.Rect {
	return n.location.ToRect(tol)
}

// NearestNode finds the graph node closest to a coordinate by planar euclidean distance in
// (lon, lat) degrees. Ties resolve to the lowest node id. Read-only after construction.
type NearestNode struct {
	coords []datastructure.Coordinate // coords[id-1]
	rt     *rtreego.Rtree
}

// NewNearestNode indexes node coordinates given in id order (id = index + 1).
func NewNearestNode(coords []datastructure.Coordinate, linearScanThreshold int) *NearestNode {
	idx := &NearestNode{coords: coords}
	if len(coords) < linearScanThreshold || len(coords) == 0 {
		return idx
	}

	objs := make([]rtreego.Spatial, len(coords))
	for i, c := range coords {
		objs[i] = &nodePoint{
			location: rtreego.Point{c.Lon, c.Lat},
			id:       datastructure.NodeID(i + 1),
		}
	}
	idx.rt = rtreego.NewTree(2, 25, 50, objs...) // 2 dimension, 25 min entries dan 50 max entries
	return idx
}

func (n *NearestNode) Len() int {
	return len(n.coords)
}

// UsesRtree reports whether lookups go through the r-tree rather than the linear scan.
func (n *NearestNode) UsesRtree() bool {
	return n.rt != nil
}

// Nearest returns false only when the index is empty.
func (n *NearestNode) Nearest(c datastructure.Coordinate) (datastructure.NodeID, bool) {
	if len(n.coords) == 0 {
		return datastructure.InvalidNodeID, false
	}
	if n.rt == nil {
		return n.linearScan(c), true
	}
	return n.searchRtree(c), true
}

func (n *NearestNode) linearScan(c datastructure.Coordinate) datastructure.NodeID {
	best := datastructure.InvalidNodeID
	bestDist := math.Inf(1)
	for i, nc := range n.coords {
		d := sqDist(c, nc)
		if d < bestDist {
			bestDist = d
			best = datastructure.NodeID(i + 1)
		}
	}
	return best
}

// searchRtree asks the r-tree for a near candidate, then collects every node inside the candidate's
// distance box and picks the true minimum there. The box always contains all nodes at least as close
// as the candidate, so the answer and its tie-break do not depend on the tree's traversal order.
func (n *NearestNode) searchRtree(c datastructure.Coordinate) datastructure.NodeID {
	q := rtreego.Point{c.Lon, c.Lat}
	candidate := n.rt.NearestNeighbor(q).(*nodePoint)
	radius := math.Sqrt(sqDist(c, n.coords[candidate.id-1])) + 2*tol

	box, err := rtreego.NewRect(rtreego.Point{c.Lon - radius, c.Lat - radius}, []float64{2 * radius, 2 * radius})
	if err != nil {
		return candidate.id
	}

	best := candidate.id
	bestDist := sqDist(c, n.coords[best-1])
	for _, obj := range n.rt.SearchIntersect(box) {
		np := obj.(*nodePoint)
		d := sqDist(c, n.coords[np.id-1])
		if d < bestDist || (d == bestDist && np.id < best) {
			best = np.id
			bestDist = d
		}
	}
	return best
}

func sqDist(a, b datastructure.Coordinate) float64 {
	dx := a.Lon - b.Lon
	dy := a.Lat - b.Lat
	return dx*dx + dy*dy
}
