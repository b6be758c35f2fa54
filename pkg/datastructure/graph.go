package datastructure

import (
	"strings"

	"lintang/fleetrouter/pkg/util"

	"github.com/twpayne/go-polyline"
)

// NodeID identifies a road graph node. Ids are assigned in first-seen order starting at 1.
type NodeID int32

const InvalidNodeID NodeID = 0

// Segment is one simple polyline of a road feature, produced by the ingestor and consumed by the graph builder.
type Segment struct {
	Coords      []Coordinate
	RoadClass   string
	MaxSpeedKph float64 // 0 = not tagged
}

func (s Segment) First() Coordinate {
	return s.Coords[0]
}

func (s Segment) Last() Coordinate {
	return s.Coords[len(s.Coords)-1]
}

type Edge struct {
	From              NodeID
	To                NodeID
	Geometry          []Coordinate
	LengthMeters      float64
	RoadClass         string
	SpeedKph          float64
	TravelTimeSeconds float64
}

// Route is the unrounded result of a shortest path query.
type Route struct {
	Nodes             []NodeID
	Path              []Coordinate // node coordinates, start node first
	Geometry          []Coordinate // full edge geometry of the path
	DistanceMeters    float64
	TravelTimeSeconds float64
}

func (r Route) DistanceKm() float64 {
	return util.RoundFloat(r.DistanceMeters/1000, 2)
}

func (r Route) EtaMinutes() float64 {
	return util.RoundFloat(r.TravelTimeSeconds/60, 1)
}

// DefaultFallbackSpeedKph is used for edges whose road class is missing or not in the speed table.
const DefaultFallbackSpeedKph = 30.0

// DefaultRoadClassSpeeds typical driving speeds (km/h) per OSM highway classification.
func DefaultRoadClassSpeeds() map[string]float64 {
	return map[string]float64{
		"motorway":       95,
		"trunk":          85,
		"primary":        75,
		"secondary":      65,
		"tertiary":       50,
		"unclassified":   50,
		"residential":    30,
		"service":        20,
		"motorway_link":  90,
		"trunk_link":     80,
		"primary_link":   70,
		"secondary_link": 60,
		"tertiary_link":  50,
		"living_street":  20,
	}
}

// NormalizeRoadClass lower-cases the tag and keeps the first class of a multi-valued tag
// ("primary;secondary", "['primary', 'secondary']").
func NormalizeRoadClass(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.Trim(tag, "[]")
	if i := strings.IndexAny(tag, ";,"); i >= 0 {
		tag = tag[:i]
	}
	tag = strings.Trim(strings.TrimSpace(tag), `'"`)
	return strings.ToLower(tag)
}

func RenderPath(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
