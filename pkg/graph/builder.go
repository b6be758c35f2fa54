package graph

import (
	"lintang/fleetrouter/pkg/datastructure"
	"lintang/fleetrouter/pkg/util"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// MetersPerDegree flat-earth conversion of planar degree length to meters. Good enough inside one
// metropolitan area, wrong at continental scale.
const MetersPerDegree = 111139.0

type BuildConfig struct {
	MetersPerDegree  float64
	FallbackSpeedKph float64
	RoadClassSpeeds  map[string]float64 // km/h, keyed by normalized road class
	SnapPrecision    uint               // 0 = exact coordinate equality
}

func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		MetersPerDegree:  MetersPerDegree,
		FallbackSpeedKph: datastructure.DefaultFallbackSpeedKph,
		RoadClassSpeeds:  datastructure.DefaultRoadClassSpeeds(),
	}
}

// Builder turns segments into a Graph. A Builder owns its node registry and is meant for one build.
type Builder struct {
	cfg      BuildConfig
	registry *NodeRegistry
	progress util.Progress
}

func NewBuilder(cfg BuildConfig) *Builder {
	if cfg.MetersPerDegree <= 0 {
		cfg.MetersPerDegree = MetersPerDegree
	}
	if cfg.FallbackSpeedKph <= 0 {
		cfg.FallbackSpeedKph = datastructure.DefaultFallbackSpeedKph
	}
	speeds := make(map[string]float64, len(cfg.RoadClassSpeeds))
	for class, speed := range cfg.RoadClassSpeeds {
		speeds[datastructure.NormalizeRoadClass(class)] = speed
	}
	cfg.RoadClassSpeeds = speeds

	return &Builder{
		cfg:      cfg,
		registry: NewNodeRegistry(cfg.SnapPrecision),
		progress: util.NoProgress,
	}
}

// WithProgress reports one tick per processed segment.
func (b *Builder) WithProgress(p util.Progress) *Builder {
	b.progress = p
	return b
}

// Build adds exactly one directed edge per segment, from its first to its last coordinate.
// An empty segment list yields an empty graph; use Graph.Validate to reject it.
func (b *Builder) Build(segments []datastructure.Segment) (*Graph, error) {
	edges := make([]datastructure.Edge, 0, len(segments))
	for _, seg := range segments {
		if len(seg.Coords) < 2 {
			b.progress.Add(1)
			continue
		}
		u := b.registry.Intern(seg.First())
		v := b.registry.Intern(seg.Last())

		length := b.Length(seg.Coords)
		speed := b.SpeedKph(seg.RoadClass, seg.MaxSpeedKph)

		edges = append(edges, datastructure.Edge{
			From:              u,
			To:                v,
			Geometry:          seg.Coords,
			LengthMeters:      length,
			RoadClass:         seg.RoadClass,
			SpeedKph:          speed,
			TravelTimeSeconds: length / (speed / 3.6),
		})
		b.progress.Add(1)
	}

	nodes := make([]datastructure.Coordinate, b.registry.Len())
	copy(nodes, b.registry.Coordinates())
	return New(nodes, edges)
}

// Length planar polyline length in degrees times MetersPerDegree.
func (b *Builder) Length(coords []datastructure.Coordinate) float64 {
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = orb.Point{c.Lon, c.Lat}
	}
	return planar.Length(ls) * b.cfg.MetersPerDegree
}

// SpeedKph picks the tagged speed limit, then the road class table, then the fallback speed.
func (b *Builder) SpeedKph(roadClass string, maxSpeedKph float64) float64 {
	if maxSpeedKph > 0 {
		return maxSpeedKph
	}
	if speed, ok := b.cfg.RoadClassSpeeds[datastructure.NormalizeRoadClass(roadClass)]; ok && speed > 0 {
		return speed
	}
	return b.cfg.FallbackSpeedKph
}
