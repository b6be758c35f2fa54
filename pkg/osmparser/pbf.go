package osmparser

import (
	"context"
	"io"
	"os"
	"runtime"

	"lintang/fleetrouter/pkg/util"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"
)

// loadPBF scans the file twice: drivable ways first, then only the nodes those ways reference.
func (l *Loader) loadPBF(path string) ([]RoadFeature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open openstreetmap file %s", path)
	}
	defer f.Close()

	scanner := osmpbf.New(context.Background(), f, runtime.GOMAXPROCS(0))
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	ways := []*osm.Way{}
	wayNodes := make(map[osm.NodeID]struct{})
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || !isOsmWayUsedByCars(way.TagMap()) {
			continue
		}
		ways = append(ways, way)
		for _, n := range way.Nodes {
			wayNodes[n.ID] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, errors.Wrap(err, "scan openstreetmap ways")
	}
	scanner.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "rewind openstreetmap file")
	}

	scanner = osmpbf.New(context.Background(), f, runtime.GOMAXPROCS(0))
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true

	nodeCoords := make(map[osm.NodeID]orb.Point, len(wayNodes))
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, used := wayNodes[node.ID]; used {
			nodeCoords[node.ID] = orb.Point{node.Lon, node.Lat}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan openstreetmap nodes")
	}

	var bar util.Progress = util.NoProgress
	if l.showProgress {
		bar = util.NewProgressBar(len(ways), "[cyan][1/4][reset] reading openstreetmap ways...")
	}

	features := make([]RoadFeature, 0, len(ways))
	for _, way := range ways {
		features = append(features, wayToFeatures(way, nodeCoords)...)
		bar.Add(1)
	}

	l.log.Info("openstreetmap ways loaded", "file", path, "drivable_ways", len(ways), "nodes", len(nodeCoords), "features", len(features))
	return features, nil
}

// wayToFeatures emits the way in digitized order, its reverse, or both, following the oneway tags.
// Way nodes missing from the extract are dropped from the line.
func wayToFeatures(way *osm.Way, nodes map[osm.NodeID]orb.Point) []RoadFeature {
	line := make(orb.LineString, 0, len(way.Nodes))
	for _, wn := range way.Nodes {
		p, ok := nodes[wn.ID]
		if !ok {
			continue
		}
		line = append(line, p)
	}

	roadClass := way.Tags.Find("highway")
	maxSpeed := parseMaxSpeed(way.Tags.Find("maxspeed"))

	reversed := func() orb.LineString {
		r := line.Clone()
		r.Reverse()
		return r
	}

	switch onewayDirection(way.Tags) {
	case forwardOnly:
		return []RoadFeature{{Geometry: line, RoadClass: roadClass, MaxSpeedKph: maxSpeed}}
	case backwardOnly:
		return []RoadFeature{{Geometry: reversed(), RoadClass: roadClass, MaxSpeedKph: maxSpeed}}
	default:
		return []RoadFeature{
			{Geometry: line, RoadClass: roadClass, MaxSpeedKph: maxSpeed},
			{Geometry: reversed(), RoadClass: roadClass, MaxSpeedKph: maxSpeed},
		}
	}
}
