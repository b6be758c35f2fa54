package osmparser

import (
	"lintang/fleetrouter/pkg/datastructure"

	"github.com/paulmach/orb"
)

// RoadFeature is one logical road as delivered by a geometry source: a LineString or a MultiLineString
// plus its highway classification.
type RoadFeature struct {
	Geometry    orb.Geometry
	RoadClass   string
	MaxSpeedKph float64
}

// Ingest flattens road features into two-endpoint segments. Multi-polylines are split per member line.
// Missing geometries, unsupported geometry types and lines with fewer than 2 usable points are skipped.
func Ingest(features []RoadFeature) []datastructure.Segment {
	segments := make([]datastructure.Segment, 0, len(features))
	for _, f := range features {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			segments = appendLine(segments, g, f)
		case orb.MultiLineString:
			for _, ls := range g {
				segments = appendLine(segments, ls, f)
			}
		}
	}
	return segments
}

func appendLine(segments []datastructure.Segment, ls orb.LineString, f RoadFeature) []datastructure.Segment {
	if len(ls) < 2 {
		return segments
	}
	coords := make([]datastructure.Coordinate, len(ls))
	for i, p := range ls {
		c := datastructure.NewCoordinate(p.Lon(), p.Lat())
		if !c.IsValid() {
			return segments
		}
		coords[i] = c
	}
	return append(segments, datastructure.Segment{
		Coords:      coords,
		RoadClass:   f.RoadClass,
		MaxSpeedKph: f.MaxSpeedKph,
	})
}

// LineString converts segment coordinates back to an orb line.
func LineString(coords []datastructure.Coordinate) orb.LineString {
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = orb.Point{c.Lon, c.Lat}
	}
	return ls
}
