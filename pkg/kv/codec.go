package kv

import (
	"sort"

	"lintang/fleetrouter/pkg/graph"

	"github.com/DataDog/zstd"
	"github.com/cespare/xxhash/v2"
	"github.com/kelindar/binary"
)

// Fingerprint identifies the inputs a graph was built from. A checkpoint saved under one
// fingerprint is not loaded under another.
func Fingerprint(source, travelMode string, cfg graph.BuildConfig) (uint64, error) {
	rec := buildRecord{
		Source:           source,
		TravelMode:       travelMode,
		MetersPerDegree:  cfg.MetersPerDegree,
		FallbackSpeedKph: cfg.FallbackSpeedKph,
		SnapPrecision:    uint32(cfg.SnapPrecision),
		Speeds:           make([]speedRecord, 0, len(cfg.RoadClassSpeeds)),
	}
	for class, speed := range cfg.RoadClassSpeeds {
		rec.Speeds = append(rec.Speeds, speedRecord{RoadClass: class, SpeedKph: speed})
	}
	sort.Slice(rec.Speeds, func(i, j int) bool { return rec.Speeds[i].RoadClass < rec.Speeds[j].RoadClass })

	bb, err := binary.Marshal(rec)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(bb), nil
}

// edgeRecord one stored edge. Index is the edge's position in the graph so a reload keeps the
// adjacency order, and with it the exact routes.
type edgeRecord struct {
	Index             int32
	To                int32
	Geometry          []float64 // lon, lat pairs
	LengthMeters      float64
	RoadClass         string
	SpeedKph          float64
	TravelTimeSeconds float64
}

type nodeRecord struct {
	ID  int32
	Lon float64
	Lat float64
	Out []edgeRecord
}

type metaRecord struct {
	Version     int32
	NumNodes    int32
	NumEdges    int32
	Cells       []string
	Fingerprint uint64
}

type speedRecord struct {
	RoadClass string
	SpeedKph  float64
}

type buildRecord struct {
	Source           string
	TravelMode       string
	MetersPerDegree  float64
	FallbackSpeedKph float64
	SnapPrecision    uint32
	Speeds           []speedRecord
}

func encodeNodes(nodes []nodeRecord) ([]byte, error) {
	bb, err := binary.Marshal(nodes)
	if err != nil {
		return nil, err
	}
	return compress(bb)
}

func decodeNodes(bbCompressed []byte) ([]nodeRecord, error) {
	bb, err := decompress(bbCompressed)
	if err != nil {
		return nil, err
	}
	var nodes []nodeRecord
	if err := binary.Unmarshal(bb, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}
