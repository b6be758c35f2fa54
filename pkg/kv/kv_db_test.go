package kv

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"lintang/fleetrouter/pkg/datastructure"
	"lintang/fleetrouter/pkg/engine/routingalgorithm"
	"lintang/fleetrouter/pkg/graph"
	"lintang/fleetrouter/pkg/spatialindex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFingerprint uint64 = 0x5eed

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openKV(t *testing.T) *KVDB {
	t.Helper()
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewKVDB(db, discardLogger(), 4)
}

func coimbatoreGraph(t *testing.T) *graph.Graph {
	t.Helper()
	c := func(lon, lat float64) datastructure.Coordinate { return datastructure.NewCoordinate(lon, lat) }
	segments := []datastructure.Segment{
		{Coords: []datastructure.Coordinate{c(76.9558, 11.0168), c(76.9600, 11.0200)}, RoadClass: "primary"},
		{Coords: []datastructure.Coordinate{c(76.9600, 11.0200), c(76.9558, 11.0168)}, RoadClass: "primary"},
		{Coords: []datastructure.Coordinate{c(76.9600, 11.0200), c(76.9650, 11.0230), c(76.9700, 11.0250)}, RoadClass: "residential"},
		{Coords: []datastructure.Coordinate{c(76.9700, 11.0250), c(77.0100, 11.0500)}, RoadClass: "trunk", MaxSpeedKph: 60},
		{Coords: []datastructure.Coordinate{c(76.9558, 11.0168), c(77.0100, 11.0500)}, RoadClass: "service"},
		{Coords: []datastructure.Coordinate{c(77.0100, 11.0500), c(76.9000, 10.9000)}},
	}
	g, err := graph.NewBuilder(graph.DefaultBuildConfig()).Build(segments)
	require.NoError(t, err)
	return g
}

func TestCheckpointRoundTrip(t *testing.T) {
	k := openKV(t)
	g := coimbatoreGraph(t)

	require.NoError(t, k.SaveGraph(g, testFingerprint))
	loaded, err := k.LoadGraph(testFingerprint)
	require.NoError(t, err)

	assert.Equal(t, g.Nodes(), loaded.Nodes())
	assert.Equal(t, g.Edges(), loaded.Edges())

	before := routingalgorithm.NewRouteAlgorithm(g, spatialindex.NewNearestNode(g.Nodes(), 0), 0)
	after := routingalgorithm.NewRouteAlgorithm(loaded, spatialindex.NewNearestNode(loaded.Nodes(), 0), 0)
	for from := 1; from <= g.NumNodes(); from++ {
		for to := 1; to <= g.NumNodes(); to++ {
			want, wantErr := before.ShortestPath(datastructure.NodeID(from), datastructure.NodeID(to))
			got, gotErr := after.ShortestPath(datastructure.NodeID(from), datastructure.NodeID(to))
			assert.Equal(t, wantErr == nil, gotErr == nil, "%d -> %d", from, to)
			assert.Equal(t, want, got, "%d -> %d", from, to)
		}
	}
}

func TestCheckpointOverwrite(t *testing.T) {
	k := openKV(t)
	require.NoError(t, k.SaveGraph(coimbatoreGraph(t), testFingerprint))

	small, err := graph.NewBuilder(graph.DefaultBuildConfig()).Build([]datastructure.Segment{
		{Coords: []datastructure.Coordinate{datastructure.NewCoordinate(1, 1), datastructure.NewCoordinate(1.001, 1)}},
	})
	require.NoError(t, err)
	require.NoError(t, k.SaveGraph(small, testFingerprint))

	loaded, err := k.LoadGraph(testFingerprint)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.NumNodes())
	assert.Equal(t, 1, loaded.NumEdges())
}

func TestCheckpointEmptyGraph(t *testing.T) {
	k := openKV(t)
	empty, err := graph.NewBuilder(graph.DefaultBuildConfig()).Build(nil)
	require.NoError(t, err)

	require.NoError(t, k.SaveGraph(empty, testFingerprint))
	loaded, err := k.LoadGraph(testFingerprint)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.NumNodes())
}

func TestLoadGraphNotFound(t *testing.T) {
	k := openKV(t)
	_, err := k.LoadGraph(testFingerprint)
	assert.True(t, errors.Is(err, ErrCheckpointNotFound))
}

func TestLoadGraphOtherFingerprint(t *testing.T) {
	k := openKV(t)
	cfg := graph.DefaultBuildConfig()
	saved, err := Fingerprint("coimbatore.osm.pbf", "driving", cfg)
	require.NoError(t, err)
	require.NoError(t, k.SaveGraph(coimbatoreGraph(t), saved))

	_, err = k.LoadGraph(saved)
	require.NoError(t, err)

	otherSource, err := Fingerprint("chennai.osm.pbf", "driving", cfg)
	require.NoError(t, err)
	_, err = k.LoadGraph(otherSource)
	assert.True(t, errors.Is(err, ErrCheckpointNotFound))

	slower := graph.DefaultBuildConfig()
	slower.FallbackSpeedKph = 10
	otherConfig, err := Fingerprint("coimbatore.osm.pbf", "driving", slower)
	require.NoError(t, err)
	_, err = k.LoadGraph(otherConfig)
	assert.True(t, errors.Is(err, ErrCheckpointNotFound))
}

func TestFingerprint(t *testing.T) {
	base, err := Fingerprint("roads.geojson", "driving", graph.DefaultBuildConfig())
	require.NoError(t, err)

	t.Run("stable across calls", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			again, err := Fingerprint("roads.geojson", "driving", graph.DefaultBuildConfig())
			require.NoError(t, err)
			assert.Equal(t, base, again)
		}
	})

	t.Run("changes with any build input", func(t *testing.T) {
		speeds := graph.DefaultBuildConfig()
		speeds.RoadClassSpeeds["primary"] = 5

		snapped := graph.DefaultBuildConfig()
		snapped.SnapPrecision = 6

		scaled := graph.DefaultBuildConfig()
		scaled.MetersPerDegree = 100000

		for name, fp := range map[string]func() (uint64, error){
			"source":      func() (uint64, error) { return Fingerprint("other.geojson", "driving", graph.DefaultBuildConfig()) },
			"travel mode": func() (uint64, error) { return Fingerprint("roads.geojson", "walking", graph.DefaultBuildConfig()) },
			"speed table": func() (uint64, error) { return Fingerprint("roads.geojson", "driving", speeds) },
			"snap":        func() (uint64, error) { return Fingerprint("roads.geojson", "driving", snapped) },
			"scale":       func() (uint64, error) { return Fingerprint("roads.geojson", "driving", scaled) },
		} {
			got, err := fp()
			require.NoError(t, err, name)
			assert.NotEqual(t, base, got, name)
		}
	})
}

func TestCodec(t *testing.T) {
	nodes := []nodeRecord{
		{ID: 1, Lon: 76.9, Lat: 11.0, Out: []edgeRecord{{Index: 0, To: 2, Geometry: []float64{76.9, 11.0, 77.0, 11.1}, RoadClass: "primary"}}},
		{ID: 2, Lon: 77.0, Lat: 11.1},
	}
	bb, err := encodeNodes(nodes)
	require.NoError(t, err)
	got, err := decodeNodes(bb)
	require.NoError(t, err)
	assert.Equal(t, nodes[0], got[0])
	assert.Equal(t, nodes[1].ID, got[1].ID)
	assert.Empty(t, got[1].Out)

	_, err = decodeNodes([]byte("not zstd"))
	assert.Error(t, err)
}
