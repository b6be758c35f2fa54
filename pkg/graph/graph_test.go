package graph_test

import (
	"errors"
	"testing"

	"lintang/fleetrouter/pkg/datastructure"
	"lintang/fleetrouter/pkg/graph"
	"lintang/fleetrouter/pkg/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coord(lon, lat float64) datastructure.Coordinate {
	return datastructure.NewCoordinate(lon, lat)
}

func segment(roadClass string, coords ...datastructure.Coordinate) datastructure.Segment {
	return datastructure.Segment{Coords: coords, RoadClass: roadClass}
}

func TestNodeRegistry(t *testing.T) {
	t.Run("interning is idempotent", func(t *testing.T) {
		r := graph.NewNodeRegistry(0)
		c := coord(76.9558, 11.0168)
		first := r.Intern(c)
		for i := 0; i < 100; i++ {
			assert.Equal(t, first, r.Intern(c))
		}
		assert.Equal(t, datastructure.NodeID(1), first)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("ids are assigned in first-seen order", func(t *testing.T) {
		r := graph.NewNodeRegistry(0)
		assert.Equal(t, datastructure.NodeID(1), r.Intern(coord(1, 1)))
		assert.Equal(t, datastructure.NodeID(2), r.Intern(coord(2, 2)))
		assert.Equal(t, datastructure.NodeID(1), r.Intern(coord(1, 1)))
		assert.Equal(t, datastructure.NodeID(3), r.Intern(coord(1, 2)))
		assert.Equal(t, []datastructure.Coordinate{coord(1, 1), coord(2, 2), coord(1, 2)}, r.Coordinates())
	})

	t.Run("exact equality keeps float noise apart", func(t *testing.T) {
		r := graph.NewNodeRegistry(0)
		a := r.Intern(coord(76.9558, 11.0168))
		b := r.Intern(coord(76.9558+1e-12, 11.0168))
		assert.NotEqual(t, a, b)
	})

	t.Run("snap precision merges float noise", func(t *testing.T) {
		r := graph.NewNodeRegistry(7)
		a := r.Intern(coord(76.9558, 11.0168))
		b := r.Intern(coord(76.9558+1e-12, 11.0168-1e-12))
		assert.Equal(t, a, b)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("separate registries do not share ids", func(t *testing.T) {
		r1 := graph.NewNodeRegistry(0)
		r2 := graph.NewNodeRegistry(0)
		r1.Intern(coord(1, 1))
		r1.Intern(coord(2, 2))
		assert.Equal(t, datastructure.NodeID(1), r2.Intern(coord(2, 2)))
	})
}

func TestBuilder(t *testing.T) {
	t.Run("endpoints become nodes, intermediate points stay in geometry", func(t *testing.T) {
		g, err := graph.NewBuilder(graph.DefaultBuildConfig()).Build([]datastructure.Segment{
			segment("primary", coord(0, 0), coord(0.5, 0.5), coord(1, 0)),
			segment("primary", coord(1, 0), coord(2, 0)),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, g.NumNodes())
		assert.Equal(t, 2, g.NumEdges())

		e := g.GetOutEdge(g.GetFirstOutEdge(1)[0])
		assert.Equal(t, datastructure.NodeID(1), e.From)
		assert.Equal(t, datastructure.NodeID(2), e.To)
		assert.Len(t, e.Geometry, 3)
		assert.Equal(t, coord(1, 0), g.GetNode(2))
	})

	t.Run("length is planar degrees times 111139", func(t *testing.T) {
		g, err := graph.NewBuilder(graph.DefaultBuildConfig()).Build([]datastructure.Segment{
			segment("", coord(0, 0), coord(0.003, 0), coord(0.003, 0.004)),
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.007*111139, g.GetOutEdge(0).LengthMeters, 1e-6)
	})

	t.Run("one directed edge per segment, no reverse edges", func(t *testing.T) {
		g, err := graph.NewBuilder(graph.DefaultBuildConfig()).Build([]datastructure.Segment{
			segment("residential", coord(0, 0), coord(0, 1)),
		})
		require.NoError(t, err)
		assert.Len(t, g.GetFirstOutEdge(1), 1)
		assert.Empty(t, g.GetFirstOutEdge(2))
	})

	t.Run("parallel edges are kept", func(t *testing.T) {
		g, err := graph.NewBuilder(graph.DefaultBuildConfig()).Build([]datastructure.Segment{
			segment("primary", coord(0, 0), coord(0, 1)),
			segment("residential", coord(0, 0), coord(0.2, 0.5), coord(0, 1)),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, g.NumNodes())
		assert.Len(t, g.GetFirstOutEdge(1), 2)
	})

	t.Run("fallback speed for unknown and missing road class", func(t *testing.T) {
		cfg := graph.DefaultBuildConfig()
		g, err := graph.NewBuilder(cfg).Build([]datastructure.Segment{
			segment("residential", coord(0, 0), coord(0.01, 0)),
			segment("", coord(1, 0), coord(1.01, 0)),
			segment("moon_road", coord(2, 0), coord(2.01, 0)),
		})
		require.NoError(t, err)

		tagged := g.GetOutEdge(0)
		untagged := g.GetOutEdge(1)
		unknown := g.GetOutEdge(2)

		assert.InDelta(t, tagged.LengthMeters, untagged.LengthMeters, 1e-9)
		assert.Equal(t, 30.0, tagged.SpeedKph)
		assert.Equal(t, 30.0, untagged.SpeedKph)
		assert.Equal(t, 30.0, unknown.SpeedKph)
		assert.InDelta(t, untagged.LengthMeters/(30/3.6), untagged.TravelTimeSeconds, 1e-9)
	})

	t.Run("tagged road class differs from fallback on identical geometry", func(t *testing.T) {
		g, err := graph.NewBuilder(graph.DefaultBuildConfig()).Build([]datastructure.Segment{
			segment("primary", coord(0, 0), coord(0.01, 0)),
			segment("", coord(0, 1), coord(0.01, 1)),
		})
		require.NoError(t, err)
		primary := g.GetOutEdge(0)
		fallback := g.GetOutEdge(1)
		assert.Equal(t, 75.0, primary.SpeedKph)
		assert.InDelta(t, primary.LengthMeters/(75/3.6), primary.TravelTimeSeconds, 1e-9)
		assert.InDelta(t, fallback.TravelTimeSeconds*30/75, primary.TravelTimeSeconds, 1e-9)
	})

	t.Run("configured fallback speed and maxspeed", func(t *testing.T) {
		cfg := graph.DefaultBuildConfig()
		cfg.FallbackSpeedKph = 20
		b := graph.NewBuilder(cfg)
		assert.Equal(t, 20.0, b.SpeedKph("unknown", 0))
		assert.Equal(t, 45.0, b.SpeedKph("primary", 45))
		assert.Equal(t, 75.0, b.SpeedKph("Primary;secondary", 0))
	})

	t.Run("empty input builds an empty graph", func(t *testing.T) {
		g, err := graph.NewBuilder(graph.DefaultBuildConfig()).Build(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, g.NumNodes())
		assert.Equal(t, 0, g.NumEdges())
		assert.True(t, errors.Is(g.Validate(), server.ErrEmptyGraph))
	})

	t.Run("degenerate segment adds nothing", func(t *testing.T) {
		g, err := graph.NewBuilder(graph.DefaultBuildConfig()).Build([]datastructure.Segment{
			segment("primary", coord(0, 0)),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, g.NumNodes())
		assert.Equal(t, 0, g.NumEdges())
	})
}

func TestNew(t *testing.T) {
	_, err := graph.New([]datastructure.Coordinate{coord(0, 0)}, []datastructure.Edge{{From: 1, To: 2}})
	assert.Error(t, err)

	g, err := graph.New([]datastructure.Coordinate{coord(0, 0), coord(1, 1)}, []datastructure.Edge{{From: 2, To: 1}})
	require.NoError(t, err)
	assert.NoError(t, g.Validate())
	assert.Equal(t, []int32{0}, g.GetFirstOutEdge(2))
	assert.Empty(t, g.GetFirstOutEdge(1))
}
