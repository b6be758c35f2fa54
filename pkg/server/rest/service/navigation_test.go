package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"lintang/fleetrouter/pkg/datastructure"
	"lintang/fleetrouter/pkg/engine/routingalgorithm"
	"lintang/fleetrouter/pkg/graph"
	"lintang/fleetrouter/pkg/server"
	"lintang/fleetrouter/pkg/server/rest/service"
	"lintang/fleetrouter/pkg/spatialindex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	places map[string]datastructure.Coordinate
	calls  int
}

func (f *fakeGeocoder) Resolve(ctx context.Context, place string) (datastructure.Coordinate, error) {
	f.calls++
	c, ok := f.places[place]
	if !ok {
		return datastructure.Coordinate{}, server.WrapErrorf(nil, server.ErrPlaceNotFound, "place %q not found", place)
	}
	return c, nil
}

var (
	c1 = datastructure.NewCoordinate(0, 0)
	c2 = datastructure.NewCoordinate(1000/graph.MetersPerDegree, 0)
	c3 = datastructure.NewCoordinate(1500/graph.MetersPerDegree, 0)
	// separate component
	island = datastructure.NewCoordinate(1, 1)
)

func newService(t *testing.T, geo service.Geocoder) *service.NavigationService {
	t.Helper()
	g, err := graph.NewBuilder(graph.DefaultBuildConfig()).Build([]datastructure.Segment{
		{Coords: []datastructure.Coordinate{c1, c2}, MaxSpeedKph: 36},
		{Coords: []datastructure.Coordinate{c2, c3}, MaxSpeedKph: 36},
		{Coords: []datastructure.Coordinate{island, datastructure.NewCoordinate(1.001, 1)}},
	})
	require.NoError(t, err)
	rt := routingalgorithm.NewRouteAlgorithm(g, spatialindex.NewNearestNode(g.Nodes(), 0), 0)
	return service.NewNavigationService(rt, geo, 2, 100, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestShortestPath(t *testing.T) {
	svc := newService(t, &fakeGeocoder{})

	t.Run("rounded distance and eta", func(t *testing.T) {
		res, err := svc.ShortestPath(context.Background(), c1, c3)
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, 1.50, res.DistanceKm)
		assert.Equal(t, 2.5, res.EtaMinutes)
		assert.Equal(t, [][2]float64{{c1.Lat, c1.Lon}, {c2.Lat, c2.Lon}, {c3.Lat, c3.Lon}}, res.Path)
		assert.NotEmpty(t, res.EncodedPath)
		assert.Equal(t, 0.0, res.SnapStartMeters)
		assert.Equal(t, 0.0, res.SnapEndMeters)
	})

	t.Run("snap distance is reported", func(t *testing.T) {
		res, err := svc.ShortestPath(context.Background(), datastructure.NewCoordinate(0, 0.001), c3)
		require.NoError(t, err)
		// 0.001 degree of latitude is about 111 m
		assert.InDelta(t, 111.2, res.SnapStartMeters, 0.5)
	})

	t.Run("no route", func(t *testing.T) {
		_, err := svc.ShortestPath(context.Background(), c1, island)
		assert.True(t, errors.Is(err, server.ErrNoRouteFound))
	})

	t.Run("out of range coordinate", func(t *testing.T) {
		_, err := svc.ShortestPath(context.Background(), datastructure.NewCoordinate(200, 0), c3)
		assert.True(t, errors.Is(err, server.ErrInvalidInput))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.ShortestPath(ctx, c1, c3)
		assert.Error(t, err)
	})
}

func TestSuggestRoute(t *testing.T) {
	geo := &fakeGeocoder{places: map[string]datastructure.Coordinate{
		"Gandhipuram": c1,
		"Ukkadam":     c3,
	}}
	svc := newService(t, geo)

	res, err := svc.SuggestRoute(context.Background(), "Gandhipuram", "Ukkadam")
	require.NoError(t, err)
	assert.Equal(t, 1.50, res.DistanceKm)
	assert.Equal(t, 2.5, res.EtaMinutes)

	geo.calls = 0
	_, err = svc.SuggestRoute(context.Background(), "Atlantis", "Ukkadam")
	assert.True(t, errors.Is(err, server.ErrPlaceNotFound))
	assert.Equal(t, 1, geo.calls)

	_, err = svc.SuggestRoute(context.Background(), "Gandhipuram", "Atlantis")
	assert.True(t, errors.Is(err, server.ErrPlaceNotFound))
}

func TestRouteMatrix(t *testing.T) {
	svc := newService(t, &fakeGeocoder{})

	m, err := svc.RouteMatrix(context.Background(),
		[]datastructure.Coordinate{c1, c2},
		[]datastructure.Coordinate{c3, island, c1})
	require.NoError(t, err)
	require.Len(t, m, 2)
	require.Len(t, m[0], 3)

	assert.Equal(t, service.MatrixCell{Found: true, DistanceKm: 1.5, EtaMinutes: 2.5}, m[0][0])
	assert.False(t, m[0][1].Found)
	assert.Equal(t, service.MatrixCell{Found: true}, m[0][2])
	assert.Equal(t, service.MatrixCell{Found: true, DistanceKm: 0.5, EtaMinutes: 0.8}, m[1][0])
	// one-way road, no way back
	assert.False(t, m[1][2].Found)

	t.Run("empty input", func(t *testing.T) {
		_, err := svc.RouteMatrix(context.Background(), nil, []datastructure.Coordinate{c1})
		assert.True(t, errors.Is(err, server.ErrInvalidInput))
	})

	t.Run("too many pairs", func(t *testing.T) {
		many := make([]datastructure.Coordinate, 11)
		for i := range many {
			many[i] = c1
		}
		_, err := svc.RouteMatrix(context.Background(), many, many)
		assert.True(t, errors.Is(err, server.ErrInvalidInput))
	})
}
