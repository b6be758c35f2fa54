package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"lintang/fleetrouter/pkg/concurrent"
	"lintang/fleetrouter/pkg/datastructure"
	"lintang/fleetrouter/pkg/server"
	"lintang/fleetrouter/pkg/util"

	"github.com/golang/geo/s2"
)

const earthRadiusMeters = 6371008.8

type RouteAlgorithm interface {
	Plan(start, end datastructure.Coordinate) (datastructure.Route, error)
}

type Geocoder interface {
	Resolve(ctx context.Context, place string) (datastructure.Coordinate, error)
}

type NavigationService struct {
	routing        RouteAlgorithm
	geocoder       Geocoder
	matrixWorkers  int
	maxMatrixCells int
	log            *slog.Logger
}

func NewNavigationService(routing RouteAlgorithm, geocoder Geocoder, matrixWorkers, maxMatrixCells int,
	log *slog.Logger) *NavigationService {
	if matrixWorkers < 1 {
		matrixWorkers = 1
	}
	return &NavigationService{
		routing:        routing,
		geocoder:       geocoder,
		matrixWorkers:  matrixWorkers,
		maxMatrixCells: maxMatrixCells,
		log:            log,
	}
}

// RouteResult a planned route with distance and time rounded for display.
type RouteResult struct {
	Success         bool
	DistanceKm      float64
	EtaMinutes      float64
	Path            [][2]float64 // (lat, lon) of every node on the route
	EncodedPath     string       // google polyline of the full road geometry
	SnapStartMeters float64      // query start to the node the route starts at
	SnapEndMeters   float64
}

func newRouteResult(route datastructure.Route, src, dst datastructure.Coordinate) RouteResult {
	path := make([][2]float64, len(route.Path))
	for i, c := range route.Path {
		path[i] = c.LatLon()
	}
	res := RouteResult{
		Success:     true,
		DistanceKm:  route.DistanceKm(),
		EtaMinutes:  route.EtaMinutes(),
		Path:        path,
		EncodedPath: datastructure.RenderPath(route.Geometry),
	}
	if len(route.Path) > 0 {
		res.SnapStartMeters = util.RoundFloat(greatCircleMeters(src, route.Path[0]), 1)
		res.SnapEndMeters = util.RoundFloat(greatCircleMeters(dst, route.Path[len(route.Path)-1]), 1)
	}
	return res
}

func greatCircleMeters(a, b datastructure.Coordinate) float64 {
	return s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon)).Radians() * earthRadiusMeters
}

func validCoordinate(c datastructure.Coordinate) bool {
	return c.IsValid() && math.Abs(c.Lat) <= 90 && math.Abs(c.Lon) <= 180
}

// ShortestPath fastest route between two coordinates, each snapped to its nearest road node.
func (s *NavigationService) ShortestPath(ctx context.Context, src, dst datastructure.Coordinate) (RouteResult, error) {
	if !validCoordinate(src) || !validCoordinate(dst) {
		return RouteResult{}, server.WrapErrorf(nil, server.ErrInvalidInput, "coordinates out of range: %s -> %s", src, dst)
	}
	if err := ctx.Err(); err != nil {
		return RouteResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "request cancelled")
	}

	route, err := s.routing.Plan(src, dst)
	if err != nil {
		return RouteResult{}, err
	}
	return newRouteResult(route, src, dst), nil
}

// SuggestRoute geocodes both place names, then routes between them.
func (s *NavigationService) SuggestRoute(ctx context.Context, startPlace, endPlace string) (RouteResult, error) {
	src, err := s.geocoder.Resolve(ctx, startPlace)
	if err != nil {
		return RouteResult{}, err
	}
	dst, err := s.geocoder.Resolve(ctx, endPlace)
	if err != nil {
		return RouteResult{}, err
	}
	s.log.Debug("suggest route", slog.String("start_place", startPlace), slog.String("end_place", endPlace),
		slog.String("start", src.String()), slog.String("end", dst.String()))
	return s.ShortestPath(ctx, src, dst)
}

type MatrixCell struct {
	Found      bool
	DistanceKm float64
	EtaMinutes float64
}

type matrixJob struct {
	ctx      context.Context
	src, dst int
	from, to datastructure.Coordinate
}

type matrixResult struct {
	src, dst int
	cell     MatrixCell
	err      error
}

// RouteMatrix plans every source to every target pair on the worker pool. result[i][j] is the
// route from sources[i] to targets[j]; unreachable pairs come back with Found false.
func (s *NavigationService) RouteMatrix(ctx context.Context, sources, targets []datastructure.Coordinate) ([][]MatrixCell, error) {
	if len(sources) == 0 || len(targets) == 0 {
		return nil, server.WrapErrorf(nil, server.ErrInvalidInput, "route matrix needs at least one source and one target")
	}
	if s.maxMatrixCells > 0 && len(sources)*len(targets) > s.maxMatrixCells {
		return nil, server.WrapErrorf(nil, server.ErrInvalidInput, "route matrix of %dx%d exceeds the limit of %d pairs",
			len(sources), len(targets), s.maxMatrixCells)
	}
	for _, c := range append(append([]datastructure.Coordinate{}, sources...), targets...) {
		if !validCoordinate(c) {
			return nil, server.WrapErrorf(nil, server.ErrInvalidInput, "coordinate out of range: %s", c)
		}
	}

	jobs := make([]matrixJob, 0, len(sources)*len(targets))
	for i, from := range sources {
		for j, to := range targets {
			jobs = append(jobs, matrixJob{ctx: ctx, src: i, dst: j, from: from, to: to})
		}
	}

	matrix := make([][]MatrixCell, len(sources))
	for i := range matrix {
		matrix[i] = make([]MatrixCell, len(targets))
	}
	for _, res := range concurrent.Run(s.matrixWorkers, jobs, s.planPair) {
		if res.err != nil {
			return nil, res.err
		}
		matrix[res.src][res.dst] = res.cell
	}
	return matrix, nil
}

func (s *NavigationService) planPair(job matrixJob) matrixResult {
	res := matrixResult{src: job.src, dst: job.dst}
	if err := job.ctx.Err(); err != nil {
		res.err = server.WrapErrorf(err, server.ErrInternalServerError, "request cancelled")
		return res
	}
	route, err := s.routing.Plan(job.from, job.to)
	if errors.Is(err, server.ErrNoRouteFound) {
		return res
	}
	if err != nil {
		res.err = err
		return res
	}
	res.cell = MatrixCell{
		Found:      true,
		DistanceKm: route.DistanceKm(),
		EtaMinutes: route.EtaMinutes(),
	}
	return res
}
