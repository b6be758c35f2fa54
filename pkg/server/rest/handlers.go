package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"lintang/fleetrouter/pkg/datastructure"
	"lintang/fleetrouter/pkg/server"
	"lintang/fleetrouter/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type NavigationService interface {
	ShortestPath(ctx context.Context, src, dst datastructure.Coordinate) (service.RouteResult, error)
	SuggestRoute(ctx context.Context, startPlace, endPlace string) (service.RouteResult, error)
	RouteMatrix(ctx context.Context, sources, targets []datastructure.Coordinate) ([][]service.MatrixCell, error)
}

type GraphStats interface {
	NumNodes() int
	NumEdges() int
}

type NavigationHandler struct {
	svc          NavigationService
	stats        GraphStats
	promeMetrics *metrics
	validate     *validator.Validate
	trans        ut.Translator
}

func NavigatorRouter(r *chi.Mux, svc NavigationService, stats GraphStats, m *metrics) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	validate := validator.New()
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	handler := &NavigationHandler{svc: svc, stats: stats, promeMetrics: m, validate: validate, trans: trans}
	m.SetGraphSize(stats.NumNodes(), stats.NumEdges())

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/shortest-path", handler.shortestPath)
			r.Post("/route-matrix", handler.routeMatrix)
			r.Get("/health", handler.health)
		})
		r.Get("/api/ai/suggest-route", handler.suggestRoute)
	})
}

// ShortestPathRequest model info
//
//	@Description	request body for the fastest route between two coordinates
//
// pointers so an omitted field is rejected while 0 stays a valid coordinate
type ShortestPathRequest struct {
	SrcLat *float64 `json:"src_lat" validate:"required,gte=-90,lte=90"`
	SrcLon *float64 `json:"src_lon" validate:"required,gte=-180,lte=180"`
	DstLat *float64 `json:"dst_lat" validate:"required,gte=-90,lte=90"`
	DstLon *float64 `json:"dst_lon" validate:"required,gte=-180,lte=180"`
}

func (s *ShortestPathRequest) Bind(r *http.Request) error {
	return nil
}

// RouteResponse model info
//
//	@Description	a planned route. path holds [lat, lon] of every road node on the route
type RouteResponse struct {
	Success         bool         `json:"success"`
	DistanceKm      float64      `json:"distance_km"`
	EtaMinutes      float64      `json:"eta_minutes"`
	Path            [][2]float64 `json:"path"`
	EncodedPath     string       `json:"encoded_path"`
	SnapStartMeters float64      `json:"snap_start_meters"`
	SnapEndMeters   float64      `json:"snap_end_meters"`
}

func NewRouteResponse(res service.RouteResult) *RouteResponse {
	return &RouteResponse{
		Success:         res.Success,
		DistanceKm:      res.DistanceKm,
		EtaMinutes:      res.EtaMinutes,
		Path:            res.Path,
		EncodedPath:     res.EncodedPath,
		SnapStartMeters: res.SnapStartMeters,
		SnapEndMeters:   res.SnapEndMeters,
	}
}

// shortestPath
//
//	@Summary		fastest route between two coordinates.
//	@Description	both coordinates are snapped to the nearest road node, then routed by travel time.
//	@Tags			navigations
//	@Param			body	body	ShortestPathRequest	true	"source and destination coordinates"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/shortest-path [post]
//	@Success		200	{object}	RouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) shortestPath(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := h.validate.Struct(*data); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return
	}

	res, err := h.svc.ShortestPath(r.Context(),
		datastructure.NewCoordinate(*data.SrcLon, *data.SrcLat),
		datastructure.NewCoordinate(*data.DstLon, *data.DstLat))
	h.countOutcome("shortest_path", err)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewRouteResponse(res))
}

// SuggestRouteRequest model info
//
//	@Description	place names, each resolved with the geocoder inside the configured region
type SuggestRouteRequest struct {
	StartPlace string `validate:"required,max=200"`
	EndPlace   string `validate:"required,max=200"`
}

// suggestRoute
//
//	@Summary		fastest route between two place names.
//	@Description	both place names are geocoded, then routed like shortest-path.
//	@Tags			navigations
//	@Param			start_place	query	string	true	"start place name"
//	@Param			end_place	query	string	true	"end place name"
//	@Produce		application/json
//	@Router			/ai/suggest-route [get]
//	@Success		200	{object}	RouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) suggestRoute(w http.ResponseWriter, r *http.Request) {
	data := SuggestRouteRequest{
		StartPlace: strings.TrimSpace(r.URL.Query().Get("start_place")),
		EndPlace:   strings.TrimSpace(r.URL.Query().Get("end_place")),
	}
	if err := h.validate.Struct(data); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return
	}

	res, err := h.svc.SuggestRoute(r.Context(), data.StartPlace, data.EndPlace)
	h.countOutcome("suggest_route", err)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewRouteResponse(res))
}

// Coord model info
//
//	@Description	model untuk koordinat
type Coord struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

// RouteMatrixRequest model info
//
//	@Description	request body for travel time and distance between every source and every target
type RouteMatrixRequest struct {
	Sources []Coord `json:"sources" validate:"required,min=1,dive"`
	Targets []Coord `json:"targets" validate:"required,min=1,dive"`
}

func (s *RouteMatrixRequest) Bind(r *http.Request) error {
	if len(s.Sources) == 0 || len(s.Targets) == 0 {
		return errors.New("sources and targets must not be empty")
	}
	return nil
}

// MatrixCellResponse model info
//
//	@Description	one source to target result of a route matrix
type MatrixCellResponse struct {
	Found      bool    `json:"found"`
	DistanceKm float64 `json:"distance_km"`
	EtaMinutes float64 `json:"eta_minutes"`
}

// RouteMatrixResponse model info
//
//	@Description	matrix[i][j] is the route from sources[i] to targets[j]
type RouteMatrixResponse struct {
	Success bool                   `json:"success"`
	Matrix  [][]MatrixCellResponse `json:"matrix"`
}

func NewRouteMatrixResponse(m [][]service.MatrixCell) *RouteMatrixResponse {
	resp := &RouteMatrixResponse{Success: true, Matrix: make([][]MatrixCellResponse, len(m))}
	for i, row := range m {
		resp.Matrix[i] = make([]MatrixCellResponse, len(row))
		for j, cell := range row {
			resp.Matrix[i][j] = MatrixCellResponse{
				Found:      cell.Found,
				DistanceKm: cell.DistanceKm,
				EtaMinutes: cell.EtaMinutes,
			}
		}
	}
	return resp
}

func toCoordinates(cs []Coord) []datastructure.Coordinate {
	out := make([]datastructure.Coordinate, len(cs))
	for i, c := range cs {
		out[i] = datastructure.NewCoordinate(*c.Lon, *c.Lat)
	}
	return out
}

// routeMatrix
//
//	@Summary		travel time and distance between many sources and many targets.
//	@Description	every pair is planned independently. unreachable pairs come back with found=false.
//	@Tags			navigations
//	@Param			body	body	RouteMatrixRequest	true	"sources and targets"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/route-matrix [post]
//	@Success		200	{object}	RouteMatrixResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) routeMatrix(w http.ResponseWriter, r *http.Request) {
	data := &RouteMatrixRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := h.validate.Struct(*data); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return
	}

	m, err := h.svc.RouteMatrix(r.Context(), toCoordinates(data.Sources), toCoordinates(data.Targets))
	h.countOutcome("route_matrix", err)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewRouteMatrixResponse(m))
}

// HealthResponse model info
//
//	@Description	service status and size of the loaded road graph
type HealthResponse struct {
	Status string `json:"status"`
	Nodes  int    `json:"nodes"`
	Edges  int    `json:"edges"`
}

// health
//
//	@Summary	service status.
//	@Tags		navigations
//	@Produce	application/json
//	@Router		/navigations/health [get]
//	@Success	200	{object}	HealthResponse
func (h *NavigationHandler) health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.stats.NumNodes() == 0 {
		status = "empty_graph"
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &HealthResponse{Status: status, Nodes: h.stats.NumNodes(), Edges: h.stats.NumEdges()})
}

func (h *NavigationHandler) countOutcome(endpoint string, err error) {
	_, failure := failureOf(err)
	if err == nil {
		failure = "Success"
	}
	h.promeMetrics.RouteQueryCount.WithLabelValues(endpoint, failure).Inc()
}

const (
	FailureNoRouteFound  = "NoRouteFound"
	FailurePlaceNotFound = "PlaceNotFound"
	FailureInvalidInput  = "InvalidInput"
	FailureNotFound      = "NotFound"
	FailureInternalError = "InternalError"
)

// ErrResponse model info
//
//	@Description	model untuk error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	Success       bool     `json:"success"`
	StatusText    string   `json:"status"`          // user-level status message
	Failure       string   `json:"failure"`         // NoRouteFound, PlaceNotFound, InvalidInput or InternalError
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		Failure:        FailureInvalidInput,
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		Failure:        FailureInvalidInput,
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusCode, failure := failureOf(err)
	statusText := ""
	switch statusCode {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusBadRequest:
		statusText = "Bad request."
	default:
		statusText = "Internal server error."
	}

	errorText := server.MessageInternalServerError
	var ierr *server.Error
	if statusCode != http.StatusInternalServerError {
		errorText = err.Error()
		if errors.As(err, &ierr) {
			errorText = ierr.Message()
		}
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: statusCode,
		StatusText:     statusText,
		Failure:        failure,
		ErrorText:      errorText,
	}
}

func failureOf(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, server.ErrNoRouteFound):
		return http.StatusNotFound, FailureNoRouteFound
	case errors.Is(err, server.ErrPlaceNotFound):
		return http.StatusNotFound, FailurePlaceNotFound
	case errors.Is(err, server.ErrInvalidInput), errors.Is(err, server.ErrBadParamInput):
		return http.StatusBadRequest, FailureInvalidInput
	case errors.Is(err, server.ErrNotFound):
		return http.StatusNotFound, FailureNotFound
	default:
		return http.StatusInternalServerError, FailureInternalError
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}
