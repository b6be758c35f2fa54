package geocoder

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lintang/fleetrouter/pkg/datastructure"
	"lintang/fleetrouter/pkg/server"

	"github.com/gojek/heimdall/v7/httpclient"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "fleetrouter/1.0"
	DefaultTimeout   = 5 * time.Second
)

type Config struct {
	BaseURL      string
	RegionSuffix string // appended to every query, e.g. "Coimbatore"
	UserAgent    string
	Timeout      time.Duration
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Nominatim resolves free text place names with the nominatim search api. Safe for concurrent use.
type Nominatim struct {
	client *httpclient.Client
	cfg    Config
	log    *slog.Logger
}

func NewNominatim(cfg Config, log *slog.Logger) *Nominatim {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Nominatim{
		client: httpclient.NewClient(
			httpclient.WithHTTPTimeout(cfg.Timeout),
			httpclient.WithRetryCount(0),
		),
		cfg: cfg,
		log: log,
	}
}

func (n *Nominatim) query(place string) string {
	if n.cfg.RegionSuffix == "" {
		return place
	}
	return place + ", " + n.cfg.RegionSuffix
}

// Resolve returns the coordinate of the best match for place. An empty result set is
// ErrPlaceNotFound.
func (n *Nominatim) Resolve(ctx context.Context, place string) (datastructure.Coordinate, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return datastructure.Coordinate{}, server.WrapErrorf(nil, server.ErrInvalidInput, "place name is empty")
	}

	params := url.Values{}
	params.Set("q", n.query(place))
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.cfg.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return datastructure.Coordinate{}, server.WrapErrorf(err, server.ErrInternalServerError, "build geocoder request")
	}
	req.Header.Set("User-Agent", n.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		if res != nil {
			res.Body.Close()
		}
		return datastructure.Coordinate{}, server.WrapErrorf(err, server.ErrInternalServerError, "geocoder request for %q", place)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return datastructure.Coordinate{}, server.WrapErrorf(fmt.Errorf("status %d", res.StatusCode),
			server.ErrInternalServerError, "geocoder request for %q", place)
	}

	var results []searchResult
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		return datastructure.Coordinate{}, server.WrapErrorf(err, server.ErrInternalServerError, "decode geocoder response")
	}
	if len(results) == 0 {
		return datastructure.Coordinate{}, server.WrapErrorf(nil, server.ErrPlaceNotFound, "place %q not found", place)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return datastructure.Coordinate{}, server.WrapErrorf(err, server.ErrInternalServerError, "geocoder returned bad latitude")
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return datastructure.Coordinate{}, server.WrapErrorf(err, server.ErrInternalServerError, "geocoder returned bad longitude")
	}

	n.log.Debug("place resolved", slog.String("place", place), slog.String("match", results[0].DisplayName),
		slog.Float64("lat", lat), slog.Float64("lon", lon))
	return datastructure.NewCoordinate(lon, lat), nil
}
