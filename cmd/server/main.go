package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "lintang/fleetrouter/docs"
	"lintang/fleetrouter/pkg/config"
	"lintang/fleetrouter/pkg/engine/routingalgorithm"
	"lintang/fleetrouter/pkg/geocoder"
	"lintang/fleetrouter/pkg/graph"
	"lintang/fleetrouter/pkg/kv"
	"lintang/fleetrouter/pkg/osmparser"
	"lintang/fleetrouter/pkg/server/rest"
	"lintang/fleetrouter/pkg/server/rest/service"
	"lintang/fleetrouter/pkg/spatialindex"
	"lintang/fleetrouter/pkg/util"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	configFile = flag.String("config", "", "yaml config file, defaults and FLEETROUTER_* env vars are used when empty")
	mapFile    = flag.String("f", "", "road geometry source (.osm.pbf, .geojson or wkt .csv), overrides graph.source")
	listenAddr = flag.String("listenaddr", "", "server listen address, overrides server.listen_addr")
)

//	@title			fleetrouter API
//	@version		1.0
//	@description	fleet routing service on an openstreetmap road graph. Dijkstra on travel time over a graph built once at startup.

//	@contact.name	fleetrouter maintainers

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *mapFile != "" {
		cfg.Graph.Source = *mapFile
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}

	logger := util.NewLogger("fleetrouter", cfg.LogLevel(), cfg.Log.JSON)
	lg := logger.Logger

	g, err := loadGraph(cfg, lg)
	if err != nil {
		lg.Error("cannot build road graph", slog.String("source", cfg.Graph.Source), slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := g.Validate(); err != nil {
		lg.Warn("road graph is empty, every route query will return NoRouteFound", slog.String("source", cfg.Graph.Source))
	}

	lg.Info("[3/4] building nearest node index...", slog.Int("nodes", g.NumNodes()))
	idx := spatialindex.NewNearestNode(g.Nodes(), cfg.Routing.LinearScanThreshold)
	routingAlgorithm := routingalgorithm.NewRouteAlgorithm(g, idx, cfg.Routing.MaxExpansions)
	nominatim := geocoder.NewNominatim(cfg.GeocoderConfig(), lg)
	navigatorSvc := service.NewNavigationService(routingAlgorithm, nominatim, cfg.Routing.MatrixWorkers,
		cfg.Routing.MaxMatrixCells, lg)

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)
	r := rest.NewRouter(rest.RouterOptions{
		Logger:         logger,
		Registry:       reg,
		Metrics:        m,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	rest.NavigatorRouter(r, navigatorSvc, g, m)

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		lg.Info("server started", slog.String("addr", cfg.Server.ListenAddr), slog.String("graph", g.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// loadGraph prefers the pebble checkpoint written by cmd/preprocessing and builds from the source
// file when there is none, saving the result for the next start.
func loadGraph(cfg *config.Config, lg *slog.Logger) (*graph.Graph, error) {
	loader := osmparser.NewLoader(cfg.Graph.TravelMode, lg, true)
	if !cfg.Graph.UseCheckpoint {
		return loader.BuildGraph(cfg.Graph.Source, cfg.BuildConfig())
	}

	db, err := kv.Open(cfg.Graph.CheckpointDir)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	kvDB := kv.NewKVDB(db, lg, cfg.Routing.MatrixWorkers)
	fingerprint, err := kv.Fingerprint(cfg.Graph.Source, cfg.Graph.TravelMode, cfg.BuildConfig())
	if err != nil {
		return nil, err
	}

	g, err := kvDB.LoadGraph(fingerprint)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, kv.ErrCheckpointNotFound) {
		return nil, err
	}

	lg.Info("no usable graph checkpoint, building from source", slog.String("source", cfg.Graph.Source),
		slog.String("reason", err.Error()))
	g, err = loader.BuildGraph(cfg.Graph.Source, cfg.BuildConfig())
	if err != nil {
		return nil, err
	}
	if g.NumNodes() > 0 {
		if err := kvDB.SaveGraph(g, fingerprint); err != nil {
			lg.Warn("cannot save graph checkpoint", slog.String("error", err.Error()))
		}
	}
	return g, nil
}
