package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"lintang/fleetrouter/pkg/config"
	"lintang/fleetrouter/pkg/kv"
	"lintang/fleetrouter/pkg/osmparser"
	"lintang/fleetrouter/pkg/util"
)

var (
	configFile = flag.String("config", "", "yaml config file")
	mapFile    = flag.String("f", "", "road geometry source (.osm.pbf, .geojson or wkt .csv), overrides graph.source")
	dbDir      = flag.String("db", "", "pebble checkpoint directory, overrides graph.checkpoint_dir")
)

// builds the road graph once and saves it as a pebble checkpoint that cmd/server loads on start.
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
	if *dbDir != "" {
		cfg.Graph.CheckpointDir = *dbDir
	}

	lg := util.NewLogger("fleetrouter-preprocessing", cfg.LogLevel(), cfg.Log.JSON).Logger

	g, err := osmparser.NewLoader(cfg.Graph.TravelMode, lg, true).BuildGraph(cfg.Graph.Source, cfg.BuildConfig())
	if err != nil {
		lg.Error("cannot build road graph", slog.String("source", cfg.Graph.Source), slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := g.Validate(); err != nil {
		lg.Error("refusing to save an empty road graph", slog.String("source", cfg.Graph.Source))
		os.Exit(1)
	}

	db, err := kv.Open(cfg.Graph.CheckpointDir)
	if err != nil {
		lg.Error("cannot open checkpoint db", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	kvDB := kv.NewKVDB(db, lg, cfg.Routing.MatrixWorkers)
	fingerprint, err := kv.Fingerprint(cfg.Graph.Source, cfg.Graph.TravelMode, cfg.BuildConfig())
	if err != nil {
		lg.Error("cannot fingerprint build config", slog.String("error", err.Error()))
		db.Close()
		os.Exit(1)
	}
	bar := util.NewProgressBar(-1, "[cyan][4/4][reset] saving road graph to pebble db...")
	if err := kvDB.WithProgress(bar).SaveGraph(g, fingerprint); err != nil {
		lg.Error("cannot save graph checkpoint", slog.String("error", err.Error()))
		db.Close()
		os.Exit(1)
	}
	lg.Info("graph checkpoint ready", slog.String("dir", cfg.Graph.CheckpointDir), slog.String("graph", g.String()))
}
