package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"lintang/fleetrouter/pkg/datastructure"
	"lintang/fleetrouter/pkg/geocoder"
	"lintang/fleetrouter/pkg/graph"
	"lintang/fleetrouter/pkg/spatialindex"

	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "FLEETROUTER"

type ServerConfig struct {
	ListenAddr     string   `mapstructure:"listen_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type GraphConfig struct {
	Source           string             `mapstructure:"source"`
	TravelMode       string             `mapstructure:"travel_mode"`
	MetersPerDegree  float64            `mapstructure:"meters_per_degree"`
	FallbackSpeedKph float64            `mapstructure:"fallback_speed_kph"`
	RoadClassSpeeds  map[string]float64 `mapstructure:"road_class_speeds"`
	SnapPrecision    uint               `mapstructure:"snap_precision"` // decimal places, 0 = exact equality
	CheckpointDir    string             `mapstructure:"checkpoint_dir"`
	UseCheckpoint    bool               `mapstructure:"use_checkpoint"`
}

type RoutingConfig struct {
	MaxExpansions       int `mapstructure:"max_expansions"`
	LinearScanThreshold int `mapstructure:"linear_scan_threshold"`
	MatrixWorkers       int `mapstructure:"matrix_workers"`
	MaxMatrixCells      int `mapstructure:"max_matrix_cells"`
}

type GeocoderConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	RegionSuffix string        `mapstructure:"region_suffix"`
	UserAgent    string        `mapstructure:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Graph    GraphConfig    `mapstructure:"graph"`
	Routing  RoutingConfig  `mapstructure:"routing"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Log      LogConfig      `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":5000")
	v.SetDefault("server.allowed_origins", []string{"https://*", "http://*"})

	v.SetDefault("graph.source", "coimbatore.osm.pbf")
	v.SetDefault("graph.travel_mode", "driving")
	v.SetDefault("graph.meters_per_degree", graph.MetersPerDegree)
	v.SetDefault("graph.fallback_speed_kph", datastructure.DefaultFallbackSpeedKph)
	v.SetDefault("graph.road_class_speeds", datastructure.DefaultRoadClassSpeeds())
	v.SetDefault("graph.snap_precision", 0)
	v.SetDefault("graph.checkpoint_dir", "fleetrouterDB")
	v.SetDefault("graph.use_checkpoint", false)

	v.SetDefault("routing.max_expansions", 0)
	v.SetDefault("routing.linear_scan_threshold", spatialindex.DefaultLinearScanThreshold)
	v.SetDefault("routing.matrix_workers", 4)
	v.SetDefault("routing.max_matrix_cells", 2500)

	v.SetDefault("geocoder.base_url", geocoder.DefaultBaseURL)
	v.SetDefault("geocoder.region_suffix", "Coimbatore")
	v.SetDefault("geocoder.user_agent", geocoder.DefaultUserAgent)
	v.SetDefault("geocoder.timeout", geocoder.DefaultTimeout)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// LoadDotEnv loads environment variables from the given .env files (".env" when none given).
// Missing files are ignored, variables already set in the environment win.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, f := range filenames {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return pkgerrors.Wrapf(err, "load %s", f)
		}
	}
	return nil
}

// Load reads defaults, then the yaml file at path (skipped when path is empty), then
// FLEETROUTER_* environment variables, e.g. FLEETROUTER_SERVER_LISTEN_ADDR.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, pkgerrors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, pkgerrors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return errors.New("server.listen_addr must not be empty")
	}
	if c.Graph.Source == "" && !c.Graph.UseCheckpoint {
		return errors.New("graph.source must be set when the checkpoint is disabled")
	}
	if c.Graph.FallbackSpeedKph <= 0 {
		return errors.New("graph.fallback_speed_kph must be positive")
	}
	if c.Graph.MetersPerDegree <= 0 {
		return errors.New("graph.meters_per_degree must be positive")
	}
	if c.Routing.MaxExpansions < 0 {
		return errors.New("routing.max_expansions must not be negative")
	}
	if c.Routing.MatrixWorkers < 1 {
		return errors.New("routing.matrix_workers must be at least 1")
	}
	return nil
}

func (c *Config) BuildConfig() graph.BuildConfig {
	return graph.BuildConfig{
		MetersPerDegree:  c.Graph.MetersPerDegree,
		FallbackSpeedKph: c.Graph.FallbackSpeedKph,
		RoadClassSpeeds:  c.Graph.RoadClassSpeeds,
		SnapPrecision:    c.Graph.SnapPrecision,
	}
}

func (c *Config) GeocoderConfig() geocoder.Config {
	return geocoder.Config{
		BaseURL:      c.Geocoder.BaseURL,
		RegionSuffix: c.Geocoder.RegionSuffix,
		UserAgent:    c.Geocoder.UserAgent,
		Timeout:      c.Geocoder.Timeout,
	}
}

// LogLevel unknown names fall back to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
