package osmparser

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Loader reads road features from a geometry source file. The source format is guessed from the file extension.
type Loader struct {
	travelMode   string
	log          *slog.Logger
	showProgress bool
}

func NewLoader(travelMode string, log *slog.Logger, showProgress bool) *Loader {
	return &Loader{travelMode: travelMode, log: log, showProgress: showProgress}
}

func (l *Loader) Load(path string) ([]RoadFeature, error) {
	if l.travelMode != TravelModeDriving {
		return nil, fmt.Errorf("travel mode '%s' is not supported", l.travelMode)
	}

	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".osm.pbf"), filepath.Ext(name) == ".pbf":
		return l.loadPBF(path)
	case filepath.Ext(name) == ".geojson", filepath.Ext(name) == ".json":
		return l.loadGeoJSON(path)
	case filepath.Ext(name) == ".csv":
		return l.loadWKTCSV(path)
	default:
		return nil, fmt.Errorf("file extension '%s' for file '%s' is not handled yet", filepath.Ext(path), path)
	}
}
