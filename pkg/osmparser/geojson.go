package osmparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// loadGeoJSON reads a FeatureCollection of (Multi)LineStrings. Geometries are used exactly as given,
// one directed edge per line in digitized order.
func (l *Loader) loadGeoJSON(path string) ([]RoadFeature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read geojson file %s", path)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode geojson file %s", path)
	}

	features := make([]RoadFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		features = append(features, RoadFeature{
			Geometry:    f.Geometry,
			RoadClass:   propertyString(f.Properties, "highway"),
			MaxSpeedKph: parseMaxSpeed(propertyString(f.Properties, "maxspeed")),
		})
	}

	l.log.Info("geojson features loaded", "file", path, "features", len(features))
	return features, nil
}

// propertyString reads string, numeric and list-valued properties (exports often store highway as a list).
func propertyString(props geojson.Properties, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprint(v)
	case []interface{}:
		vals := make([]string, 0, len(v))
		for _, item := range v {
			vals = append(vals, fmt.Sprint(item))
		}
		return strings.Join(vals, ";")
	default:
		return ""
	}
}

// loadWKTCSV reads a CSV file with a header row. Required column: wkt. Optional: highway, maxspeed.
// Rows whose WKT cannot be parsed are skipped.
func (l *Loader) loadWKTCSV(path string) ([]RoadFeature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open csv file %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "read csv header %s", path)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	wktCol, ok := cols["wkt"]
	if !ok {
		return nil, fmt.Errorf("csv file %s has no 'wkt' column", path)
	}

	column := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	features := []RoadFeature{}
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read csv file %s", path)
		}
		if wktCol >= len(record) {
			skipped++
			continue
		}
		geom, err := wkt.Unmarshal(record[wktCol])
		if err != nil {
			skipped++
			continue
		}
		features = append(features, RoadFeature{
			Geometry:    geom,
			RoadClass:   column(record, "highway"),
			MaxSpeedKph: parseMaxSpeed(column(record, "maxspeed")),
		})
	}

	l.log.Info("wkt features loaded", "file", path, "features", len(features), "skipped_rows", skipped)
	return features, nil
}
