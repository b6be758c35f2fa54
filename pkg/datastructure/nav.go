package datastructure

import (
	"fmt"
	"math"
)

// Coordinate is a (longitude, latitude) pair in degrees. Two coordinates are the same node only
// when both fields are exactly equal.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

func NewCoordinate(lon, lat float64) Coordinate {
	return Coordinate{
		Lon: lon,
		Lat: lat,
	}
}

func (c Coordinate) IsValid() bool {
	return !math.IsNaN(c.Lon) && !math.IsNaN(c.Lat) && !math.IsInf(c.Lon, 0) && !math.IsInf(c.Lat, 0)
}

// LatLon returns [lat, lon], the order used by polylines and the route response.
func (c Coordinate) LatLon() [2]float64 {
	return [2]float64{c.Lat, c.Lon}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("Lon: %f | Lat: %f", c.Lon, c.Lat)
}
