package osmparser

import (
	"strconv"
	"strings"

	"github.com/paulmach/osm"
)

const TravelModeDriving = "driving"

var drivableRoadType = map[string]bool{
	"motorway":       true,
	"trunk":          true,
	"primary":        true,
	"secondary":      true,
	"tertiary":       true,
	"unclassified":   true,
	"residential":    true,
	"motorway_link":  true,
	"trunk_link":     true,
	"primary_link":   true,
	"secondary_link": true,
	"tertiary_link":  true,
	"living_street":  true,
	"road":           true,
	"service":        true,
}

// isOsmWayUsedByCars
// https://github.com/RoutingKit/RoutingKit/blob/master/src/osm_profile.cpp  [is_osm_way_used_by_cars()]
func isOsmWayUsedByCars(tagMap map[string]string) bool {
	highway, ok := tagMap["highway"]
	if !ok {
		return false
	}

	if tagMap["motorcar"] == "no" || tagMap["motor_vehicle"] == "no" {
		return false
	}

	if access, ok := tagMap["access"]; ok {
		if !(access == "yes" || access == "permissive" || access == "designated" || access == "delivery" || access == "destination") {
			return false
		}
	}

	if service, ok := tagMap["service"]; ok && highway == "service" {
		if service == "parking_aisle" || service == "driveway" || service == "emergency_access" {
			return false
		}
	}

	if tagMap["area"] == "yes" {
		return false
	}

	return drivableRoadType[highway]
}

type wayDirection int

const (
	bothWays wayDirection = iota
	forwardOnly
	backwardOnly
)

func onewayDirection(tags osm.Tags) wayDirection {
	switch tags.Find("oneway") {
	case "yes", "1", "true":
		return forwardOnly
	case "-1", "reverse":
		return backwardOnly
	case "no", "0", "false":
		return bothWays
	}
	if j := tags.Find("junction"); j == "roundabout" || j == "circular" {
		return forwardOnly
	}
	if tags.Find("highway") == "motorway" {
		return forwardOnly
	}
	return bothWays
}

// parseMaxSpeed understands "50", "50 km/h" and "30 mph". Unparseable values yield 0.
func parseMaxSpeed(val string) float64 {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0
	}
	if i := strings.IndexAny(val, ";,"); i >= 0 {
		val = val[:i]
	}
	mph := strings.HasSuffix(val, "mph")
	val = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(val, "mph"), "km/h"))
	speed, err := strconv.ParseFloat(val, 64)
	if err != nil || speed <= 0 {
		return 0
	}
	if mph {
		speed *= 1.609344
	}
	return speed
}
