package donor

import "math"

const earthRadiusMeters = 6371000

// DistanceMeters is the haversine great-circle distance between two
// (longitude, latitude) points, in meters.
func DistanceMeters(lon1, lat1, lon2, lat2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// WithinRadius reports whether the point is inside the radius (meters)
// around the center.
func WithinRadius(centerLon, centerLat, lon, lat, radius float64) bool {
	return DistanceMeters(centerLon, centerLat, lon, lat) <= radius
}
