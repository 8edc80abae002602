package geo

import (
	"errors"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// kmToMiles converts kilometers to statute miles.
const kmToMiles = 0.621371

var (
	ErrInvalidLatitude  = errors.New("latitude must be a number between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be a number between -180 and 180")
)

// Distance returns the great-circle distance in kilometers between
// (lat1, lon1) and (lat2, lon2), all given in degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push a just past 1 for antipodal points.
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Asin(math.Sqrt(a))

	return EarthRadiusKm * c
}

// ValidateCoordinates reports whether lat/lon are finite and within range.
// Values are never clamped.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return ErrInvalidLatitude
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < -180 || lon > 180 {
		return ErrInvalidLongitude
	}
	return nil
}

// KmToMiles converts a distance for presentation.
func KmToMiles(km float64) float64 {
	return km * kmToMiles
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}
