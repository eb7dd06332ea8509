package search

import (
	"math"

	"flathunt-backend/internal/domain"
)

const earthRadiusMeters = 6371000.0

// Centroid computes the spherical centroid of the given points: each
// (lat, lon) becomes a unit vector on the sphere, the vectors are averaged,
// and the average is converted back to coordinates. Unlike a naive mean of
// latitudes and longitudes this behaves correctly near the antimeridian and
// the poles.
func Centroid(points []domain.Point) domain.Point {
	if len(points) == 0 {
		return domain.Point{}
	}

	var x, y, z float64
	for _, p := range points {
		lat := p.Lat * math.Pi / 180
		lon := p.Lon * math.Pi / 180
		x += math.Cos(lat) * math.Cos(lon)
		y += math.Cos(lat) * math.Sin(lon)
		z += math.Sin(lat)
	}
	total := float64(len(points))
	x /= total
	y /= total
	z /= total

	lon := math.Atan2(y, x)
	hyp := math.Sqrt(x*x + y*y)
	lat := math.Atan2(z, hyp)

	return domain.Point{
		Lat: lat * 180 / math.Pi,
		Lon: lon * 180 / math.Pi,
	}
}

// Distance returns the great-circle distance between two points in meters
// (haversine formula).
func Distance(a, b domain.Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
