package service

import (
	"context"
	"math"

	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
)

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000

// GeofenceService decides whether a location is inside an allowed zone.
type GeofenceService interface {
	WithinActiveZone(ctx context.Context, lat, lon *float64) (bool, error)
}

type geofenceService struct {
	geofenceRepo repository.GeofenceRepository
}

// NewGeofenceService creates a new GeofenceService instance.
func NewGeofenceService(geofenceRepo repository.GeofenceRepository) GeofenceService {
	return &geofenceService{geofenceRepo: geofenceRepo}
}

// WithinActiveZone reports whether the point falls inside any active
// geofence. Missing coordinates are never authorized.
func (s *geofenceService) WithinActiveZone(ctx context.Context, lat, lon *float64) (bool, error) {
	if lat == nil || lon == nil {
		return false, nil
	}

	geofences, err := s.geofenceRepo.ListActive(ctx)
	if err != nil {
		return false, err
	}

	for _, geofence := range geofences {
		distance := haversineDistance(*lat, *lon, geofence.CenterLat, geofence.CenterLon)
		if distance <= geofence.Radius {
			return true, nil
		}
	}
	return false, nil
}

// haversineDistance returns the great-circle distance in meters between
// two points given in degrees.
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
