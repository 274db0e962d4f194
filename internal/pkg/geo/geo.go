// Package geo evaluates check-in coordinates against office geofences.
package geo

import (
	"fmt"
	"math"

	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/validator"
)

// EarthRadiusMeters is the mean radius used by the Haversine formula.
const EarthRadiusMeters = 6371000

type Point struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Office is a geofence center with its own tolerance.
type Office struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Address      string  `json:"address,omitempty" yaml:"address"`
	Latitude     float64 `json:"latitude" yaml:"latitude"`
	Longitude    float64 `json:"longitude" yaml:"longitude"`
	RadiusMeters float64 `json:"radius_meters" yaml:"radius_meters"`
	IsActive     bool    `json:"is_active" yaml:"is_active"`
}

func (o Office) Point() Point {
	return Point{Latitude: o.Latitude, Longitude: o.Longitude}
}

type Evaluation struct {
	Office        Office  `json:"office"`
	Distance      float64 `json:"distance"`
	IsWithinRange bool    `json:"is_within_range"`
}

// DistanceMeters returns the great-circle distance between a and b rounded to the nearest meter.
func DistanceMeters(a, b Point) float64 {
	dLat := (b.Latitude - a.Latitude) * (math.Pi / 180.0)
	dLon := (b.Longitude - a.Longitude) * (math.Pi / 180.0)

	lat1Rad := a.Latitude * (math.Pi / 180.0)
	lat2Rad := b.Latitude * (math.Pi / 180.0)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	// float error can push h just outside [0,1] for antipodal points
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	d := math.Round(EarthRadiusMeters * c)
	if math.IsNaN(d) {
		return 0
	}
	return d
}

// Evaluate reports the distance from p to office and whether it falls inside the office radius.
func Evaluate(p Point, office Office) Evaluation {
	d := DistanceMeters(p, office.Point())
	return Evaluation{
		Office:        office,
		Distance:      d,
		IsWithinRange: d <= office.RadiusMeters,
	}
}

// FindNearestOffice returns the evaluation against the closest active office.
// ok is false when no active office exists.
func FindNearestOffice(p Point, offices []Office) (nearest Evaluation, ok bool) {
	for _, office := range offices {
		if !office.IsActive {
			continue
		}
		ev := Evaluate(p, office)
		if !ok || ev.Distance < nearest.Distance {
			nearest = ev
			ok = true
		}
	}
	return nearest, ok
}

// ValidateCoordinates returns every violation found in p; (0,0) is treated as unset.
func ValidateCoordinates(p Point) validator.ValidationErrors {
	var errs validator.ValidationErrors

	latFinite := !math.IsNaN(p.Latitude) && !math.IsInf(p.Latitude, 0)
	lngFinite := !math.IsNaN(p.Longitude) && !math.IsInf(p.Longitude, 0)

	if !latFinite {
		errs.Add("latitude", "must be a finite number")
	} else if p.Latitude < -90 || p.Latitude > 90 {
		errs.Add("latitude", "must be between -90 and 90")
	}

	if !lngFinite {
		errs.Add("longitude", "must be a finite number")
	} else if p.Longitude < -180 || p.Longitude > 180 {
		errs.Add("longitude", "must be between -180 and 180")
	}

	if latFinite && lngFinite && p.Latitude == 0 && p.Longitude == 0 {
		errs.Add("location", "coordinates (0,0) are not a valid position")
	}

	return errs
}

// Accuracy levels reported by the device GPS.
const (
	AccuracyExcellent = "excellent"
	AccuracyGood      = "good"
	AccuracyFair      = "fair"
	AccuracyPoor      = "poor"
)

func AccuracyLevel(meters float64) string {
	switch {
	case meters <= 5:
		return AccuracyExcellent
	case meters <= 20:
		return AccuracyGood
	case meters <= 50:
		return AccuracyFair
	default:
		return AccuracyPoor
	}
}

// FormatDistance renders meters for chat messages, e.g. "850 m" or "1.20 km".
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.2f km", meters/1000)
}
