package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var headOffice = Office{
	ID:           "hq",
	Name:         "Head Office",
	Latitude:     13.7460,
	Longitude:    100.5352,
	RadiusMeters: 100,
	IsActive:     true,
}

func TestDistanceMeters(t *testing.T) {
	a := Point{Latitude: 13.7460, Longitude: 100.5352}

	t.Run("zero for same point", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceMeters(a, a))
	})

	t.Run("symmetric", func(t *testing.T) {
		points := []Point{
			{Latitude: 13.7563, Longitude: 100.5018},
			{Latitude: -33.8688, Longitude: 151.2093},
			{Latitude: 51.5074, Longitude: -0.1278},
			{Latitude: -13.7460, Longitude: -79.4648},
		}
		for _, b := range points {
			assert.Equal(t, DistanceMeters(a, b), DistanceMeters(b, a))
		}
	})

	t.Run("rounded to meter", func(t *testing.T) {
		b := Point{Latitude: 13.7470, Longitude: 100.5352}
		d := DistanceMeters(a, b)
		assert.Equal(t, 111.0, d)
		assert.Equal(t, d, math.Round(d))
	})

	t.Run("antipodal points stay finite", func(t *testing.T) {
		d := DistanceMeters(Point{Latitude: 90, Longitude: 0}, Point{Latitude: -90, Longitude: 0})
		assert.False(t, math.IsNaN(d))
		assert.InDelta(t, math.Pi*EarthRadiusMeters, d, 1)
	})
}

func TestEvaluateBoundary(t *testing.T) {
	p := Point{Latitude: 13.7468, Longitude: 100.5358}
	d := DistanceMeters(p, headOffice.Point())
	require.Greater(t, d, 1.0)

	atEdge := headOffice
	atEdge.RadiusMeters = d
	assert.True(t, Evaluate(p, atEdge).IsWithinRange)

	// p now sits at radius + 1
	outside := headOffice
	outside.RadiusMeters = d - 1
	ev := Evaluate(p, outside)
	assert.False(t, ev.IsWithinRange)
	assert.Equal(t, d, ev.Distance)
}

func TestFindNearestOffice(t *testing.T) {
	p := Point{Latitude: 13.7461, Longitude: 100.5352}
	branch := Office{ID: "branch", Latitude: 13.7000, Longitude: 100.5000, RadiusMeters: 200, IsActive: true}
	closedNearby := Office{ID: "closed", Latitude: 13.7461, Longitude: 100.5352, RadiusMeters: 50, IsActive: false}

	t.Run("picks closest active office", func(t *testing.T) {
		ev, ok := FindNearestOffice(p, []Office{branch, closedNearby, headOffice})
		require.True(t, ok)
		assert.Equal(t, "hq", ev.Office.ID)
		assert.True(t, ev.IsWithinRange)
	})

	t.Run("none when list empty", func(t *testing.T) {
		_, ok := FindNearestOffice(p, nil)
		assert.False(t, ok)
	})

	t.Run("none when every office inactive", func(t *testing.T) {
		_, ok := FindNearestOffice(p, []Office{closedNearby})
		assert.False(t, ok)
	})

	t.Run("reports out of range for nearest office", func(t *testing.T) {
		ev, ok := FindNearestOffice(p, []Office{branch})
		require.True(t, ok)
		assert.False(t, ev.IsWithinRange)
	})
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name   string
		point  Point
		fields []string
	}{
		{"valid", Point{Latitude: 13.7460, Longitude: 100.5352}, nil},
		{"zero sentinel", Point{}, []string{"location"}},
		{"latitude out of range", Point{Latitude: 91, Longitude: 100}, []string{"latitude"}},
		{"longitude out of range", Point{Latitude: 13, Longitude: -181}, []string{"longitude"}},
		{"NaN latitude", Point{Latitude: math.NaN(), Longitude: 100}, []string{"latitude"}},
		{"infinite both", Point{Latitude: math.Inf(1), Longitude: math.Inf(-1)}, []string{"latitude", "longitude"}},
		{"one axis zero is fine", Point{Latitude: 0, Longitude: 100.5}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCoordinates(tt.point)
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestAccuracyLevel(t *testing.T) {
	assert.Equal(t, AccuracyExcellent, AccuracyLevel(5))
	assert.Equal(t, AccuracyGood, AccuracyLevel(19.9))
	assert.Equal(t, AccuracyFair, AccuracyLevel(50))
	assert.Equal(t, AccuracyPoor, AccuracyLevel(50.1))
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "850 m", FormatDistance(850))
	assert.Equal(t, "1.20 km", FormatDistance(1200))
}
