package asd

import (
	"fmt"
	"math"

	"github.com/adrianmo/go-nmea"
)

// GPSData is the GPS block of the header. Latitude and longitude are stored
// the way the receiver reports them in NMEA sentences (ddmm.mmmm, signed).
type GPSData struct {
	TrueHeading float64
	Speed       float64
	Latitude    float64
	Longitude   float64
	Altitude    float64
}

// HasFix reports whether the header carries a position
func (g GPSData) HasFix() bool {
	return g.Latitude != 0 || g.Longitude != 0
}

// DecimalLatitude converts the stored latitude to decimal degrees
func (g GPSData) DecimalLatitude() (float64, error) {
	return nmeaToDecimal(g.Latitude, nmea.North, nmea.South)
}

// DecimalLongitude converts the stored longitude to decimal degrees
func (g GPSData) DecimalLongitude() (float64, error) {
	return nmeaToDecimal(g.Longitude, nmea.East, nmea.West)
}

// Position returns the position as "lat, lon" in degrees/minutes/seconds
func (g GPSData) Position() (string, error) {
	lat, err := g.DecimalLatitude()
	if err != nil {
		return "", err
	}
	lon, err := g.DecimalLongitude()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s, %s %s",
		nmea.FormatDMS(lat), hemisphere(lat, nmea.North, nmea.South),
		nmea.FormatDMS(lon), hemisphere(lon, nmea.East, nmea.West)), nil
}

func nmeaToDecimal(v float64, positive, negative string) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid GPS coordinate %v", v)
	}
	deg, err := nmea.ParseGPS(fmt.Sprintf("%.6f %s", math.Abs(v), hemisphere(v, positive, negative)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse GPS coordinate %v: %w", v, err)
	}
	return deg, nil
}

func hemisphere(v float64, positive, negative string) string {
	if v < 0 {
		return negative
	}
	return positive
}
