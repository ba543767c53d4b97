package location

import (
	"fmt"
	"strings"
)

// Location is a home or venue position. Either coordinates or a postal
// code may be present; the distance function decides which it uses.
type Location struct {
	Latitude   float64
	Longitude  float64
	PostalCode string
	Label      string
}

func (l Location) HasCoordinates() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

func (l Location) IsZero() bool {
	return !l.HasCoordinates() && strings.TrimSpace(l.PostalCode) == ""
}

func (l Location) String() string {
	switch {
	case l.Label != "":
		return l.Label
	case l.PostalCode != "":
		return l.PostalCode
	case l.HasCoordinates():
		return fmt.Sprintf("%.5f,%.5f", l.Latitude, l.Longitude)
	default:
		return "unknown"
	}
}

// DistanceFunc measures the distance between two locations in the unit
// used for officials' maximum travel distance.
type DistanceFunc func(from, to Location) (float64, error)
