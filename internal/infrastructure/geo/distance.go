package geo

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/platform/resilience"
)

const earthRadiusKM = 6371.0

var (
	ErrUnknownPostalCode = errors.New("unknown postal code")
	ErrNoCoordinates     = errors.New("location has no coordinates")
)

// Haversine returns the great-circle distance in kilometres.
func Haversine(from, to location.Location) (float64, error) {
	if !from.HasCoordinates() || !to.HasCoordinates() {
		return 0, ErrNoCoordinates
	}

	lat1 := radians(from.Latitude)
	lat2 := radians(to.Latitude)
	dLat := lat2 - lat1
	dLon := radians(to.Longitude - from.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Min(1, math.Sqrt(a))), nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Centroid is a postal area reference point.
type Centroid struct {
	Latitude  float64 `koanf:"lat"`
	Longitude float64 `koanf:"lon"`
}

// PostalResolver measures distance between locations, using coordinates
// when both sides have them and postal-area centroids otherwise. Postal
// codes match on their uppercased forward sortation prefix (first three
// characters), so "T2P 1J9" and "t2p" resolve alike.
type PostalResolver struct {
	mu        sync.RWMutex
	centroids map[string]Centroid
}

func NewPostalResolver(centroids map[string]Centroid) *PostalResolver {
	r := &PostalResolver{centroids: make(map[string]Centroid, len(centroids))}
	for code, c := range centroids {
		r.centroids[postalKey(code)] = c
	}
	return r
}

func (r *PostalResolver) Add(code string, c Centroid) {
	r.mu.Lock()
	r.centroids[postalKey(code)] = c
	r.mu.Unlock()
}

func (r *PostalResolver) Distance(from, to location.Location) (float64, error) {
	a, err := r.resolve(from)
	if err != nil {
		return 0, err
	}
	b, err := r.resolve(to)
	if err != nil {
		return 0, err
	}
	return Haversine(a, b)
}

func (r *PostalResolver) resolve(l location.Location) (location.Location, error) {
	if l.HasCoordinates() {
		return l, nil
	}

	key := postalKey(l.PostalCode)
	r.mu.RLock()
	c, ok := r.centroids[key]
	r.mu.RUnlock()
	if !ok {
		return location.Location{}, fmt.Errorf("%w: %q", ErrUnknownPostalCode, l.PostalCode)
	}
	return location.Location{Latitude: c.Latitude, Longitude: c.Longitude, PostalCode: l.PostalCode}, nil
}

func postalKey(code string) string {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), " ", ""))
	if len(key) > 3 {
		key = key[:3]
	}
	return key
}

// Guard wraps a distance function with a circuit breaker so a failing
// provider fails fast instead of slowing every validation.
func Guard(fn location.DistanceFunc, breaker *resilience.CircuitBreaker) location.DistanceFunc {
	if fn == nil || breaker == nil {
		return fn
	}
	return func(from, to location.Location) (float64, error) {
		var distance float64
		err := breaker.Execute(func() error {
			d, err := fn(from, to)
			if err != nil {
				return err
			}
			distance = d
			return nil
		})
		return distance, err
	}
}
