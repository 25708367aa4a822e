package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

const (
	// LatitudeMin is the southern bound of a valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the northern bound of a valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the western bound of a valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the eastern bound of a valid longitude in degrees.
	LongitudeMax = 180.0

	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0
)

// ErrLocationIsNotConstructed is returned when attempting to use an improperly initialized Location.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation constructor")

// Location is a WGS84 coordinate pair. It is an immutable value object; the zero value
// is invalid and fails Validate, so an entity whose position was never reported cannot
// be confused with a partner standing at (0, 0) in the Gulf of Guinea.
//
// Example:
//
//	vendor, err := kernel.NewLocation(12.90, 77.60)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(vendor) // Output: Location(12.900000,77.600000)
type Location struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewLocation creates a Location from a latitude in [LatitudeMin, LatitudeMax] and a
// longitude in [LongitudeMin, LongitudeMax].
//
// Parameters:
//   - latitude: degrees north (negative for south)
//   - longitude: degrees east (negative for west)
//
// Returns:
//   - Location: A valid location instance
//   - error: every violated bound, joined
//
// Example:
//
//	loc, err := NewLocation(12.9081, 77.6476)
//	if err != nil {
//	    log.Fatal("Invalid coordinates:", err)
//	}
func NewLocation(latitude, longitude float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLatitude(latitude), loc.setLongitude(longitude)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// MustNewLocation is NewLocation for coordinates known to be valid. It panics otherwise.
func MustNewLocation(latitude, longitude float64) Location {
	loc, err := NewLocation(latitude, longitude)
	if err != nil {
		panic(err)
	}
	return loc
}

// Validate checks if the Location was properly constructed using a constructor.
//
// Returns:
//   - error: ErrLocationIsNotConstructed if the location was not properly initialized, nil otherwise
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Latitude returns degrees north.
func (l Location) Latitude() float64 {
	return l.latitude
}

// Longitude returns degrees east.
func (l Location) Longitude() float64 {
	return l.longitude
}

// String implements fmt.Stringer in the format "Location(lat,lon)".
func (l Location) String() string {
	return fmt.Sprintf("Location(%f,%f)", l.latitude, l.longitude)
}

// IsEqual reports whether both locations hold the same coordinates.
// Both locations must be properly constructed for the comparison to succeed.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l == other, nil
}

// DistanceKm returns the great-circle distance to other in kilometres.
//
// The haversine formula is used with EarthRadiusKm. The result is symmetric and is
// zero for identical coordinates.
//
// Parameters:
//   - other: The Location to calculate distance to
//
// Returns:
//   - float64: distance in kilometres
//   - error: Validation error if either location is improperly constructed
//
// Example:
//
//	vendor, _ := NewLocation(12.90, 77.60)
//	customer, _ := NewLocation(12.909, 77.60)
//	km, _ := vendor.DistanceKm(customer) // ≈ 1.0
func (l Location) DistanceKm(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	return haversineKm(l.latitude, l.longitude, other.latitude, other.longitude), nil
}

// DistanceKm is the total form of Location.DistanceKm for locations that already
// passed validation, as every Location obtained from NewLocation does.
func DistanceKm(a, b Location) float64 {
	return haversineKm(a.latitude, a.longitude, b.latitude, b.longitude)
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// setLatitude sets the latitude with validation.
// Private setters use pointer receivers so construction can validate in place.
func (l *Location) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	l.latitude = latitude
	return nil
}

func (l *Location) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	l.longitude = longitude
	return nil
}
