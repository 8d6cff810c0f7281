package domain

import "time"

// WasteLevel is the categorical fill state of a container.
type WasteLevel string

const (
	WasteLevelLight  WasteLevel = "LIGHT"
	WasteLevelMedium WasteLevel = "MEDIUM"
	WasteLevelHeavy  WasteLevel = "HEAVY"
)

// Thresholds are inclusive upper bounds: a reading equal to a threshold
// belongs to the lower bucket.
const (
	LightThreshold  = 33.0
	MediumThreshold = 66.0
)

// WasteLevelFromValue buckets a waste-level reading in [0, 100].
func WasteLevelFromValue(v float64) WasteLevel {
	switch {
	case v <= LightThreshold:
		return WasteLevelLight
	case v <= MediumThreshold:
		return WasteLevelMedium
	default:
		return WasteLevelHeavy
	}
}

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the interval, both ends included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Sampling bounds for generated containers. The coordinate box covers Bogotá.
var (
	LatitudeRange    = Range{Min: 4.4988, Max: 4.7955}
	LongitudeRange   = Range{Min: -74.2057, Max: -74.0200}
	WasteLevelRange  = Range{Min: 0, Max: 100}
	TemperatureRange = Range{Min: 20, Max: 30}
)

// Decimal places each sampled field is rounded to.
const (
	CoordinateDecimals  = 8
	WasteLevelDecimals  = 4
	TemperatureDecimals = 2
)

// Addresses is the fixed pool of placeholder street addresses.
var Addresses = []string{
	"Carrera test 7 # 45-32", "Avenida test 19 # 120-50", "Calle test 85 # 11-23",
	"Carrera test 15 # 32-45", "Avenida test 68 # 45-23", "Calle test 100 # 15-32",
	"Carrera test 11 # 85-12", "Avenida test 26 # 52-34", "Calle test 72 # 10-45",
	"Carrera test 5 # 23-67", "Avenida test 39 # 15-28", "Calle test 45 # 22-10",
}

// Timestamp window, whole seconds, both ends inclusive.
var (
	WindowStart = time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	WindowEnd   = time.Date(2025, time.August, 31, 23, 59, 59, 0, time.UTC)
)

// WindowSeconds is the whole-second span between WindowStart and WindowEnd.
func WindowSeconds() int64 {
	return int64(WindowEnd.Sub(WindowStart) / time.Second)
}

// TimestampLayout formats created_at/updated_at as YYYY-MM-DD HH:MM:SS.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	DefaultCityID     int64 = 1
	DefaultCustomerID int64 = 1
)

// Container is one synthetic row of the containers table. It only exists
// for the duration of a generation run.
type Container struct {
	ID               string
	Latitude         float64
	Longitude        float64
	WasteLevelValue  float64
	WasteLevelStatus WasteLevel
	Temperature      float64
	Address          string
	CityID           int64
	CustomerID       int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
