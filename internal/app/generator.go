package app

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/scgm/containergen/internal/domain"
)

// Generator produces synthetic containers from an injected random source.
// It performs no I/O. A Generator is not safe for concurrent use because
// *rand.Rand is not.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator drawing all randomness from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// NewSeededGenerator is shorthand for a generator over rand.NewSource(seed).
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

// Next generates one container. The order in which fields consume
// randomness is fixed, so equal seeds give equal sequences.
func (g *Generator) Next() (domain.Container, error) {
	id, err := generateID(g.rng)
	if err != nil {
		return domain.Container{}, fmt.Errorf("generating container id: %w", err)
	}

	lat := round(g.uniform(domain.LatitudeRange), domain.CoordinateDecimals)
	lon := round(g.uniform(domain.LongitudeRange), domain.CoordinateDecimals)
	waste := round(g.uniform(domain.WasteLevelRange), domain.WasteLevelDecimals)
	temp := round(g.uniform(domain.TemperatureRange), domain.TemperatureDecimals)

	address := domain.Addresses[g.rng.Intn(len(domain.Addresses))]

	offset := g.rng.Int63n(domain.WindowSeconds() + 1)
	ts := domain.WindowStart.Add(time.Duration(offset) * time.Second)

	return domain.Container{
		ID:               id,
		Latitude:         lat,
		Longitude:        lon,
		WasteLevelValue:  waste,
		WasteLevelStatus: domain.WasteLevelFromValue(waste),
		Temperature:      temp,
		Address:          address,
		CityID:           domain.DefaultCityID,
		CustomerID:       domain.DefaultCustomerID,
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}, nil
}

// Generate returns n containers in generation order. n <= 0 yields none.
func (g *Generator) Generate(n int) ([]domain.Container, error) {
	out := make([]domain.Container, 0, max(n, 0))
	for i := 0; i < n; i++ {
		c, err := g.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (g *Generator) uniform(r domain.Range) float64 {
	return r.Min + (r.Max-r.Min)*g.rng.Float64()
}

// round rounds v to the given number of decimals using correctly rounded
// decimal conversion rather than scaling, which drifts on values like 2.675.
func round(v float64, decimals int) float64 {
	out, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	if err != nil {
		return v
	}
	return out
}
