// Package valuation is the deterministic valuation engine: rental value,
// sale value (comparative, asset value, land value) and the rent-vs-sell
// comparison.
//
// An Engine evaluates one immutable rate table. It performs no I/O, holds no
// mutable state and is safe for concurrent use. Calculations never fail:
// missing or unknown inputs resolve to neutral rates. Callers validate
// numeric sanity (size > 0, property value > 0) before invoking it.
package valuation

import (
	"time"

	"github.com/stwalsh4118/immowert/api/internal/models"
	"github.com/stwalsh4118/immowert/api/internal/ratetable"
)

// Engine evaluates property inputs against a rate table snapshot.
type Engine struct {
	rates *ratetable.Table
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to determine the current year.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an Engine over rates. A nil table behaves like an empty
// one, so every lookup resolves to the hard defaults.
func NewEngine(rates *ratetable.Table, opts ...Option) *Engine {
	if rates == nil {
		rates = &ratetable.Table{}
	}
	e := &Engine{
		rates: rates,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rates returns the table the engine evaluates.
func (e *Engine) Rates() *ratetable.Table {
	return e.rates
}

func (e *Engine) currentYear() int {
	return e.now().Year()
}

func (e *Engine) resolveCity(id string) (ratetable.CityRates, models.CityRef) {
	city, found := e.rates.ResolveCity(id)
	return city, models.CityRef{ID: city.ID, Name: city.Name, Fallback: !found}
}

// locationLevel treats a missing rating as average.
func locationLevel(rating *int) int {
	if rating == nil {
		return ratetable.DefaultLocationLevel
	}
	return *rating
}
