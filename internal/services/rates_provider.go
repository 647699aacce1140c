package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stwalsh4118/immowert/api/internal/logger"
	"github.com/stwalsh4118/immowert/api/internal/ratetable"
)

// refreshTimeout bounds a single scheduled reload.
const refreshTimeout = 30 * time.Second

// ErrRatesUnavailable is returned when no rate table snapshot has been loaded.
var ErrRatesUnavailable = errors.New("rate tables unavailable")

// RatesProvider hands out the current rate table snapshot. Snapshots are
// immutable; a reload swaps in a new one.
type RatesProvider interface {
	Rates(ctx context.Context) (*ratetable.Table, error)
}

// RateLoader builds a complete rate table from its source.
type RateLoader func(ctx context.Context) (*ratetable.Table, error)

// CityLister is the read side of the city rate store.
type CityLister interface {
	ListCities(ctx context.Context) ([]ratetable.CityRates, error)
}

// StaticRatesProvider always returns the same table.
type StaticRatesProvider struct {
	table *ratetable.Table
}

// NewStaticRatesProvider creates a provider over a fixed table.
func NewStaticRatesProvider(table *ratetable.Table) *StaticRatesProvider {
	return &StaticRatesProvider{table: table}
}

// Rates returns the fixed table, or ErrRatesUnavailable if it is nil.
func (p *StaticRatesProvider) Rates(ctx context.Context) (*ratetable.Table, error) {
	if p.table == nil {
		return nil, ErrRatesUnavailable
	}
	return p.table, nil
}

// CachedRatesProvider keeps the last successfully loaded table in memory and
// optionally reloads it on a cron schedule. A failed reload keeps serving the
// previous snapshot.
type CachedRatesProvider struct {
	load     RateLoader
	log      *logger.Logger
	current  atomic.Pointer[ratetable.Table]
	loadedAt atomic.Int64

	mu        sync.Mutex
	scheduler *cron.Cron
}

// NewCachedRatesProvider creates a provider that has not loaded anything yet.
// Call Refresh before serving traffic.
func NewCachedRatesProvider(load RateLoader, log *logger.Logger) *CachedRatesProvider {
	return &CachedRatesProvider{
		load: load,
		log:  log.WithComponent("rates_provider"),
	}
}

// Rates returns the current snapshot.
func (p *CachedRatesProvider) Rates(ctx context.Context) (*ratetable.Table, error) {
	t := p.current.Load()
	if t == nil {
		return nil, ErrRatesUnavailable
	}
	return t, nil
}

// Refresh loads a new snapshot and swaps it in.
func (p *CachedRatesProvider) Refresh(ctx context.Context) error {
	start := time.Now()

	t, err := p.load(ctx)
	if err != nil {
		p.log.Error("Failed to load rate tables", err, map[string]interface{}{
			"has_previous": p.current.Load() != nil,
		})
		return fmt.Errorf("failed to load rate tables: %w", err)
	}
	if t == nil {
		return fmt.Errorf("failed to load rate tables: %w", ErrRatesUnavailable)
	}

	p.current.Store(t)
	p.loadedAt.Store(time.Now().Unix())

	p.log.Info("Rate tables loaded", map[string]interface{}{
		"cities":      len(t.Cities),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// LoadedAt returns when the current snapshot was loaded, or the zero time.
func (p *CachedRatesProvider) LoadedAt() time.Time {
	sec := p.loadedAt.Load()
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// Start reloads the tables every interval until Stop is called.
// A non-positive interval disables periodic reloads.
func (p *CachedRatesProvider) Start(interval time.Duration) error {
	if interval <= 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.scheduler != nil {
		return fmt.Errorf("rates refresh already started")
	}

	c := cron.New()
	_, err := c.AddFunc("@every "+interval.String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		// Errors are logged by Refresh; the previous snapshot stays active.
		_ = p.Refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule rates refresh: %w", err)
	}

	c.Start()
	p.scheduler = c

	p.log.Info("Rates refresh scheduled", map[string]interface{}{
		"interval": interval.String(),
	})
	return nil
}

// Stop halts periodic reloads and waits for a running reload to finish.
func (p *CachedRatesProvider) Stop() {
	p.mu.Lock()
	c := p.scheduler
	p.scheduler = nil
	p.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
}

// DefaultRateLoader returns the built-in tables.
func DefaultRateLoader() RateLoader {
	return func(ctx context.Context) (*ratetable.Table, error) {
		return ratetable.Default(), nil
	}
}

// FileRateLoader reads the tables from a YAML file on every load.
func FileRateLoader(path string) RateLoader {
	return func(ctx context.Context) (*ratetable.Table, error) {
		return ratetable.LoadFile(path)
	}
}

// PostgresRateLoader overlays the city rows stored in the database onto the
// tables produced by base. An empty city table keeps the base cities.
func PostgresRateLoader(cities CityLister, base RateLoader) RateLoader {
	return func(ctx context.Context) (*ratetable.Table, error) {
		t, err := base(ctx)
		if err != nil {
			return nil, err
		}

		rows, err := cities.ListCities(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list city rates: %w", err)
		}

		merged := t.WithCities(rows)
		if err := merged.Validate(); err != nil {
			return nil, fmt.Errorf("invalid city rates: %w", err)
		}
		return merged, nil
	}
}
