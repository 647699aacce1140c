package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/immowert/api/internal/logger"
	"github.com/stwalsh4118/immowert/api/internal/ratetable"
)

// MockCityLister is a mock implementation of CityLister for testing
type MockCityLister struct {
	mock.Mock
}

func (m *MockCityLister) ListCities(ctx context.Context) ([]ratetable.CityRates, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	cities, ok := args.Get(0).([]ratetable.CityRates)
	if !ok {
		return nil, args.Error(1)
	}
	return cities, args.Error(1)
}

func TestStaticRatesProvider(t *testing.T) {
	table := ratetable.Default()

	got, err := NewStaticRatesProvider(table).Rates(context.Background())
	require.NoError(t, err)
	assert.Same(t, table, got)

	_, err = NewStaticRatesProvider(nil).Rates(context.Background())
	assert.ErrorIs(t, err, ErrRatesUnavailable)
}

func TestCachedRatesProvider_UnavailableBeforeRefresh(t *testing.T) {
	p := NewCachedRatesProvider(DefaultRateLoader(), logger.Nop())

	_, err := p.Rates(context.Background())

	assert.ErrorIs(t, err, ErrRatesUnavailable)
	assert.True(t, p.LoadedAt().IsZero())
}

func TestCachedRatesProvider_Refresh(t *testing.T) {
	p := NewCachedRatesProvider(DefaultRateLoader(), logger.Nop())
	ctx := context.Background()

	require.NoError(t, p.Refresh(ctx))

	table, err := p.Rates(ctx)
	require.NoError(t, err)
	assert.Len(t, table.Cities, 8)
	assert.False(t, p.LoadedAt().IsZero())
}

func TestCachedRatesProvider_FailedRefreshKeepsSnapshot(t *testing.T) {
	first := ratetable.Default()
	fail := false
	load := func(ctx context.Context) (*ratetable.Table, error) {
		if fail {
			return nil, errors.New("rates file vanished")
		}
		return first, nil
	}
	p := NewCachedRatesProvider(load, logger.Nop())
	ctx := context.Background()

	require.NoError(t, p.Refresh(ctx))

	fail = true
	err := p.Refresh(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rates file vanished")

	table, err := p.Rates(ctx)
	require.NoError(t, err)
	assert.Same(t, first, table)
}

func TestCachedRatesProvider_NilTableIsAnError(t *testing.T) {
	load := func(ctx context.Context) (*ratetable.Table, error) {
		return nil, nil
	}
	p := NewCachedRatesProvider(load, logger.Nop())

	err := p.Refresh(context.Background())

	assert.ErrorIs(t, err, ErrRatesUnavailable)
}

func TestCachedRatesProvider_StartStop(t *testing.T) {
	var loads atomic.Int32
	load := func(ctx context.Context) (*ratetable.Table, error) {
		loads.Add(1)
		return ratetable.Default(), nil
	}
	p := NewCachedRatesProvider(load, logger.Nop())

	require.NoError(t, p.Start(time.Second))
	assert.Error(t, p.Start(time.Second), "second Start should be rejected")

	assert.Eventually(t, func() bool {
		return loads.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond)

	p.Stop()
	stopped := loads.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, stopped, loads.Load(), "no reloads after Stop")

	// Stop is idempotent
	p.Stop()
}

func TestCachedRatesProvider_StartDisabled(t *testing.T) {
	p := NewCachedRatesProvider(DefaultRateLoader(), logger.Nop())

	assert.NoError(t, p.Start(0))
	p.Stop()
}

func TestFileRateLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	content := `cities:
  - id: bonn
    name: Bonn
    base_rent_price_per_sqm: 11.5
    size_degression_exponent: 0.2
    sale_factor: 25
    land_price_per_sqm: 600
    building_price_per_sqm: 2600
    apartment_price_per_sqm: 4200
    market_adjustment_factor: 1.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := FileRateLoader(path)(context.Background())

	require.NoError(t, err)
	require.Len(t, table.Cities, 1)
	assert.Equal(t, "bonn", table.Cities[0].ID)
	// Sections the file omits come from the defaults
	assert.Equal(t, 1.25, table.Conditions["new"])
}

func TestFileRateLoader_MissingFile(t *testing.T) {
	_, err := FileRateLoader(filepath.Join(t.TempDir(), "missing.yaml"))(context.Background())

	assert.Error(t, err)
}

func TestPostgresRateLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("overlays database cities", func(t *testing.T) {
		lister := new(MockCityLister)
		lister.On("ListCities", ctx).Return([]ratetable.CityRates{
			{ID: "bonn", Name: "Bonn", BaseRentPricePerSqm: 11.5},
		}, nil)

		table, err := PostgresRateLoader(lister, DefaultRateLoader())(ctx)

		require.NoError(t, err)
		require.Len(t, table.Cities, 1)
		assert.Equal(t, "bonn", table.Cities[0].ID)
		assert.NotEmpty(t, table.Conditions)
		lister.AssertExpectations(t)
	})

	t.Run("empty city table keeps base cities", func(t *testing.T) {
		lister := new(MockCityLister)
		lister.On("ListCities", ctx).Return([]ratetable.CityRates{}, nil)

		table, err := PostgresRateLoader(lister, DefaultRateLoader())(ctx)

		require.NoError(t, err)
		assert.Len(t, table.Cities, 8)
	})

	t.Run("database error", func(t *testing.T) {
		lister := new(MockCityLister)
		lister.On("ListCities", ctx).Return(nil, errors.New("connection reset"))

		_, err := PostgresRateLoader(lister, DefaultRateLoader())(ctx)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list city rates")
	})

	t.Run("invalid rows are rejected", func(t *testing.T) {
		lister := new(MockCityLister)
		lister.On("ListCities", ctx).Return([]ratetable.CityRates{
			{ID: "bonn", Name: "Bonn"},
			{ID: "bonn", Name: "Bonn again"},
		}, nil)

		_, err := PostgresRateLoader(lister, DefaultRateLoader())(ctx)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid city rates")
	})

	t.Run("base loader error", func(t *testing.T) {
		lister := new(MockCityLister)
		base := func(ctx context.Context) (*ratetable.Table, error) {
			return nil, errors.New("bad file")
		}

		_, err := PostgresRateLoader(lister, base)(ctx)

		assert.Error(t, err)
		lister.AssertNotCalled(t, "ListCities", mock.Anything)
	})
}
