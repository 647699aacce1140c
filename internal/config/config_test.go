package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Log.Level != "" {
		t.Errorf("Expected empty log level, got %s", cfg.Log.Level)
	}
	if cfg.Rates.Source != RatesSourceDefault {
		t.Errorf("Expected rates source default, got %s", cfg.Rates.Source)
	}
	if cfg.Rates.Refresh != 0 {
		t.Errorf("Expected no refresh interval, got %s", cfg.Rates.Refresh)
	}
	if cfg.UsesDatabase() {
		t.Error("Expected default rate source not to use the database")
	}
	if cfg.Database.Name != "immowert" {
		t.Errorf("Expected db name immowert, got %s", cfg.Database.Name)
	}
	if cfg.Database.PoolMin != 2 {
		t.Errorf("Expected pool min 2, got %d", cfg.Database.PoolMin)
	}
	if cfg.Database.PoolMax != 10 {
		t.Errorf("Expected pool max 10, got %d", cfg.Database.PoolMax)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	clearConfigEnvVars()
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("RATES_SOURCE", "postgres")
	t.Setenv("RATES_REFRESH", "15m")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_POOL_MIN", "5")
	t.Setenv("DB_POOL_MAX", "20")
	t.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.Server.Env)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected log level warn, got %s", cfg.Log.Level)
	}
	if !cfg.UsesDatabase() {
		t.Error("Expected postgres rate source to use the database")
	}
	if cfg.Rates.Refresh != 15*time.Minute {
		t.Errorf("Expected refresh 15m, got %s", cfg.Rates.Refresh)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected host localhost, got %s", cfg.Database.Host)
	}
	if cfg.Database.Password != "testpass" {
		t.Errorf("Expected password testpass, got %s", cfg.Database.Password)
	}
	if cfg.Database.PoolMin != 5 {
		t.Errorf("Expected pool min 5, got %d", cfg.Database.PoolMin)
	}
	if cfg.Database.PoolMax != 20 {
		t.Errorf("Expected pool max 20, got %d", cfg.Database.PoolMax)
	}
	if cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Expected first origin http://example.com, got %s", cfg.CORS.Origins[0])
	}
}

func TestLoad_PostgresSourceRequiresPassword(t *testing.T) {
	clearConfigEnvVars()
	t.Setenv("RATES_SOURCE", "postgres")

	if _, err := Load(); err == nil {
		t.Error("Expected error when DB_PASSWORD is missing for the postgres rate source")
	}
}

func TestLoad_FileSourceRequiresPath(t *testing.T) {
	clearConfigEnvVars()
	t.Setenv("RATES_SOURCE", "file")

	if _, err := Load(); err == nil {
		t.Error("Expected error when RATES_FILE is missing for the file rate source")
	}

	t.Setenv("RATES_FILE", "/etc/immowert/rates.yaml")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Rates.File != "/etc/immowert/rates.yaml" {
		t.Errorf("Expected rates file path, got %s", cfg.Rates.File)
	}
}

func TestValidate_InvalidPoolSizes(t *testing.T) {
	tests := []struct {
		name    string
		poolMin int
		poolMax int
		wantErr bool
	}{
		{name: "negative pool min", poolMin: -1, poolMax: 10, wantErr: true},
		{name: "zero pool max", poolMin: 0, poolMax: 0, wantErr: true},
		{name: "pool min greater than max", poolMin: 15, poolMax: 10, wantErr: true},
		{name: "valid pool sizes", poolMin: 2, poolMax: 10, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Rates.Source = RatesSourcePostgres
			cfg.Database.PoolMin = tt.poolMin
			cfg.Database.PoolMax = tt.poolMax

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_DatabaseIgnoredWithoutPostgres(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected no error for default rate source, got %v", err)
	}
}

func TestValidate_InvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "verbose" }},
		{name: "unknown rates source", mutate: func(c *Config) { c.Rates.Source = "s3" }},
		{name: "negative refresh", mutate: func(c *Config) { c.Rates.Refresh = -time.Second }},
		{name: "missing db host", mutate: func(c *Config) {
			c.Rates.Source = RatesSourcePostgres
			c.Database.Host = ""
		}},
		{name: "missing db password", mutate: func(c *Config) {
			c.Rates.Source = RatesSourcePostgres
			c.Database.Password = ""
		}},
		{name: "missing CORS origins", mutate: func(c *Config) { c.CORS.Origins = []string{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error but got none")
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "single origin",
			input:  "http://localhost:3000",
			expect: []string{"http://localhost:3000"},
		},
		{
			name:   "multiple origins",
			input:  "http://localhost:3000,http://localhost:3001",
			expect: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		{
			name:   "origins with spaces",
			input:  " http://localhost:3000 , http://localhost:3001 ",
			expect: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		{
			name:   "empty string",
			input:  "",
			expect: []string{},
		},
		{
			name:   "only commas",
			input:  ",,,",
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseOrigins(tt.input)
			if len(result) != len(tt.expect) {
				t.Errorf("Expected %d origins, got %d", len(tt.expect), len(result))
				return
			}
			for i, origin := range result {
				if origin != tt.expect[i] {
					t.Errorf("Expected origin %s at index %d, got %s", tt.expect[i], i, origin)
				}
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Env: "development"},
		Rates:  RatesConfig{Source: RatesSourceDefault},
		Database: DatabaseConfig{
			Host: "localhost", Port: "5432", Name: "immowert",
			User: "postgres", Password: "postgres", PoolMin: 2, PoolMax: 10,
		},
		CORS: CORSConfig{Origins: []string{"http://localhost:3000"}},
	}
}

// clearConfigEnvVars unsets every config variable for the rest of the test.
func clearConfigEnvVars() {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL",
		"RATES_SOURCE", "RATES_FILE", "RATES_REFRESH",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_POOL_MIN", "DB_POOL_MAX",
		"CORS_ORIGINS",
	} {
		os.Unsetenv(key)
	}
}
