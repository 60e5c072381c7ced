package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
env: "production"
storage_connection_string: "postgres://localhost:5432/runmeet"
http_server:
  addresshttp: ":9090"
  timeouthttp: 4s
  idle_timeout: 30s
jwttoken:
  jwt_secret_key: "supersecret"
  token_ttl: 1h
stripe:
  secret_key: "sk_test_123"
  price_id: "price_123"
  public_base_url: "https://runmeet.example"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg := MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, ":9090", cfg.AddressHTTP)
	assert.Equal(t, "sk_test_123", cfg.Stripe.SecretKey)
	assert.Equal(t, "https://js.stripe.com", cfg.Stripe.CheckoutOrigin)
	assert.Equal(t, "./migrations", cfg.MigrationsPath)
}

func TestMustLoad_ResolvedFallbacks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
env: "development"
storage_connection_string: "postgres://localhost:5432/runmeet"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("CHECKOUT_ORIGIN", "https://pay.example")
	t.Setenv("LEGACY_GEO_API_KEY", "legacy-geo-key")

	cfg := MustLoad()

	// Устаревшие имена env-переменных подхватываются, когда файл
	// и каноническое имя молчат.
	assert.Equal(t, "https://pay.example", cfg.Stripe.CheckoutOrigin)
	assert.Equal(t, "legacy-geo-key", cfg.Geo.GeoAPIKey)
	assert.Equal(t, DefaultGeoBaseURL, cfg.Geo.GeoBaseURL)
}

func TestResolve_Precedence(t *testing.T) {
	env := map[string]string{
		"GEO_API_KEY":        "from-primary",
		"LEGACY_GEO_API_KEY": "from-fallback",
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	tests := []struct {
		name     string
		explicit string
		env      map[string]string
		want     string
	}{
		{
			name:     "explicit wins over everything",
			explicit: "explicit-key",
			env:      env,
			want:     "explicit-key",
		},
		{
			name: "primary env wins over fallback",
			env:  env,
			want: "from-primary",
		},
		{
			name: "fallback used when primary missing",
			env:  map[string]string{"LEGACY_GEO_API_KEY": "from-fallback"},
			want: "from-fallback",
		},
		{
			name: "default when nothing set",
			env:  map[string]string{},
			want: "default-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup = func(name string) (string, bool) {
				v, ok := tt.env[name]
				return v, ok
			}
			got := Resolve(tt.explicit, lookup, "GEO_API_KEY", []string{"LEGACY_GEO_API_KEY"}, "default-key")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_EmptyEnvValueSkipped(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "GEO_API_KEY" {
			return "", true
		}
		return "", false
	}
	got := Resolve("", lookup, "GEO_API_KEY", nil, "fallback-default")
	assert.Equal(t, "fallback-default", got)
}
