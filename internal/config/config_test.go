package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "DB_CONNECT_TIMEOUT",
		"ADMIN_EMAIL", "ADMIN_PASSWORD", "SESSION_SECRET", "LOG_LEVEL", "LOG_FORMAT",
		"OPTIONS_FILE", "PRICING_TIER_SCHEME",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "./selah.db", cfg.DSN())
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Len(t, cfg.Warnings, 3)
}

func TestFromEnv_Postgres(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_ENV", "PROD")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://selah@localhost/selah")
	t.Setenv("DB_CONNECT_TIMEOUT", "3s")
	t.Setenv("ADMIN_EMAIL", "taller@selah.co")
	t.Setenv("ADMIN_PASSWORD", "secreto")
	t.Setenv("SESSION_SECRET", "firma")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.IsDev())
	assert.Equal(t, "postgres://selah@localhost/selah", cfg.DSN())
	assert.Equal(t, 3*time.Second, cfg.ConnectTimeout)
	assert.Empty(t, cfg.Warnings)
}

func TestFromEnv_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":       {"DB_DRIVER": "mysql"},
		"postgres without url": {"DB_DRIVER": "postgres"},
		"bad timeout":          {"DB_CONNECT_TIMEOUT": "soon"},
		"non positive timeout": {"DB_CONNECT_TIMEOUT": "0s"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Contains(t, opts.Types, "Perla")
	assert.Contains(t, opts.Textures, TextureOther)
	assert.Equal(t, []string{"MUNDO JOYA", "KARATI", "COLORE", "LUNA IRIS"}, opts.Suppliers)
}

func TestLoadOptions_OverridesOnlyListedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	content := []byte(`
shapes:
  - Redonda
  - "  Gota  "
  - Redonda
  - ""
suppliers: [PROVEEDOR LOCAL]
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	opts, err := LoadOptions(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Redonda", "Gota"}, opts.Shapes)
	assert.Equal(t, []string{"PROVEEDOR LOCAL"}, opts.Suppliers)
	assert.Equal(t, DefaultOptions().Stones, opts.Stones)
}

func TestLoadOptions_Errors(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("types: [unterminated"), 0o600))
	_, err = LoadOptions(path)
	assert.Error(t, err)
}
