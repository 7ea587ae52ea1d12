package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetForTest clears key for the duration of the test and restores it afterwards.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func writeEnvFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDotEnv_Syntax(t *testing.T) {
	cases := []struct {
		name string
		line string
		want string
	}{
		{"plain", "SELAH_DOTENV=one", "one"},
		{"export prefix", "export SELAH_DOTENV=two", "two"},
		{"double quoted", `SELAH_DOTENV="three"`, "three"},
		{"single quoted with space", "SELAH_DOTENV='hola mundo'", "hola mundo"},
		{"comment line ignored", "# comentario\nSELAH_DOTENV=cuatro", "cuatro"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unsetForTest(t, "SELAH_DOTENV")
			path := writeEnvFile(t, t.TempDir(), tc.line+"\n")

			require.NoError(t, loadDotEnv(path))
			assert.Equal(t, tc.want, os.Getenv("SELAH_DOTENV"))
		})
	}
}

func TestLoadDotEnv_KeepsExistingVariables(t *testing.T) {
	t.Setenv("SELAH_KEEP", "already")
	path := writeEnvFile(t, t.TempDir(), "SELAH_KEEP=fromfile\n")

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "already", os.Getenv("SELAH_KEEP"))
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestLoad_ReadsDotEnvFromWorkingDirectory(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "DB_DRIVER", "DB_PATH", "DB_CONNECT_TIMEOUT", "PRICING_TIER_SCHEME"} {
		unsetForTest(t, key)
	}
	dir := t.TempDir()
	writeEnvFile(t, dir, "PORT=9090\nDB_PATH=./taller.db\nPRICING_TIER_SCHEME=four-tier\n")
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "./taller.db", cfg.DBPath)
	assert.Equal(t, "four-tier", cfg.TierScheme)
}
