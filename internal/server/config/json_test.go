package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("loads from json", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"http_addr":               "0.0.0.0:8000",
			"database_dsn":            "postgres://db",
			"secret_key":              "json-secret",
			"token_validity_duration": "2h",
			"bcrypt_cost":             11,
			"cookie_name":             "sid",
			"env":                     "prod",
			"s3_bucket":               "cold",
		})
		os.Args = []string{"envmon", "-config", path}

		c := &Config{}
		c.LoadDefaults()
		parseJson(c)

		assert.Equal(t, "0.0.0.0:8000", c.HTTPAddr)
		assert.Equal(t, "postgres://db", c.DatabaseDSN)
		assert.Equal(t, "json-secret", c.SecretKey)
		assert.Equal(t, 2*time.Hour, c.TokenValidityDuration)
		assert.Equal(t, 11, c.BcryptCost)
		assert.Equal(t, "sid", c.CookieName)
		assert.Equal(t, "prod", c.Env)
		assert.Equal(t, "cold", c.S3Bucket)
		assert.Equal(t, ":50051", c.GRPCAddr, "absent keys keep previous values")
		assert.Equal(t, "us-east-1", c.S3Region)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"envmon"}

		c := &Config{HTTPAddr: "keep:1", SecretKey: "keep"}
		parseJson(c)

		assert.Equal(t, &Config{HTTPAddr: "keep:1", SecretKey: "keep"}, c)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"envmon", "-c", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"envmon", "-c", filepath.Join(t.TempDir(), "nope.json")}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
