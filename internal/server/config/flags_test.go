package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name     string
		start    Config
		args     []string
		expected Config
	}{
		{
			name: "all flags",
			args: []string{"envmon",
				"-a", "127.0.0.1:8081", "-r", "127.0.0.1:50052", "-d", "db", "-m", "memory", "-s", "secret",
				"-t", "30", "-e", "prod", "-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-x", "http://endpoint",
			},
			expected: Config{
				HTTPAddr:              "127.0.0.1:8081",
				GRPCAddr:              "127.0.0.1:50052",
				DatabaseDSN:           "db",
				StorageBackend:        "memory",
				SecretKey:             "secret",
				TokenValidityDuration: 30 * time.Minute,
				Env:                   "prod",
				S3RootUser:            "user",
				S3RootPassword:        "password",
				S3Bucket:              "bucket",
				S3Region:              "us-west-1",
				S3BaseEndpoint:        "http://endpoint",
			},
		},
		{
			name:     "ttl kept when -t absent",
			start:    Config{TokenValidityDuration: 90 * time.Second, CookieName: "sid"},
			args:     []string{"envmon", "-c", "cfg.json", "-a", ":1"},
			expected: Config{HTTPAddr: ":1", TokenValidityDuration: 90 * time.Second, CookieName: "sid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := tt.start
			require.NotPanics(t, func() { parseFlags(&config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_BadValuePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"envmon", "-t", "soon"}
	require.Panics(t, func() { parseFlags(&Config{}) })
}
