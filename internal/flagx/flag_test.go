package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", ":8080", "-x", "1"},
			allowed: []string{"-a"},
			want:    []string{"-a", ":8080"},
		},
		{
			name:    "equals form",
			args:    []string{"-d=postgres://db", "-x=1"},
			allowed: []string{"-d"},
			want:    []string{"-d=postgres://db"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "serve", "--y=2"},
			allowed: []string{"-a", "-d"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-s"},
			allowed: []string{"-s"},
			want:    []string{"-s"},
		},
		{
			name:    "next flag is not taken as value",
			args:    []string{"-s", "-t", "30"},
			allowed: []string{"-s", "-t"},
			want:    []string{"-s", "-t", "30"},
		},
		{
			name:    "repeated flag keeps order",
			args:    []string{"-c", "one.json", "-c", "two.json"},
			allowed: []string{"-c"},
			want:    []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:    "nil args",
			args:    nil,
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short flag", func(t *testing.T) {
		os.Args = []string{"envmon", "-c", "/etc/envmon.json"}
		assert.Equal(t, "/etc/envmon.json", ConfigFile())
	})

	t.Run("long flag among others", func(t *testing.T) {
		os.Args = []string{"envmon", "-a", ":9000", "-config", "/tmp/cfg.json", "-s", "secret"}
		assert.Equal(t, "/tmp/cfg.json", ConfigFile())
	})

	t.Run("absent", func(t *testing.T) {
		os.Args = []string{"envmon", "-a", ":9000"}
		assert.Empty(t, ConfigFile())
	})

	t.Run("last one wins", func(t *testing.T) {
		os.Args = []string{"envmon", "-c", "a.json", "-config", "b.json"}
		assert.Equal(t, "b.json", ConfigFile())
	})
}
