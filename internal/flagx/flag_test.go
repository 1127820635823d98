package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		known []string
		want  []string
	}{
		{
			name:  "separate value",
			args:  []string{"-a", ":8000", "-x", "1"},
			known: []string{"-a"},
			want:  []string{"-a", ":8000"},
		},
		{
			name:  "equals form",
			args:  []string{"-config=prod.json", "-a", ":8000"},
			known: []string{"-config"},
			want:  []string{"-config=prod.json"},
		},
		{
			name:  "unknown flags dropped",
			args:  []string{"-x", "1", "--y=2", "positional"},
			known: []string{"-c"},
			want:  []string{},
		},
		{
			name:  "trailing flag without value",
			args:  []string{"-d"},
			known: []string{"-d"},
			want:  []string{"-d"},
		},
		{
			name:  "dash token not consumed as value",
			args:  []string{"-c", "-s", "secret"},
			known: []string{"-c", "-s"},
			want:  []string{"-c", "-s", "secret"},
		},
		{
			name:  "repeated flag preserved",
			args:  []string{"-c", "one.json", "-c", "two.json"},
			known: []string{"-c"},
			want:  []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:  "empty",
			args:  []string{},
			known: []string{"-c"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.known))
		})
	}
}

func TestConfigPath(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short flag", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/etc/stockwatch.json"}
		assert.Equal(t, "/etc/stockwatch.json", ConfigPath())
	})

	t.Run("long flag wins over env", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "/from/env.json")
		os.Args = []string{"testbin", "-config", "/from/flag.json"}
		assert.Equal(t, "/from/flag.json", ConfigPath())
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "/from/env.json")
		os.Args = []string{"testbin", "-a", ":9000"}
		assert.Equal(t, "/from/env.json", ConfigPath())
	})

	t.Run("nothing set", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "")
		os.Args = []string{"testbin"}
		assert.Empty(t, ConfigPath())
	})
}
