package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "flag with separate value around a subcommand",
			args:         []string{"setup-admin", "-d", "postgres://x", "admin@example.com"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d", "postgres://x"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-d=postgres://x", "check-users"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d=postgres://x"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next flag is not taken as value",
			args:         []string{"-c", "-d", "dsn"},
			allowedFlags: []string{"-c", "-d"},
			want:         []string{"-c", "-d", "dsn"},
		},
		{
			name:         "nothing after terminator",
			args:         []string{"-l", "debug", "set-password", "--", "u1", "-d"},
			allowedFlags: []string{"-l", "-d"},
			want:         []string{"-l", "debug"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestPositional(t *testing.T) {
	valueFlags := []string{"-c", "-d", "-l"}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "command only",
			args: []string{"check-users"},
			want: []string{"check-users"},
		},
		{
			name: "flags before and after",
			args: []string{"-d", "dsn", "set-password", "u3", "-l", "debug", "newpass"},
			want: []string{"set-password", "u3", "newpass"},
		},
		{
			name: "equals form and boolean flag",
			args: []string{"-d=dsn", "-v", "setup-admin", "admin@example.com"},
			want: []string{"setup-admin", "admin@example.com"},
		},
		{
			name: "terminator passes dashed values through",
			args: []string{"set-password", "--", "u1", "-weird-pass"},
			want: []string{"set-password", "u1", "-weird-pass"},
		},
		{
			name: "value flag at the end",
			args: []string{"check-users", "-d"},
			want: []string{"check-users"},
		},
		{
			name: "lone dash is positional",
			args: []string{"set-password", "u1", "-"},
			want: []string{"set-password", "u1", "-"},
		},
		{
			name: "empty",
			args: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Positional(tt.args, valueFlags))
		})
	}
}

func TestSplit_ReportsUnknownFlags(t *testing.T) {
	valueFlags := []string{"-c", "-d", "-l"}

	tests := []struct {
		name    string
		args    []string
		pos     []string
		unknown []string
	}{
		{
			name: "known flags only",
			args: []string{"-d", "dsn", "-l=debug", "check-users"},
			pos:  []string{"check-users"},
		},
		{
			name:    "dashed password without terminator",
			args:    []string{"set-password", "u3", "-Secr3t!"},
			pos:     []string{"set-password", "u3"},
			unknown: []string{"-Secr3t!"},
		},
		{
			name: "dashed password after terminator",
			args: []string{"set-password", "u3", "--", "-Secr3t!"},
			pos:  []string{"set-password", "u3", "-Secr3t!"},
		},
		{
			name:    "boolean style flag",
			args:    []string{"setup-admin", "-x", "admin@example.com"},
			pos:     []string{"setup-admin", "admin@example.com"},
			unknown: []string{"-x"},
		},
		{
			name:    "unknown flag with equals",
			args:    []string{"-v=1", "check-users"},
			pos:     []string{"check-users"},
			unknown: []string{"-v=1"},
		},
		{
			name:    "value flag followed by a flag",
			args:    []string{"-d", "-oops", "check-users"},
			pos:     []string{"check-users"},
			unknown: []string{"-oops"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, unknown := Split(tt.args, valueFlags)
			assert.Equal(t, tt.pos, pos)
			assert.Equal(t, tt.unknown, unknown)
		})
	}
}

func Test_jsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"saasctl", "-c", "/path/short.json", "check-users"}
		assert.Equal(t, "/path/short.json", JsonConfigFlags())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"saasctl", "check-users", "-config", "/path/long.json"}
		assert.Equal(t, "/path/long.json", JsonConfigFlags())
	})

	t.Run("absent", func(t *testing.T) {
		os.Args = []string{"saasctl", "-d", "dsn", "check-users"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("last wins", func(t *testing.T) {
		os.Args = []string{"saasctl", "-c", "/path/1.json", "-config", "/path/2.json"}
		assert.Equal(t, "/path/2.json", JsonConfigFlags())
	})
}
