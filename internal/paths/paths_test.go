package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withWorkingDir(t *testing.T, dir string, err error) {
	t.Helper()
	orig := workingDir
	workingDir = func() (string, error) { return dir, err }
	t.Cleanup(func() { workingDir = orig })
}

func TestResolveConfigDir(t *testing.T) {
	withWorkingDir(t, "/work", nil)

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/from/env")
		got, err := ResolveConfigDir("/from/flag")
		require.NoError(t, err)
		assert.Equal(t, "/from/flag", got)
	})

	t.Run("env over default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/from/env")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, "/from/env", got)
	})

	t.Run("cwd default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/work", DefaultConfigDirName), got)
	})
}

func TestResolveDataDir(t *testing.T) {
	withWorkingDir(t, "/work", nil)

	tests := []struct {
		name   string
		flag   string
		config string
		env    string
		want   string
	}{
		{name: "flag wins", flag: "/f", config: "/c", env: "/e", want: "/f"},
		{name: "config over env", config: "/c", env: "/e", want: "/c"},
		{name: "env over default", env: "/e", want: "/e"},
		{name: "cwd default", want: filepath.Join("/work", DefaultDataDirName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.env)
			got, err := ResolveDataDir(tt.flag, tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRelativeFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	got, err := ResolveDataDir("data", "")
	require.NoError(t, err)
	want, err := filepath.Abs("data")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveWorkingDirError(t *testing.T) {
	withWorkingDir(t, "", errors.New("cwd removed"))
	t.Setenv(EnvConfigDir, "")
	t.Setenv(EnvDataDir, "")

	_, err := ResolveConfigDir("")
	assert.Error(t, err)
	_, err = ResolveDataDir("", "")
	assert.Error(t, err)
}

func TestDataFile(t *testing.T) {
	assert.Equal(t, filepath.Join("/data", "users.txt"), DataFile("/data", "users.txt"))
	assert.Equal(t, "/elsewhere/users.txt", DataFile("/data", "/elsewhere/users.txt"))
}
