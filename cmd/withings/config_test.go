package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "withings.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		conf, err := LoadConfig(writeConfig(t, `
[withings]
client_id = "my-client-id"
client_secret = "my-client-secret"
redirect_uri = "https://example.com/callback"
`))
		require.NoError(t, err)
		require.Equal(t, "data", conf.Withings.DataDir)
		require.Equal(t, "stderr", conf.Log.Output)
		require.Equal(t, "info", conf.Log.Severity)

		reg, err := conf.Registration()
		require.NoError(t, err)
		require.NotEmpty(t, reg.State)
		require.NotEmpty(t, reg.Scope)
	})

	t.Run("FullConfig", func(t *testing.T) {
		conf, err := LoadConfig(writeConfig(t, `
[withings]
client_id = "my-client-id"
client_secret = "my-client-secret"
redirect_uri = "https://example.com/callback"
state = "my-state"
scope = "user.info"
demo = true
data_dir = "/var/lib/withings"

[log]
output = "stdout"
severity = "debug"
`))
		require.NoError(t, err)
		require.Equal(t, "/var/lib/withings", conf.Withings.DataDir)
		require.Equal(t, "debug", conf.Log.Severity)

		reg, err := conf.Registration()
		require.NoError(t, err)
		require.Equal(t, "my-state", reg.State)
		require.Equal(t, "user.info", reg.Scope)
		require.True(t, reg.Demo)
	})

	t.Run("MissingClientID", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
[withings]
client_secret = "my-client-secret"
redirect_uri = "https://example.com/callback"
`))
		require.Error(t, err)
		require.True(t, trace.IsBadParameter(err))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
	})
}
