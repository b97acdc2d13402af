package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequiresHostVendorUser(t *testing.T) {
	_, err := Parse([]string{"--vendor", "cisco_ios", "--user", "admin"})
	require.ErrorContains(t, err, "--host")

	_, err = Parse([]string{"--host", "10.0.0.1", "--user", "admin"})
	require.ErrorContains(t, err, "--vendor")

	_, err = Parse([]string{"--host", "10.0.0.1", "--vendor", "cisco_ios"})
	require.ErrorContains(t, err, "--user")
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{"--host", "10.0.0.1", "--vendor", "cisco_ios_xe", "--user", "admin"})
	require.NoError(t, err)
	require.Equal(t, "collections", cfg.CollectionsDir)
	require.Equal(t, "templates", cfg.TemplatesDir)
	require.False(t, cfg.Debug)
	require.False(t, cfg.PreflightOnly)
}

func TestParseMissingKeyFile(t *testing.T) {
	_, err := Parse([]string{"--host", "10.0.0.1", "--vendor", "cisco_ios", "--user", "admin", "--key", "/no/such/file"})
	require.Error(t, err)
}

func TestParseNatsFlagsDefaultEmpty(t *testing.T) {
	cfg, err := Parse([]string{"--host", "10.0.0.1", "--vendor", "cisco_ios_xe", "--user", "admin"})
	require.NoError(t, err)
	require.Empty(t, cfg.NatsAddress)
}

func TestParseNatsFlags(t *testing.T) {
	cfg, err := Parse([]string{
		"--host", "10.0.0.1", "--vendor", "cisco_ios_xe", "--user", "admin",
		"--nats-address", "nats://localhost:4222", "--nats-user", "wirlwind", "--nats-password", "secret",
	})
	require.NoError(t, err)
	require.Equal(t, "nats://localhost:4222", cfg.NatsAddress)
	require.Equal(t, "wirlwind", cfg.NatsUser)
	require.Equal(t, "secret", cfg.NatsPassword)
}
