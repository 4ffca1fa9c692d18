package config_test

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solechain/core/internal/config"
)

func TestLoad_UsesDefaultsWhenNoFlagsSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	v := viper.New()
	config.BindFlags(cmd, v)

	cfg, err := config.Load(v)
	require.NoError(t, err)

	d := config.Defaults()
	assert.Equal(t, d.Port, cfg.Port)
	assert.Equal(t, d.APIPort, cfg.APIPort)
	assert.Equal(t, d.ListenAddr, cfg.ListenAddr)
	assert.Nil(t, cfg.Bootnodes)
}

func TestLoad_ParsesFlagOverrides(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	v := viper.New()
	config.BindFlags(cmd, v)

	require.NoError(t, cmd.Flags().Set("port", "4100"))
	require.NoError(t, cmd.Flags().Set("bootnodes", "/ip4/1.2.3.4/tcp/3000, /ip4/5.6.7.8/tcp/3000"))
	require.NoError(t, cmd.Flags().Set("sync-poll-interval", "500ms"))

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, 4100, cfg.Port)
	assert.Equal(t, []string{"/ip4/1.2.3.4/tcp/3000", "/ip4/5.6.7.8/tcp/3000"}, cfg.Bootnodes)
	assert.Equal(t, 500*time.Millisecond, cfg.SyncPollInterval)
}

func TestLoad_EnvironmentOverridesDefault(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	v := viper.New()
	config.BindFlags(cmd, v)

	t.Setenv("SOLE_API_PORT", "9999")

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.APIPort)
}
