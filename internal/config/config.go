// Package config loads node configuration the way the teacher repository's
// cli.go wires its "node start" flags, generalized onto spf13/viper so the
// same settings can come from a config file or environment variables
// instead of only command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NodeConfig is the full set of settings a validator process needs to
// start its P2P host, REST introspection server, storage, and mempool
// admission limits.
type NodeConfig struct {
	DataDir string `mapstructure:"data_dir"`

	ListenAddr string   `mapstructure:"listen_addr"`
	Port       int      `mapstructure:"port"`
	PublicIP   string   `mapstructure:"public_ip"`
	PublicDNS  string   `mapstructure:"public_dns"`
	Bootnodes  []string `mapstructure:"bootnodes"`

	APIListenAddr string `mapstructure:"api_listen_addr"`
	APIPort       int    `mapstructure:"api_port"`

	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int     `mapstructure:"rate_limit_burst"`

	UtCacheMaxBytes int `mapstructure:"ut_cache_max_bytes"`
	UtCacheMaxCount int `mapstructure:"ut_cache_max_count"`
	PtCacheMaxBytes int `mapstructure:"pt_cache_max_bytes"`
	PtCacheMaxCount int `mapstructure:"pt_cache_max_count"`

	SyncPollInterval time.Duration `mapstructure:"sync_poll_interval"`
}

// Defaults mirrors the teacher's cobra flag defaults (port 3000, API port
// 8080, 0.0.0.0 binds) extended with the cache/rate-limit knobs the
// original repo hardcoded as constants.
func Defaults() NodeConfig {
	return NodeConfig{
		DataDir:             "./data",
		ListenAddr:          "0.0.0.0",
		Port:                3000,
		APIListenAddr:       "0.0.0.0",
		APIPort:             8080,
		RateLimitPerSecond:  5,
		RateLimitBurst:      10,
		UtCacheMaxBytes:     8 << 20,
		UtCacheMaxCount:     10_000,
		PtCacheMaxBytes:     4 << 20,
		PtCacheMaxCount:     1_000,
		SyncPollInterval:    3 * time.Second,
	}
}

// BindFlags registers node-start flags on cmd and binds them into v,
// falling back to Defaults() for any flag the caller never sets.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	d := Defaults()
	flags := cmd.Flags()

	flags.String("data-dir", d.DataDir, "Directory for chain, proof, and mempool state")
	flags.String("listen", d.ListenAddr, "Local listen IP for the P2P host")
	flags.Int("port", d.Port, "P2P port")
	flags.String("public-ip", "", "Public IP address to announce")
	flags.String("public-dns", "", "Public DNS name to announce")
	flags.String("bootnodes", "", "Comma-separated list of bootstrap multiaddrs")
	flags.String("api-listen", d.APIListenAddr, "Local listen IP for the REST introspection server")
	flags.Int("api-port", d.APIPort, "REST introspection server port")
	flags.Float64("rate-limit-per-second", d.RateLimitPerSecond, "Sustained requests/sec allowed per client IP")
	flags.Int("rate-limit-burst", d.RateLimitBurst, "Burst requests allowed per client IP")
	flags.Int("ut-cache-max-bytes", d.UtCacheMaxBytes, "Unconfirmed-transaction cache byte ceiling")
	flags.Int("ut-cache-max-count", d.UtCacheMaxCount, "Unconfirmed-transaction cache count ceiling")
	flags.Int("pt-cache-max-bytes", d.PtCacheMaxBytes, "Partial-transaction cache byte ceiling")
	flags.Int("pt-cache-max-count", d.PtCacheMaxCount, "Partial-transaction cache count ceiling")
	flags.Duration("sync-poll-interval", d.SyncPollInterval, "Interval between chain-sync pull attempts")

	v.BindPFlags(flags)
}

// Load resolves a NodeConfig from v: an optional config file (if one was
// set via v.SetConfigFile/AddConfigPath by the caller), environment
// variables prefixed SOLE_, and finally flags bound through BindFlags —
// in viper's usual flag > env > file > default precedence.
func Load(v *viper.Viper) (NodeConfig, error) {
	v.SetEnvPrefix("sole")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return NodeConfig{}, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	cfg := Defaults()
	cfg.DataDir = v.GetString("data-dir")
	cfg.ListenAddr = v.GetString("listen")
	cfg.Port = v.GetInt("port")
	cfg.PublicIP = v.GetString("public-ip")
	cfg.PublicDNS = v.GetString("public-dns")
	cfg.Bootnodes = splitNonEmpty(v.GetString("bootnodes"))
	cfg.APIListenAddr = v.GetString("api-listen")
	cfg.APIPort = v.GetInt("api-port")
	cfg.RateLimitPerSecond = v.GetFloat64("rate-limit-per-second")
	cfg.RateLimitBurst = v.GetInt("rate-limit-burst")
	cfg.UtCacheMaxBytes = v.GetInt("ut-cache-max-bytes")
	cfg.UtCacheMaxCount = v.GetInt("ut-cache-max-count")
	cfg.PtCacheMaxBytes = v.GetInt("pt-cache-max-bytes")
	cfg.PtCacheMaxCount = v.GetInt("pt-cache-max-count")
	cfg.SyncPollInterval = v.GetDuration("sync-poll-interval")

	return cfg, nil
}

func splitNonEmpty(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
