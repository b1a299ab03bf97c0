package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"chainlens/internal/model"
)

// Config holds the shared settings for derivation commands, merged from
// flags, environment variables, and an optional config file.
type Config struct {
	ChainID     uint64
	FromBlock   uint64
	ToBlock     uint64
	LogLevel    string
	NetOutgoing bool
	Chains      []model.ChainConfig
}

// Load merges config file, environment variables, and flags into Config.
// A `chains` list in the config file replaces the built-in chain catalog.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ChainID:     v.GetUint64("chain"),
		FromBlock:   v.GetUint64("from"),
		ToBlock:     v.GetUint64("to"),
		LogLevel:    v.GetString("log-level"),
		NetOutgoing: v.GetBool("net-outgoing"),
	}

	if v.IsSet("chains") {
		var chains []model.ChainConfig
		if err := v.UnmarshalKey("chains", &chains); err != nil {
			return Config{}, fmt.Errorf("parse chains: %w", err)
		}
		cfg.Chains = chains
	}

	return cfg, nil
}

// SnapshotConfig holds the extra settings for the snapshot exporter.
type SnapshotConfig struct {
	Config
	Pool       string
	WindowSize uint64
	Out        string
	PGDSN      string
}

// LoadSnapshot merges config file, environment variables, and flags into
// SnapshotConfig.
func LoadSnapshot(cfgFile string, flags *pflag.FlagSet) (SnapshotConfig, error) {
	base, err := Load(cfgFile, flags)
	if err != nil {
		return SnapshotConfig{}, err
	}

	v, err := newViper(cfgFile, flags)
	if err != nil {
		return SnapshotConfig{}, err
	}

	cfg := SnapshotConfig{
		Config:     base,
		Pool:       v.GetString("pool"),
		WindowSize: v.GetUint64("window-size"),
		Out:        v.GetString("out"),
		PGDSN:      v.GetString("pg-dsn"),
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("CHAINLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain", uint64(1))
	v.SetDefault("log-level", "info")
	v.SetDefault("window-size", uint64(10000))
	v.SetDefault("out", "./data/swaps.jsonl")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
