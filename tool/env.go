package tool

import (
	"github.com/kelseyhightower/envconfig"

	"github.com/moyoez/http-file-store/types"
)

const envPrefix = "HFS"

// LoadEnv reads HFS_* overrides.
func LoadEnv() (types.EnvConfig, error) {
	var env types.EnvConfig
	err := envconfig.Process(envPrefix, &env)
	return env, err
}

// ApplyEnv merges non-empty environment overrides into cfg.
func ApplyEnv(cfg *types.AppConfig, env types.EnvConfig) {
	if env.URLBase != "" {
		cfg.URLBase = normalizeURLBase(env.URLBase)
	}
	if env.Log != "" {
		cfg.Log = env.Log
	}
	if env.Host == "" && env.Port == 0 {
		return
	}
	if cfg.Clear == nil {
		cfg.Clear = &types.ListenConfig{Host: defaultHost, Port: defaultPort}
	}
	if env.Host != "" {
		cfg.Clear.Host = env.Host
	}
	if env.Port != 0 {
		cfg.Clear.Port = env.Port
	}
}
