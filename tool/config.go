package tool

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/moyoez/http-file-store/types"
)

const (
	defaultHost = "127.0.0.1"
	defaultPort = 8091
)

var (
	ConfigPath    = "" // empty when running without a config file
	CurrentConfig types.AppConfig
)

// DefaultCORS reflects any origin with credentials.
func DefaultCORS() *types.CORSConfig {
	return &types.CORSConfig{
		Origin:      true,
		Credentials: true,
		Methods:     []string{"GET", "PUT", "POST"},
		MaxAge:      600,
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func decodeConfig(path string, data []byte, cfg *types.AppConfig) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return sonic.Unmarshal(data, cfg)
}

func encodeConfig(path string, cfg types.AppConfig) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(cfg)
	}
	return sonic.ConfigStd.MarshalIndent(cfg, "", "  ")
}

// readConfigFile loads path without applying any default.
func readConfigFile(path string) (types.AppConfig, error) {
	var cfg types.AppConfig
	info, err := os.Stat(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := decodeConfig(path, data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads the config at path (JSON, or YAML by extension) and fills
// in defaults. An empty path yields the defaults alone.
func LoadConfig(path string, flags types.Config) (types.AppConfig, error) {
	var cfg types.AppConfig
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to resolve config path: %w", err)
		}
		cfg, err = readConfigFile(abs)
		if err != nil {
			return cfg, err
		}
		ConfigPath = abs
	}
	ApplyDefaults(&cfg, flags)
	if err := ValidateSSL(cfg.SSL); err != nil {
		return cfg, err
	}
	CurrentConfig = cfg
	return cfg, nil
}

// ApplyDefaults fills every unset key.
func ApplyDefaults(cfg *types.AppConfig, flags types.Config) {
	if cfg.Aliases == nil {
		cfg.Aliases = make(map[string]string)
		if cfg.Base != "" {
			cfg.Aliases[""] = cfg.Base
		}
	}
	cfg.Base = ""
	cfg.URLBase = normalizeURLBase(cfg.URLBase)
	if cfg.UploadPath == "" {
		cfg.UploadPath = os.TempDir()
	}
	if cfg.Clear == nil {
		port := defaultPort
		if flags.UsePort != 0 {
			port = flags.UsePort
		}
		cfg.Clear = &types.ListenConfig{Host: defaultHost, Port: port}
	}
	if cfg.CORS == nil {
		cfg.CORS = DefaultCORS()
	}
	if flags.Log != "" {
		cfg.Log = flags.Log
	}
}

// normalizeURLBase returns base with one leading and one trailing slash.
func normalizeURLBase(base string) string {
	base = strings.Trim(base, "/")
	if base == "" {
		return "/"
	}
	return "/" + base + "/"
}

// ValidateSSL checks that the configured key, cert and CA files exist.
func ValidateSSL(ssl *types.SSLConfig) error {
	if ssl == nil || ssl.SelfSigned {
		return nil
	}
	if ssl.Key == "" || ssl.Cert == "" {
		return fmt.Errorf("SSL requires a key and a cert")
	}
	for label, path := range map[string]string{"key": ssl.Key, "cert": ssl.Cert, "ca": ssl.CA} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("SSL %s file must exist: %w", label, err)
		}
	}
	return nil
}

// PrepareAliases resolves every alias path against cwd and creates missing
// directories.
func PrepareAliases(aliases map[string]string, cwd string) (map[string]string, error) {
	out := make(map[string]string, len(aliases))
	for name, path := range aliases {
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		path = filepath.Clean(path)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create alias %q directory %s: %w", name, path, err)
		}
		out[name] = path
	}
	return out, nil
}

// ConfigStore writes alias changes back into the config file, keeping the
// file's format and its other keys untouched.
type ConfigStore struct {
	mu   sync.Mutex
	path string
}

func NewConfigStore(path string) *ConfigStore {
	return &ConfigStore{path: path}
}

// SaveAliases replaces the aliases key of the config file.
func (s *ConfigStore) SaveAliases(aliases map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := readConfigFile(s.path)
	if err != nil {
		return err
	}
	cfg.Aliases = maps.Clone(aliases)
	cfg.Base = ""
	data, err := encodeConfig(s.path, cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	DefaultLogger.Infof("[Alias] saved %d aliases to %s", len(aliases), s.path)
	return nil
}
