package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	URLBase           string            `json:"url_base" yaml:"url_base"`
	Base              string            `json:"base,omitempty" yaml:"base,omitempty"` // legacy single-root directory
	UploadPath        string            `json:"upload_path" yaml:"upload_path"`
	ShowAbsolutePath  bool              `json:"show_absolute_path" yaml:"show_absolute_path"`
	AllowOverwrite    bool              `json:"allow_overwrite" yaml:"allow_overwrite"`
	ConfigurableAlias bool              `json:"configurable_alias" yaml:"configurable_alias"`
	AllowDelete       bool              `json:"allow_delete" yaml:"allow_delete"`
	Aliases           map[string]string `json:"aliases" yaml:"aliases"`
	SSL               *SSLConfig        `json:"ssl,omitempty" yaml:"ssl,omitempty"`
	Clear             *ListenConfig     `json:"clear,omitempty" yaml:"clear,omitempty"`
	CORS              *CORSConfig       `json:"cors,omitempty" yaml:"cors,omitempty"`

	Log            string           `json:"log,omitempty" yaml:"log,omitempty"`
	MaxUploadSize  int64            `json:"max_upload_size,omitempty" yaml:"max_upload_size,omitempty"`
	RateLimit      *RateLimitConfig `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	Metrics        bool             `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Events         bool             `json:"events,omitempty" yaml:"events,omitempty"`
	Watch          bool             `json:"watch,omitempty" yaml:"watch,omitempty"`
	AdminLocalOnly bool             `json:"admin_local_only,omitempty" yaml:"admin_local_only,omitempty"`
}

// ListenConfig is a host and port pair. Port 0 picks a random port.
type ListenConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// SSLConfig enables the HTTPS listener.
type SSLConfig struct {
	Host       string `json:"host,omitempty" yaml:"host,omitempty"`
	Port       int    `json:"port" yaml:"port"`
	Key        string `json:"key,omitempty" yaml:"key,omitempty"`
	CA         string `json:"ca,omitempty" yaml:"ca,omitempty"`
	Cert       string `json:"cert,omitempty" yaml:"cert,omitempty"`
	SelfSigned bool   `json:"self_signed,omitempty" yaml:"self_signed,omitempty"`
}

// CORSConfig describes the CORS policy of every route.
// Origin is either "*", a single origin, a list of origins, or a bool
// (true reflects the request origin, false disables CORS).
type CORSConfig struct {
	Origin         any      `json:"origin" yaml:"origin"`
	Credentials    bool     `json:"credentials" yaml:"credentials"`
	Methods        []string `json:"methods,omitempty" yaml:"methods,omitempty"`
	AllowedHeaders []string `json:"allowedHeaders,omitempty" yaml:"allowedHeaders,omitempty"`
	ExposedHeaders []string `json:"exposedHeaders,omitempty" yaml:"exposedHeaders,omitempty"`
	MaxAge         int      `json:"maxAge,omitempty" yaml:"maxAge,omitempty"`
}

// RateLimitConfig limits requests per client IP. Zero disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `json:"burst" yaml:"burst"`
}

// Config holds runtime overrides from CLI flags and environment.
type Config struct {
	Log           string
	UseConfigPath string
	UsePort       int
	Verbose       bool
	ShowQR        bool
}

// EnvConfig is read from HFS_* environment variables.
type EnvConfig struct {
	Host    string `envconfig:"HOST"`
	Port    int    `envconfig:"PORT"`
	Log     string `envconfig:"LOG"`
	URLBase string `envconfig:"URL_BASE"`
	Config  string `envconfig:"CONFIG"`
}
