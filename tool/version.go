package tool

// Version is overridden at build time with -ldflags "-X ...tool.Version=...".
var Version = "dev"

// ServiceStatus is the body of the status endpoint.
type ServiceStatus struct {
	Version           string   `json:"version"`
	Mode              string   `json:"mode"`
	URLBase           string   `json:"url_base"`
	Aliases           []string `json:"aliases"`
	AllowOverwrite    bool     `json:"allow_overwrite"`
	AllowDelete       bool     `json:"allow_delete"`
	ConfigurableAlias bool     `json:"configurable_alias"`
}

// Mode names
const (
	ModeSingleRoot = "single"
	ModeMultiAlias = "multi"
)
