package types

import "time"

// Event types pushed to websocket subscribers.
const (
	EventUpload      = "upload"
	EventMkdir       = "mkdir"
	EventDelete      = "delete"
	EventAliasAdd    = "alias_add"
	EventAliasRemove = "alias_remove"
	EventDirsChanged = "dirs_changed"
)

// Event represents a change of the served tree.
type Event struct {
	Type  string    `json:"type"`
	Alias string    `json:"alias,omitempty"`
	Path  string    `json:"path,omitempty"`  // slash separated, relative to the alias root
	Dirs  []string  `json:"dirs,omitempty"`  // for dirs_changed, relative to the alias root
	Time  time.Time `json:"time"`
}
