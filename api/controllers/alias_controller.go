package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/http-file-store/api/notifyhub"
	"github.com/moyoez/http-file-store/monitor"
	"github.com/moyoez/http-file-store/store"
	"github.com/moyoez/http-file-store/tool"
	"github.com/moyoez/http-file-store/types"
)

// RootWatcher follows alias roots for change events.
type RootWatcher interface {
	AddRoot(alias, root string) error
	RemoveRoot(root string)
}

// AliasController serves the administrative alias endpoints.
type AliasController struct {
	registry *store.Registry
	hub      *notifyhub.Hub
	metrics  *monitor.Metrics
	watcher  RootWatcher
}

// NewAliasController wires the handlers. hub, metrics and watcher may be nil.
func NewAliasController(registry *store.Registry, hub *notifyhub.Hub, metrics *monitor.Metrics, watcher RootWatcher) *AliasController {
	return &AliasController{registry: registry, hub: hub, metrics: metrics, watcher: watcher}
}

// HandleList returns the alias mapping.
// GET <base>aliases
func (ac *AliasController) HandleList(c *gin.Context) {
	c.JSON(http.StatusOK, ac.registry.List())
}

// HandleAdd registers an alias and persists it.
// POST <base>aliases/add
func (ac *AliasController) HandleAdd(c *gin.Context) {
	var body types.AliasRequest
	if err := c.ShouldBind(&body); err != nil {
		fail(c, "alias", &store.Error{Kind: store.KindInvalidAliasPath, Op: "add alias", Err: err})
		return
	}
	path := body.Path
	if path != "" && !filepath.IsAbs(path) {
		if cwd, err := os.Getwd(); err == nil {
			path = filepath.Join(cwd, path)
		}
	}
	aliases, err := ac.registry.Add(body.Name, path)
	ac.metrics.RecordOperation("alias_add", err)
	if err != nil {
		fail(c, "alias", err)
		return
	}
	ac.metrics.SetAliases(len(aliases))
	tool.DefaultLogger.Infof("[Alias] added %q -> %s", body.Name, aliases[body.Name])
	if ac.watcher != nil {
		if err := ac.watcher.AddRoot(body.Name, aliases[body.Name]); err != nil {
			tool.DefaultLogger.Warnf("[Alias] failed to watch %s: %v", aliases[body.Name], err)
		}
	}
	ac.hub.Publish(types.Event{Type: types.EventAliasAdd, Alias: body.Name})
	c.JSON(http.StatusOK, aliases)
}

// HandleRemove unregisters an alias and persists the change.
// POST <base>aliases/remove
func (ac *AliasController) HandleRemove(c *gin.Context) {
	var body types.AliasRequest
	if err := c.ShouldBind(&body); err != nil {
		fail(c, "alias", &store.Error{Kind: store.KindUnknownAlias, Op: "remove alias", Err: err})
		return
	}
	root, _ := ac.registry.Lookup(body.Name)
	aliases, err := ac.registry.Remove(body.Name)
	ac.metrics.RecordOperation("alias_remove", err)
	if err != nil {
		fail(c, "alias", err)
		return
	}
	ac.metrics.SetAliases(len(aliases))
	tool.DefaultLogger.Infof("[Alias] removed %q", body.Name)
	if ac.watcher != nil {
		ac.watcher.RemoveRoot(root)
	}
	ac.hub.Publish(types.Event{Type: types.EventAliasRemove, Alias: body.Name})
	c.JSON(http.StatusOK, aliases)
}
