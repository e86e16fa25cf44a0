package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/http-file-store/store"
	"github.com/moyoez/http-file-store/tool"
	"github.com/moyoez/http-file-store/types"
)

// Status returns the running configuration summary.
// GET <base>_meta/status
func Status(registry *store.Registry, cfg types.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := tool.ModeMultiAlias
		if registry.SingleRoot() {
			mode = tool.ModeSingleRoot
		}
		c.JSON(http.StatusOK, tool.ServiceStatus{
			Version:           tool.Version,
			Mode:              mode,
			URLBase:           cfg.URLBase,
			Aliases:           registry.Names(),
			AllowOverwrite:    cfg.AllowOverwrite,
			AllowDelete:       cfg.AllowDelete,
			ConfigurableAlias: cfg.ConfigurableAlias,
		})
	}
}
