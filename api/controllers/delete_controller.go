package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/moyoez/http-file-store/store"
	"github.com/moyoez/http-file-store/types"
)

// HandleDelete removes a file or directory and responds with the listing of
// its parent. ?recursive=1 allows removing non-empty directories.
func (fc *FileController) HandleDelete(c *gin.Context, t target) {
	if t.root {
		fail(c, "delete", &store.Error{Kind: store.KindAmbiguousOrMissingAlias, Op: "delete", Path: c.Request.URL.Path})
		return
	}
	rp, err := fc.registry.Resolve(t.req)
	if err != nil {
		fail(c, "delete", err)
		return
	}
	parent, err := fc.store.Delete(c.Request.Context(), rp, c.Query("recursive") == "1")
	fc.metrics.RecordOperation("delete", err)
	if err != nil {
		fail(c, "delete", err)
		return
	}
	fc.hub.Publish(types.Event{Type: types.EventDelete, Alias: rp.AliasName, Path: relPath(rp.Root, rp.AbsolutePath)})
	fc.respondListing(c, "list", parent)
}
