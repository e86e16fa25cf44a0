package controllers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/http-file-store/api/notifyhub"
	"github.com/moyoez/http-file-store/monitor"
	"github.com/moyoez/http-file-store/store"
	"github.com/moyoez/http-file-store/tool"
	"github.com/moyoez/http-file-store/types"
)

// FileController serves the file namespace below the URL base.
type FileController struct {
	store    *store.Store
	registry *store.Registry
	cfg      types.AppConfig
	hub      *notifyhub.Hub
	metrics  *monitor.Metrics
}

// NewFileController wires the handlers. hub and metrics may be nil.
func NewFileController(st *store.Store, cfg types.AppConfig, hub *notifyhub.Hub, metrics *monitor.Metrics) *FileController {
	return &FileController{
		store:    st,
		registry: st.Registry(),
		cfg:      cfg,
		hub:      hub,
		metrics:  metrics,
	}
}

// target is the parsed file namespace address of a request.
type target struct {
	root bool // the service root in multi-alias mode
	req  store.PathRequest
}

// parseTarget splits the request path below the URL base. In single-root
// mode the whole remainder is the sub-path; otherwise its first segment
// names the alias.
func (fc *FileController) parseTarget(urlPath string) (target, bool) {
	base := fc.cfg.URLBase
	var rel string
	switch {
	case strings.HasPrefix(urlPath, base):
		rel = urlPath[len(base):]
	case urlPath+"/" == base:
		rel = ""
	default:
		return target{}, false
	}

	if fc.registry.SingleRoot() {
		return target{req: store.PathRequest{SubPath: rel}}, true
	}
	if rel == "" {
		return target{root: true}, true
	}
	alias, sub, _ := strings.Cut(rel, "/")
	return target{req: store.PathRequest{Alias: alias, AliasGiven: true, SubPath: sub}}, true
}

// Dispatch routes every request that did not match a static route.
func (fc *FileController) Dispatch(c *gin.Context) {
	t, ok := fc.parseTarget(c.Request.URL.Path)
	if !ok {
		c.JSON(http.StatusNotFound, tool.FastReturnError("not found"))
		return
	}
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead:
		fc.HandleRead(c, t)
	case http.MethodPost:
		fc.HandleWrite(c, t)
	case http.MethodDelete:
		if !fc.cfg.AllowDelete {
			c.JSON(http.StatusNotFound, tool.FastReturnError("not found"))
			return
		}
		fc.HandleDelete(c, t)
	default:
		c.JSON(http.StatusMethodNotAllowed, tool.FastReturnError("method not allowed"))
	}
}

// HandleRead lists a directory or streams a file.
func (fc *FileController) HandleRead(c *gin.Context, t target) {
	if t.root {
		c.JSON(http.StatusOK, fc.registry.AliasEntries())
		return
	}
	rp, err := fc.registry.Resolve(t.req)
	if err != nil {
		fail(c, "read", err)
		return
	}
	info, err := fc.store.Fs().Stat(rp.AbsolutePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fail(c, "read", &store.Error{Kind: store.KindNotFound, Op: "read", Path: rp.AbsolutePath, Err: err})
			return
		}
		fail(c, "read", &store.Error{Kind: store.KindReadError, Op: "read", Path: rp.AbsolutePath, Err: err})
		return
	}
	if info.IsDir() {
		fc.respondListing(c, "list", rp.AbsolutePath)
		return
	}
	fc.streamFile(c, rp.AbsolutePath, info)
}

func (fc *FileController) streamFile(c *gin.Context, path string, info fs.FileInfo) {
	f, err := fc.store.Fs().Open(path)
	if err != nil {
		fail(c, "read", &store.Error{Kind: store.KindReadError, Op: "read", Path: path, Err: err})
		return
	}
	defer f.Close()

	name := filepath.Base(path)
	c.Header("Content-Type", tool.DetectContentType(name, f))
	if c.Query("download") == "1" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	http.ServeContent(c.Writer, c.Request, name, info.ModTime(), f)
	fc.metrics.RecordOperation("download", nil)
}

// respondListing writes the listing of dir as the response body.
func (fc *FileController) respondListing(c *gin.Context, op, dir string) {
	entries, err := fc.store.List(c.Request.Context(), dir, fc.cfg.ShowAbsolutePath)
	fc.metrics.RecordOperation(op, err)
	if err != nil {
		fail(c, op, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// relPath returns path relative to root, slash separated.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// fail logs the full cause and sends the generic failure body.
func fail(c *gin.Context, op string, err error) {
	se := store.AsError(err)
	tool.DefaultLogger.Errorf("[%s] %s %s: %v", opComponent(op), c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, tool.FastReturnKindError(se))
}

func opComponent(op string) string {
	switch op {
	case "upload", "mkdir":
		return "Upload"
	case "delete":
		return "Delete"
	case "alias":
		return "Alias"
	}
	return "Read"
}
