package controllers

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/http-file-store/store"
	"github.com/moyoez/http-file-store/tool"
	"github.com/moyoez/http-file-store/types"
)

// HandleWrite receives one multipart "file" field into the target directory,
// or creates the directory named by the "name" field when no file is sent.
// The response is the listing of the target directory afterwards.
func (fc *FileController) HandleWrite(c *gin.Context, t target) {
	if t.root {
		fail(c, "upload", &store.Error{Kind: store.KindAmbiguousOrMissingAlias, Op: "upload", Path: c.Request.URL.Path})
		return
	}
	rp, err := fc.registry.Resolve(t.req)
	if err != nil {
		fail(c, "upload", err)
		return
	}
	if fc.cfg.MaxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, fc.cfg.MaxUploadSize)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			if name := c.PostForm("name"); name != "" {
				fc.mkdir(c, rp, name)
				return
			}
		}
		fail(c, "upload", &store.Error{Kind: store.KindMissingUpload, Op: "upload", Path: rp.AbsolutePath, Err: err})
		return
	}

	ctx := c.Request.Context()
	tmp, err := tool.SaveUploadedTemp(ctx, fh, fc.cfg.UploadPath)
	if err != nil {
		fail(c, "upload", &store.Error{Kind: store.KindMoveError, Op: "receive", Path: fh.Filename, Err: err})
		return
	}

	overwrite := store.OverwritePermitted(fc.cfg.AllowOverwrite, c.Query("overwrite") == "1")
	dest, err := fc.store.Upload(ctx, store.UploadRequest{
		TempFilePath:     tmp,
		OriginalFilename: rawFilename(fh),
		TargetDirectory:  rp.AbsolutePath,
		Overwrite:        overwrite,
	})
	fc.metrics.RecordOperation("upload", err)
	if err != nil {
		fail(c, "upload", err)
		return
	}
	fc.metrics.RecordUpload(fh.Size)
	fc.hub.Publish(types.Event{Type: types.EventUpload, Alias: rp.AliasName, Path: relPath(rp.Root, dest)})
	fc.respondListing(c, "list", rp.AbsolutePath)
}

// rawFilename returns the filename exactly as the client sent it.
// FileHeader.Filename is already reduced to its base name, which would hide
// separators from validation.
func rawFilename(fh *multipart.FileHeader) string {
	if _, params, err := mime.ParseMediaType(fh.Header.Get("Content-Disposition")); err == nil {
		if name, ok := params["filename"]; ok {
			return name
		}
	}
	return fh.Filename
}

func (fc *FileController) mkdir(c *gin.Context, rp store.ResolvedPath, name string) {
	dir, err := fc.store.Mkdir(c.Request.Context(), rp.AbsolutePath, name)
	fc.metrics.RecordOperation("mkdir", err)
	if err != nil {
		fail(c, "mkdir", err)
		return
	}
	fc.hub.Publish(types.Event{Type: types.EventMkdir, Alias: rp.AliasName, Path: relPath(rp.Root, dir)})
	fc.respondListing(c, "list", rp.AbsolutePath)
}
