package store

import (
	"path/filepath"
	"regexp"
	"strings"
)

// traversalPattern matches the literal "./" and "../" sequences. The check is
// textual and runs before any join.
var traversalPattern = regexp.MustCompile(`[.]{1,2}/`)

// PathRequest is the part of an inbound request that addresses the filesystem.
type PathRequest struct {
	Alias      string
	AliasGiven bool
	SubPath    string
}

// ResolvedPath is a per-request resolution result.
type ResolvedPath struct {
	AbsolutePath string
	AliasName    string
	Root         string
}

// HasTraversal reports whether p contains a "./" or "../" sequence.
func HasTraversal(p string) bool {
	return traversalPattern.MatchString(filepath.ToSlash(p))
}

// Resolve maps an alias and sub-path onto an absolute path under the alias
// root. It performs no filesystem access.
func (r *Registry) Resolve(req PathRequest) (ResolvedPath, error) {
	var (
		root string
		name string
		ok   bool
	)
	switch {
	case req.AliasGiven:
		name = req.Alias
		root, ok = r.Lookup(name)
		if !ok {
			return ResolvedPath{}, newError(KindUnknownAlias, "resolve", name, nil)
		}
	case r.SingleRoot():
		root, _ = r.Lookup("")
	default:
		return ResolvedPath{}, newError(KindAmbiguousOrMissingAlias, "resolve", req.SubPath, nil)
	}

	if HasTraversal(req.SubPath) {
		return ResolvedPath{}, newError(KindInvalidPath, "resolve", req.SubPath, nil)
	}

	abs := filepath.Join(root, filepath.FromSlash(req.SubPath))
	if !within(root, abs) {
		return ResolvedPath{}, newError(KindInvalidPath, "resolve", req.SubPath, nil)
	}
	return ResolvedPath{AbsolutePath: abs, AliasName: name, Root: root}, nil
}

// within reports whether the cleaned path stays lexically under root.
func within(root, path string) bool {
	root = filepath.Clean(root)
	path = filepath.Clean(path)
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
