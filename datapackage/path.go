package datapackage

import (
	"net/url"
	"path/filepath"
)

func parseRemotePath(path string) (*url.URL, bool) {
	u, err := url.Parse(path)
	return u, err == nil && u.Scheme != "" && u.Host != ""
}

func isRemotePath(path string) bool {
	_, remote := parseRemotePath(path)
	return remote
}

// joinPaths resolves a descriptor path, which always uses forward slashes,
// against a local base directory.
func joinPaths(basePath, finalPath string) string {
	return filepath.Join(basePath, filepath.FromSlash(finalPath))
}

func getBasepath(p string) string {
	return filepath.Dir(p)
}
