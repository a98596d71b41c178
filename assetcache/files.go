package assetcache

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileFetcher is the network side of the cache: it serves files from dir,
// mapping "/" to index.html. Unlike http.FileServer it answers /index.html
// directly instead of redirecting, so the entry can be cached.
type FileFetcher struct {
	Dir string
}

// Exists reports whether urlPath maps to a regular file.
func (f FileFetcher) Exists(urlPath string) bool {
	info, err := os.Stat(f.resolve(urlPath))
	return err == nil && info.Mode().IsRegular()
}

func (f FileFetcher) resolve(urlPath string) string {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		clean = "/index.html"
	}
	return filepath.Join(f.Dir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
}

func (f FileFetcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	file, err := os.Open(f.resolve(r.URL.Path))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}
