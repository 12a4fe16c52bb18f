package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opark001/vertex-gemini-web/internal/constants"
)

// SPA serves files from dir and falls back to dir/index.html for unknown
// paths. Unknown /api paths get a JSON 404.
func SPA(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == constants.RouteAPIPrefix || strings.HasPrefix(p, constants.RouteAPIPrefix+"/") {
			respondError(c, http.StatusNotFound, constants.ErrNotFound, nil)
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			respondError(c, http.StatusNotFound, constants.ErrNotFound, nil)
			return
		}
		if dir != "" {
			file := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+p)))
			if fi, err := os.Stat(file); err == nil && !fi.IsDir() {
				c.File(file)
				return
			}
			index := filepath.Join(dir, "index.html")
			if _, err := os.Stat(index); err == nil {
				c.File(index)
				return
			}
		}
		respondError(c, http.StatusNotFound, constants.ErrNotFound, nil)
	}
}
