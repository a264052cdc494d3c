package server

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/fraudguard-console/assets"
)

// SetupAssets serves the embedded stylesheet and scripts under /assets.
// Production responses may be cached for a day.
func SetupAssets(r *gin.Engine, production bool) error {
	if _, err := fs.Stat(assets.Assets, "css/app.css"); err != nil {
		return err
	}
	group := r.Group("/assets")
	group.Use(func(c *gin.Context) {
		if production {
			c.Header("Cache-Control", "public, max-age=86400")
		} else {
			c.Header("Cache-Control", "no-cache")
		}
		c.Next()
	})
	group.StaticFS("/", http.FS(assets.Assets))
	return nil
}
