package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/sessionauth/version"
)

var started = time.Now()

// Info reports build metadata and process uptime.
func Info(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		b := version.Get()
		c.JSON(http.StatusOK, gin.H{
			"service":    service,
			"version":    b.Version,
			"git_commit": b.GitCommit,
			"build_time": b.BuildTime,
			"go_version": b.GoVersion,
			"dirty":      b.IsDirty,
			"uptime":     time.Since(started).Truncate(time.Second).String(),
		})
	}
}
