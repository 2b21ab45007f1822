package endpoint

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
)

const mib = 1 << 20

// Metrics reports goroutine count and heap figures in MiB. Counters for
// auth decisions go out over OTLP instead.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		c.JSON(http.StatusOK, gin.H{
			"goroutines": runtime.NumGoroutine(),
			"memory": gin.H{
				"heap_alloc_mb":  ms.HeapAlloc / mib,
				"total_alloc_mb": ms.TotalAlloc / mib,
				"sys_mb":         ms.Sys / mib,
				"gc_runs":        ms.NumGC,
			},
		})
	}
}
