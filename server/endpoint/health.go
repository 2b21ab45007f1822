// Package endpoint holds the operational handlers mounted next to the API.
package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/sessionauth/component"
)

// HealthChecker reports the health of each running component.
type HealthChecker func(ctx context.Context) []component.Health

var severity = map[component.HealthStatus]int{
	component.StatusHealthy:   0,
	component.StatusDegraded:  1,
	component.StatusUnhealthy: 2,
}

// overall is the worst status among hs.
func overall(hs []component.Health) component.HealthStatus {
	worst := component.StatusHealthy
	for _, h := range hs {
		if severity[h.Status] > severity[worst] {
			worst = h.Status
		}
	}
	return worst
}

// Health answers 503 when any component is unhealthy and 200 otherwise.
// A nil checker always reports healthy.
func Health(service string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var hs []component.Health
		if checker != nil {
			hs = checker(c.Request.Context())
		}
		status := overall(hs)
		code := http.StatusOK
		if status == component.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":     status,
			"service":    service,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": hs,
		})
	}
}
