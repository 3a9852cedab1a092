package obs

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadyCheck reports whether one backing dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

// HealthHandlers exposes liveness and readiness endpoints. Liveness is
// unconditional; readiness runs every named check and reports the ones
// that failed, so an operator can tell a sick Mongo from a sick broker.
type HealthHandlers struct {
	Checks  map[string]ReadyCheck
	Timeout time.Duration
}

func (h HealthHandlers) Livez(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h HealthHandlers) Readyz(c *gin.Context) {
	failed := gin.H{}
	for name, check := range h.Checks {
		if check == nil {
			continue
		}
		if err := h.runCheck(c.Request.Context(), check); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "checks": failed})
		return
	}
	c.Status(http.StatusOK)
}

func (h HealthHandlers) runCheck(ctx context.Context, check ReadyCheck) error {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return check(ctx)
}
