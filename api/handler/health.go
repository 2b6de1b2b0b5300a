package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simba-tools/simbadesk/models"
	"github.com/simba-tools/simbadesk/store"
)

// Version is the reported service version.
const Version = "1.0.0"

// Health returns a handler for GET /api/health. A failing store ping
// degrades the status but still answers 200 so probes can see the
// reason.
func Health(st store.Store, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		if err := st.Ping(c.Request.Context()); err != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, models.OK(models.HealthResponse{
			Status:        status,
			UptimeSeconds: int64(time.Since(startTime).Seconds()),
			Version:       Version,
		}))
	}
}
