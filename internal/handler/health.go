package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	rdb   *redis.Client
	sunat *infra.SUNATClient
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client, sunat *infra.SUNATClient) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, sunat: sunat}
}

// Live responds as long as the process is up.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready checks the dependencies. The SUNAT sidecar is reported but never
// fails readiness: sales must keep flowing while facturación is down.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	checks := gin.H{}
	healthy := true

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "down"
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if err := h.rdb.Ping(ctx).Err(); err != nil {
		checks["redis"] = "down"
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	sunatCtx, sunatCancel := context.WithTimeout(ctx, 2*time.Second)
	defer sunatCancel()
	if err := h.sunat.Health(sunatCtx); err != nil {
		checks["sunat_sidecar"] = "down"
	} else {
		checks["sunat_sidecar"] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": checks})
}
