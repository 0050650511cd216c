package handler

import (
	"context"
	"time"

	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthHandler reports process and dependency health. Local-only mode is
// reported as degraded, not down.
func HealthHandler(c *gin.Context, stores *services.StoreManager) {
	status := "ok"

	mongoStatus := "disconnected"
	if utils.MongoClient != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := utils.MongoClient.Ping(ctx, readpref.Primary()); err == nil {
			mongoStatus = "connected"
		} else {
			mongoStatus = "unreachable"
			status = "degraded"
		}
	} else {
		status = "degraded"
	}

	pool := utils.GetMongoMetrics()

	c.JSON(200, gin.H{
		"status":     status,
		"local_only": stores.LocalOnly(),
		"mongo": gin.H{
			"status":              mongoStatus,
			"active_connections":  pool.ActiveConnections,
			"created_connections": pool.CreatedConnections,
			"closed_connections":  pool.ClosedConnections,
		},
		"system": gin.H{
			"cpu_percent":    utils.GetCPUUsage(),
			"memory_percent": utils.GetMemoryUsage(),
		},
	})
}
