package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/chirper/pkg/response"
)

// HealthHandler probes backing-store connectivity.
type HealthHandler struct {
	Mongo *mongo.Client
	RDB   *redis.Client
}

func NewHealthHandler(client *mongo.Client, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{Mongo: client, RDB: rdb}
}

// Check GET /api/health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.Mongo.Ping(ctx, nil); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "database connection failed", nil)
		return
	}
	status := gin.H{"database": "ok"}
	if h.RDB != nil {
		if err := h.RDB.Ping(ctx).Err(); err != nil {
			status["redis"] = "unreachable"
		} else {
			status["redis"] = "ok"
		}
	}
	response.Success(c, http.StatusOK, status, "database connected", nil)
}
