package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"curiolearn_backend/internal/util"
	"curiolearn_backend/pkg/database"
)

type HealthController struct {
	Neo4j *database.Neo4jClient
	Redis *redis.Client
}

func NewHealthController(neo *database.Neo4jClient, rdb *redis.Client) *HealthController {
	return &HealthController{Neo4j: neo, Redis: rdb}
}

// Health godoc
// @Summary Liveness and dependency health
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	status := gin.H{"neo4j": "up", "redis": "up"}
	healthy := true

	if err := c.Neo4j.Driver.VerifyConnectivity(ctx.Request.Context()); err != nil {
		status["neo4j"] = "down"
		healthy = false
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
			status["redis"] = "down"
			healthy = false
		}
	}

	if !healthy {
		util.Error(ctx, http.StatusServiceUnavailable, "degraded")
		return
	}
	util.Success(ctx, status)
}
