package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studybee/internal/handler"
	"studybee/internal/metrics"
	"studybee/internal/middleware"
)

// Handlers bundles the route targets for New.
type Handlers struct {
	User   *handler.UserHandler
	Group  *handler.GroupHandler
	Stats  *handler.StatsHandler
	AI     *handler.AIHandler
	Health *handler.HealthHandler
}

func New(h Handlers, m *metrics.Metrics, gatherer prometheus.Gatherer, corsOrigins []string) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.CORS(corsOrigins), middleware.Metrics(m))

	engine.GET("/health", h.Health.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := engine.Group("/api")
	api.POST("/user/register", h.User.Register)

	api.POST("/group/create", h.Group.Create)
	api.POST("/group/join", h.Group.Join)
	api.GET("/group/my-groups/:userId", h.Group.MyGroups)
	api.POST("/group/leave", h.Group.Leave)

	api.GET("/leaderboard/:groupCode", h.Group.Leaderboard)

	api.POST("/stats/sync", h.Stats.Sync)

	api.POST("/ai", h.AI.Respond)

	return engine
}
