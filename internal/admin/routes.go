// Package admin - HTTP API для просмотра дневников и управления напоминаниями.
package admin

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter собирает gin.Engine со всеми маршрутами
func NewRouter(h *Handlers, auth AuthConfig, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(RequestID(), Logger(logger.Named("admin")), gin.Recovery())
	SetupRoutes(r, h, AuthMiddleware(auth))
	return r
}

func SetupRoutes(r *gin.Engine, h *Handlers, auth gin.HandlerFunc) {
	r.GET("/healthz", h.Healthz)

	adminGroup := r.Group("/admin", auth)

	adminGroup.GET("/users", h.ListUsers)

	users := adminGroup.Group("/users/:id")
	users.GET("/summary", h.GetSummary)
	users.GET("/meals", h.ListMeals)
	users.GET("/favorites", h.ListFavorites)
	users.DELETE("/favorites/:fid", h.DeleteFavorite)
	users.POST("/reminders", h.RegisterReminders)
	users.DELETE("/reminders", h.UnregisterReminders)
}
