package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"hr-agent-go/internal/api/handler"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, planHandler *handler.PlanHandler) {
	api := h.Group("/api")

	api.POST("/analyze-role", planHandler.HandleAnalyzeRole)
	api.POST("/create-hiring-plan", planHandler.HandleCreateHiringPlan)
	api.GET("/health", planHandler.HandleHealth)
	api.GET("/tools", planHandler.HandleListTools)
}
