package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRoutes() {
	gin.SetMode(s.ginMode)
	s.router = gin.New()

	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(s.corsMiddleware())
	s.router.Use(s.maxBodySizeMiddleware())
	s.router.Use(s.rateLimitMiddleware())

	s.router.GET("/", s.rootInfo)
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/models", s.listModels)
	s.router.POST("/predict/:pair", s.predict)

	s.router.GET("/metrics", gin.WrapH(s.prom.Handler()))
	s.router.GET("/api/stats", s.getStatsData)
}
