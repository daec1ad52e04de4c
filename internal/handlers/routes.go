package handlers

import (
	"net/http"

	"github.com/epeers/watchlist/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API on router. Everything under /portfolios
// requires Basic credentials.
func RegisterRoutes(router *gin.Engine, auth middleware.Authenticator, portfolioHandler *PortfolioHandler, userHandler *UserHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// User routes
	router.POST("/users", userHandler.Register)
	router.POST("/login", userHandler.Login)

	// Portfolio routes
	portfolios := router.Group("/portfolios", middleware.BasicAuth(auth), middleware.RequireAuth())
	portfolios.GET("", portfolioHandler.List)
	portfolios.POST("", portfolioHandler.Create)
	portfolios.GET("/:name", portfolioHandler.Get)
	portfolios.DELETE("/:name", portfolioHandler.Delete)
	portfolios.POST("/:name/tickers", portfolioHandler.AddTickers)
	portfolios.DELETE("/:name/tickers", portfolioHandler.RemoveTickers)
	portfolios.PUT("/:name/window", portfolioHandler.UpdateWindow)
	portfolios.POST("/:name/refresh", portfolioHandler.Refresh)
	portfolios.GET("/:name/stats", portfolioHandler.Stats)
	portfolios.GET("/:name/series/:ticker", portfolioHandler.Series)
}
