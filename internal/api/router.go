package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tixera/tixera/internal/api/middleware"
	v1 "github.com/tixera/tixera/internal/api/v1"
)

type Handlers struct {
	Tax *v1.TaxHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	tax := router.Group("/tax")
	{
		tax.POST("/apply", handlers.Tax.Apply)
		tax.POST("/obligations", handlers.Tax.ScheduleObligations)
		tax.GET("/rules", handlers.Tax.ListRules)
	}
}
