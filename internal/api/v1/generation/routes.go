package generation

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/generate", Generate)
	router.GET("/providers", Providers)

	prompts := router.Group("/prompts")
	{
		prompts.POST("/optimize", Optimize)
		prompts.POST("/title", Title)
		prompts.POST("/prepare", Prepare)
	}
}
