package snippet

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	snippets := router.Group("/snippets")
	{
		snippets.POST("", CreateSnippet)
		snippets.GET("", ListSnippets)
		snippets.GET("/suggest", SuggestSnippets)
		snippets.GET("/:id", GetSnippet)
		snippets.PUT("/:id", UpdateSnippet)
		snippets.DELETE("/:id", DeleteSnippet)
	}
}
