package template

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	templates := router.Group("/templates")
	{
		templates.POST("", CreateTemplate)
		templates.GET("", ListTemplates)
		templates.GET("/:id", GetTemplate)
		templates.PUT("/:id", UpdateTemplate)
		templates.DELETE("/:id", DeleteTemplate)
	}
}
