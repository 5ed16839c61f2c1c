package api

import (
	"context"

	"promptdeck-backend/config"
	_ "promptdeck-backend/docs"
	"promptdeck-backend/internal/api/v1/auth"
	"promptdeck-backend/internal/api/v1/generation"
	"promptdeck-backend/internal/api/v1/snippet"
	"promptdeck-backend/internal/api/v1/template"
	userRoutes "promptdeck-backend/internal/api/v1/user"
	"promptdeck-backend/internal/database"
	"promptdeck-backend/internal/llm"
	"promptdeck-backend/internal/middleware"
	"promptdeck-backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter() (*gin.Engine, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	_, err = database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}

	err = database.ConnectRedis(cfg)
	if err != nil {
		return nil, err
	}

	registry, err := llm.NewRegistry(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	services.InitGeneration(registry)
	generation.SetRegistry(registry)

	router := gin.Default()
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1
	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1)

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			userRoutes.RegisterRoutes(authorized)
			template.RegisterRoutes(authorized)
			snippet.RegisterRoutes(authorized)
			generation.RegisterRoutes(authorized)
		}
	}

	return router, nil
}
