package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/staffrota/roster-api-go/pkg/auth"
	"github.com/staffrota/roster-api-go/pkg/config"
	"github.com/staffrota/roster-api-go/pkg/database"
	"github.com/staffrota/roster-api-go/pkg/engine"
	"github.com/staffrota/roster-api-go/pkg/handlers"
	"github.com/staffrota/roster-api-go/pkg/logger"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.Load(os.Getenv("ROSTER_CONFIG"))
	if err != nil {
		panic(err)
	}
	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic(err)
	}

	db := database.InitDB(&cfg.Database, log)
	_ = auth.EnsureAdminExists(db)
	h := &handlers.Handler{
		DB:     db,
		Engine: engine.NewWithDB(db, log),
		Log:    log,
	}

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Roster API (serverless)",
			"version": "1.2.0",
		})
	})

	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.GET("/employees", h.ListEmployees)
		api.POST("/employees", h.CreateEmployee)
		api.GET("/employees/:id", h.GetEmployee)
		api.PUT("/employees/:id", h.UpdateEmployee)
		api.DELETE("/employees/:id", h.DeactivateEmployee)
		api.PUT("/employees/:id/positions", h.SetEmployeePositions)
		api.GET("/employees/:id/availability", h.ListAvailability)
		api.POST("/employees/:id/availability", h.CreateAvailability)

		api.GET("/positions", h.ListPositions)
		api.POST("/positions", h.CreatePosition)
		api.GET("/positions/:id", h.GetPosition)
		api.PUT("/positions/:id", h.UpdatePosition)
		api.DELETE("/positions/:id", h.DeletePosition)
		api.GET("/positions/:id/templates", h.ListTemplates)
		api.POST("/positions/:id/templates", h.CreateTemplate)
		api.DELETE("/templates/:id", h.DeleteTemplate)

		api.GET("/constraints", h.ListConstraints)
		api.POST("/constraints", h.CreateConstraint)

		api.POST("/schedules/generate", h.GenerateSchedule)
		api.POST("/schedules/validate", h.ValidateGenerateRequest)
		api.GET("/schedules", h.ListSchedules)
		api.GET("/schedules/:id", h.GetSchedule)
		api.POST("/schedules/:id/publish", h.PublishSchedule)

		api.GET("/violations", h.ListViolations)
		api.PUT("/violations/:id/resolve", h.ResolveViolation)

		api.GET("/usage", h.GetMyUsage)
	}
}

// Handler is the entry point for the Vercel Go runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
