package server

import (
	"net/http"

	"risk-tracker/internal/config"
	"risk-tracker/internal/handlers"
	"risk-tracker/internal/middleware"
	"risk-tracker/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("risk_session", store))
	r.Use(middleware.InjectUser())

	// HEALTHCHECK — no auth, used by the platform probe
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "app": "risk-assessment-tracker"})
	})

	// AUTH
	r.POST("/login", handlers.Login)
	r.GET("/logout", handlers.Logout)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth())

	// DASHBOARD
	api.GET("/stats", handlers.Stats)

	// RISK ASSESSMENTS
	api.GET("/risks", handlers.ListRisks)
	api.GET("/risks/:id", handlers.GetRisk)
	api.POST("/risks/:id/update",
		middleware.RequireRole(models.RoleAdmin, models.RoleReviewer),
		handlers.UpdateRisk,
	)
	api.GET("/risks/:id/audit", handlers.GetAuditTrail)

	// REFERENCE DATA
	api.GET("/assets", handlers.ListAssets)
	api.GET("/controls", handlers.ListControls)
	api.GET("/lookups", handlers.ListLookups)

	// BULK IMPORT — admin only
	api.POST("/import",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ImportSpreadsheet,
	)

	return r
}
