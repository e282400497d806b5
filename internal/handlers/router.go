package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/healthchain-api/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	StaticDir      string
	MaxBodyBytes   int64
}

// NewRouter wires every HealthChain route behind the session gate.
func NewRouter(h *Handler, auth middleware.Authenticator, cfg RouterConfig) *gin.Engine {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(h.Logger),
		middleware.Recovery(h.Logger),
		cors.New(corsConfig),
	)
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.LimitBodySize(cfg.MaxBodyBytes))
	}
	r.Use(middleware.Gate(auth, h.Logger))

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		r.Static("/static", cfg.StaticDir)
	}
	r.GET("/", h.Root)
	r.GET("/login.html", func(c *gin.Context) { c.Redirect(http.StatusFound, middleware.PatientLoginPage) })
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		// System
		api.GET("/debug", h.Debug)

		// Patient auth
		api.POST("/register", h.RegisterUser)
		api.POST("/login", h.Login)
		api.POST("/logout", h.Logout)
		api.GET("/session", h.GetSession)

		// Health records
		api.POST("/logs", h.AddLog)
		api.GET("/logs", h.GetLogs)
		api.POST("/meds", h.AddMedication)
		api.GET("/meds", h.GetMedications)
		api.POST("/verify-medicine", h.VerifyMedicine)
		api.POST("/send-email-reminder", h.SendEmailReminder)
		api.POST("/nutrition", h.AddNutrition)
		api.GET("/nutrition", h.GetNutrition)
		api.POST("/nutrition/fetch", h.FetchNutrition)
		api.POST("/fitness", h.AddFitness)
		api.GET("/fitness", h.GetFitness)
		api.GET("/fitness/plan", h.GetFitnessPlan)
		api.GET("/fitness/progress", h.GetFitnessProgress)
		api.POST("/forum", h.AddForumPost)
		api.GET("/forum", h.GetForumPosts)

		// Reports and AI
		api.POST("/reports", h.CreateReport)
		api.GET("/reports", h.GetReports)
		api.GET("/download-report/:id", h.DownloadReport)
		api.POST("/analyze-report", h.AnalyzeReport)
		api.POST("/symptoms", h.CheckSymptoms)
		api.POST("/chat", h.HandleChat)

		// Ledger
		api.POST("/blockchain", h.SaveLedger)
		api.GET("/blockchain", h.GetLedger)
		api.GET("/blockchain/status", h.LedgerStatus)

		// Appointments (patient side)
		api.POST("/appointments/request", h.RequestAppointment)
		api.GET("/appointments", h.GetPatientAppointments)
		api.GET("/doctors", h.ListDoctors)
	}

	doctors := api.Group("/doctors")
	{
		doctors.POST("/register", h.RegisterDoctor)
		doctors.POST("/login", h.DoctorLogin)
		doctors.POST("/logout", h.DoctorLogout)
		doctors.GET("/session", h.DoctorSession)
		doctors.GET("/appointments", h.GetPendingAppointments)
		doctors.POST("/appointments/:id/accept", h.AcceptAppointment)
		doctors.GET("/appointments/accepted", h.GetAcceptedAppointments)
	}

	return r
}
