package routes

import (
	"net/http"
	"time"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const rootMessage = "AI Appointment Scheduler API is running..."

// RegisterScheduleRoutes registers the submission endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedule")
	{
		api.POST("/text", hb.ScheduleFromText)
		api.POST("/image", hb.ScheduleFromImage)
		api.POST("/audio", hb.ScheduleFromAudio)
	}
}

// RegisterAppointmentRoutes registers the read endpoints for stored appointments.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.GET("", hb.ListAppointments)
		api.GET("/:id", hb.GetAppointment)
	}
}

// RegisterHealthRoute registers the banner, health and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, rootMessage)
	})
	r.GET("/health", hb.Health)
	r.GET("/metrics", hb.Metrics)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterScheduleRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
}
