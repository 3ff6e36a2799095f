package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Schedule endpoints
	ScheduleFromText  gin.HandlerFunc
	ScheduleFromImage gin.HandlerFunc
	ScheduleFromAudio gin.HandlerFunc

	// Appointment endpoints
	GetAppointment   gin.HandlerFunc
	ListAppointments gin.HandlerFunc

	// Operational endpoints
	Health  gin.HandlerFunc
	Metrics gin.HandlerFunc
}
