package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	appointmentRepo "github.com/Riya-Singh-4103/Appointment-Sheduler/database/repository/appointment"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentReader is the read side of the appointment repository.
type AppointmentReader interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	List(ctx context.Context, limit int) ([]models.Appointment, error)
}

type AppointmentHandler struct {
	Repo AppointmentReader
}

func NewAppointmentHandler(repo AppointmentReader) *AppointmentHandler {
	return &AppointmentHandler{Repo: repo}
}

// GetAppointment handles GET /api/appointments/:id.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	id := c.Param("id")
	appt, err := h.Repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Appointment not found", id)
		return
	}
	if err != nil {
		getLogger(c).Error("Failed to load appointment", zap.String("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load appointment", "")
		return
	}
	c.JSON(http.StatusOK, appt)
}

// ListAppointments handles GET /api/appointments?limit=N, newest first.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	limit := appointmentRepo.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "limit must be a positive integer", raw)
			return
		}
		limit = appointmentRepo.ClampLimit(n)
	}

	appts, err := h.Repo.List(c.Request.Context(), limit)
	if err != nil {
		getLogger(c).Error("Failed to list appointments", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list appointments", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts, "count": len(appts)})
}
