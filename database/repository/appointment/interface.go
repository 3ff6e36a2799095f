package appointmentRepo

import (
	"context"
	"errors"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
)

const (
	AppointmentsCollection   = "appointments"
	ClarificationsCollection = "clarifications"

	DefaultListLimit = 20
	MaxListLimit     = 100
)

var ErrNotFound = errors.New("appointment not found")

type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	List(ctx context.Context, limit int) ([]models.Appointment, error)
}

type ClarificationRepository interface {
	Create(ctx context.Context, entry *models.ClarificationLog) error
}

// ClampLimit maps a requested page size onto [1, MaxListLimit], with DefaultListLimit for
// anything non-positive.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}
