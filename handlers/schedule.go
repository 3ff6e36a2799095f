package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/scheduling"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/speech"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	DefaultMaxUploadBytes = 5 * 1024 * 1024
	AllowedAudioExtension = ".wav"
)

// Scheduler is the pipeline as seen by the HTTP layer.
type Scheduler interface {
	ScheduleFromText(ctx context.Context, text string) (*models.ScheduleResult, error)
	ScheduleFromImage(ctx context.Context, image []byte, filename string) (*models.ScheduleResult, error)
	ScheduleFromAudio(ctx context.Context, audio []byte, language string) (*models.ScheduleResult, error)
}

// ScheduleHandler serves the three submission endpoints.
type ScheduleHandler struct {
	Scheduler      Scheduler
	MaxUploadBytes int64
}

func NewScheduleHandler(scheduler Scheduler, maxUploadBytes int64) *ScheduleHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &ScheduleHandler{Scheduler: scheduler, MaxUploadBytes: maxUploadBytes}
}

type scheduleTextRequest struct {
	Text string `json:"text"`
}

// clarificationResponse is the 400 body: the clarification plus its status.
type clarificationResponse struct {
	Status string `json:"status"`
	*guardrail.Clarification
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ScheduleFromText handles POST /api/schedule/text with {"text": "..."}.
func (h *ScheduleHandler) ScheduleFromText(c *gin.Context) {
	var req scheduleTextRequest
	// A malformed body is treated like an empty one so the caller gets the same clarification.
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Debug("ScheduleFromText: ignoring malformed request body", zap.Error(err))
	}

	result, err := h.Scheduler.ScheduleFromText(c.Request.Context(), req.Text)
	respond(c, result, err)
}

// ScheduleFromImage handles POST /api/schedule/image with a multipart "file" field.
func (h *ScheduleHandler) ScheduleFromImage(c *gin.Context) {
	data, filename, ok := h.readUpload(c, "file")
	if !ok {
		return
	}
	result, err := h.Scheduler.ScheduleFromImage(c.Request.Context(), data, filename)
	respond(c, result, err)
}

// ScheduleFromAudio handles POST /api/schedule/audio with a multipart "audio" field and an
// optional "language" (BCP-47, default en-US).
func (h *ScheduleHandler) ScheduleFromAudio(c *gin.Context) {
	language := c.DefaultPostForm("language", speech.DefaultLanguage)

	data, filename, ok := h.readUpload(c, "audio")
	if !ok {
		return
	}
	if filename != "" {
		if ext := strings.ToLower(filepath.Ext(filename)); ext != AllowedAudioExtension {
			clarification := guardrail.New(guardrail.ReasonMissingInput, scheduling.MsgAudioFormat, guardrail.FieldAudio).
				WithDetails("expected %s, got %q", AllowedAudioExtension, ext)
			respond(c, nil, clarification)
			return
		}
	}
	result, err := h.Scheduler.ScheduleFromAudio(c.Request.Context(), data, language)
	respond(c, result, err)
}

// readUpload returns the named multipart file, or nil data when it is absent so the pipeline
// reports the missing input. ok is false when a response was already written.
func (h *ScheduleHandler) readUpload(c *gin.Context, field string) (data []byte, filename string, ok bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", true
	}
	file, err := fileHeader.Open()
	if err != nil {
		getLogger(c).Error("Failed to open upload", zap.String("field", field), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Status: models.StatusError, Message: "Failed to read upload"})
		return nil, "", false
	}
	defer file.Close()

	data, err = readLimited(file, h.MaxUploadBytes)
	if err != nil {
		getLogger(c).Warn("Upload rejected", zap.String("field", field), zap.Error(err))
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Status: models.StatusError, Message: err.Error()})
		return nil, "", false
	}
	return data, fileHeader.Filename, true
}

func readLimited(file multipart.File, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file exceeds the %d byte limit", limit)
	}
	return data, nil
}

// respond maps the pipeline outcome to HTTP: clarifications are 400, upstream failures 502 and
// anything else 500. Error internals never reach the caller.
func respond(c *gin.Context, result *models.ScheduleResult, err error) {
	logger := getLogger(c)

	if err == nil {
		c.JSON(http.StatusOK, result)
		return
	}
	if clarification, ok := guardrail.As(err); ok {
		c.JSON(http.StatusBadRequest, clarificationResponse{
			Status:        models.StatusNeedsClarification,
			Clarification: clarification,
		})
		return
	}
	if errors.Is(err, guardrail.ErrUpstream) {
		logger.Error("Upstream failure while scheduling", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorResponse{
			Status:  models.StatusError,
			Message: "An upstream service failed. Please try again later.",
		})
		return
	}
	logger.Error("Failed to schedule appointment", zap.Error(err))
	c.JSON(http.StatusInternalServerError, errorResponse{
		Status:  models.StatusError,
		Message: "Failed to process request",
	})
}
