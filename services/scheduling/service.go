// Package scheduling runs a submission through the pipeline: source gate, entity extraction,
// datetime normalization, appointment assembly and persistence. Each stage either hands its value
// on or stops the request with a clarification.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/metrics"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/builder"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/extraction"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/normalizer"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/ocr"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/speech"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/storage"

	"go.uber.org/zap"
)

// ErrPersistence marks a failure to store an accepted appointment.
var ErrPersistence = errors.New("persistence failure")

// Missing-input messages returned to callers.
const (
	MsgTextRequired  = "Text input is required"
	MsgImageRequired = "Image file is required"
	MsgAudioRequired = "Audio file is required"
	MsgAudioFormat   = "Audio must be a WAV file (16-bit PCM, at most one minute). Please record again or type the request."
)

const recordTimeout = 5 * time.Second

// AppointmentStore persists accepted appointments.
type AppointmentStore interface {
	Create(ctx context.Context, appt *models.Appointment) error
}

// ClarificationRecorder keeps a log of requests that needed clarification.
type ClarificationRecorder interface {
	Record(ctx context.Context, entry *models.ClarificationLog) error
}

// Dependencies wires a Service. Recognizer, Transcriber, Archiver and Recorder are optional.
type Dependencies struct {
	Extractor           extraction.Extractor
	Normalizer          *normalizer.Normalizer
	Builder             *builder.Builder
	Store               AppointmentStore
	Recognizer          ocr.Recognizer
	Transcriber         speech.Transcriber
	Archiver            storage.Archiver
	Recorder            ClarificationRecorder
	MinSourceConfidence float64
	Logger              *zap.Logger
}

// Service is safe for concurrent use; every request carries its own state.
type Service struct {
	deps Dependencies
}

func New(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Service{deps: deps}
}

// ScheduleFromText schedules typed text, which is trusted with confidence 1.
func (s *Service) ScheduleFromText(ctx context.Context, text string) (*models.ScheduleResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, s.clarify(ctx, models.RawInput{Source: models.SourceText},
			guardrail.New(guardrail.ReasonMissingInput, MsgTextRequired, guardrail.FieldText))
	}
	return s.run(ctx, models.RawInput{Text: text, SourceConfidence: 1.0, Source: models.SourceText}, submission{})
}

// ScheduleFromImage reads a note image with OCR before scheduling it.
func (s *Service) ScheduleFromImage(ctx context.Context, image []byte, filename string) (*models.ScheduleResult, error) {
	in := models.RawInput{Source: models.SourceImage}
	if len(image) == 0 {
		return nil, s.clarify(ctx, in, guardrail.New(guardrail.ReasonMissingInput, MsgImageRequired, guardrail.FieldImage))
	}
	if s.deps.Recognizer == nil {
		return nil, s.clarify(ctx, in, guardrail.New(guardrail.ReasonMissingInput,
			"Image requests are not available. Please type the request.", guardrail.FieldImage))
	}

	start := time.Now()
	res, err := s.deps.Recognizer.Recognize(ctx, image)
	observe("ocr", start)
	if err != nil {
		return nil, s.fail(ctx, in, err)
	}
	s.deps.Logger.Debug("OCR result", zap.String("text", res.RawText), zap.Float64("confidence", res.Confidence))

	in.Text, in.SourceConfidence = res.RawText, res.Confidence
	return s.run(ctx, in, submission{image: image, filename: filename})
}

// ScheduleFromAudio transcribes a voice note before scheduling it.
func (s *Service) ScheduleFromAudio(ctx context.Context, audio []byte, language string) (*models.ScheduleResult, error) {
	in := models.RawInput{Source: models.SourceAudio}
	if len(audio) == 0 {
		return nil, s.clarify(ctx, in, guardrail.New(guardrail.ReasonMissingInput, MsgAudioRequired, guardrail.FieldAudio))
	}
	if s.deps.Transcriber == nil {
		return nil, s.clarify(ctx, in, guardrail.New(guardrail.ReasonMissingInput,
			"Voice requests are not available. Please type the request.", guardrail.FieldAudio))
	}

	start := time.Now()
	res, err := s.deps.Transcriber.Transcribe(ctx, audio, language)
	observe("speech", start)
	if errors.Is(err, speech.ErrUnsupportedAudio) {
		return nil, s.clarify(ctx, in, guardrail.New(guardrail.ReasonMissingInput, MsgAudioFormat, guardrail.FieldAudio).
			WithDetails("%v", err))
	}
	if err != nil {
		return nil, s.fail(ctx, in, err)
	}
	s.deps.Logger.Debug("Speech result", zap.String("text", res.Transcript), zap.Float64("confidence", res.Confidence))

	in.Text, in.SourceConfidence = res.Transcript, res.Confidence
	return s.run(ctx, in, submission{})
}

// submission carries what the source stage saw, for provenance.
type submission struct {
	image    []byte
	filename string
}

func (s *Service) run(ctx context.Context, in models.RawInput, sub submission) (*models.ScheduleResult, error) {
	logger := s.deps.Logger.With(zap.String("source", in.Source))

	if c := guardrail.CheckSource(in, s.deps.MinSourceConfidence); c != nil {
		return nil, s.clarify(ctx, in, c)
	}

	start := time.Now()
	entities, err := s.deps.Extractor.Extract(ctx, in.Text)
	observe("extraction", start)
	if err != nil {
		return nil, s.fail(ctx, in, err)
	}
	logger.Debug("Entities extracted",
		zap.String("department", entities.DepartmentPhrase),
		zap.String("date", entities.DatePhrase),
		zap.String("time", entities.TimePhrase),
		zap.Float64("confidence", entities.Confidence),
		zap.String("extractor", entities.Extractor),
	)

	start = time.Now()
	normalized, err := s.deps.Normalizer.Normalize(entities.DatePhrase, entities.TimePhrase)
	observe("normalization", start)
	if err != nil {
		return nil, s.fail(ctx, in, err)
	}

	result := s.deps.Builder.Build(*entities, *normalized)

	appt := &models.Appointment{
		Department:   result.Appointment.Department,
		Date:         result.Appointment.Date,
		Time:         result.Appointment.Time,
		Timezone:     result.Appointment.TZ,
		Status:       result.Status,
		OriginalText: in.Text,
		ProcessingMetadata: models.ProcessingMetadata{
			Source:                  in.Source,
			SourceConfidence:        in.SourceConfidence,
			EntitiesConfidence:      entities.Confidence,
			NormalizationConfidence: normalized.Confidence,
			Extractor:               entities.Extractor,
			GeminiResponse:          entities.Raw,
			ImageRef:                s.archive(ctx, sub),
		},
	}

	start = time.Now()
	err = s.deps.Store.Create(ctx, appt)
	observe("persistence", start)
	if err != nil {
		logger.Error("Failed to save appointment", zap.Error(err))
		metrics.ScheduleRequests.WithLabelValues(in.Source, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	logger.Info("Appointment scheduled",
		zap.String("id", appt.ID),
		zap.String("department", appt.Department),
		zap.String("date", appt.Date),
		zap.String("time", appt.Time),
	)
	metrics.ScheduleRequests.WithLabelValues(in.Source, metrics.OutcomeOK).Inc()
	return &result, nil
}

// fail routes a stage error: clarifications are recorded and returned, anything else is counted
// as an error and passed through unchanged.
func (s *Service) fail(ctx context.Context, in models.RawInput, err error) error {
	if c, ok := guardrail.As(err); ok {
		return s.clarify(ctx, in, c)
	}
	s.deps.Logger.Error("Pipeline stage failed", zap.String("source", in.Source), zap.Error(err))
	metrics.ScheduleRequests.WithLabelValues(in.Source, metrics.OutcomeError).Inc()
	return err
}

func (s *Service) clarify(ctx context.Context, in models.RawInput, c *guardrail.Clarification) error {
	s.deps.Logger.Warn("Request needs clarification",
		zap.String("source", in.Source),
		zap.String("reason", string(c.Reason)),
		zap.Strings("fields", c.Fields),
		zap.String("details", c.Details),
	)
	metrics.ScheduleRequests.WithLabelValues(in.Source, metrics.OutcomeClarification).Inc()
	metrics.Clarifications.WithLabelValues(string(c.Reason)).Inc()

	if s.deps.Recorder != nil {
		recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		defer cancel()
		entry := &models.ClarificationLog{
			Source:       in.Source,
			Reason:       string(c.Reason),
			Fields:       c.Fields,
			Message:      c.Message,
			OriginalText: in.Text,
			CreatedAt:    time.Now(),
		}
		if err := s.deps.Recorder.Record(recordCtx, entry); err != nil {
			s.deps.Logger.Warn("Failed to record clarification", zap.Error(err))
		}
	}
	return c
}

// archive stores the source image when an archiver is configured. Failure costs only the
// reference.
func (s *Service) archive(ctx context.Context, sub submission) string {
	if s.deps.Archiver == nil || len(sub.image) == 0 {
		return ""
	}
	ref, err := s.deps.Archiver.Archive(ctx, sub.filename, sub.image)
	if err != nil {
		s.deps.Logger.Warn("Failed to archive source image", zap.Error(err))
		return ""
	}
	return ref
}

func observe(stage string, start time.Time) {
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
