package scheduling

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/builder"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/extraction"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/normalizer"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/speech"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	appts []*models.Appointment
	err   error
}

func (m *memStore) Create(_ context.Context, appt *models.Appointment) error {
	if m.err != nil {
		return m.err
	}
	appt.ID = fmt.Sprintf("appt-%d", len(m.appts)+1)
	m.appts = append(m.appts, appt)
	return nil
}

type memRecorder struct {
	entries []*models.ClarificationLog
}

func (m *memRecorder) Record(_ context.Context, entry *models.ClarificationLog) error {
	m.entries = append(m.entries, entry)
	return nil
}

type stubExtractor struct {
	entities *models.ExtractedEntities
	err      error
	calls    int
}

func (s *stubExtractor) Extract(context.Context, string) (*models.ExtractedEntities, error) {
	s.calls++
	return s.entities, s.err
}

type stubRecognizer struct {
	result *models.OCRResult
	err    error
}

func (s stubRecognizer) Recognize(context.Context, []byte) (*models.OCRResult, error) {
	return s.result, s.err
}

type stubTranscriber struct {
	result *models.TranscriptResult
	err    error
}

func (s stubTranscriber) Transcribe(context.Context, []byte, string) (*models.TranscriptResult, error) {
	return s.result, s.err
}

type stubArchiver struct {
	names []string
}

func (s *stubArchiver) Archive(_ context.Context, name string, _ []byte) (string, error) {
	s.names = append(s.names, name)
	return "https://res.cloudinary.com/demo/image/upload/" + name, nil
}

type fixture struct {
	svc      *Service
	store    *memStore
	recorder *memRecorder
}

func newFixture(t *testing.T, mutate func(*Dependencies)) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	ref := time.Date(2025, 9, 29, 0, 0, 0, 0, loc)

	b := builder.New(nil)
	f := &fixture{store: &memStore{}, recorder: &memRecorder{}}
	deps := Dependencies{
		Extractor:           extraction.NewRuleExtractor(b.Keywords()),
		Normalizer:          normalizer.New(normalizer.FixedClock{At: ref}, loc),
		Builder:             b,
		Store:               f.store,
		Recorder:            f.recorder,
		MinSourceConfidence: guardrail.DefaultMinSourceConfidence,
	}
	if mutate != nil {
		mutate(&deps)
	}
	f.svc = New(deps)
	return f
}

func requireClarification(t *testing.T, err error) *guardrail.Clarification {
	t.Helper()
	c, ok := guardrail.As(err)
	require.True(t, ok, "expected a clarification, got %v", err)
	return c
}

func TestScheduleFromText_Success(t *testing.T) {
	f := newFixture(t, nil)

	got, err := f.svc.ScheduleFromText(context.Background(), "Book dentist next Friday at 3pm")
	require.NoError(t, err)
	assert.Equal(t, &models.ScheduleResult{
		Appointment: models.AppointmentPayload{
			Department: "Dentistry",
			Date:       "2025-10-10",
			Time:       "15:00",
			TZ:         "Asia/Kolkata",
		},
		Status: models.StatusOK,
	}, got)

	require.Len(t, f.store.appts, 1)
	saved := f.store.appts[0]
	assert.Equal(t, "Book dentist next Friday at 3pm", saved.OriginalText)
	assert.Equal(t, models.StatusOK, saved.Status)
	assert.Equal(t, models.SourceText, saved.ProcessingMetadata.Source)
	assert.Equal(t, 1.0, saved.ProcessingMetadata.SourceConfidence)
	assert.Equal(t, 1.0, saved.ProcessingMetadata.EntitiesConfidence)
	assert.Equal(t, normalizer.Confidence, saved.ProcessingMetadata.NormalizationConfidence)
	assert.Equal(t, extraction.NameRules, saved.ProcessingMetadata.Extractor)
	assert.Empty(t, f.recorder.entries)
}

func TestScheduleFromText_MissingText(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.ScheduleFromText(context.Background(), "   ")
	c := requireClarification(t, err)
	assert.Equal(t, guardrail.ReasonMissingInput, c.Reason)
	assert.Equal(t, MsgTextRequired, c.Message)
	assert.Empty(t, f.store.appts)
}

func TestScheduleFromText_AmbiguousExtraction(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.ScheduleFromText(context.Background(), "see a doctor")
	c := requireClarification(t, err)
	assert.Equal(t, "Ambiguous or missing: date, time", c.Message)
	assert.Equal(t, models.StatusNeedsClarification, c.Status())
	assert.Empty(t, f.store.appts)

	require.Len(t, f.recorder.entries, 1)
	entry := f.recorder.entries[0]
	assert.Equal(t, string(guardrail.ReasonExtractionAmbiguous), entry.Reason)
	assert.Equal(t, []string{"date", "time"}, entry.Fields)
	assert.Equal(t, "see a doctor", entry.OriginalText)
}

func TestScheduleFromText_DayAfterTomorrowIsNotBooked(t *testing.T) {
	f := newFixture(t, nil)

	got, err := f.svc.ScheduleFromText(context.Background(), "Book dentist day after tomorrow at 3pm")
	assert.Nil(t, got)
	c := requireClarification(t, err)
	assert.Equal(t, guardrail.ReasonExtractionAmbiguous, c.Reason)
	assert.Equal(t, []string{"date"}, c.Fields)
	assert.Empty(t, f.store.appts)
	require.Len(t, f.recorder.entries, 1)
}

func TestScheduleFromText_SlashedISODate(t *testing.T) {
	f := newFixture(t, nil)

	got, err := f.svc.ScheduleFromText(context.Background(), "Book dentist on 2025/10/05 at 3pm")
	require.NoError(t, err)
	assert.Equal(t, "2025-10-05", got.Appointment.Date)
	assert.Equal(t, "15:00", got.Appointment.Time)
	require.Len(t, f.store.appts, 1)
}

func TestScheduleFromText_NormalizationFailure(t *testing.T) {
	extractor := &stubExtractor{entities: &models.ExtractedEntities{
		DepartmentPhrase: "dentist", DatePhrase: "tomorrow", TimePhrase: "25:99", Confidence: 0.9,
	}}
	f := newFixture(t, func(d *Dependencies) { d.Extractor = extractor })

	_, err := f.svc.ScheduleFromText(context.Background(), "dentist tomorrow at 25:99")
	c := requireClarification(t, err)
	assert.Equal(t, guardrail.ReasonNormalizationFailure, c.Reason)
	assert.Equal(t, "Could not parse: time", c.Message)
	assert.Empty(t, f.store.appts)
}

func TestScheduleFromText_UpstreamFailure(t *testing.T) {
	extractor := &stubExtractor{err: fmt.Errorf("%w: quota exceeded", guardrail.ErrUpstream)}
	f := newFixture(t, func(d *Dependencies) { d.Extractor = extractor })

	_, err := f.svc.ScheduleFromText(context.Background(), "Book dentist next Friday at 3pm")
	assert.ErrorIs(t, err, guardrail.ErrUpstream)
	_, isClarification := guardrail.As(err)
	assert.False(t, isClarification)
	assert.Empty(t, f.store.appts)
	assert.Empty(t, f.recorder.entries)
}

func TestScheduleFromText_PersistenceFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.store.err = errors.New("connection reset")

	_, err := f.svc.ScheduleFromText(context.Background(), "Book dentist next Friday at 3pm")
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorContains(t, err, "connection reset")
}

func TestScheduleFromImage_LowConfidenceSkipsExtraction(t *testing.T) {
	extractor := &stubExtractor{}
	f := newFixture(t, func(d *Dependencies) {
		d.Extractor = extractor
		d.Recognizer = stubRecognizer{result: &models.OCRResult{RawText: "Bk dntst nxt Fr 3p", Confidence: 0.3}}
	})

	_, err := f.svc.ScheduleFromImage(context.Background(), []byte("png"), "note.png")
	c := requireClarification(t, err)
	assert.Equal(t, guardrail.ReasonLowConfidenceSource, c.Reason)
	assert.Equal(t, "OCR confidence too low. Please provide clearer image or type the request.", c.Message)
	assert.Equal(t, 0, extractor.calls)
	assert.Empty(t, f.store.appts)
}

func TestScheduleFromImage_Success(t *testing.T) {
	archiver := &stubArchiver{}
	f := newFixture(t, func(d *Dependencies) {
		d.Recognizer = stubRecognizer{result: &models.OCRResult{RawText: "heart doctor tomorrow at 10:30am", Confidence: 0.82}}
		d.Archiver = archiver
	})

	got, err := f.svc.ScheduleFromImage(context.Background(), []byte("png"), "note.png")
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", got.Appointment.Department)
	assert.Equal(t, "2025-09-30", got.Appointment.Date)
	assert.Equal(t, "10:30", got.Appointment.Time)

	require.Len(t, f.store.appts, 1)
	meta := f.store.appts[0].ProcessingMetadata
	assert.Equal(t, models.SourceImage, meta.Source)
	assert.Equal(t, 0.82, meta.SourceConfidence)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/note.png", meta.ImageRef)
	assert.Equal(t, []string{"note.png"}, archiver.names)
}

func TestScheduleFromImage_MissingOrUnsupported(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.ScheduleFromImage(context.Background(), nil, "")
	assert.Equal(t, MsgImageRequired, requireClarification(t, err).Message)

	_, err = f.svc.ScheduleFromImage(context.Background(), []byte("png"), "note.png")
	assert.Equal(t, guardrail.ReasonMissingInput, requireClarification(t, err).Reason)
}

func TestScheduleFromImage_RecognizerFailure(t *testing.T) {
	f := newFixture(t, func(d *Dependencies) {
		d.Recognizer = stubRecognizer{err: fmt.Errorf("%w: vision unavailable", guardrail.ErrUpstream)}
	})

	_, err := f.svc.ScheduleFromImage(context.Background(), []byte("png"), "note.png")
	assert.ErrorIs(t, err, guardrail.ErrUpstream)
}

func TestScheduleFromAudio(t *testing.T) {
	f := newFixture(t, func(d *Dependencies) {
		d.Transcriber = stubTranscriber{result: &models.TranscriptResult{Transcript: "dentist today at 5pm", Confidence: 0.91}}
	})

	got, err := f.svc.ScheduleFromAudio(context.Background(), []byte("RIFF"), "en-US")
	require.NoError(t, err)
	assert.Equal(t, "2025-09-29", got.Appointment.Date)
	assert.Equal(t, "17:00", got.Appointment.Time)
	assert.Equal(t, models.SourceAudio, f.store.appts[0].ProcessingMetadata.Source)
}

func TestScheduleFromAudio_Clarifications(t *testing.T) {
	f := newFixture(t, func(d *Dependencies) {
		d.Transcriber = stubTranscriber{err: fmt.Errorf("%w: not a RIFF/WAVE file", speech.ErrUnsupportedAudio)}
	})
	_, err := f.svc.ScheduleFromAudio(context.Background(), []byte("OggS"), "")
	assert.Equal(t, MsgAudioFormat, requireClarification(t, err).Message)

	f = newFixture(t, func(d *Dependencies) {
		d.Transcriber = stubTranscriber{result: &models.TranscriptResult{Transcript: "mumble", Confidence: 0.2}}
	})
	_, err = f.svc.ScheduleFromAudio(context.Background(), []byte("RIFF"), "")
	c := requireClarification(t, err)
	assert.Equal(t, guardrail.ReasonLowConfidenceSource, c.Reason)
	assert.Equal(t, []string{models.SourceAudio}, c.Fields)

	_, err = f.svc.ScheduleFromAudio(context.Background(), nil, "")
	assert.Equal(t, MsgAudioRequired, requireClarification(t, err).Message)
}
