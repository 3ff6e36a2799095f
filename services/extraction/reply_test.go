package extraction

import (
	"errors"
	"testing"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply_Complete(t *testing.T) {
	got, err := parseReply("```json\n{\"department\": \"dentist\", \"date_phrase\": \"next Friday\", \"time_phrase\": \"3pm\", \"confidence\": 0.95}\n```")
	require.NoError(t, err)

	assert.Equal(t, "dentist", got.DepartmentPhrase)
	assert.Equal(t, "next Friday", got.DatePhrase)
	assert.Equal(t, "3pm", got.TimePhrase)
	assert.Equal(t, 0.95, got.Confidence)
	assert.Equal(t, NameGemini, got.Extractor)
	assert.Equal(t, "dentist", got.Raw["department"])
}

func TestParseReply_DefaultConfidence(t *testing.T) {
	for _, reply := range []string{
		`{"department": "dentist", "date_phrase": "today", "time_phrase": "3pm"}`,
		`{"department": "dentist", "date_phrase": "today", "time_phrase": "3pm", "confidence": null}`,
		`{"department": "dentist", "date_phrase": "today", "time_phrase": "3pm", "confidence": 0}`,
	} {
		got, err := parseReply(reply)
		require.NoError(t, err)
		assert.Equal(t, DefaultModelConfidence, got.Confidence)
	}
}

func TestParseReply_MissingFieldsIgnoreConfidence(t *testing.T) {
	_, err := parseReply(`{"department": "doctor", "date_phrase": null, "time_phrase": "", "confidence": 0.99}`)

	c, ok := guardrail.As(err)
	require.True(t, ok)
	assert.Equal(t, "Ambiguous or missing: date, time", c.Message)
	assert.Equal(t, "doctor", c.Upstream["department"])
}

func TestParseReply_AbsentKeysAreMissing(t *testing.T) {
	_, err := parseReply(`{"confidence": 0.5}`)

	c, ok := guardrail.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"department", "date", "time"}, c.Fields)
}

func TestParseReply_RepairsSloppyJSON(t *testing.T) {
	got, err := parseReply(`{"department": "dentist", "date_phrase": "today", "time_phrase": "3pm",}`)
	require.NoError(t, err)
	assert.Equal(t, "3pm", got.TimePhrase)
}

func TestParseReply_Malformed(t *testing.T) {
	for _, reply := range []string{
		`["dentist", "today", "3pm"]`,
		`{"department": 42, "date_phrase": "today", "time_phrase": "3pm"}`,
		`{"department": "dentist", "date_phrase": "today", "time_phrase": "3pm", "confidence": 7}`,
	} {
		t.Run(reply, func(t *testing.T) {
			_, err := parseReply(reply)
			require.Error(t, err)
			assert.True(t, errors.Is(err, guardrail.ErrUpstream))
			_, isClarification := guardrail.As(err)
			assert.False(t, isClarification)
		})
	}
}
