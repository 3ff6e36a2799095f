package extraction

import (
	"context"
	"testing"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/builder"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRules() *RuleExtractor {
	return NewRuleExtractor(builder.New(nil).Keywords())
}

func TestRuleExtractor_Complete(t *testing.T) {
	tests := []struct {
		text       string
		department string
		date       string
		time       string
	}{
		{"Book dentist next Friday at 3pm", "dentist", "next Friday", "3pm"},
		{"I need to see a heart doctor tomorrow at 10:30am", "heart", "tomorrow", "10:30am"},
		{"Cardiologist today 15:00 please", "Cardiologist", "today", "15:00"},
		{"dermatologist on 2025-10-05 at 9 a.m.", "dermatologist", "2025-10-05", "9 a.m."},
		{"eye checkup Oct 7, 2025 around 4 PM", "eye", "Oct 7, 2025", "4 PM"},
		{"Book dentist on 2025/10/05 at 3pm", "dentist", "2025/10/05", "3pm"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := newRules().Extract(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.department, got.DepartmentPhrase)
			assert.Equal(t, tt.date, got.DatePhrase)
			assert.Equal(t, tt.time, got.TimePhrase)
			assert.Equal(t, 1.0, got.Confidence)
			assert.Equal(t, NameRules, got.Extractor)
		})
	}
}

func TestRuleExtractor_Missing(t *testing.T) {
	tests := []struct {
		text    string
		fields  []string
		message string
	}{
		{"see a doctor", []string{"date", "time"}, "Ambiguous or missing: date, time"},
		{"tomorrow at 3pm", []string{"department"}, "Ambiguous or missing: department"},
		{"dentist tomorrow", []string{"time"}, "Ambiguous or missing: time"},
		{"hello there", []string{"department", "date", "time"}, "Ambiguous or missing: department, date, time"},
		{"", []string{"department", "date", "time"}, "Ambiguous or missing: department, date, time"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := newRules().Extract(context.Background(), tt.text)
			assert.Nil(t, got)
			c, ok := guardrail.As(err)
			require.True(t, ok)
			assert.Equal(t, guardrail.ReasonExtractionAmbiguous, c.Reason)
			assert.Equal(t, tt.fields, c.Fields)
			assert.Equal(t, tt.message, c.Message)
		})
	}
}

func TestRuleConfidence(t *testing.T) {
	assert.Equal(t, 0.0, ruleConfidence(0))
	assert.Equal(t, 0.33, ruleConfidence(1))
	assert.Equal(t, 0.67, ruleConfidence(2))
	assert.Equal(t, 1.0, ruleConfidence(3))
}

func TestRuleExtractor_NextWeekdayBeatsBareWeekday(t *testing.T) {
	got, err := newRules().Extract(context.Background(), "dentist next friday 3pm")
	require.NoError(t, err)
	assert.Equal(t, "next friday", got.DatePhrase)
}

func TestRuleExtractor_NoKeywords(t *testing.T) {
	r := NewRuleExtractor(nil)
	_, err := r.Extract(context.Background(), "dentist tomorrow 3pm")
	c, ok := guardrail.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"department"}, c.Fields)
}

func TestRuleExtractor_DayAfterTomorrowLeavesDateUnset(t *testing.T) {
	for _, text := range []string{
		"Book dentist day after tomorrow at 3pm",
		"Book dentist the Day After  Tomorrow at 3pm",
	} {
		t.Run(text, func(t *testing.T) {
			got, err := newRules().Extract(context.Background(), text)
			assert.Nil(t, got)
			c, ok := guardrail.As(err)
			require.True(t, ok)
			assert.Equal(t, guardrail.ReasonExtractionAmbiguous, c.Reason)
			assert.Equal(t, []string{"date"}, c.Fields)
			assert.Equal(t, "Ambiguous or missing: date", c.Message)
		})
	}
}
