// Package guardrail holds the fail-closed result shared by every pipeline stage: a stage either
// returns its value or a *Clarification naming what was missing or ambiguous.
package guardrail

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
)

// Reason classifies why a request needs clarification.
type Reason string

const (
	ReasonMissingInput         Reason = "missing_input"
	ReasonLowConfidenceSource  Reason = "low_confidence_source"
	ReasonExtractionAmbiguous  Reason = "extraction_ambiguous"
	ReasonNormalizationFailure Reason = "normalization_failure"
)

// Field names reported in clarification messages.
const (
	FieldDepartment = "department"
	FieldDate       = "date"
	FieldTime       = "time"
	FieldText       = "text"
	FieldImage      = "image"
	FieldAudio      = "audio"
)

// Message prefixes for the two stages that report missing fields.
const (
	PrefixExtraction    = "Ambiguous or missing"
	PrefixNormalization = "Could not parse"
)

// Clarification is a terminal outcome: the pipeline stops and asks the caller for more.
type Clarification struct {
	Reason   Reason                 `json:"reason"`
	Fields   []string               `json:"fields,omitempty"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Upstream map[string]interface{} `json:"gemini_response,omitempty"`
}

func (c *Clarification) Error() string {
	return fmt.Sprintf("%s: %s", c.Reason, c.Message)
}

// Status is always needs_clarification; it exists so the value serializes like the API body.
func (c *Clarification) Status() string {
	return models.StatusNeedsClarification
}

// Missing builds a clarification whose message names every field, e.g.
// "Ambiguous or missing: date, time".
func Missing(reason Reason, prefix string, fields ...string) *Clarification {
	return &Clarification{
		Reason:  reason,
		Fields:  fields,
		Message: fmt.Sprintf("%s: %s", prefix, strings.Join(fields, ", ")),
	}
}

// New builds a clarification with a free-form message.
func New(reason Reason, message string, fields ...string) *Clarification {
	return &Clarification{Reason: reason, Fields: fields, Message: message}
}

// WithDetails returns c with details attached.
func (c *Clarification) WithDetails(format string, args ...interface{}) *Clarification {
	c.Details = fmt.Sprintf(format, args...)
	return c
}

// WithUpstream returns c with the raw upstream reply attached.
func (c *Clarification) WithUpstream(raw map[string]interface{}) *Clarification {
	c.Upstream = raw
	return c
}

// As reports whether err is (or wraps) a clarification.
func As(err error) (*Clarification, bool) {
	var c *Clarification
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}

// FieldSet collects missing fields in the fixed department, date, time order.
type FieldSet struct {
	fields []string
}

// Require records name as missing when value is blank.
func (s *FieldSet) Require(name, value string) {
	if strings.TrimSpace(value) == "" {
		s.fields = append(s.fields, name)
	}
}

// Add records name as missing unconditionally.
func (s *FieldSet) Add(name string) {
	s.fields = append(s.fields, name)
}

// Empty reports whether nothing was recorded.
func (s *FieldSet) Empty() bool {
	return len(s.fields) == 0
}

// Fields returns the recorded names.
func (s *FieldSet) Fields() []string {
	return s.fields
}

// Clarify returns nil when nothing is missing, otherwise a clarification naming the fields.
func (s *FieldSet) Clarify(reason Reason, prefix string) *Clarification {
	if s.Empty() {
		return nil
	}
	return Missing(reason, prefix, s.fields...)
}

// ErrUpstream marks failures of an external collaborator (model, OCR, speech): network, quota or
// a malformed reply. These are not clarifications; callers see a generic error.
var ErrUpstream = errors.New("upstream failure")
