// Package extraction maps raw request text to department, date and time phrases. Whatever the
// strategy, an Extractor returns either all three phrases or a *guardrail.Clarification naming
// exactly the missing ones; external failures wrap guardrail.ErrUpstream.
package extraction

import (
	"context"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"
)

const (
	NameGemini = "gemini"
	NameRules  = "rules"
)

// DefaultModelConfidence is used when the model reply carries no confidence.
const DefaultModelConfidence = 0.85

type Extractor interface {
	Extract(ctx context.Context, text string) (*models.ExtractedEntities, error)
}

// checkComplete is the shared guardrail: an incomplete extraction never goes forward.
func checkComplete(e *models.ExtractedEntities) *guardrail.Clarification {
	var missing guardrail.FieldSet
	missing.Require(guardrail.FieldDepartment, e.DepartmentPhrase)
	missing.Require(guardrail.FieldDate, e.DatePhrase)
	missing.Require(guardrail.FieldTime, e.TimePhrase)
	return missing.Clarify(guardrail.ReasonExtractionAmbiguous, guardrail.PrefixExtraction)
}
