package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"
	ai "github.com/Riya-Singh-4103/Appointment-Sheduler/services/intelligence"

	"github.com/kaptinlin/jsonrepair"
	"github.com/xeipuuv/gojsonschema"
)

// replySchema accepts null for any field; absence of a phrase is a clarification, not a
// malformed reply.
const replySchema = `{
  "type": "object",
  "properties": {
    "department":  {"type": ["string", "null"]},
    "date_phrase": {"type": ["string", "null"]},
    "time_phrase": {"type": ["string", "null"]},
    "confidence":  {"type": ["number", "null"], "minimum": 0, "maximum": 1}
  }
}`

var compiledReplySchema = mustSchema(replySchema)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("extraction: invalid reply schema: %v", err))
	}
	return schema
}

type modelReply struct {
	Department *string  `json:"department"`
	DatePhrase *string  `json:"date_phrase"`
	TimePhrase *string  `json:"time_phrase"`
	Confidence *float64 `json:"confidence"`
}

// parseReply turns the model's text into entities. A reply that is not a JSON object of the
// expected shape is an upstream failure; a well-formed reply with null or empty phrases is a
// clarification that carries the raw reply.
func parseReply(text string) (*models.ExtractedEntities, error) {
	cleaned := ai.StripCodeFences(text)
	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: model reply is not JSON: %v", guardrail.ErrUpstream, err)
	}

	result, err := compiledReplySchema.Validate(gojsonschema.NewStringLoader(repaired))
	if err != nil {
		return nil, fmt.Errorf("%w: model reply is not JSON: %v", guardrail.ErrUpstream, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, fmt.Errorf("%w: invalid model reply: %s", guardrail.ErrUpstream, strings.Join(problems, "; "))
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(repaired), &reply); err != nil {
		return nil, fmt.Errorf("%w: decode model reply: %v", guardrail.ErrUpstream, err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
		return nil, fmt.Errorf("%w: decode model reply: %v", guardrail.ErrUpstream, err)
	}

	e := &models.ExtractedEntities{
		DepartmentPhrase: deref(reply.Department),
		DatePhrase:       deref(reply.DatePhrase),
		TimePhrase:       deref(reply.TimePhrase),
		Confidence:       DefaultModelConfidence,
		Extractor:        NameGemini,
		Raw:              raw,
	}
	// A reported 0 is treated like a missing value.
	if reply.Confidence != nil && *reply.Confidence > 0 {
		e.Confidence = *reply.Confidence
	}

	if c := checkComplete(e); c != nil {
		return nil, c.WithUpstream(raw)
	}
	return e, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
