package extraction

import (
	"context"
	"fmt"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

const promptTemplate = `You extract appointment details from a single free-text request.

Request: %q

Answer with ONLY a JSON object of this exact shape:
{"department": string|null, "date_phrase": string|null, "time_phrase": string|null, "confidence": number}

Rules:
- department is the basic keyword the person used (dentist, cardiologist, heart, doctor), not a formal department name.
- date_phrase and time_phrase keep the person's wording (next Friday, tomorrow, 3pm, 10:30am, 15:00).
- Use null for anything missing or unclear. Never invent a value.
- confidence is your certainty between 0.0 and 1.0.

Examples:
"Book dentist next Friday at 3pm" -> {"department": "dentist", "date_phrase": "next Friday", "time_phrase": "3pm", "confidence": 0.95}
"I need to see a heart doctor tomorrow at 10:30am" -> {"department": "heart", "date_phrase": "tomorrow", "time_phrase": "10:30am", "confidence": 0.90}
"see a doctor" -> {"department": "doctor", "date_phrase": null, "time_phrase": null, "confidence": 0.40}`

// Generator is the slice of ai.GeminiClient the extractor needs.
type Generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (string, error)
}

// GeminiExtractor delegates extraction to a Gemini model.
type GeminiExtractor struct {
	gen    Generator
	logger *zap.Logger
}

func NewGeminiExtractor(gen Generator, logger *zap.Logger) *GeminiExtractor {
	return &GeminiExtractor{gen: gen, logger: logger}
}

func (g *GeminiExtractor) Extract(ctx context.Context, text string) (*models.ExtractedEntities, error) {
	reply, err := g.gen.GenerateContent(ctx, genai.Text(fmt.Sprintf(promptTemplate, text)))
	if err != nil {
		g.logger.Error("Gemini extraction failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", guardrail.ErrUpstream, err)
	}
	g.logger.Debug("Gemini raw response", zap.String("response", reply))

	entities, err := parseReply(reply)
	if err != nil {
		if _, ok := guardrail.As(err); !ok {
			g.logger.Error("Gemini reply rejected", zap.Error(err), zap.String("response", reply))
		}
		return nil, err
	}
	return entities, nil
}
