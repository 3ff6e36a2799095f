package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"
	ai "github.com/Riya-Singh-4103/Appointment-Sheduler/services/intelligence"

	genai "github.com/google/generative-ai-go/genai"
	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"
)

const transcribePrompt = `Transcribe the handwritten or printed text in this image exactly as written.
Answer with ONLY a JSON object: {"text": string, "confidence": number}
confidence is your certainty between 0.0 and 1.0 that the transcription is correct. Use 0 when the image has no legible text.`

// Generator is the slice of ai.GeminiClient the recognizer needs.
type Generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (string, error)
}

// GeminiRecognizer asks a multimodal Gemini model to read the image.
type GeminiRecognizer struct {
	gen    Generator
	logger *zap.Logger
}

func NewGeminiRecognizer(gen Generator, logger *zap.Logger) *GeminiRecognizer {
	return &GeminiRecognizer{gen: gen, logger: logger}
}

func (g *GeminiRecognizer) Recognize(ctx context.Context, image []byte) (*models.OCRResult, error) {
	format, err := imageFormat(image)
	if err != nil {
		return nil, err
	}
	reply, err := g.gen.GenerateContent(ctx, genai.ImageData(format, image), genai.Text(transcribePrompt))
	if err != nil {
		g.logger.Error("Gemini OCR failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", guardrail.ErrUpstream, err)
	}

	var parsed struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	}
	repaired, err := jsonrepair.JSONRepair(ai.StripCodeFences(reply))
	if err == nil {
		err = json.Unmarshal([]byte(repaired), &parsed)
	}
	if err != nil {
		g.logger.Error("Gemini OCR reply rejected", zap.Error(err), zap.String("response", reply))
		return nil, fmt.Errorf("%w: gemini ocr reply: %v", guardrail.ErrUpstream, err)
	}
	return &models.OCRResult{
		RawText:    CleanText(parsed.Text),
		Confidence: clamp01(parsed.Confidence),
	}, nil
}

// imageFormat sniffs the MIME type; Gemini wants the bare subtype ("png", "jpeg").
func imageFormat(image []byte) (string, error) {
	mimeType := http.DetectContentType(image)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", guardrail.New(guardrail.ReasonMissingInput,
			"Uploaded file is not an image. Please provide a photo or scan of the request.", guardrail.FieldImage).
			WithDetails("detected %s", mimeType)
	}
	return strings.TrimPrefix(mimeType, "image/"), nil
}
