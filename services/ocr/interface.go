// Package ocr reads the text of a photographed or scanned appointment note.
package ocr

import (
	"context"
	"strings"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
)

const (
	ProviderVision = "vision"
	ProviderGemini = "gemini"
)

// Recognizer returns the cleaned text of an image and a confidence in [0,1]. Failures of the
// recognition backend wrap guardrail.ErrUpstream.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (*models.OCRResult, error)
}

var ocrReplacer = strings.NewReplacer("\nnxt", " next", "@", "at", "\n", " ")

// CleanText fixes the OCR slips seen most often on handwritten notes and flattens line breaks.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(ocrReplacer.Replace(text))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
