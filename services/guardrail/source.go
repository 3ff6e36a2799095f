package guardrail

import "github.com/Riya-Singh-4103/Appointment-Sheduler/models"

// DefaultMinSourceConfidence is the acceptance threshold for recognized (non-typed) text.
const DefaultMinSourceConfidence = 0.5

var lowConfidenceMessages = map[string]string{
	models.SourceImage: "OCR confidence too low. Please provide clearer image or type the request.",
	models.SourceAudio: "Transcription confidence too low. Please record the request again or type it.",
}

// CheckSource fails fast when a recognized source is below threshold, so no extraction call is
// spent on text that is likely wrong. Typed text is never gated.
func CheckSource(in models.RawInput, threshold float64) *Clarification {
	if in.Source == models.SourceText || in.Source == "" {
		return nil
	}
	if in.SourceConfidence >= threshold {
		return nil
	}
	msg, ok := lowConfidenceMessages[in.Source]
	if !ok {
		msg = "Source confidence too low. Please type the request."
	}
	return New(ReasonLowConfidenceSource, msg, in.Source).
		WithDetails("confidence %.2f below threshold %.2f", in.SourceConfidence, threshold)
}
