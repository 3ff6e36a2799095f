package models

import "time"

const (
	StatusOK                 = "ok"
	StatusNeedsClarification = "needs_clarification"
	StatusError              = "error"
)

// Appointment is the persisted record of an accepted request.
type Appointment struct {
	ID                 string             `bson:"id" json:"id"`                                 // UUID
	Department         string             `bson:"department" json:"department"`                 // Resolved canonical department
	Date               string             `bson:"date" json:"date"`                             // "YYYY-MM-DD"
	Time               string             `bson:"time" json:"time"`                             // "HH:mm", 24h
	Timezone           string             `bson:"timezone" json:"timezone"`                     // IANA zone, e.g. "Asia/Kolkata"
	Status             string             `bson:"status" json:"status"`                         // "ok" or "needs_clarification"
	OriginalText       string             `bson:"originalText" json:"originalText"`             // Text the entities were extracted from
	ProcessingMetadata ProcessingMetadata `bson:"processingMetadata" json:"processingMetadata"` // Per-stage provenance
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProcessingMetadata carries per-stage confidences and the raw upstream reply.
type ProcessingMetadata struct {
	Source                  string                 `bson:"source" json:"source"`                                     // "text", "image" or "audio"
	SourceConfidence        float64                `bson:"ocrConfidence" json:"ocrConfidence"`                       // 1.0 for typed text
	EntitiesConfidence      float64                `bson:"entitiesConfidence" json:"entitiesConfidence"`             // Extractor confidence
	NormalizationConfidence float64                `bson:"normalizationConfidence" json:"normalizationConfidence"`   // Normalizer confidence
	Extractor               string                 `bson:"extractor" json:"extractor"`                               // "gemini" or "rules"
	GeminiResponse          map[string]interface{} `bson:"geminiResponse,omitempty" json:"geminiResponse,omitempty"` // Raw model reply
	ImageRef                string                 `bson:"imageRef,omitempty" json:"imageRef,omitempty"`             // Archived source image, if any
}

// AppointmentPayload is the appointment as returned to API callers.
type AppointmentPayload struct {
	Department string `json:"department"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	TZ         string `json:"tz"`
}

// ScheduleResult is the builder's output and the success body of the schedule endpoints.
type ScheduleResult struct {
	Appointment AppointmentPayload `json:"appointment"`
	Status      string             `json:"status"`
}
