package models

import "time"

// ClarificationLog records a request that ended in a clarification. It is never an Appointment.
type ClarificationLog struct {
	ID           string    `bson:"id" json:"id"`
	Source       string    `bson:"source" json:"source"`
	Reason       string    `bson:"reason" json:"reason"`                     // guardrail reason code
	Fields       []string  `bson:"fields,omitempty" json:"fields,omitempty"` // missing or unparseable fields
	Message      string    `bson:"message" json:"message"`
	OriginalText string    `bson:"originalText,omitempty" json:"originalText,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
