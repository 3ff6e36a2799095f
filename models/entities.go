package models

const (
	SourceText  = "text"
	SourceImage = "image"
	SourceAudio = "audio"
)

// RawInput is the text handed to entity extraction together with how much the source trusts it.
type RawInput struct {
	Text             string  `json:"text"`
	SourceConfidence float64 `json:"source_confidence"` // 1.0 for typed text, recognizer confidence otherwise
	Source           string  `json:"source"`
}

// ExtractedEntities are the phrases pulled out of the raw text. They are not validated as
// calendar values yet.
type ExtractedEntities struct {
	DepartmentPhrase string                 `json:"department"`
	DatePhrase       string                 `json:"date_phrase"`
	TimePhrase       string                 `json:"time_phrase"`
	Confidence       float64                `json:"confidence"`
	Extractor        string                 `json:"extractor"`
	Raw              map[string]interface{} `json:"gemini_response,omitempty"` // model reply, when a model was used
}

// NormalizedDatetime is an unambiguous wall-clock date and time in a named zone.
type NormalizedDatetime struct {
	Date       string  `json:"date"` // "YYYY-MM-DD"
	Time       string  `json:"time"` // "HH:mm"
	Timezone   string  `json:"tz"`
	Confidence float64 `json:"-"`
}

// OCRResult is what an image recognizer returns.
type OCRResult struct {
	RawText    string  `json:"raw_text"`
	Confidence float64 `json:"confidence"` // 0..1
}

// TranscriptResult is what a speech transcriber returns.
type TranscriptResult struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"` // 0..1
}
