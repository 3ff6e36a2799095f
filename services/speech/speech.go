// Package speech transcribes short voice notes into request text.
package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"

	speechapi "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const DefaultLanguage = "en-US"

// Transcriber turns audio into text with a confidence in [0,1]. Malformed audio is reported with
// ErrUnsupportedAudio; backend failures wrap guardrail.ErrUpstream.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (*models.TranscriptResult, error)
}

// GoogleTranscriber uses Cloud Speech-to-Text synchronous recognition.
type GoogleTranscriber struct {
	client *speechapi.Client
	logger *zap.Logger
}

func NewGoogleTranscriber(ctx context.Context, credentialsFile string, logger *zap.Logger) (*GoogleTranscriber, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := speechapi.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}
	return &GoogleTranscriber{client: client, logger: logger}, nil
}

func (g *GoogleTranscriber) Close() error {
	return g.client.Close()
}

func (g *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte, language string) (*models.TranscriptResult, error) {
	format, err := InspectWave(audio)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Recognize(ctx, recognizeRequest(audio, format, language))
	if err != nil {
		g.logger.Error("Speech recognition failed", zap.Error(err))
		return nil, fmt.Errorf("%w: speech: %w", guardrail.ErrUpstream, err)
	}
	result := transcriptFromResponse(resp)
	g.logger.Debug("Speech transcript",
		zap.String("transcript", result.Transcript),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("duration", format.Duration),
	)
	return result, nil
}

func recognizeRequest(audio []byte, format *WaveFormat, language string) *speechpb.RecognizeRequest {
	if language == "" {
		language = DefaultLanguage
	}
	return &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            format.SampleRate,
			AudioChannelCount:          format.Channels,
			LanguageCode:               language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}
}

// transcriptFromResponse joins the top alternative of each result and averages their
// confidences. No results means nothing intelligible was said.
func transcriptFromResponse(resp *speechpb.RecognizeResponse) *models.TranscriptResult {
	var (
		parts []string
		sum   float64
	)
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		parts = append(parts, strings.TrimSpace(alts[0].GetTranscript()))
		sum += float64(alts[0].GetConfidence())
	}
	if len(parts) == 0 {
		return &models.TranscriptResult{}
	}
	return &models.TranscriptResult{
		Transcript: strings.Join(parts, " "),
		Confidence: sum / float64(len(parts)),
	}
}
