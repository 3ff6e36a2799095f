package ocr

import (
	"context"
	"fmt"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// VisionRecognizer uses Cloud Vision document text detection, which reports a confidence per
// page.
type VisionRecognizer struct {
	client *vision.ImageAnnotatorClient
	logger *zap.Logger
}

// NewVisionRecognizer dials Cloud Vision. An empty credentialsFile falls back to application
// default credentials.
func NewVisionRecognizer(ctx context.Context, credentialsFile string, logger *zap.Logger) (*VisionRecognizer, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vision client: %w", err)
	}
	return &VisionRecognizer{client: client, logger: logger}, nil
}

func (v *VisionRecognizer) Close() error {
	return v.client.Close()
}

func (v *VisionRecognizer) Recognize(ctx context.Context, image []byte) (*models.OCRResult, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: image},
			Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
		}},
	}
	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		v.logger.Error("Vision OCR failed", zap.Error(err))
		return nil, fmt.Errorf("%w: vision: %w", guardrail.ErrUpstream, err)
	}
	result, err := resultFromVision(resp)
	if err != nil {
		v.logger.Error("Vision OCR rejected image", zap.Error(err))
		return nil, err
	}
	v.logger.Debug("Vision OCR result", zap.String("text", result.RawText), zap.Float64("confidence", result.Confidence))
	return result, nil
}

// resultFromVision averages page confidences. An image with no detected text yields an empty
// result with zero confidence, which the source gate turns into a clarification.
func resultFromVision(resp *visionpb.BatchAnnotateImagesResponse) (*models.OCRResult, error) {
	if resp == nil || len(resp.GetResponses()) == 0 {
		return nil, fmt.Errorf("%w: vision returned no responses", guardrail.ErrUpstream)
	}
	r := resp.GetResponses()[0]
	if status := r.GetError(); status != nil && status.GetCode() != 0 {
		return nil, fmt.Errorf("%w: vision: %s", guardrail.ErrUpstream, status.GetMessage())
	}

	annotation := r.GetFullTextAnnotation()
	if annotation == nil {
		return &models.OCRResult{}, nil
	}
	var sum float64
	pages := annotation.GetPages()
	for _, p := range pages {
		sum += float64(p.GetConfidence())
	}
	confidence := 0.0
	if len(pages) > 0 {
		confidence = clamp01(sum / float64(len(pages)))
	}
	return &models.OCRResult{
		RawText:    CleanText(annotation.GetText()),
		Confidence: confidence,
	}, nil
}
