package extraction

import (
	"context"
	"errors"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/metrics"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"

	"go.uber.org/zap"
)

// FallbackExtractor answers with secondary when primary fails upstream. A clarification from
// primary is final: the model read the text and found fields missing.
type FallbackExtractor struct {
	primary   Extractor
	secondary Extractor
	logger    *zap.Logger
}

func NewFallbackExtractor(primary, secondary Extractor, logger *zap.Logger) *FallbackExtractor {
	return &FallbackExtractor{primary: primary, secondary: secondary, logger: logger}
}

func (f *FallbackExtractor) Extract(ctx context.Context, text string) (*models.ExtractedEntities, error) {
	entities, err := f.primary.Extract(ctx, text)
	if err == nil || !errors.Is(err, guardrail.ErrUpstream) {
		return entities, err
	}
	if ctx.Err() != nil {
		return nil, err
	}
	f.logger.Warn("Primary extractor failed, using fallback", zap.Error(err))
	metrics.ExtractorFallbacks.Inc()
	return f.secondary.Extract(ctx, text)
}
