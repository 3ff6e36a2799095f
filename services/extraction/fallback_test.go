package extraction

import (
	"context"
	"fmt"
	"testing"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFallbackExtractor_UsesSecondaryOnUpstreamFailure(t *testing.T) {
	primary := &countingExtractor{err: fmt.Errorf("%w: timeout", guardrail.ErrUpstream)}
	f := NewFallbackExtractor(primary, newRules(), zap.NewNop())

	got, err := f.Extract(context.Background(), "Book dentist next Friday at 3pm")
	require.NoError(t, err)
	assert.Equal(t, NameRules, got.Extractor)
	assert.Equal(t, 1, primary.calls)
}

func TestFallbackExtractor_ClarificationIsFinal(t *testing.T) {
	primary := &countingExtractor{err: guardrail.Missing(guardrail.ReasonExtractionAmbiguous, guardrail.PrefixExtraction, "time")}
	secondary := &countingExtractor{result: &models.ExtractedEntities{}}
	f := NewFallbackExtractor(primary, secondary, zap.NewNop())

	_, err := f.Extract(context.Background(), "dentist tomorrow")
	_, ok := guardrail.As(err)
	assert.True(t, ok)
	assert.Equal(t, 0, secondary.calls)
}

func TestFallbackExtractor_CanceledContextDoesNotFallBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	primary := &countingExtractor{err: fmt.Errorf("%w: %w", guardrail.ErrUpstream, context.Canceled)}
	secondary := &countingExtractor{result: &models.ExtractedEntities{}}
	f := NewFallbackExtractor(primary, secondary, zap.NewNop())

	_, err := f.Extract(ctx, "dentist tomorrow 3pm")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, secondary.calls)
}
