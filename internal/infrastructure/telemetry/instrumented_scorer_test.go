package telemetry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/sysguard/seqscore/internal/domain/port"
	"github.com/sysguard/seqscore/internal/domain/service"
	"github.com/sysguard/seqscore/internal/infrastructure/telemetry"
)

type fakeScorer struct {
	err    error
	result port.ScoreResult
}

func (f fakeScorer) Evaluate(_ context.Context, _ string) (port.ScoreResult, error) {
	return f.result, f.err
}

func setup(t *testing.T, next port.SequenceScorer) (*telemetry.InstrumentedScorer, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	scorer, err := telemetry.NewInstrumentedScorer(next, tp, mp)
	require.NoError(t, err)
	return scorer, recorder, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestInstrumentedScorer_Success(t *testing.T) {
	want := port.ScoreResult{ArtifactPath: "files/random_forest_model_5", Probability: 0.7, TokenCount: 3, ExpectedLength: 5}
	scorer, recorder, reader := setup(t, fakeScorer{result: want})

	got, err := scorer.Evaluate(context.Background(), "1,2,3")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "SequenceScorer.Evaluate", spans[0].Name())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)

	metrics := collect(t, reader)
	scored, ok := metrics["seqscore.sequences.scored"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, scored.DataPoints, 1)
	assert.Equal(t, int64(1), scored.DataPoints[0].Value)

	hist, ok := metrics["seqscore.probability"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
}

func TestInstrumentedScorer_Failure(t *testing.T) {
	scorer, recorder, reader := setup(t, fakeScorer{err: fmt.Errorf("resolve: %w", service.ErrArtifactNotFound)})

	_, err := scorer.Evaluate(context.Background(), "1")
	require.ErrorIs(t, err, service.ErrArtifactNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	failed, ok := collect(t, reader)["seqscore.sequences.failed"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, failed.DataPoints, 1)
	reason, _ := failed.DataPoints[0].Attributes.Value("reason")
	assert.Equal(t, "artifact_not_found", reason.AsString())
}

func TestFailureReason(t *testing.T) {
	tests := map[string]error{
		"artifact_not_found":      service.ErrArtifactNotFound,
		"artifact_corrupt":        fmt.Errorf("load: %w", service.ErrArtifactCorrupt),
		"malformed_artifact_name": service.ErrMalformedArtifactName,
		"invalid_sequence":        service.ErrInvalidSequence,
		"invalid_prediction":      service.ErrInvalidPrediction,
		"cancelled":               context.Canceled,
		"internal":                errors.New("disk on fire"),
	}

	for want, err := range tests {
		assert.Equal(t, want, telemetry.FailureReason(err))
	}
}
