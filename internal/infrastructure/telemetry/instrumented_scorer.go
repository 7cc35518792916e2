// Package telemetry decorates the scorer with OpenTelemetry spans and metrics.
package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/sysguard/seqscore/internal/domain/port"
	"github.com/sysguard/seqscore/internal/domain/service"
)

const instrumentationName = "github.com/sysguard/seqscore/internal/infrastructure/telemetry"

// InstrumentedScorer records a span and metrics around every Evaluate call.
type InstrumentedScorer struct {
	next        port.SequenceScorer
	tracer      trace.Tracer
	scored      metric.Int64Counter
	failures    metric.Int64Counter
	probability metric.Float64Histogram
	duration    metric.Float64Histogram
}

// NewInstrumentedScorer wraps next.
func NewInstrumentedScorer(next port.SequenceScorer, tp trace.TracerProvider, mp metric.MeterProvider) (*InstrumentedScorer, error) {
	meter := mp.Meter(instrumentationName)

	scored, err := meter.Int64Counter("seqscore.sequences.scored",
		metric.WithDescription("Sequences scored successfully"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("seqscore.sequences.failed",
		metric.WithDescription("Scoring calls that returned an error, by reason"))
	if err != nil {
		return nil, err
	}
	probability, err := meter.Float64Histogram("seqscore.probability",
		metric.WithDescription("Malicious-class probability returned by the classifier"),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.35, 0.5, 0.6, 0.8, 0.9, 1))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("seqscore.score.duration",
		metric.WithDescription("Time to resolve, load and run the model"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &InstrumentedScorer{
		next:        next,
		tracer:      tp.Tracer(instrumentationName),
		scored:      scored,
		failures:    failures,
		probability: probability,
		duration:    duration,
	}, nil
}

// Evaluate implements port.SequenceScorer.
func (s *InstrumentedScorer) Evaluate(ctx context.Context, sequence string) (port.ScoreResult, error) {
	ctx, span := s.tracer.Start(ctx, "SequenceScorer.Evaluate")
	defer span.End()

	start := time.Now()
	result, err := s.next.Evaluate(ctx, sequence)
	s.duration.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		reason := FailureReason(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		s.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
		return result, err
	}

	span.SetAttributes(
		attribute.String("seqscore.artifact", result.ArtifactPath),
		attribute.Int("seqscore.tokens", result.TokenCount),
		attribute.Int("seqscore.expected_length", result.ExpectedLength),
		attribute.Float64("seqscore.probability", result.Probability),
	)
	s.scored.Add(ctx, 1)
	s.probability.Record(ctx, result.Probability)

	return result, nil
}

// FailureReason classifies a scoring error for metric labels.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, service.ErrArtifactNotFound):
		return "artifact_not_found"
	case errors.Is(err, service.ErrArtifactCorrupt):
		return "artifact_corrupt"
	case errors.Is(err, service.ErrMalformedArtifactName):
		return "malformed_artifact_name"
	case errors.Is(err, service.ErrInvalidSequence):
		return "invalid_sequence"
	case errors.Is(err, service.ErrInvalidPrediction):
		return "invalid_prediction"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
