package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/sysguard/seqscore/internal/domain/port"
	"github.com/sysguard/seqscore/internal/domain/valueobject"
)

const (
	// MaliciousClass is the index of the malicious class in a probability vector.
	MaliciousClass = 1

	// MaxExpectedLength bounds the sequence length an artifact may declare.
	// Every scored sequence is padded to this many tokens.
	MaxExpectedLength = 1 << 20
)

// SequenceScorer turns a syscall sequence into the probability that it is
// malicious. It holds no model state: every call resolves and loads the
// artifact again, so replacing the file on disk takes effect immediately.
type SequenceScorer struct {
	resolver port.ArtifactResolver
	loader   port.ModelLoader
	logger   *slog.Logger
	strict   bool
}

// ScorerOption configures a SequenceScorer.
type ScorerOption func(*SequenceScorer)

// WithStrictSequences makes sequences containing empty tokens fail with
// ErrInvalidSequence instead of being scored.
func WithStrictSequences(strict bool) ScorerOption {
	return func(s *SequenceScorer) { s.strict = strict }
}

// NewSequenceScorer creates a scorer backed by resolver and loader.
func NewSequenceScorer(resolver port.ArtifactResolver, loader port.ModelLoader, logger *slog.Logger, opts ...ScorerOption) *SequenceScorer {
	s := &SequenceScorer{
		resolver: resolver,
		loader:   loader,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the malicious-class probability for sequence.
func (s *SequenceScorer) Score(ctx context.Context, sequence string) (float64, error) {
	result, err := s.Evaluate(ctx, sequence)
	if err != nil {
		return 0, err
	}
	return result.Probability, nil
}

// Evaluate scores sequence and reports which artifact produced the score.
func (s *SequenceScorer) Evaluate(ctx context.Context, sequence string) (port.ScoreResult, error) {
	seq := valueobject.ParseSyscallSequence(sequence)
	if seq.HasEmptyTokens() {
		if s.strict {
			return port.ScoreResult{}, fmt.Errorf("%w: sequence contains empty tokens", ErrInvalidSequence)
		}
		s.logger.WarnContext(ctx, "scoring sequence with empty tokens", "tokens", seq.Len())
	}

	artifact, err := s.resolver.Resolve(ctx)
	if err != nil {
		return port.ScoreResult{}, fmt.Errorf("failed to resolve artifact: %w", err)
	}
	if artifact.ExpectedLength <= 0 || artifact.ExpectedLength > MaxExpectedLength {
		return port.ScoreResult{}, fmt.Errorf("%w: expected length %d for %s outside 1..%d",
			ErrMalformedArtifactName, artifact.ExpectedLength, artifact.Path, MaxExpectedLength)
	}

	classifier, err := s.loader.Load(ctx, artifact.Path)
	if err != nil {
		return port.ScoreResult{}, fmt.Errorf("failed to load artifact %s: %w", artifact.Path, err)
	}

	probabilities, err := classifier.PredictProbability(ctx, seq.Fit(artifact.ExpectedLength))
	if err != nil {
		return port.ScoreResult{}, fmt.Errorf("failed to predict: %w", err)
	}
	if len(probabilities) <= MaliciousClass {
		return port.ScoreResult{}, fmt.Errorf("%w: got %d classes", ErrInvalidPrediction, len(probabilities))
	}

	p := probabilities[MaliciousClass]
	if math.IsNaN(p) || p < 0 || p > 1 {
		return port.ScoreResult{}, fmt.Errorf("%w: probability %v out of range", ErrInvalidPrediction, p)
	}

	s.logger.DebugContext(ctx, "sequence scored",
		"artifact", artifact.Path,
		"tokens", seq.Len(),
		"expected_length", artifact.ExpectedLength,
		"probability", p,
	)

	return port.ScoreResult{
		ArtifactPath:   artifact.Path,
		Probability:    p,
		TokenCount:     seq.Len(),
		ExpectedLength: artifact.ExpectedLength,
	}, nil
}
