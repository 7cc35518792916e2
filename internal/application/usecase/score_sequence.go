package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/sysguard/seqscore/internal/application/dto"
	"github.com/sysguard/seqscore/internal/domain/model"
	"github.com/sysguard/seqscore/internal/domain/port"
	"github.com/sysguard/seqscore/internal/domain/valueobject"
)

// ScoreSequence is the use case for scoring a syscall sequence submitted by a sensor.
type ScoreSequence struct {
	repo      port.AssessmentRepository
	publisher port.EventPublisher
	scorer    port.SequenceScorer
	threshold float64
}

// NewScoreSequence creates a new ScoreSequence use case.
func NewScoreSequence(
	repo port.AssessmentRepository,
	publisher port.EventPublisher,
	scorer port.SequenceScorer,
	threshold float64,
) *ScoreSequence {
	return &ScoreSequence{
		repo:      repo,
		publisher: publisher,
		scorer:    scorer,
		threshold: threshold,
	}
}

// Execute scores the sequence, records the assessment, persists it, and publishes events.
func (uc *ScoreSequence) Execute(ctx context.Context, req dto.ScoreSequenceRequest) (dto.AssessmentResponse, error) {
	result, err := uc.scorer.Evaluate(ctx, req.Sequence)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to score sequence: %w", err)
	}

	sampleID := req.SampleID
	if sampleID == "" {
		sampleID = SequenceDigest(req.Sequence)
	}

	assessment, err := model.NewSequenceAssessment(
		req.TenantID,
		sampleID,
		valueobject.SourceSequence,
		result.TokenCount,
		result.ExpectedLength,
		result.ArtifactPath,
	)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to create assessment: %w", err)
	}

	if err := assessment.Assess(result.Probability, uc.threshold); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to assess sequence: %w", err)
	}

	if err := uc.repo.Save(ctx, assessment); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to save assessment: %w", err)
	}

	if evts := assessment.ClearEvents(); len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			return dto.AssessmentResponse{}, fmt.Errorf("failed to publish events: %w", err)
		}
	}

	return dto.FromModel(assessment), nil
}

// SequenceDigest is the sample id given to sequences submitted without one.
func SequenceDigest(sequence string) string {
	sum := sha256.Sum256([]byte(sequence))
	return hex.EncodeToString(sum[:])
}
