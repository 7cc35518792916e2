package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/sysguard/seqscore/internal/domain/model"
	"github.com/sysguard/seqscore/pkg/events"
)

// ArtifactConfig locates a model artifact and the sequence length it was
// trained on.
type ArtifactConfig struct {
	Path           string
	ExpectedLength int
}

// ArtifactResolver decides which artifact the next scoring call uses.
type ArtifactResolver interface {
	Resolve(ctx context.Context) (ArtifactConfig, error)
}

// ModelLoader deserializes an artifact into a ready Classifier.
type ModelLoader interface {
	Load(ctx context.Context, path string) (Classifier, error)
}

// Classifier predicts class probabilities for one fixed-length token sequence.
// The returned slice is indexed by class; index 1 is the malicious class.
type Classifier interface {
	PredictProbability(ctx context.Context, tokens []string) ([]float64, error)
}

// ScoreResult is the outcome of scoring one sequence.
type ScoreResult struct {
	ArtifactPath   string
	Probability    float64
	TokenCount     int
	ExpectedLength int
}

// SequenceScorer scores a comma-separated syscall sequence.
type SequenceScorer interface {
	Evaluate(ctx context.Context, sequence string) (ScoreResult, error)
}

// SyscallEncoder converts traced call names into the comma-separated id
// sequence the classifier was trained on.
type SyscallEncoder interface {
	Encode(calls []string) string
}

// AssessmentRepository defines the persistence port for sequence assessments.
type AssessmentRepository interface {
	// Save persists a new or updated assessment.
	Save(ctx context.Context, assessment *model.SequenceAssessment) error

	// SaveAll persists several assessments atomically.
	SaveAll(ctx context.Context, assessments []*model.SequenceAssessment) error

	// FindByID retrieves an assessment by its unique identifier.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.SequenceAssessment, error)

	// FindBySampleID lists assessments for a sample, newest first.
	FindBySampleID(ctx context.Context, tenantID uuid.UUID, sampleID string, limit, offset int) ([]*model.SequenceAssessment, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
