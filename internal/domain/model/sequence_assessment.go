package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sysguard/seqscore/internal/domain/event"
	"github.com/sysguard/seqscore/internal/domain/valueobject"
	"github.com/sysguard/seqscore/pkg/events"
)

// SequenceAssessment is the aggregate root for a scored syscall sequence.
type SequenceAssessment struct {
	events.EventCollector

	assessedAt     time.Time
	createdAt      time.Time
	updatedAt      time.Time
	sampleID       string
	artifactPath   string
	source         valueobject.Source
	verdict        valueobject.Verdict
	riskLevel      valueobject.RiskLevel
	probability    float64
	threshold      float64
	tokenCount     int
	expectedLength int
	version        int
	tenantID       uuid.UUID
	id             uuid.UUID
}

// NewSequenceAssessment creates an unassessed record for a sequence that has
// been fed to artifactPath. Call Assess to apply the classifier's probability.
func NewSequenceAssessment(
	tenantID uuid.UUID,
	sampleID string,
	source valueobject.Source,
	tokenCount int,
	expectedLength int,
	artifactPath string,
) (*SequenceAssessment, error) {
	if tenantID == uuid.Nil {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if sampleID == "" {
		return nil, fmt.Errorf("sample ID is required")
	}
	if source == (valueobject.Source{}) {
		return nil, fmt.Errorf("source is required")
	}
	if tokenCount < 0 {
		return nil, fmt.Errorf("token count must not be negative, got %d", tokenCount)
	}
	if expectedLength <= 0 {
		return nil, fmt.Errorf("expected length must be positive, got %d", expectedLength)
	}
	if artifactPath == "" {
		return nil, fmt.Errorf("artifact path is required")
	}

	now := time.Now().UTC()

	return &SequenceAssessment{
		id:             uuid.New(),
		tenantID:       tenantID,
		sampleID:       sampleID,
		source:         source,
		tokenCount:     tokenCount,
		expectedLength: expectedLength,
		artifactPath:   artifactPath,
		riskLevel:      valueobject.RiskLevelLow,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Assess records the malicious-class probability and derives the verdict and
// risk level. It raises SequenceScored, plus MaliciousSequenceDetected when the
// verdict is MALICIOUS.
func (a *SequenceAssessment) Assess(probability, threshold float64) error {
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return fmt.Errorf("probability must be between 0 and 1, got %v", probability)
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return fmt.Errorf("threshold must be between 0 and 1, got %v", threshold)
	}

	a.probability = probability
	a.threshold = threshold
	a.verdict = valueobject.VerdictFromProbability(probability, threshold)
	a.riskLevel = valueobject.RiskLevelFromProbability(probability)
	a.assessedAt = time.Now().UTC()
	a.updatedAt = a.assessedAt
	a.version++

	a.Record(event.NewSequenceScored(
		a.id, a.tenantID,
		a.sampleID, a.source.String(), a.verdict.String(), a.riskLevel.String(), a.artifactPath,
		a.probability, a.threshold,
		a.assessedAt,
	))

	if a.verdict.IsMalicious() {
		a.Record(event.NewMaliciousSequenceDetected(
			a.id, a.tenantID, a.sampleID, a.riskLevel.String(), a.probability, a.assessedAt,
		))
	}

	return nil
}

// IsAssessed reports whether Assess has been applied.
func (a *SequenceAssessment) IsAssessed() bool {
	return !a.verdict.IsZero()
}

// Reconstruct rebuilds a SequenceAssessment from persisted data (no validation, no events).
func Reconstruct(
	id, tenantID uuid.UUID,
	sampleID string,
	source valueobject.Source,
	tokenCount, expectedLength int,
	artifactPath string,
	probability, threshold float64,
	verdict valueobject.Verdict,
	riskLevel valueobject.RiskLevel,
	assessedAt time.Time,
	version int,
	createdAt, updatedAt time.Time,
) *SequenceAssessment {
	return &SequenceAssessment{
		id:             id,
		tenantID:       tenantID,
		sampleID:       sampleID,
		source:         source,
		tokenCount:     tokenCount,
		expectedLength: expectedLength,
		artifactPath:   artifactPath,
		probability:    probability,
		threshold:      threshold,
		verdict:        verdict,
		riskLevel:      riskLevel,
		assessedAt:     assessedAt,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// --- Accessors ---

func (a *SequenceAssessment) ID() uuid.UUID                    { return a.id }
func (a *SequenceAssessment) TenantID() uuid.UUID              { return a.tenantID }
func (a *SequenceAssessment) SampleID() string                 { return a.sampleID }
func (a *SequenceAssessment) Source() valueobject.Source       { return a.source }
func (a *SequenceAssessment) TokenCount() int                  { return a.tokenCount }
func (a *SequenceAssessment) ExpectedLength() int              { return a.expectedLength }
func (a *SequenceAssessment) ArtifactPath() string             { return a.artifactPath }
func (a *SequenceAssessment) Probability() float64             { return a.probability }
func (a *SequenceAssessment) Threshold() float64               { return a.threshold }
func (a *SequenceAssessment) Verdict() valueobject.Verdict     { return a.verdict }
func (a *SequenceAssessment) RiskLevel() valueobject.RiskLevel { return a.riskLevel }
func (a *SequenceAssessment) AssessedAt() time.Time            { return a.assessedAt }
func (a *SequenceAssessment) Version() int                     { return a.version }
func (a *SequenceAssessment) CreatedAt() time.Time             { return a.createdAt }
func (a *SequenceAssessment) UpdatedAt() time.Time             { return a.updatedAt }
