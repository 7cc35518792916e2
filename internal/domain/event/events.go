package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/sysguard/seqscore/pkg/events"
)

const (
	// AggregateTypeSequenceAssessment identifies the aggregate that raises these events.
	AggregateTypeSequenceAssessment = "SequenceAssessment"

	// EventTypeSequenceScored is emitted for every completed assessment.
	EventTypeSequenceScored = "seqscore.sequence.scored"

	// EventTypeMaliciousSequenceDetected is emitted when the verdict is MALICIOUS.
	EventTypeMaliciousSequenceDetected = "seqscore.malicious_sequence.detected"
)

// SequenceScored is published when a syscall sequence has been scored.
type SequenceScored struct {
	events.BaseEvent
	AssessedAt   time.Time `json:"assessed_at"`
	SampleID     string    `json:"sample_id"`
	Source       string    `json:"source"`
	Verdict      string    `json:"verdict"`
	RiskLevel    string    `json:"risk_level"`
	ArtifactPath string    `json:"artifact_path"`
	Probability  float64   `json:"probability"`
	Threshold    float64   `json:"threshold"`
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// NewSequenceScored creates a SequenceScored event.
func NewSequenceScored(
	assessmentID, tenantID uuid.UUID,
	sampleID, source, verdict, riskLevel, artifactPath string,
	probability, threshold float64,
	assessedAt time.Time,
) SequenceScored {
	return SequenceScored{
		BaseEvent:    events.NewBaseEvent(EventTypeSequenceScored, assessmentID, AggregateTypeSequenceAssessment, tenantID),
		AssessmentID: assessmentID,
		SampleID:     sampleID,
		Source:       source,
		Verdict:      verdict,
		RiskLevel:    riskLevel,
		ArtifactPath: artifactPath,
		Probability:  probability,
		Threshold:    threshold,
		AssessedAt:   assessedAt,
	}
}

// MaliciousSequenceDetected is published when a sequence scores above the
// malicious threshold, so that response tooling can quarantine the sample.
type MaliciousSequenceDetected struct {
	events.BaseEvent
	DetectedAt   time.Time `json:"detected_at"`
	SampleID     string    `json:"sample_id"`
	RiskLevel    string    `json:"risk_level"`
	Probability  float64   `json:"probability"`
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// NewMaliciousSequenceDetected creates a MaliciousSequenceDetected event.
func NewMaliciousSequenceDetected(
	assessmentID, tenantID uuid.UUID,
	sampleID, riskLevel string,
	probability float64,
	detectedAt time.Time,
) MaliciousSequenceDetected {
	return MaliciousSequenceDetected{
		BaseEvent:    events.NewBaseEvent(EventTypeMaliciousSequenceDetected, assessmentID, AggregateTypeSequenceAssessment, tenantID),
		AssessmentID: assessmentID,
		SampleID:     sampleID,
		RiskLevel:    riskLevel,
		Probability:  probability,
		DetectedAt:   detectedAt,
	}
}
