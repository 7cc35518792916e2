package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/sysguard/seqscore/internal/domain/model"
)

// ScoreSequenceRequest is the input DTO for the ScoreSequence use case.
// SampleID is optional; the sequence digest is used when it is empty.
type ScoreSequenceRequest struct {
	SampleID string    `json:"sample_id"`
	Sequence string    `json:"sequence"`
	TenantID uuid.UUID `json:"tenant_id"`
}

// AssessmentResponse is the output DTO returned after an assessment.
type AssessmentResponse struct {
	AssessedAt     time.Time `json:"assessed_at"`
	CreatedAt      time.Time `json:"created_at"`
	SampleID       string    `json:"sample_id"`
	Source         string    `json:"source"`
	ArtifactPath   string    `json:"artifact_path"`
	Verdict        string    `json:"verdict"`
	RiskLevel      string    `json:"risk_level"`
	Probability    float64   `json:"probability"`
	Threshold      float64   `json:"threshold"`
	TokenCount     int       `json:"token_count"`
	ExpectedLength int       `json:"expected_length"`
	ID             uuid.UUID `json:"id"`
	TenantID       uuid.UUID `json:"tenant_id"`
}

// GetAssessmentRequest is the input DTO for retrieving an assessment.
type GetAssessmentRequest struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// ListAssessmentsRequest is the input DTO for listing a sample's assessments.
type ListAssessmentsRequest struct {
	SampleID string    `json:"sample_id"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
	TenantID uuid.UUID `json:"tenant_id"`
}

// ListAssessmentsResponse is the output DTO for ListAssessments.
type ListAssessmentsResponse struct {
	Assessments []AssessmentResponse `json:"assessments"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

// ProcessCalls is one traced process from a sandbox report.
type ProcessCalls struct {
	Name  string   `json:"name"`
	Calls []string `json:"calls"`
	PID   int      `json:"pid"`
}

// AssessReportRequest is the input DTO for the AssessReport use case.
type AssessReportRequest struct {
	SampleID  string         `json:"sample_id"`
	Processes []ProcessCalls `json:"processes"`
	TenantID  uuid.UUID      `json:"tenant_id"`
}

// ProcessAssessment pairs a traced process with its assessment.
type ProcessAssessment struct {
	Name       string             `json:"name"`
	Assessment AssessmentResponse `json:"assessment"`
	PID        int                `json:"pid"`
}

// AssessReportResponse is the output DTO for AssessReport. Verdict is
// MALICIOUS when any process scored above the threshold.
type AssessReportResponse struct {
	SampleID         string              `json:"sample_id"`
	Verdict          string              `json:"verdict"`
	Processes        []ProcessAssessment `json:"processes"`
	MaxProbability   float64             `json:"max_probability"`
	SkippedProcesses int                 `json:"skipped_processes"`
}

// FromModel maps a domain model to the response DTO.
func FromModel(a *model.SequenceAssessment) AssessmentResponse {
	return AssessmentResponse{
		ID:             a.ID(),
		TenantID:       a.TenantID(),
		SampleID:       a.SampleID(),
		Source:         a.Source().String(),
		ArtifactPath:   a.ArtifactPath(),
		Verdict:        a.Verdict().String(),
		RiskLevel:      a.RiskLevel().String(),
		Probability:    a.Probability(),
		Threshold:      a.Threshold(),
		TokenCount:     a.TokenCount(),
		ExpectedLength: a.ExpectedLength(),
		AssessedAt:     a.AssessedAt(),
		CreatedAt:      a.CreatedAt(),
	}
}
