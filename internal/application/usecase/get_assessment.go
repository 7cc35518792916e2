package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sysguard/seqscore/internal/application/dto"
	"github.com/sysguard/seqscore/internal/domain/port"
)

// GetAssessment looks up one stored sequence assessment. Lookups are scoped
// to the caller's tenant: an assessment owned by another tenant is reported
// as not found.
type GetAssessment struct {
	repo port.AssessmentRepository
}

func NewGetAssessment(repo port.AssessmentRepository) *GetAssessment {
	return &GetAssessment{repo: repo}
}

// Execute returns the assessment, or an error wrapping
// service.ErrAssessmentNotFound when the tenant has none with that ID.
func (uc *GetAssessment) Execute(ctx context.Context, req dto.GetAssessmentRequest) (dto.AssessmentResponse, error) {
	if req.TenantID == uuid.Nil {
		return dto.AssessmentResponse{}, fmt.Errorf("tenant ID is required")
	}
	if req.AssessmentID == uuid.Nil {
		return dto.AssessmentResponse{}, fmt.Errorf("assessment ID is required")
	}

	assessment, err := uc.repo.FindByID(ctx, req.TenantID, req.AssessmentID)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("assessment %s of tenant %s: %w", req.AssessmentID, req.TenantID, err)
	}

	return dto.FromModel(assessment), nil
}
