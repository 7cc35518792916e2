package usecase

import (
	"context"
	"fmt"

	"github.com/sysguard/seqscore/internal/application/dto"
	"github.com/sysguard/seqscore/internal/domain/port"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListAssessments is the use case for listing the assessments of one sample.
type ListAssessments struct {
	repo port.AssessmentRepository
}

// NewListAssessments creates a new ListAssessments use case.
func NewListAssessments(repo port.AssessmentRepository) *ListAssessments {
	return &ListAssessments{repo: repo}
}

// Execute returns a page of assessments for req.SampleID, newest first.
func (uc *ListAssessments) Execute(ctx context.Context, req dto.ListAssessmentsRequest) (dto.ListAssessmentsResponse, error) {
	if req.SampleID == "" {
		return dto.ListAssessmentsResponse{}, fmt.Errorf("sample ID is required")
	}

	limit := req.Limit
	switch {
	case limit <= 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	offset := max(req.Offset, 0)

	assessments, err := uc.repo.FindBySampleID(ctx, req.TenantID, req.SampleID, limit, offset)
	if err != nil {
		return dto.ListAssessmentsResponse{}, fmt.Errorf("failed to list assessments: %w", err)
	}

	resp := dto.ListAssessmentsResponse{
		Assessments: make([]dto.AssessmentResponse, 0, len(assessments)),
		Limit:       limit,
		Offset:      offset,
	}
	for _, a := range assessments {
		resp.Assessments = append(resp.Assessments, dto.FromModel(a))
	}
	return resp, nil
}
