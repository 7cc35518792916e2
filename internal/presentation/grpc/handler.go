package grpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sysguard/seqscore/internal/application/dto"
	"github.com/sysguard/seqscore/internal/application/usecase"
	"github.com/sysguard/seqscore/internal/domain/service"
	"github.com/sysguard/seqscore/internal/infrastructure/report"
	"github.com/sysguard/seqscore/pkg/auth"
)

// Compile-time assertion that ScoringServiceHandler implements ScoringServiceServer.
var _ ScoringServiceServer = (*ScoringServiceHandler)(nil)

// ScoringServiceHandler implements the gRPC ScoringServiceServer interface.
type ScoringServiceHandler struct {
	UnimplementedScoringServiceServer
	scoreSequence   *usecase.ScoreSequence
	assessReport    *usecase.AssessReport
	getAssessment   *usecase.GetAssessment
	listAssessments *usecase.ListAssessments
	logger          *slog.Logger
}

// NewScoringServiceHandler creates a new gRPC handler.
func NewScoringServiceHandler(
	scoreSequence *usecase.ScoreSequence,
	assessReport *usecase.AssessReport,
	getAssessment *usecase.GetAssessment,
	listAssessments *usecase.ListAssessments,
	logger *slog.Logger,
) *ScoringServiceHandler {
	return &ScoringServiceHandler{
		scoreSequence:   scoreSequence,
		assessReport:    assessReport,
		getAssessment:   getAssessment,
		listAssessments: listAssessments,
		logger:          logger,
	}
}

// Proto-aligned request/response message types.

// ScoreSequenceRequest represents the proto ScoreSequenceRequest message.
type ScoreSequenceRequest struct {
	SampleID string `json:"sample_id"`
	Sequence string `json:"sequence"`
}

// AssessmentMsg represents the proto SequenceAssessment message.
type AssessmentMsg struct {
	ID             string  `json:"id"`
	TenantID       string  `json:"tenant_id"`
	SampleID       string  `json:"sample_id"`
	Source         string  `json:"source"`
	ArtifactPath   string  `json:"artifact_path"`
	Verdict        string  `json:"verdict"`
	RiskLevel      string  `json:"risk_level"`
	AssessedAt     string  `json:"assessed_at"`
	Probability    float64 `json:"probability"`
	Threshold      float64 `json:"threshold"`
	TokenCount     int32   `json:"token_count"`
	ExpectedLength int32   `json:"expected_length"`
}

// ScoreSequenceResponse represents the proto ScoreSequenceResponse message.
type ScoreSequenceResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// AssessReportRequest carries a raw sandbox behavior report. SampleID is used
// when the report does not name the sample's sha256.
type AssessReportRequest struct {
	SampleID string          `json:"sample_id"`
	Report   json.RawMessage `json:"report"`
}

// ProcessAssessmentMsg represents the proto ProcessAssessment message.
type ProcessAssessmentMsg struct {
	Name       string         `json:"name"`
	Assessment *AssessmentMsg `json:"assessment"`
	PID        int32          `json:"pid"`
}

// AssessReportResponse represents the proto AssessReportResponse message.
type AssessReportResponse struct {
	SampleID         string                  `json:"sample_id"`
	Verdict          string                  `json:"verdict"`
	Processes        []*ProcessAssessmentMsg `json:"processes"`
	MaxProbability   float64                 `json:"max_probability"`
	SkippedProcesses int32                   `json:"skipped_processes"`
}

// GetAssessmentRequest represents the proto GetAssessmentRequest message.
type GetAssessmentRequest struct {
	ID string `json:"id"`
}

// GetAssessmentResponse represents the proto GetAssessmentResponse message.
type GetAssessmentResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// ListAssessmentsRequest represents the proto ListAssessmentsRequest message.
type ListAssessmentsRequest struct {
	SampleID string `json:"sample_id"`
	Limit    int32  `json:"limit"`
	Offset   int32  `json:"offset"`
}

// ListAssessmentsResponse represents the proto ListAssessmentsResponse message.
type ListAssessmentsResponse struct {
	Assessments []*AssessmentMsg `json:"assessments"`
	Limit       int32            `json:"limit"`
	Offset      int32            `json:"offset"`
}

// ScoreSequence scores one comma-separated syscall sequence.
func (h *ScoringServiceHandler) ScoreSequence(ctx context.Context, req *ScoreSequenceRequest) (*ScoreSequenceResponse, error) {
	claims, err := auth.RequireAnyRole(ctx, auth.RoleAdmin, auth.RoleSensor)
	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.scoreSequence.Execute(ctx, dto.ScoreSequenceRequest{
		TenantID: claims.TenantID,
		SampleID: req.SampleID,
		Sequence: req.Sequence,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "failed to score sequence", err)
	}

	return &ScoreSequenceResponse{Assessment: toAssessmentMsg(result)}, nil
}

// AssessReport scores every process of a sandbox behavior report.
func (h *ScoringServiceHandler) AssessReport(ctx context.Context, req *AssessReportRequest) (*AssessReportResponse, error) {
	claims, err := auth.RequireAnyRole(ctx, auth.RoleAdmin, auth.RoleAnalyst)
	if err != nil {
		return nil, err
	}

	if req == nil || len(req.Report) == 0 {
		return nil, status.Error(codes.InvalidArgument, "report is required")
	}

	rep, err := report.Parse(bytes.NewReader(req.Report))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid report: %v", err)
	}

	sampleID := rep.SampleID(req.SampleID)
	if sampleID == "" {
		return nil, status.Error(codes.InvalidArgument, "sample_id is required when the report has no target sha256")
	}

	processes := make([]dto.ProcessCalls, len(rep.Behavior.Processes))
	for i, p := range rep.Behavior.Processes {
		processes[i] = dto.ProcessCalls{Name: p.Name, PID: p.PID, Calls: p.APIs()}
	}

	h.logger.Info("assessing report",
		slog.String("tenant_id", claims.TenantID.String()),
		slog.String("sample_id", sampleID),
		slog.Int("processes", len(processes)),
	)

	result, err := h.assessReport.Execute(ctx, dto.AssessReportRequest{
		TenantID:  claims.TenantID,
		SampleID:  sampleID,
		Processes: processes,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "failed to assess report", err)
	}

	resp := &AssessReportResponse{
		SampleID:         result.SampleID,
		Verdict:          result.Verdict,
		MaxProbability:   result.MaxProbability,
		SkippedProcesses: int32(result.SkippedProcesses),
		Processes:        make([]*ProcessAssessmentMsg, len(result.Processes)),
	}
	for i, p := range result.Processes {
		resp.Processes[i] = &ProcessAssessmentMsg{
			Name:       p.Name,
			PID:        int32(p.PID),
			Assessment: toAssessmentMsg(p.Assessment),
		}
	}
	return resp, nil
}

// GetAssessment returns one assessment of the caller's tenant.
func (h *ScoringServiceHandler) GetAssessment(ctx context.Context, req *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	claims, err := auth.RequireAnyRole(ctx, auth.RoleAdmin, auth.RoleAnalyst)
	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	assessmentID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}
	if assessmentID == uuid.Nil {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	result, err := h.getAssessment.Execute(ctx, dto.GetAssessmentRequest{
		TenantID:     claims.TenantID,
		AssessmentID: assessmentID,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "failed to get assessment", err)
	}

	return &GetAssessmentResponse{Assessment: toAssessmentMsg(result)}, nil
}

// ListAssessments pages through the assessments of one sample.
func (h *ScoringServiceHandler) ListAssessments(ctx context.Context, req *ListAssessmentsRequest) (*ListAssessmentsResponse, error) {
	claims, err := auth.RequireAnyRole(ctx, auth.RoleAdmin, auth.RoleAnalyst)
	if err != nil {
		return nil, err
	}

	if req == nil || req.SampleID == "" {
		return nil, status.Error(codes.InvalidArgument, "sample_id is required")
	}

	result, err := h.listAssessments.Execute(ctx, dto.ListAssessmentsRequest{
		TenantID: claims.TenantID,
		SampleID: req.SampleID,
		Limit:    int(req.Limit),
		Offset:   int(req.Offset),
	})
	if err != nil {
		return nil, h.toStatus(ctx, "failed to list assessments", err)
	}

	resp := &ListAssessmentsResponse{
		Assessments: make([]*AssessmentMsg, len(result.Assessments)),
		Limit:       int32(result.Limit),
		Offset:      int32(result.Offset),
	}
	for i, a := range result.Assessments {
		resp.Assessments[i] = toAssessmentMsg(a)
	}
	return resp, nil
}

// toStatus maps use case errors to gRPC status codes. Unclassified errors are
// logged and reported as Internal without detail.
func (h *ScoringServiceHandler) toStatus(ctx context.Context, msg string, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidSequence):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrAssessmentNotFound):
		return status.Error(codes.NotFound, "assessment not found")
	case errors.Is(err, service.ErrArtifactNotFound),
		errors.Is(err, service.ErrArtifactCorrupt),
		errors.Is(err, service.ErrMalformedArtifactName),
		errors.Is(err, service.ErrInvalidPrediction):
		h.logger.ErrorContext(ctx, msg, slog.String("error", err.Error()))
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	h.logger.ErrorContext(ctx, msg, slog.String("error", err.Error()))
	return status.Error(codes.Internal, "internal error")
}

func toAssessmentMsg(a dto.AssessmentResponse) *AssessmentMsg {
	return &AssessmentMsg{
		ID:             a.ID.String(),
		TenantID:       a.TenantID.String(),
		SampleID:       a.SampleID,
		Source:         a.Source,
		ArtifactPath:   a.ArtifactPath,
		Verdict:        a.Verdict,
		RiskLevel:      a.RiskLevel,
		AssessedAt:     a.AssessedAt.Format(time.RFC3339Nano),
		Probability:    a.Probability,
		Threshold:      a.Threshold,
		TokenCount:     int32(a.TokenCount),
		ExpectedLength: int32(a.ExpectedLength),
	}
}
