package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sysguard/seqscore/internal/application/dto"
	"github.com/sysguard/seqscore/internal/domain/model"
	"github.com/sysguard/seqscore/internal/domain/port"
	"github.com/sysguard/seqscore/internal/domain/valueobject"
	"github.com/sysguard/seqscore/pkg/events"
)

// AssessReport scores every traced process of a sandbox report. The sample is
// MALICIOUS when any process scores above the threshold.
type AssessReport struct {
	repo      port.AssessmentRepository
	publisher port.EventPublisher
	scorer    port.SequenceScorer
	encoder   port.SyscallEncoder
	logger    *slog.Logger
	threshold float64
}

// NewAssessReport creates a new AssessReport use case.
func NewAssessReport(
	repo port.AssessmentRepository,
	publisher port.EventPublisher,
	scorer port.SequenceScorer,
	encoder port.SyscallEncoder,
	logger *slog.Logger,
	threshold float64,
) *AssessReport {
	return &AssessReport{
		repo:      repo,
		publisher: publisher,
		scorer:    scorer,
		encoder:   encoder,
		logger:    logger,
		threshold: threshold,
	}
}

// Execute scores each process with calls, persists all assessments in one
// batch, and publishes their events. Processes without calls are skipped.
func (uc *AssessReport) Execute(ctx context.Context, req dto.AssessReportRequest) (dto.AssessReportResponse, error) {
	if req.SampleID == "" {
		return dto.AssessReportResponse{}, fmt.Errorf("sample ID is required")
	}

	resp := dto.AssessReportResponse{
		SampleID:  req.SampleID,
		Verdict:   valueobject.VerdictBenign.String(),
		Processes: make([]dto.ProcessAssessment, 0, len(req.Processes)),
	}

	assessments := make([]*model.SequenceAssessment, 0, len(req.Processes))
	for _, proc := range req.Processes {
		if len(proc.Calls) == 0 {
			uc.logger.DebugContext(ctx, "skipping process without calls", "process", proc.Name, "pid", proc.PID)
			resp.SkippedProcesses++
			continue
		}

		result, err := uc.scorer.Evaluate(ctx, uc.encoder.Encode(proc.Calls))
		if err != nil {
			return dto.AssessReportResponse{}, fmt.Errorf("failed to score process %s (pid %d): %w", proc.Name, proc.PID, err)
		}

		assessment, err := model.NewSequenceAssessment(
			req.TenantID,
			req.SampleID,
			valueobject.SourceReport,
			result.TokenCount,
			result.ExpectedLength,
			result.ArtifactPath,
		)
		if err != nil {
			return dto.AssessReportResponse{}, fmt.Errorf("failed to create assessment: %w", err)
		}
		if err := assessment.Assess(result.Probability, uc.threshold); err != nil {
			return dto.AssessReportResponse{}, fmt.Errorf("failed to assess process %s: %w", proc.Name, err)
		}

		assessments = append(assessments, assessment)
		resp.Processes = append(resp.Processes, dto.ProcessAssessment{
			Name:       proc.Name,
			PID:        proc.PID,
			Assessment: dto.FromModel(assessment),
		})

		if result.Probability > resp.MaxProbability {
			resp.MaxProbability = result.Probability
		}
		if assessment.Verdict().IsMalicious() {
			resp.Verdict = valueobject.VerdictMalicious.String()
		}
	}

	if len(assessments) == 0 {
		return resp, nil
	}

	if err := uc.repo.SaveAll(ctx, assessments); err != nil {
		return dto.AssessReportResponse{}, fmt.Errorf("failed to save assessments: %w", err)
	}

	var evts []events.DomainEvent
	for _, a := range assessments {
		evts = append(evts, a.ClearEvents()...)
	}
	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		return dto.AssessReportResponse{}, fmt.Errorf("failed to publish events: %w", err)
	}

	uc.logger.InfoContext(ctx, "report assessed",
		"sample_id", req.SampleID,
		"processes", len(assessments),
		"skipped", resp.SkippedProcesses,
		"verdict", resp.Verdict,
	)

	return resp, nil
}
