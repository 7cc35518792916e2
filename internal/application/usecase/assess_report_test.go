package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysguard/seqscore/internal/application/dto"
	"github.com/sysguard/seqscore/internal/application/usecase"
	"github.com/sysguard/seqscore/internal/domain/event"
	"github.com/sysguard/seqscore/internal/domain/model"
	"github.com/sysguard/seqscore/internal/domain/service"
	"github.com/sysguard/seqscore/pkg/testutil"
)

func reportRequest() dto.AssessReportRequest {
	return dto.AssessReportRequest{
		TenantID: testutil.TestTenantID,
		SampleID: "abc123",
		Processes: []dto.ProcessCalls{
			{Name: "dropper", PID: 10, Calls: []string{"openat", "connect"}},
			{Name: "idle", PID: 11},
			{Name: "sh", PID: 12, Calls: []string{"execve"}},
		},
	}
}

func TestAssessReport_Execute(t *testing.T) {
	t.Run("any malicious process flags the sample", func(t *testing.T) {
		repo := newMockRepo()
		publisher := &mockEventPublisher{}
		scorer := &mockScorer{defaultP: 0.1, bySeq: map[string]float64{"EXECVE": 0.85}}
		uc := usecase.NewAssessReport(repo, publisher, scorer, upperEncoder{}, discardLogger(), 0.6)

		resp, err := uc.Execute(context.Background(), reportRequest())
		require.NoError(t, err)

		assert.Equal(t, "MALICIOUS", resp.Verdict)
		assert.InDelta(t, 0.85, resp.MaxProbability, 1e-9)
		assert.Equal(t, 1, resp.SkippedProcesses)
		require.Len(t, resp.Processes, 2)
		assert.Equal(t, "dropper", resp.Processes[0].Name)
		assert.Equal(t, "BENIGN", resp.Processes[0].Assessment.Verdict)
		assert.Equal(t, "report", resp.Processes[0].Assessment.Source)
		assert.Equal(t, "MALICIOUS", resp.Processes[1].Assessment.Verdict)

		assert.Equal(t, []string{"OPENAT,CONNECT", "EXECVE"}, scorer.seen)
		assert.Len(t, repo.saved, 2)
		assert.Equal(t, []string{
			event.EventTypeSequenceScored,
			event.EventTypeSequenceScored,
			event.EventTypeMaliciousSequenceDetected,
		}, publisher.types())
	})

	t.Run("all benign", func(t *testing.T) {
		uc := usecase.NewAssessReport(newMockRepo(), &mockEventPublisher{}, &mockScorer{defaultP: 0.6}, upperEncoder{}, discardLogger(), 0.6)

		resp, err := uc.Execute(context.Background(), reportRequest())
		require.NoError(t, err)
		assert.Equal(t, "BENIGN", resp.Verdict, "a probability equal to the threshold is not malicious")
	})

	t.Run("no processes with calls", func(t *testing.T) {
		repo := newMockRepo()
		repo.saveAllFunc = func(context.Context, []*model.SequenceAssessment) error {
			t.Fatal("nothing should be saved")
			return nil
		}
		uc := usecase.NewAssessReport(repo, &mockEventPublisher{}, &mockScorer{}, upperEncoder{}, discardLogger(), 0.6)

		resp, err := uc.Execute(context.Background(), dto.AssessReportRequest{TenantID: testutil.TestTenantID, SampleID: "s"})
		require.NoError(t, err)
		assert.Equal(t, "BENIGN", resp.Verdict)
		assert.Empty(t, resp.Processes)
	})

	t.Run("scoring failure aborts", func(t *testing.T) {
		repo := newMockRepo()
		uc := usecase.NewAssessReport(repo, &mockEventPublisher{}, &mockScorer{err: service.ErrArtifactCorrupt}, upperEncoder{}, discardLogger(), 0.6)

		_, err := uc.Execute(context.Background(), reportRequest())
		require.ErrorIs(t, err, service.ErrArtifactCorrupt)
		assert.Contains(t, err.Error(), "dropper")
		assert.Empty(t, repo.saved)
	})

	t.Run("batch save failure", func(t *testing.T) {
		repo := newMockRepo()
		repo.saveAllFunc = func(context.Context, []*model.SequenceAssessment) error { return errors.New("tx aborted") }
		publisher := &mockEventPublisher{}
		uc := usecase.NewAssessReport(repo, publisher, &mockScorer{defaultP: 0.9}, upperEncoder{}, discardLogger(), 0.6)

		_, err := uc.Execute(context.Background(), reportRequest())
		assert.ErrorContains(t, err, "failed to save assessments")
		assert.Empty(t, publisher.published)
	})

	t.Run("requires sample id", func(t *testing.T) {
		uc := usecase.NewAssessReport(newMockRepo(), &mockEventPublisher{}, &mockScorer{}, upperEncoder{}, discardLogger(), 0.6)

		_, err := uc.Execute(context.Background(), dto.AssessReportRequest{TenantID: testutil.TestTenantID})
		assert.Error(t, err)
	})
}
