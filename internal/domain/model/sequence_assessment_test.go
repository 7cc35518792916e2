package model_test

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysguard/seqscore/internal/domain/event"
	"github.com/sysguard/seqscore/internal/domain/model"
	"github.com/sysguard/seqscore/internal/domain/valueobject"
)

func newValidAssessment(t *testing.T) *model.SequenceAssessment {
	t.Helper()
	a, err := model.NewSequenceAssessment(
		uuid.New(),
		"sample-1",
		valueobject.SourceSequence,
		12,
		25077,
		"files/random_forest_model_25077",
	)
	require.NoError(t, err)
	return a
}

func TestNewSequenceAssessment_Valid(t *testing.T) {
	a := newValidAssessment(t)

	assert.NotEqual(t, uuid.Nil, a.ID())
	assert.Equal(t, "sample-1", a.SampleID())
	assert.Equal(t, valueobject.SourceSequence, a.Source())
	assert.Equal(t, 12, a.TokenCount())
	assert.Equal(t, 25077, a.ExpectedLength())
	assert.Equal(t, 1, a.Version())
	assert.False(t, a.IsAssessed())
	assert.Zero(t, a.Pending())
}

func TestNewSequenceAssessment_Validation(t *testing.T) {
	tests := []struct {
		name           string
		sampleID       string
		artifactPath   string
		wantErr        string
		source         valueobject.Source
		tokenCount     int
		expectedLength int
		tenantID       uuid.UUID
	}{
		{
			name: "nil tenant", sampleID: "s", source: valueobject.SourceSequence,
			expectedLength: 5, artifactPath: "a", wantErr: "tenant ID is required",
		},
		{
			name: "empty sample", tenantID: uuid.New(), source: valueobject.SourceSequence,
			expectedLength: 5, artifactPath: "a", wantErr: "sample ID is required",
		},
		{
			name: "missing source", tenantID: uuid.New(), sampleID: "s",
			expectedLength: 5, artifactPath: "a", wantErr: "source is required",
		},
		{
			name: "negative tokens", tenantID: uuid.New(), sampleID: "s", source: valueobject.SourceReport,
			tokenCount: -1, expectedLength: 5, artifactPath: "a", wantErr: "token count",
		},
		{
			name: "zero length", tenantID: uuid.New(), sampleID: "s", source: valueobject.SourceReport,
			artifactPath: "a", wantErr: "expected length must be positive",
		},
		{
			name: "missing artifact", tenantID: uuid.New(), sampleID: "s", source: valueobject.SourceReport,
			expectedLength: 5, wantErr: "artifact path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewSequenceAssessment(tt.tenantID, tt.sampleID, tt.source, tt.tokenCount, tt.expectedLength, tt.artifactPath)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAssess_Benign(t *testing.T) {
	a := newValidAssessment(t)

	require.NoError(t, a.Assess(0.2, valueobject.DefaultMaliciousThreshold))

	assert.True(t, a.IsAssessed())
	assert.Equal(t, valueobject.VerdictBenign, a.Verdict())
	assert.Equal(t, valueobject.RiskLevelLow, a.RiskLevel())
	assert.Equal(t, 2, a.Version())
	assert.False(t, a.AssessedAt().IsZero())

	evts := a.ClearEvents()
	require.Len(t, evts, 1)
	scored, ok := evts[0].(event.SequenceScored)
	require.True(t, ok)
	assert.Equal(t, event.EventTypeSequenceScored, scored.EventType())
	assert.Equal(t, a.ID(), scored.AggregateID())
	assert.Equal(t, a.TenantID(), scored.TenantID())
	assert.Equal(t, "BENIGN", scored.Verdict)
	assert.Zero(t, a.Pending())
}

func TestAssess_MaliciousRaisesDetection(t *testing.T) {
	a := newValidAssessment(t)

	require.NoError(t, a.Assess(0.93, valueobject.DefaultMaliciousThreshold))

	assert.Equal(t, valueobject.VerdictMalicious, a.Verdict())
	assert.Equal(t, valueobject.RiskLevelCritical, a.RiskLevel())

	evts := a.ClearEvents()
	require.Len(t, evts, 2)
	assert.Equal(t, event.EventTypeSequenceScored, evts[0].EventType())
	detected, ok := evts[1].(event.MaliciousSequenceDetected)
	require.True(t, ok)
	assert.Equal(t, "sample-1", detected.SampleID)
	assert.InDelta(t, 0.93, detected.Probability, 1e-9)
}

func TestAssess_RejectsOutOfRange(t *testing.T) {
	a := newValidAssessment(t)

	for _, p := range []float64{-0.01, 1.01, math.NaN()} {
		assert.Error(t, a.Assess(p, 0.6), "p=%v", p)
	}
	assert.Error(t, a.Assess(0.5, 2))
	assert.False(t, a.IsAssessed())
	assert.Zero(t, a.Pending())
}

func TestReconstruct(t *testing.T) {
	original := newValidAssessment(t)
	require.NoError(t, original.Assess(0.7, 0.6))

	rebuilt := model.Reconstruct(
		original.ID(), original.TenantID(), original.SampleID(), original.Source(),
		original.TokenCount(), original.ExpectedLength(), original.ArtifactPath(),
		original.Probability(), original.Threshold(), original.Verdict(), original.RiskLevel(),
		original.AssessedAt(), original.Version(), original.CreatedAt(), original.UpdatedAt(),
	)

	assert.Equal(t, original.ID(), rebuilt.ID())
	assert.Equal(t, original.Verdict(), rebuilt.Verdict())
	assert.Equal(t, valueobject.RiskLevelHigh, rebuilt.RiskLevel())
	assert.Zero(t, rebuilt.Pending())
}
