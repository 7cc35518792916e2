//go:build integration

package postgres_test

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysguard/seqscore/internal/domain/model"
	"github.com/sysguard/seqscore/internal/domain/service"
	"github.com/sysguard/seqscore/internal/domain/valueobject"
	"github.com/sysguard/seqscore/internal/infrastructure/postgres"
	"github.com/sysguard/seqscore/pkg/testutil"
)

func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "..", "migrations")
}

func setupRepo(t *testing.T) *postgres.AssessmentRepository {
	t.Helper()

	pg := testutil.NewPostgresContainer(context.Background(), t)
	pg.RunMigrations(t, migrationsDir())
	return postgres.NewAssessmentRepository(pg.Pool)
}

func newAssessed(t *testing.T, tenantID uuid.UUID, sampleID string, p float64) *model.SequenceAssessment {
	t.Helper()

	a, err := model.NewSequenceAssessment(tenantID, sampleID, valueobject.SourceSequence, 3, 5, "files/random_forest_model_5")
	require.NoError(t, err)
	require.NoError(t, a.Assess(p, valueobject.DefaultMaliciousThreshold))
	return a
}

func TestAssessmentRepository_SaveAndFind(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	a := newAssessed(t, testutil.TestTenantID, testutil.TestSampleID, 2.0/3.0)
	require.NoError(t, repo.Save(ctx, a))

	got, err := repo.FindByID(ctx, testutil.TestTenantID, a.ID())
	require.NoError(t, err)
	assert.Equal(t, a.ID(), got.ID())
	assert.Equal(t, valueobject.VerdictMalicious, got.Verdict())
	assert.InDelta(t, 0.666667, got.Probability(), 1e-9)

	_, err = repo.FindByID(ctx, testutil.TestTenantID2, a.ID())
	assert.ErrorIs(t, err, service.ErrAssessmentNotFound, "other tenants must not see the assessment")
}

func TestAssessmentRepository_SaveAllAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	batch := []*model.SequenceAssessment{
		newAssessed(t, testutil.TestTenantID, "sample-x", 0.1),
		newAssessed(t, testutil.TestTenantID, "sample-x", 0.9),
		newAssessed(t, testutil.TestTenantID, "sample-y", 0.5),
	}
	require.NoError(t, repo.SaveAll(ctx, batch))

	list, err := repo.FindBySampleID(ctx, testutil.TestTenantID, "sample-x", 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	page, err := repo.FindBySampleID(ctx, testutil.TestTenantID, "sample-x", 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}
