package ml_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysguard/seqscore/internal/domain/service"
	"github.com/sysguard/seqscore/internal/infrastructure/artifact"
	"github.com/sysguard/seqscore/internal/infrastructure/ml"
)

const fixture = "testdata/random_forest_model_5.pmml"

func loadFixture(t *testing.T) *ml.ForestClassifier {
	t.Helper()
	clf, err := ml.NewPMMLLoader("").Load(context.Background(), fixture)
	require.NoError(t, err)
	forest, ok := clf.(*ml.ForestClassifier)
	require.True(t, ok)
	return forest
}

func TestPMMLLoader_LoadsForest(t *testing.T) {
	forest := loadFixture(t)
	assert.Equal(t, 3, forest.Trees())
}

func TestForestClassifier_PredictProbability(t *testing.T) {
	forest := loadFixture(t)

	tests := []struct {
		name          string
		tokens        []string
		wantMalicious float64
	}{
		{name: "both features low", tokens: []string{"1", "2", "3", "0", "0"}, wantMalicious: 2.0 / 3.0},
		{name: "one feature low", tokens: []string{"5", "200", "0", "0", "0"}, wantMalicious: 1.0 / 3.0},
		{name: "both features high", tokens: []string{"100", "200", "0", "0", "0"}, wantMalicious: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probs, err := forest.PredictProbability(context.Background(), tt.tokens)
			require.NoError(t, err)
			require.Len(t, probs, 2)

			assert.InDelta(t, tt.wantMalicious, probs[1], 1e-9)
			assert.InDelta(t, 1.0, probs[0]+probs[1], 1e-9)
		})
	}
}

func TestForestClassifier_Deterministic(t *testing.T) {
	tokens := []string{"3", "4", "0", "0", "0"}

	first, err := loadFixture(t).PredictProbability(context.Background(), tokens)
	require.NoError(t, err)
	second, err := loadFixture(t).PredictProbability(context.Background(), tokens)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPMMLLoader_Errors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "truncated.pmml", []byte("<PMML><MiningModel><Segmentation>"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "empty.pmml", []byte(`<PMML version="4.3"><MiningModel/></PMML>`), 0o644))
	loader := ml.NewPMMLLoaderFS(fsys, "x")

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(context.Background(), "absent.pmml")
		assert.ErrorIs(t, err, service.ErrArtifactNotFound)
	})

	t.Run("truncated xml", func(t *testing.T) {
		_, err := loader.Load(context.Background(), "truncated.pmml")
		assert.ErrorIs(t, err, service.ErrArtifactCorrupt)
	})

	t.Run("no trees", func(t *testing.T) {
		_, err := loader.Load(context.Background(), "empty.pmml")
		assert.ErrorIs(t, err, service.ErrArtifactCorrupt)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := loader.Load(ctx, fixture)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// The discovery resolver, loader and scorer together reproduce the
// "1,2,3" with length 5 example end to end.
func TestEndToEnd_DirectoryDiscovery(t *testing.T) {
	resolver := artifact.NewDirectoryResolver(filepath.Dir(fixture), "random_forest_model")
	scorer := service.NewSequenceScorer(resolver, ml.NewPMMLLoader(""), discardLogger())

	p, err := scorer.Score(context.Background(), "1,2,3")
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, p, 1e-9)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}
