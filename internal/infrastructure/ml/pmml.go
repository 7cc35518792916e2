// Package ml runs PMML random-forest artifacts exported from scikit-learn.
package ml

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/asafschers/goscore"
	"github.com/spf13/afero"

	"github.com/sysguard/seqscore/internal/domain/port"
	"github.com/sysguard/seqscore/internal/domain/service"
)

// DefaultFeaturePrefix matches the column names sklearn2pmml gives unnamed
// features: x1, x2, ...
const DefaultFeaturePrefix = "x"

// Class labels as they appear in the tree leaf scores.
const (
	labelBenign    = "0"
	labelMalicious = "1"
)

// PMMLLoader reads PMML random forests.
type PMMLLoader struct {
	fs            afero.Fs
	featurePrefix string
}

// NewPMMLLoader returns a loader that reads from the OS filesystem.
func NewPMMLLoader(featurePrefix string) *PMMLLoader {
	return NewPMMLLoaderFS(afero.NewOsFs(), featurePrefix)
}

// NewPMMLLoaderFS returns a loader that reads from fsys.
func NewPMMLLoaderFS(fsys afero.Fs, featurePrefix string) *PMMLLoader {
	if featurePrefix == "" {
		featurePrefix = DefaultFeaturePrefix
	}
	return &PMMLLoader{fs: fsys, featurePrefix: featurePrefix}
}

// Load implements port.ModelLoader.
func (l *PMMLLoader) Load(ctx context.Context, path string) (port.Classifier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", service.ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var forest goscore.RandomForest
	if err := xml.Unmarshal(data, &forest); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", service.ErrArtifactCorrupt, path, err)
	}
	if len(forest.Trees) == 0 {
		return nil, fmt.Errorf("%w: %s contains no trees", service.ErrArtifactCorrupt, path)
	}

	return &ForestClassifier{forest: forest, featurePrefix: l.featurePrefix}, nil
}

// ForestClassifier scores token sequences with a loaded random forest.
type ForestClassifier struct {
	featurePrefix string
	forest        goscore.RandomForest
}

// Trees returns the number of trees in the forest.
func (c *ForestClassifier) Trees() int {
	return len(c.forest.Trees)
}

// PredictProbability returns [P(benign), P(malicious)] as the share of trees
// voting for each label.
func (c *ForestClassifier) PredictProbability(ctx context.Context, tokens []string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	features := c.features(tokens)

	malicious, err := c.forest.Score(features, labelMalicious)
	if err != nil {
		return nil, fmt.Errorf("failed to traverse forest: %w", err)
	}
	benign, err := c.forest.Score(features, labelBenign)
	if err != nil {
		return nil, fmt.Errorf("failed to traverse forest: %w", err)
	}

	return []float64{benign, malicious}, nil
}

// features maps token i to feature <prefix><i+1>. Numeric tokens become
// float64 so numeric split predicates can compare them.
func (c *ForestClassifier) features(tokens []string) map[string]interface{} {
	features := make(map[string]interface{}, len(tokens))
	for i, tok := range tokens {
		name := c.featurePrefix + strconv.Itoa(i+1)
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			features[name] = v
		} else {
			features[name] = tok
		}
	}
	return features
}
