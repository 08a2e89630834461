// Package predictor loads the fitted demand model's linearized weights and
// exposes point predictions over ordered feature vectors.
package predictor

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/features"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
)

// weightsFile is the on-disk layout of the exported model weights.
type weightsFile struct {
	Model struct {
		Name          string  `yaml:"name"`
		SchemaVersion string  `yaml:"schema_version"`
		R2            float64 `yaml:"r2"`
		RMSE          float64 `yaml:"rmse"`
	} `yaml:"model"`
	Intercept float64            `yaml:"intercept"`
	Weights   map[string]float64 `yaml:"weights"`
}

// Model is a linear surrogate of the fitted regressor: a weight per feature
// plus an intercept, applied to vectors in features.FeatureOrder order.
type Model struct {
	weights   []float64
	intercept float64
	info      model.ModelInfo
}

// Load reads and validates a weights file. Every feature in the schema must
// carry a weight; a partial file would silently shift the vector contract.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "predictor: read weights %s", path)
	}
	return Parse(data)
}

// Parse builds a Model from raw YAML weight bytes.
func Parse(data []byte) (*Model, error) {
	var file weightsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "predictor: parse weights")
	}

	if file.Model.SchemaVersion != features.SchemaVersion {
		return nil, eris.Wrapf(features.ErrSchemaMismatch,
			"predictor: weights schema %q, expected %q", file.Model.SchemaVersion, features.SchemaVersion)
	}

	ordered := make([]float64, len(features.FeatureOrder))
	for i, name := range features.FeatureOrder {
		w, ok := file.Weights[name]
		if !ok {
			return nil, eris.Wrapf(features.ErrSchemaMismatch, "predictor: missing weight for %q", name)
		}
		ordered[i] = w
	}
	for name := range file.Weights {
		if !inOrder(name) {
			return nil, eris.Wrapf(features.ErrSchemaMismatch, "predictor: unknown weight %q", name)
		}
	}

	return &Model{
		weights:   ordered,
		intercept: file.Intercept,
		info: model.ModelInfo{
			Name:          file.Model.Name,
			SchemaVersion: file.Model.SchemaVersion,
			R2:            file.Model.R2,
			RMSE:          file.Model.RMSE,
		},
	}, nil
}

func inOrder(name string) bool {
	for _, n := range features.FeatureOrder {
		if n == name {
			return true
		}
	}
	return false
}

// Predict returns the model's point prediction for an ordered feature vector.
func (m *Model) Predict(vector []float64) (float64, error) {
	if len(vector) != len(m.weights) {
		return 0, eris.Wrapf(features.ErrSchemaMismatch,
			"predictor: vector length %d, expected %d", len(vector), len(m.weights))
	}
	y := m.intercept
	for i, x := range vector {
		y += m.weights[i] * x
	}
	if y < 0 {
		y = 0
	}
	return y, nil
}

// Schema reports the feature schema version the weights were exported against.
func (m *Model) Schema() string {
	return m.info.SchemaVersion
}

// Info describes the underlying fitted model.
func (m *Model) Info() model.ModelInfo {
	return m.info
}
