package model

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/NahomAnteneh/scm-predictor/core"
)

// Model is a loaded classifier with the column layout of its inference row
type Model struct {
	Classifier       Classifier
	Layout           []core.Feature
	Fingerprint      string
	Path             string
	FeatureNamesPath string
	Metadata         map[string]string
	LoadedAt         time.Time
}

// Load reads the artifact at modelPath and the optional feature-name list at featuresPath.
// A featuresPath that is empty or does not exist is ignored.
func Load(modelPath, featuresPath string) (*Model, error) {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, core.ArtifactError("failed to read model artifact "+modelPath, err)
	}

	artifact, err := ParseArtifact(modelPath, data)
	if err != nil {
		return nil, err
	}
	clf, err := artifact.Classifier()
	if err != nil {
		return nil, err
	}

	names := artifact.FeatureNames
	usedFeaturesPath := ""
	if featuresPath != "" {
		raw, err := os.ReadFile(featuresPath)
		switch {
		case err == nil:
			if names, err = ParseFeatureNames(featuresPath, raw); err != nil {
				return nil, err
			}
			usedFeaturesPath = featuresPath
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, core.ArtifactError("failed to read feature names "+featuresPath, err)
		}
	}

	layout, err := ResolveLayout(names, clf.NumFeatures())
	if err != nil {
		return nil, err
	}

	return &Model{
		Classifier:       clf,
		Layout:           layout,
		Fingerprint:      Fingerprint(data),
		Path:             modelPath,
		FeatureNamesPath: usedFeaturesPath,
		Metadata:         artifact.Metadata,
		LoadedAt:         time.Now().UTC(),
	}, nil
}

// Fingerprint is the hex BLAKE2b-256 digest of the artifact bytes
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FeatureNames returns the column names in inference order
func (m *Model) FeatureNames() []string {
	names := make([]string, len(m.Layout))
	for i, f := range m.Layout {
		names[i] = f.String()
	}
	return names
}

// Assess runs one record through the classifier and builds the verdict
func (m *Model) Assess(rec core.Record) (core.Verdict, error) {
	row := rec.Vector(m.Layout)

	label, err := m.Classifier.Predict(row)
	if err != nil {
		return core.Verdict{}, err
	}
	proba, err := m.Classifier.PredictProba(row)
	if err != nil {
		return core.Verdict{}, err
	}

	return core.Evaluate(label, proba)
}
