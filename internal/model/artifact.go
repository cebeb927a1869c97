package model

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NahomAnteneh/scm-predictor/core"
)

// FormatV1 is the only artifact format this server reads
const FormatV1 = "scm-classifier/v1"

// Supported model families
const (
	KindLogistic = "logistic"
	KindForest   = "forest"
)

// Artifact is the on-disk form of a trained classifier
type Artifact struct {
	Format       string            `json:"format" yaml:"format"`
	Kind         string            `json:"kind" yaml:"kind"`
	NumFeatures  int               `json:"n_features" yaml:"n_features"`
	FeatureNames []string          `json:"feature_names,omitempty" yaml:"feature_names,omitempty"`
	Logistic     *LogisticParams   `json:"logistic,omitempty" yaml:"logistic,omitempty"`
	Forest       *ForestParams     `json:"forest,omitempty" yaml:"forest,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// LogisticParams are the fitted weights of a logistic regression
type LogisticParams struct {
	Coef      []float64 `json:"coef" yaml:"coef"`
	Intercept float64   `json:"intercept" yaml:"intercept"`
}

// ForestParams are the fitted trees of a random forest
type ForestParams struct {
	Trees []Tree `json:"trees" yaml:"trees"`
}

// isYAML reports whether a path should be decoded as YAML
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decode(path string, data []byte, v interface{}) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// ParseArtifact decodes artifact bytes; path selects JSON or YAML by extension
func ParseArtifact(path string, data []byte) (*Artifact, error) {
	var a Artifact
	if err := decode(path, data, &a); err != nil {
		return nil, core.ArtifactError("failed to decode model artifact", err)
	}
	return &a, nil
}

// Classifier validates the artifact and builds the classifier it describes
func (a *Artifact) Classifier() (Classifier, error) {
	if a.Format != FormatV1 {
		return nil, core.ArtifactError(fmt.Sprintf("unsupported artifact format %q", a.Format), nil)
	}
	if a.NumFeatures <= 0 {
		return nil, core.ArtifactError("artifact declares no features", nil)
	}

	switch a.Kind {
	case KindLogistic:
		if a.Logistic == nil {
			return nil, core.ArtifactError("logistic artifact has no parameters", nil)
		}
		if len(a.Logistic.Coef) != a.NumFeatures {
			return nil, core.ArtifactError(
				fmt.Sprintf("logistic artifact has %d coefficients for %d features", len(a.Logistic.Coef), a.NumFeatures), nil)
		}
		for _, w := range append([]float64{a.Logistic.Intercept}, a.Logistic.Coef...) {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, core.ArtifactError("logistic artifact has non-finite weights", nil)
			}
		}
		coef := make([]float64, len(a.Logistic.Coef))
		copy(coef, a.Logistic.Coef)
		return &LogisticClassifier{Coef: coef, Intercept: a.Logistic.Intercept}, nil

	case KindForest:
		if a.Forest == nil || len(a.Forest.Trees) == 0 {
			return nil, core.ArtifactError("forest artifact has no trees", nil)
		}
		for i := range a.Forest.Trees {
			if err := a.Forest.Trees[i].validate(a.NumFeatures); err != nil {
				return nil, core.ArtifactError(fmt.Sprintf("forest tree %d", i), err)
			}
		}
		return &ForestClassifier{Trees: a.Forest.Trees, Features: a.NumFeatures}, nil
	}

	return nil, core.ArtifactError(fmt.Sprintf("unsupported model kind %q", a.Kind), nil)
}

// ParseFeatureNames decodes a serialized list of column names
func ParseFeatureNames(path string, data []byte) ([]string, error) {
	var names []string
	if err := decode(path, data, &names); err != nil {
		return nil, core.ArtifactError("failed to decode feature names", err)
	}
	return names, nil
}

// ResolveLayout maps column names to features and checks them against the classifier width.
// With no names the default six-column layout is used.
func ResolveLayout(names []string, width int) ([]core.Feature, error) {
	if len(names) == 0 {
		if width != len(core.DefaultFeatures) {
			return nil, core.ArtifactError(
				fmt.Sprintf("model expects %d features but no feature names were provided", width), nil)
		}
		layout := make([]core.Feature, len(core.DefaultFeatures))
		copy(layout, core.DefaultFeatures)
		return layout, nil
	}

	if len(names) != width {
		return nil, core.ArtifactError(
			fmt.Sprintf("%d feature names for a model with %d features", len(names), width), nil)
	}

	layout := make([]core.Feature, 0, len(names))
	seen := make(map[core.Feature]bool, len(names))
	for _, name := range names {
		f, err := core.ParseFeature(name)
		if err != nil {
			return nil, core.ArtifactError("unknown feature column", err)
		}
		if seen[f] {
			return nil, core.ArtifactError(fmt.Sprintf("duplicate feature column %q", name), nil)
		}
		seen[f] = true
		layout = append(layout, f)
	}
	return layout, nil
}
