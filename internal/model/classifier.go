package model

import (
	"fmt"
	"math"

	"github.com/NahomAnteneh/scm-predictor/core"
)

// Classifier is a trained binary classifier over one numeric row
type Classifier interface {
	// Kind names the model family, e.g. "logistic" or "forest"
	Kind() string
	// NumFeatures is the row width the classifier was trained on
	NumFeatures() int
	// PredictProba returns [P(on time), P(late)]
	PredictProba(x []float64) ([2]float64, error)
	// Predict returns the most probable class, ties going to class 0
	Predict(x []float64) (int, error)
}

func checkWidth(c Classifier, x []float64) error {
	if len(x) != c.NumFeatures() {
		return core.InferenceError(fmt.Sprintf("expected %d features, got %d", c.NumFeatures(), len(x)), nil)
	}
	return nil
}

func argmax(p [2]float64) int {
	if p[1] > p[0] {
		return core.LabelLate
	}
	return core.LabelOnTime
}

// LogisticClassifier is a fitted logistic regression
type LogisticClassifier struct {
	Coef      []float64
	Intercept float64
}

func (c *LogisticClassifier) Kind() string     { return KindLogistic }
func (c *LogisticClassifier) NumFeatures() int { return len(c.Coef) }

func (c *LogisticClassifier) PredictProba(x []float64) ([2]float64, error) {
	if err := checkWidth(c, x); err != nil {
		return [2]float64{}, err
	}
	z := c.Intercept
	for i, w := range c.Coef {
		z += w * x[i]
	}
	p := 1 / (1 + math.Exp(-z))
	return [2]float64{1 - p, p}, nil
}

func (c *LogisticClassifier) Predict(x []float64) (int, error) {
	p, err := c.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return argmax(p), nil
}

// Node is one split or leaf of a decision tree.
// A node with Left == -1 is a leaf and Value holds its class weights.
type Node struct {
	Feature   int        `json:"feature" yaml:"feature"`
	Threshold float64    `json:"threshold" yaml:"threshold"`
	Left      int        `json:"left" yaml:"left"`
	Right     int        `json:"right" yaml:"right"`
	Value     [2]float64 `json:"value" yaml:"value"`
}

// Tree is a flattened decision tree rooted at node 0
type Tree struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
}

// ForestClassifier averages the class probabilities of its trees
type ForestClassifier struct {
	Trees    []Tree
	Features int
}

func (c *ForestClassifier) Kind() string     { return KindForest }
func (c *ForestClassifier) NumFeatures() int { return c.Features }

func (c *ForestClassifier) PredictProba(x []float64) ([2]float64, error) {
	if err := checkWidth(c, x); err != nil {
		return [2]float64{}, err
	}
	var sum [2]float64
	for i := range c.Trees {
		p, err := c.Trees[i].predict(x)
		if err != nil {
			return [2]float64{}, core.InferenceError(fmt.Sprintf("tree %d", i), err)
		}
		sum[0] += p[0]
		sum[1] += p[1]
	}
	n := float64(len(c.Trees))
	return [2]float64{sum[0] / n, sum[1] / n}, nil
}

func (c *ForestClassifier) Predict(x []float64) (int, error) {
	p, err := c.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return argmax(p), nil
}

func (t *Tree) predict(x []float64) ([2]float64, error) {
	idx := 0
	// a well-formed tree reaches a leaf in at most len(Nodes) steps
	for steps := 0; steps <= len(t.Nodes); steps++ {
		n := t.Nodes[idx]
		if n.Left == -1 {
			total := n.Value[0] + n.Value[1]
			if total <= 0 {
				return [2]float64{}, fmt.Errorf("leaf %d has no class weight", idx)
			}
			return [2]float64{n.Value[0] / total, n.Value[1] / total}, nil
		}
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
	return [2]float64{}, fmt.Errorf("tree does not terminate")
}

// validate checks node references so prediction never indexes out of range
func (t *Tree) validate(features int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	for i, n := range t.Nodes {
		if n.Left == -1 {
			if !finiteWeight(n.Value[0]) || !finiteWeight(n.Value[1]) || n.Value[0]+n.Value[1] <= 0 {
				return fmt.Errorf("leaf %d has invalid value %v", i, n.Value)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d splits on feature %d of %d", i, n.Feature, features)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

// finiteWeight reports whether a leaf class weight is finite and non-negative
func finiteWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w >= 0
}
