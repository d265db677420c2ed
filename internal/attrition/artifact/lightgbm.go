package artifact

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const KindLightGBM = "lightgbm"

// zeroThreshold matches LightGBM's kZeroThreshold.
const zeroThreshold = 1e-35

type missingType int

const (
	missingNone missingType = iota
	missingZero
	missingNaN
)

// LightGBMModel evaluates a binary gradient-boosted tree ensemble exported
// with Booster.dump_model(). Leaf values in a dump already include shrinkage.
type LightGBMModel struct {
	featureNames  []string
	trees         []*treeNode
	sigmoid       float64
	averageOutput bool
}

type lightGBMDocument struct {
	Name          string         `json:"name"`
	Objective     string         `json:"objective"`
	FeatureNames  []string       `json:"feature_names"`
	AverageOutput bool           `json:"average_output"`
	TreeInfo      []treeInfoJSON `json:"tree_info"`
}

type treeInfoJSON struct {
	TreeIndex     int       `json:"tree_index"`
	TreeStructure *nodeJSON `json:"tree_structure"`
}

type nodeJSON struct {
	SplitFeature *int            `json:"split_feature"`
	Threshold    json.RawMessage `json:"threshold"`
	DecisionType string          `json:"decision_type"`
	DefaultLeft  bool            `json:"default_left"`
	MissingType  string          `json:"missing_type"`
	LeafValue    *float64        `json:"leaf_value"`
	LeftChild    *nodeJSON       `json:"left_child"`
	RightChild   *nodeJSON       `json:"right_child"`
}

type treeNode struct {
	leaf  bool
	value float64

	feature     int
	threshold   float64
	categorical bool
	categories  map[int]bool
	defaultLeft bool
	missing     missingType
	left, right *treeNode
}

// ParseLightGBM decodes and validates a LightGBM model dump.
func ParseLightGBM(data []byte) (*LightGBMModel, error) {
	if err := compileSchemas(); err != nil {
		return nil, err
	}
	if result := lightGBMSchema.ValidateBytes(data); !result.Valid {
		return nil, fmt.Errorf("lightgbm document: %v", result.GetErrorMessages())
	}

	var doc lightGBMDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode lightgbm model: %w", err)
	}

	k, err := parseSigmoid(doc.Objective)
	if err != nil {
		return nil, err
	}

	m := &LightGBMModel{
		featureNames:  doc.FeatureNames,
		sigmoid:       k,
		averageOutput: doc.AverageOutput,
		trees:         make([]*treeNode, 0, len(doc.TreeInfo)),
	}
	for i, info := range doc.TreeInfo {
		tree, err := compileNode(info.TreeStructure, len(doc.FeatureNames))
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		m.trees = append(m.trees, tree)
	}
	return m, nil
}

// parseSigmoid reads k from an objective such as "binary sigmoid:1".
func parseSigmoid(objective string) (float64, error) {
	parts := strings.Fields(objective)
	if len(parts) == 0 || parts[0] != "binary" {
		return 0, fmt.Errorf("unsupported objective %q", objective)
	}
	for _, p := range parts[1:] {
		if v, ok := strings.CutPrefix(p, "sigmoid:"); ok {
			k, err := strconv.ParseFloat(v, 64)
			if err != nil || k <= 0 {
				return 0, fmt.Errorf("invalid sigmoid in objective %q", objective)
			}
			return k, nil
		}
	}
	return 1, nil
}

func compileNode(n *nodeJSON, numFeatures int) (*treeNode, error) {
	if n == nil {
		return nil, fmt.Errorf("missing node")
	}
	if n.SplitFeature == nil {
		if n.LeafValue == nil {
			return nil, fmt.Errorf("node has neither split_feature nor leaf_value")
		}
		return &treeNode{leaf: true, value: *n.LeafValue}, nil
	}

	out := &treeNode{
		feature:     *n.SplitFeature,
		defaultLeft: n.DefaultLeft,
	}
	if out.feature < 0 || out.feature >= numFeatures {
		return nil, fmt.Errorf("split_feature %d out of range", out.feature)
	}

	switch n.MissingType {
	case "", "None":
		out.missing = missingNone
	case "Zero":
		out.missing = missingZero
	case "NaN":
		out.missing = missingNaN
	default:
		return nil, fmt.Errorf("unknown missing_type %q", n.MissingType)
	}

	switch n.DecisionType {
	case "<=", "":
		var t float64
		if err := json.Unmarshal(n.Threshold, &t); err != nil {
			return nil, fmt.Errorf("numerical threshold: %w", err)
		}
		out.threshold = t
	case "==":
		var raw string
		if err := json.Unmarshal(n.Threshold, &raw); err != nil {
			return nil, fmt.Errorf("categorical threshold: %w", err)
		}
		out.categorical = true
		out.categories = make(map[int]bool)
		for _, c := range strings.Split(raw, "||") {
			v, err := strconv.Atoi(strings.TrimSpace(c))
			if err != nil {
				return nil, fmt.Errorf("categorical threshold %q: %w", raw, err)
			}
			out.categories[v] = true
		}
	default:
		return nil, fmt.Errorf("unknown decision_type %q", n.DecisionType)
	}

	var err error
	if out.left, err = compileNode(n.LeftChild, numFeatures); err != nil {
		return nil, err
	}
	if out.right, err = compileNode(n.RightChild, numFeatures); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *LightGBMModel) Kind() string           { return KindLightGBM }
func (m *LightGBMModel) FeatureNames() []string { return m.featureNames }

// NumTrees returns the number of trees in the ensemble.
func (m *LightGBMModel) NumTrees() int { return len(m.trees) }

// RawScore returns the summed tree output before the sigmoid.
func (m *LightGBMModel) RawScore(values []float64) (float64, error) {
	if len(values) != len(m.featureNames) {
		return 0, fmt.Errorf("lightgbm model expects %d values, got %d", len(m.featureNames), len(values))
	}
	var sum float64
	for _, t := range m.trees {
		sum += t.predict(values)
	}
	if m.averageOutput && len(m.trees) > 0 {
		sum /= float64(len(m.trees))
	}
	return sum, nil
}

func (m *LightGBMModel) PredictProba(values []float64) ([]float64, error) {
	raw, err := m.RawScore(values)
	if err != nil {
		return nil, err
	}
	p := sigmoid(m.sigmoid * raw)
	return []float64{1 - p, p}, nil
}

func (n *treeNode) predict(values []float64) float64 {
	for !n.leaf {
		if n.goLeft(values[n.feature]) {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func (n *treeNode) goLeft(v float64) bool {
	if n.categorical {
		if math.IsNaN(v) {
			if n.missing == missingNaN {
				return false
			}
			v = 0
		}
		// Categories are truncated toward zero before the lookup.
		iv := int(v)
		if iv < 0 {
			return false
		}
		return n.categories[iv]
	}

	if math.IsNaN(v) && n.missing != missingNaN {
		v = 0
	}
	if (n.missing == missingZero && math.Abs(v) <= zeroThreshold) || (n.missing == missingNaN && math.IsNaN(v)) {
		return n.defaultLeft
	}
	return v <= n.threshold
}
