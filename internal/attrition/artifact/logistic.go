package artifact

import (
	"encoding/json"
	"fmt"
	"math"
)

const KindLogistic = "logistic"

// LogisticModel is a binary logistic regression exported as plain
// coefficients.
type LogisticModel struct {
	featureNames []string
	coef         []float64
	intercept    float64
}

type logisticDocument struct {
	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	Coef         []float64 `json:"coef"`
	Intercept    float64   `json:"intercept"`
}

// ParseLogistic decodes and validates a logistic model document.
func ParseLogistic(data []byte) (*LogisticModel, error) {
	if err := compileSchemas(); err != nil {
		return nil, err
	}
	if result := logisticSchema.ValidateBytes(data); !result.Valid {
		return nil, fmt.Errorf("logistic document: %v", result.GetErrorMessages())
	}

	var doc logisticDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode logistic model: %w", err)
	}
	return NewLogisticModel(doc.FeatureNames, doc.Coef, doc.Intercept)
}

func NewLogisticModel(featureNames []string, coef []float64, intercept float64) (*LogisticModel, error) {
	if len(coef) != len(featureNames) {
		return nil, fmt.Errorf("logistic model has %d features but %d coefficients", len(featureNames), len(coef))
	}
	return &LogisticModel{
		featureNames: append([]string(nil), featureNames...),
		coef:         append([]float64(nil), coef...),
		intercept:    intercept,
	}, nil
}

func (m *LogisticModel) Kind() string           { return KindLogistic }
func (m *LogisticModel) FeatureNames() []string { return m.featureNames }

func (m *LogisticModel) PredictProba(values []float64) ([]float64, error) {
	if len(values) != len(m.coef) {
		return nil, fmt.Errorf("logistic model expects %d values, got %d", len(m.coef), len(values))
	}
	z := m.intercept
	for i, v := range values {
		z += m.coef[i] * v
	}
	p := sigmoid(z)
	return []float64{1 - p, p}, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
