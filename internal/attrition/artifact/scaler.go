package artifact

import (
	"encoding/json"
	"fmt"
)

// StandardScaler applies the affine transform (x - mean) / scale fitted by
// scikit-learn's StandardScaler.
type StandardScaler struct {
	featureNames []string
	mean         []float64
	scale        []float64
}

type scalerDocument struct {
	FeatureNamesIn []string  `json:"feature_names_in"`
	Mean           []float64 `json:"mean"`
	Scale          []float64 `json:"scale"`
}

// ParseScaler decodes and validates a scaler document.
func ParseScaler(data []byte) (*StandardScaler, error) {
	if err := compileSchemas(); err != nil {
		return nil, err
	}
	if result := scalerSchema.ValidateBytes(data); !result.Valid {
		return nil, fmt.Errorf("scaler document: %v", result.GetErrorMessages())
	}

	var doc scalerDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode scaler: %w", err)
	}
	return NewStandardScaler(doc.FeatureNamesIn, doc.Mean, doc.Scale)
}

// NewStandardScaler builds a scaler. A nil mean centres nothing, a nil scale
// divides by one, and zero scale entries are treated as one.
func NewStandardScaler(featureNames []string, mean, scale []float64) (*StandardScaler, error) {
	n := len(featureNames)
	if n == 0 {
		return nil, fmt.Errorf("scaler declares no features")
	}
	if mean == nil {
		mean = make([]float64, n)
	}
	if scale == nil {
		scale = make([]float64, n)
		for i := range scale {
			scale[i] = 1
		}
	}
	if len(mean) != n || len(scale) != n {
		return nil, fmt.Errorf("scaler has %d features, %d means and %d scales", n, len(mean), len(scale))
	}

	s := &StandardScaler{
		featureNames: append([]string(nil), featureNames...),
		mean:         append([]float64(nil), mean...),
		scale:        make([]float64, n),
	}
	for i, v := range scale {
		if v == 0 {
			v = 1
		}
		s.scale[i] = v
	}
	return s, nil
}

func (s *StandardScaler) FeatureNames() []string { return s.featureNames }

func (s *StandardScaler) Transform(values []float64) ([]float64, error) {
	if len(values) != len(s.featureNames) {
		return nil, fmt.Errorf("scaler expects %d values, got %d", len(s.featureNames), len(values))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}
