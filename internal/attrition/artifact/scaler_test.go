package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScaler(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "scaler.json"))
	require.NoError(t, err)

	s, err := ParseScaler(data)
	require.NoError(t, err)
	require.Len(t, s.FeatureNames(), 14)
	assert.Equal(t, "enrollee_id", s.FeatureNames()[0])
	assert.Equal(t, "target", s.FeatureNames()[13])

	in := make([]float64, 14)
	in[1] = 100 // city
	out, err := s.Transform(in)
	require.NoError(t, err)
	assert.InDelta(t, (100-60.0)/40.0, out[1], 1e-12)
	assert.InDelta(t, -16875.0/9616.0, out[0], 1e-12)
}

func TestStandardScaler_Defaults(t *testing.T) {
	s, err := NewStandardScaler([]string{"a", "b"}, nil, []float64{0, 2})
	require.NoError(t, err)

	out, err := s.Transform([]float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 2}, out)

	s, err = NewStandardScaler([]string{"a"}, []float64{1}, nil)
	require.NoError(t, err)
	out, err = s.Transform([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, out)

	_, err = s.Transform([]float64{1, 2})
	assert.Error(t, err)
}

func TestParseScaler_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed", doc: `{"feature_names_in": [`},
		{name: "no features", doc: `{"feature_names_in": []}`},
		{name: "string means", doc: `{"feature_names_in": ["a"], "mean": ["x"]}`},
		{name: "length mismatch", doc: `{"feature_names_in": ["a", "b"], "mean": [1], "scale": [1, 1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScaler([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
