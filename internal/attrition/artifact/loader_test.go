package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retention-service/internal/attrition"
	"retention-service/internal/common/config"
	apperrors "retention-service/internal/common/errors"
	"retention-service/internal/common/logger"
	"retention-service/internal/models"
	"retention-service/pkg/registry"
)

func fixturePath(name string) string {
	return filepath.Join("testdata", name)
}

func scenarioInput() models.CandidateInput {
	return models.CandidateInput{
		City:                 10,
		CityDevelopmentIndex: 0.70,
		Gender:               "Male",
		RelevantExperience:   "Has relevent experience",
		EnrolledUniversity:   "no_enrollment",
		EducationLevel:       "Graduate",
		MajorDiscipline:      "STEM",
		Experience:           5,
		CompanySize:          "100-500",
		CompanyType:          "Pvt Ltd",
		LastNewJob:           "2",
		TrainingHours:        40,
	}
}

func TestLoad_LogisticPair(t *testing.T) {
	bundle, err := Load(Source{
		ModelPath:  fixturePath("logistic.json"),
		ScalerPath: fixturePath("scaler.json"),
	}, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, KindLogistic, bundle.Pipeline.ModelKind())

	pred, err := bundle.Pipeline.Predict(context.Background(), scenarioInput())
	require.NoError(t, err)
	assert.InDelta(t, 0.39179152452316907, pred.Probability, 1e-9)
	assert.Equal(t, attrition.RiskMedium, pred.Bucket)
	assert.Equal(t, "0.39", pred.Display)

	pred, err = bundle.Pipeline.Predict(context.Background(), models.DefaultCandidateInput())
	require.NoError(t, err)
	assert.InDelta(t, 0.5294901681058662, pred.Probability, 1e-9)
}

func TestLoad_LightGBMPair(t *testing.T) {
	bundle, err := Load(Source{
		ModelPath:  fixturePath("lightgbm.json"),
		ScalerPath: fixturePath("scaler.json"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, KindLightGBM, bundle.Classifier.Kind())

	pred, err := bundle.Pipeline.Predict(context.Background(), scenarioInput())
	require.NoError(t, err)
	assert.InDelta(t, 0.6681877721681662, pred.Probability, 1e-9)
	assert.Equal(t, "0.67", pred.Display)
	assert.Equal(t, bundle.Classifier.FeatureNames(), pred.ModelInput.Columns)
}

func TestLoad_Failures(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}
	driftedModel := write("drifted.json", `{"kind": "logistic", "feature_names": ["city", "experience"], "coef": [1, 1], "intercept": 0}`)
	brokenModel := write("broken.json", `{"kind": "logistic"`)

	tests := []struct {
		name     string
		src      Source
		artifact string
	}{
		{name: "missing scaler", src: Source{ModelPath: fixturePath("logistic.json"), ScalerPath: filepath.Join(dir, "absent.json")}, artifact: "scaler"},
		{name: "empty model path", src: Source{ScalerPath: fixturePath("scaler.json")}, artifact: "model"},
		{name: "undecodable model", src: Source{ModelPath: brokenModel, ScalerPath: fixturePath("scaler.json")}, artifact: "model"},
		{name: "model not adjacent to scaler", src: Source{ModelPath: driftedModel, ScalerPath: fixturePath("scaler.json")}, artifact: "model"},
		{name: "scaler used as model", src: Source{ModelPath: fixturePath("scaler.json"), ScalerPath: fixturePath("scaler.json")}, artifact: "model"},
		{name: "checksum mismatch", src: Source{ModelPath: fixturePath("logistic.json"), ScalerPath: fixturePath("scaler.json"), ScalerSHA256: "00"}, artifact: "scaler"},
		{name: "kind mismatch", src: Source{ModelPath: fixturePath("logistic.json"), ScalerPath: fixturePath("scaler.json"), ModelKind: KindLightGBM}, artifact: "model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.src, logger.NewNoOpLogger())
			require.Error(t, err)
			stdErr := apperrors.As(err)
			assert.Equal(t, apperrors.ErrCodeArtifactLoadFailure, stdErr.Code)
			assert.Equal(t, tt.artifact, stdErr.Metadata["artifact"])
		})
	}
}

func TestSourceFromConfig_Manifest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"scaler.json", "logistic.json"} {
		data, err := os.ReadFile(fixturePath(name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	sum, err := Checksum(filepath.Join(dir, "logistic.json"))
	require.NoError(t, err)

	manifestPath := filepath.Join(dir, "manifest.json")
	require.NoError(t, registry.SaveManifest(manifestPath, &registry.ArtifactManifest{
		Version: "2024.06",
		Model:   registry.ArtifactEntry{Path: "logistic.json", Kind: KindLogistic, SHA256: sum},
		Scaler:  registry.ArtifactEntry{Path: "scaler.json"},
	}))

	src, err := SourceFromConfig(config.ArtifactsConfig{ManifestPath: manifestPath, ModelPath: "ignored.json"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "logistic.json"), src.ModelPath)
	assert.Equal(t, "2024.06", src.ManifestVersion)

	bundle, err := Load(src, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024.06", bundle.Source.ManifestVersion)
}

func TestSourceFromConfig_Paths(t *testing.T) {
	src, err := SourceFromConfig(config.ArtifactsConfig{ModelPath: "m.json", ScalerPath: "s.json"})
	require.NoError(t, err)
	assert.Equal(t, Source{ModelPath: "m.json", ScalerPath: "s.json"}, src)

	_, err = SourceFromConfig(config.ArtifactsConfig{ManifestPath: filepath.Join(t.TempDir(), "absent.json")})
	assert.Equal(t, apperrors.ErrCodeArtifactLoadFailure, apperrors.CodeOf(err))
}
