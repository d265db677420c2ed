// Package artifact loads the fitted scaler and the trained classifier from
// local JSON exports.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"retention-service/internal/attrition"
	"retention-service/internal/common/config"
	apperrors "retention-service/internal/common/errors"
	"retention-service/internal/common/logger"
	"retention-service/pkg/registry"
)

// Source locates one artifact pair.
type Source struct {
	ModelPath       string
	ScalerPath      string
	ModelKind       string
	ModelSHA256     string
	ScalerSHA256    string
	ManifestVersion string
}

// SourceFromConfig resolves the artifact locations, reading the manifest when
// one is configured.
func SourceFromConfig(cfg config.ArtifactsConfig) (Source, error) {
	if !cfg.UsesManifest() {
		return Source{ModelPath: cfg.ModelPath, ScalerPath: cfg.ScalerPath}, nil
	}
	m, err := registry.LoadManifest(cfg.ManifestPath)
	if err != nil {
		return Source{}, apperrors.NewArtifactLoadFailureError("manifest", err)
	}
	return SourceFromManifest(m), nil
}

func SourceFromManifest(m *registry.ArtifactManifest) Source {
	return Source{
		ModelPath:       m.Model.Path,
		ScalerPath:      m.Scaler.Path,
		ModelKind:       m.Model.Kind,
		ModelSHA256:     m.Model.SHA256,
		ScalerSHA256:    m.Scaler.SHA256,
		ManifestVersion: m.Version,
	}
}

// Bundle is a loaded, schema-checked artifact pair.
type Bundle struct {
	Source     Source
	Scaler     *StandardScaler
	Classifier attrition.Classifier
	Pipeline   *attrition.Pipeline
}

// Load reads both artifacts and pairs them. Every failure is
// ARTIFACT_LOAD_FAILURE.
func Load(src Source, log logger.Logger) (*Bundle, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	scaler, err := LoadScaler(src.ScalerPath, src.ScalerSHA256)
	if err != nil {
		return nil, err
	}
	classifier, err := LoadClassifier(src.ModelPath, src.ModelSHA256, src.ModelKind)
	if err != nil {
		return nil, err
	}
	pipeline, err := attrition.NewPipeline(scaler, classifier, log)
	if err != nil {
		return nil, err
	}

	log.Info("Artifacts loaded", map[string]interface{}{
		"modelPath":       src.ModelPath,
		"scalerPath":      src.ScalerPath,
		"modelKind":       classifier.Kind(),
		"manifestVersion": src.ManifestVersion,
		"scalerColumns":   len(scaler.FeatureNames()),
		"modelColumns":    len(classifier.FeatureNames()),
	})

	return &Bundle{
		Source:     src,
		Scaler:     scaler,
		Classifier: classifier,
		Pipeline:   pipeline,
	}, nil
}

// LoadScaler reads a scaler export, verifying its checksum when one is given.
func LoadScaler(path, checksum string) (*StandardScaler, error) {
	data, err := readArtifact(path, checksum)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailureError("scaler", err)
	}
	s, err := ParseScaler(data)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailureError("scaler", fmt.Errorf("%s: %w", path, err))
	}
	return s, nil
}

// LoadClassifier reads a model export. An empty kind is detected from the
// document.
func LoadClassifier(path, checksum, kind string) (attrition.Classifier, error) {
	data, err := readArtifact(path, checksum)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailureError("model", err)
	}
	c, err := ParseClassifier(data, kind)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailureError("model", fmt.Errorf("%s: %w", path, err))
	}
	return c, nil
}

// ParseClassifier decodes a model export of the given kind.
func ParseClassifier(data []byte, kind string) (attrition.Classifier, error) {
	if kind == "" {
		var err error
		if kind, err = DetectKind(data); err != nil {
			return nil, err
		}
	}
	switch kind {
	case KindLightGBM:
		return ParseLightGBM(data)
	case KindLogistic:
		return ParseLogistic(data)
	default:
		return nil, fmt.Errorf("unsupported model kind %q", kind)
	}
}

// DetectKind tells a LightGBM dump from a logistic export.
func DetectKind(data []byte) (string, error) {
	var probe struct {
		Kind     string          `json:"kind"`
		Name     string          `json:"name"`
		TreeInfo json.RawMessage `json:"tree_info"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("decode model: %w", err)
	}
	switch {
	case probe.Kind != "":
		return probe.Kind, nil
	case probe.Name == "tree" || len(probe.TreeInfo) > 0:
		return KindLightGBM, nil
	default:
		return "", fmt.Errorf("cannot determine model kind")
	}
}

func readArtifact(path, checksum string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("artifact path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if checksum != "" {
		sum := sha256.Sum256(data)
		if got := hex.EncodeToString(sum[:]); !strings.EqualFold(got, checksum) {
			return nil, fmt.Errorf("%s: sha256 %s does not match %s", path, got, checksum)
		}
	}
	return data, nil
}

// Checksum returns the hex sha256 of a file.
func Checksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
