// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadManifest reads a manifest and resolves its artifact paths against the
// manifest's own directory.
func LoadManifest(path string) (*ArtifactManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m ArtifactManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	m.Resolve(filepath.Dir(path))
	return &m, nil
}

// Validate checks the fields every manifest must carry.
func (m *ArtifactManifest) Validate() error {
	var problems []string
	if m.Version == "" {
		problems = append(problems, "version is required")
	}
	if m.Model.Path == "" {
		problems = append(problems, "model.path is required")
	}
	if m.Scaler.Path == "" {
		problems = append(problems, "scaler.path is required")
	}
	for _, sum := range []string{m.Model.SHA256, m.Scaler.SHA256} {
		if sum != "" && len(sum) != 64 {
			problems = append(problems, fmt.Sprintf("sha256 %q must be 64 hex characters", sum))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid manifest: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Resolve makes relative artifact paths relative to dir.
func (m *ArtifactManifest) Resolve(dir string) {
	if !filepath.IsAbs(m.Model.Path) {
		m.Model.Path = filepath.Join(dir, m.Model.Path)
	}
	if !filepath.IsAbs(m.Scaler.Path) {
		m.Scaler.Path = filepath.Join(dir, m.Scaler.Path)
	}
}

// SaveManifest writes a manifest as indented JSON.
func SaveManifest(path string, m *ArtifactManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
