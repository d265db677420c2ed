// pkg/registry/schema.go
package registry

// ArtifactManifest names a scaler/model pair that was fitted together.
type ArtifactManifest struct {
	Version      string        `json:"version"`
	LastUpdated  string        `json:"lastUpdated"`
	Description  string        `json:"description,omitempty"`
	Model        ArtifactEntry `json:"model"`
	Scaler       ArtifactEntry `json:"scaler"`
	Placeholders []string      `json:"placeholders,omitempty"`
}

type ArtifactEntry struct {
	Path   string `json:"path"`
	Kind   string `json:"kind,omitempty"`
	SHA256 string `json:"sha256,omitempty"`
}
