package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/veedubyou/untracker/src/extractor/internal/encoder"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
	"github.com/veedubyou/untracker/src/extractor/internal/orchestrator"
)

const FileName = "manifest.json"

type Failure struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	Path  string `json:"path"`
	Error string `json:"error"`
}

type Manifest struct {
	RunID       string                  `json:"run_id"`
	Input       string                  `json:"input"`
	CreatedAt   time.Time               `json:"created_at"`
	Kind        string                  `json:"kind"`
	Instruments int                     `json:"instruments"`
	Samples     int                     `json:"samples"`
	Options     encoder.ExportOptions   `json:"options"`
	Artifacts   []orchestrator.Artifact `json:"artifacts"`
	Failures    []Failure               `json:"failures,omitempty"`
}

func New(input string, instruments int, samples int, kind string, opts encoder.ExportOptions, result orchestrator.Result) Manifest {
	manifest := Manifest{
		RunID:       result.RunID,
		Input:       input,
		CreatedAt:   time.Now().UTC(),
		Kind:        kind,
		Instruments: instruments,
		Samples:     samples,
		Options:     opts,
		Artifacts:   result.Artifacts,
	}

	if manifest.Artifacts == nil {
		manifest.Artifacts = []orchestrator.Artifact{}
	}

	for _, failure := range result.Failures {
		manifest.Failures = append(manifest.Failures, Failure{
			Kind:  failure.Target.Kind.Label(),
			Index: failure.Target.Index + 1,
			Path:  failure.Path,
			Error: failure.Err.Error(),
		})
	}

	return manifest
}

// Write stores the manifest as outputDir/manifest.json and returns its path.
func Write(outputDir string, manifest Manifest) (string, error) {
	path := filepath.Join(outputDir, FileName)
	errctx := cerr.Field("path", path)

	contents, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", errctx.Wrap(err).Error("Failed to marshal manifest")
	}

	if err := os.WriteFile(path, append(contents, '\n'), 0o644); err != nil {
		return "", errctx.Mark(encoder.OutputWriteFailed).Wrap(err).Error("Failed to write manifest")
	}

	return path, nil
}

func Read(path string) (Manifest, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, cerr.Field("path", path).Wrap(err).Error("Failed to read manifest")
	}

	manifest := Manifest{}
	if err := json.Unmarshal(contents, &manifest); err != nil {
		return Manifest{}, cerr.Field("path", path).Wrap(err).Error("Failed to parse manifest")
	}

	return manifest, nil
}
