package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactName is the artifact filename written next to the audio files.
// Audiobookshelf picks this file up during its own scan.
const ArtifactName = "metadata.json"

// ArtifactPath returns the artifact location for one book directory.
func ArtifactPath(dir string) string {
	return filepath.Join(dir, ArtifactName)
}

// HasArtifact reports whether dir already carries an artifact. An existing
// artifact blocks re-enrichment unless the caller forces an overwrite.
func HasArtifact(dir string) bool {
	info, err := os.Stat(ArtifactPath(dir))
	return err == nil && !info.IsDir()
}

// WriteArtifact persists the artifact atomically: a temp file in the same
// directory is renamed over the destination, so a crashed run never leaves a
// half-written metadata.json behind.
func WriteArtifact(dir string, artifact Artifact) error {
	payload, err := EncodeArtifact(artifact)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".metadata-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpPath, ArtifactPath(dir)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

// ReadArtifact loads an existing artifact.
func ReadArtifact(dir string) (Artifact, error) {
	var artifact Artifact
	payload, err := os.ReadFile(ArtifactPath(dir))
	if err != nil {
		return artifact, fmt.Errorf("read artifact: %w", err)
	}
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return artifact, fmt.Errorf("decode artifact: %w", err)
	}
	return artifact, nil
}

// EncodeArtifact renders the artifact as indented JSON with a trailing
// newline, matching what Audiobookshelf expects to re-read.
func EncodeArtifact(artifact Artifact) ([]byte, error) {
	payload, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return append(payload, '\n'), nil
}
