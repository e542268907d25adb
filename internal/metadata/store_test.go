package metadata

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestWriteAndReadArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()
	confidence := 0.85
	record := Record{
		Title:            "Dune",
		Authors:          []string{"Frank Herbert"},
		Narrators:        []string{"Scott Brick"},
		Description:      "Desert planet politics.",
		Publisher:        "Macmillan Audio",
		PublishedYear:    "2007",
		Series:           []SeriesRef{{Series: "Dune", Sequence: "1"}},
		Genres:           []string{"Science Fiction"},
		Language:         "en",
		Confidence:       &confidence,
		ConfidenceReason: "matched listing",
	}

	if HasArtifact(dir) {
		t.Fatal("fresh dir must not report an artifact")
	}
	if err := WriteArtifact(dir, record.Artifact()); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}
	if !HasArtifact(dir) {
		t.Fatal("artifact should exist after write")
	}

	got, err := ReadArtifact(dir)
	if err != nil {
		t.Fatalf("ReadArtifact: %v", err)
	}
	if !reflect.DeepEqual(got, record.Artifact()) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, record.Artifact())
	}
}

func TestArtifactNeverCarriesConfidence(t *testing.T) {
	dir := t.TempDir()
	confidence := 0.95
	record := Record{Title: "X", Confidence: &confidence, ConfidenceReason: "sure"}
	if err := WriteArtifact(dir, record.Artifact()); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}

	payload, err := os.ReadFile(ArtifactPath(dir))
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"confidence", "confidence_reason"} {
		if _, ok := fields[key]; ok {
			t.Fatalf("artifact leaked %q: %s", key, payload)
		}
	}
	if !strings.HasSuffix(string(payload), "\n") {
		t.Fatal("artifact should end with a newline")
	}
}

func TestWriteArtifactLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := WriteArtifact(dir, Artifact{Title: "X"}); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != ArtifactName {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}
