package scanner

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Classification is the grouping verdict for one directory of audio files.
type Classification string

const (
	// SingleWork means the files look like one logical book.
	SingleWork Classification = "single-work"
	// Mixed means the directory looks like a dumping ground of unrelated
	// recordings and must not be enriched.
	Mixed Classification = "mixed"
)

// singleFileContainerExt is the extension conventionally holding one complete
// book. Two of them in one folder almost certainly mean two distinct books.
const singleFileContainerExt = ".m4b"

var audioExtensions = map[string]struct{}{
	".m4b":  {},
	".mp3":  {},
	".m4a":  {},
	".flac": {},
	".ogg":  {},
	".wav":  {},
	".wma":  {},
	".aac":  {},
}

// IsAudioFile reports whether the filename carries a recognized audio
// extension (case-insensitive).
func IsAudioFile(name string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// groupingRule is one independent acceptance test. Rules are evaluated in
// order and short-circuit on the first match, which keeps the policy
// auditable rule by rule.
type groupingRule struct {
	name  string
	match func(folder string, names []string) bool
}

var groupingRules = []groupingRule{
	{name: "shared prefix", match: matchesSharedPrefix},
	{name: "track numbered", match: matchesTrackNumbered},
	{name: "track token", match: matchesTrackToken},
	{name: "folder echo", match: matchesFolderEcho},
}

// Classify decides whether the audio filenames directly inside one folder
// represent a single work. It returns the verdict and the name of the rule
// that produced it. This is a best-effort heuristic over filenames only;
// callers must log the outcome rather than silently drop it.
func Classify(folder string, names []string) (Classification, string) {
	if len(names) == 1 {
		return SingleWork, "single file"
	}
	if countContainerFiles(names) > 1 {
		return Mixed, "multiple book containers"
	}
	for _, rule := range groupingRules {
		if rule.match(folder, names) {
			return SingleWork, rule.name
		}
	}
	return Mixed, "no grouping rule matched"
}

func countContainerFiles(names []string) int {
	count := 0
	for _, name := range names {
		if strings.EqualFold(filepath.Ext(name), singleFileContainerExt) {
			count++
		}
	}
	return count
}

func matchesSharedPrefix(_ string, names []string) bool {
	return len(commonPrefix(names)) > 3
}

// Chapter files are frequently just numbered ("01 - Intro.mp3") with no
// shared textual prefix, so a leading digit on every file is accepted.
func matchesTrackNumbered(_ string, names []string) bool {
	for _, name := range names {
		runes := []rune(name)
		if len(runes) == 0 || !unicode.IsDigit(runes[0]) {
			return false
		}
	}
	return true
}

func matchesTrackToken(_ string, names []string) bool {
	for _, name := range names {
		if !strings.HasPrefix(strings.ToLower(name), "track") {
			return false
		}
	}
	return true
}

func matchesFolderEcho(folder string, names []string) bool {
	needle := strings.ToLower(folder)
	if needle == "" {
		return false
	}
	for _, name := range names {
		if !strings.Contains(strings.ToLower(name), needle) {
			return false
		}
	}
	return true
}

func commonPrefix(names []string) string {
	if len(names) == 0 {
		return ""
	}
	prefix := names[0]
	for _, name := range names[1:] {
		limit := len(prefix)
		if len(name) < limit {
			limit = len(name)
		}
		i := 0
		for i < limit && prefix[i] == name[i] {
			i++
		}
		prefix = prefix[:i]
		if prefix == "" {
			break
		}
	}
	return prefix
}
