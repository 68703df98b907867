// Package labels provides automatic label selection for update pull
// requests based on the bump kind.
package labels

import (
	"strings"

	"github.com/Onesty-Tech-GmbH/renovate/pkg/updates"
)

// bumpKindToLabels maps bump kinds to candidate label names.
var bumpKindToLabels = map[updates.BumpKind][]string{
	updates.BumpMajor:  {"dependencies", "major"},
	updates.BumpMinor:  {"dependencies", "minor"},
	updates.BumpPatch:  {"dependencies", "patch"},
	updates.BumpDigest: {"dependencies", "digest"},
	updates.BumpPin:    {"dependencies", "pin"},
}

// ForUpdate selects the labels to apply to an update pull request: the
// bump kind's candidates, plus any labels configured to be applied always.
// When availableLabels is non-empty, candidates are restricted to it and
// returned with their original casing. Returns nil if nothing matches.
func ForUpdate(kind updates.BumpKind, availableLabels, alwaysApply []string) []string {
	candidates := bumpKindToLabels[kind]

	availableMap := make(map[string]string, len(availableLabels))
	for _, label := range availableLabels {
		availableMap[strings.ToLower(label)] = label
	}

	var matched []string
	seen := make(map[string]bool)
	for _, candidate := range candidates {
		original := candidate
		if len(availableMap) > 0 {
			found := false
			original, found = availableMap[strings.ToLower(candidate)]
			if !found {
				continue
			}
		}
		if !seen[original] {
			matched = append(matched, original)
			seen[original] = true
		}
	}
	for _, label := range alwaysApply {
		if !seen[label] {
			matched = append(matched, label)
			seen[label] = true
		}
	}

	return matched
}
