package updates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	errNotUpdateBranch = errors.New("not an update branch")
	errUnparsableTitle = errors.New("could not parse update from commit title")
)

// titlePatterns match the conventional-commit titles produced by Title.
// Capture groups: dependency name, new version.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\w+\(deps\): update dependency (\S+) to (\S+)$`),
	regexp.MustCompile(`^\w+\(deps\): update (\S+) digest to (\S+)$`),
	regexp.MustCompile(`^\w+\(deps\): pin dependency (\S+) to (\S+)$`),
}

// IsUpdateBranch reports whether a branch belongs to the update namespace.
func IsUpdateBranch(branch string) bool {
	return strings.HasPrefix(branch, BranchPrefix)
}

// ParseCommitTitle extracts an update from a conventional-commit title. The
// bump kind is derived from the title form and the version pair.
func ParseCommitTitle(title, currentVersion string) (*Update, error) {
	title = strings.TrimSpace(title)

	for i, pattern := range titlePatterns {
		m := pattern.FindStringSubmatch(title)
		if m == nil {
			continue
		}

		update := &Update{
			DepName:        m[1],
			CurrentVersion: currentVersion,
			NewVersion:     m[2],
		}
		switch i {
		case 1:
			update.Kind = BumpDigest
		case 2:
			update.Kind = BumpPin
		default:
			update.Kind = ClassifyBump(currentVersion, m[2])
		}
		return update, nil
	}

	return nil, fmt.Errorf("%w: %q", errUnparsableTitle, title)
}

// BranchSlug returns the dependency slug of an update branch.
func BranchSlug(branch string) (string, error) {
	if !IsUpdateBranch(branch) {
		return "", fmt.Errorf("%w: %s", errNotUpdateBranch, branch)
	}
	return strings.TrimPrefix(branch, BranchPrefix), nil
}

// ClassifyBump compares two versions and classifies the update. Versions
// that do not parse as dotted numbers are treated as digests.
func ClassifyBump(from, to string) BumpKind {
	fromParts, okFrom := parseVersion(from)
	toParts, okTo := parseVersion(to)
	if !okTo {
		return BumpDigest
	}
	if !okFrom {
		// Without a comparison base, assume a minor bump.
		return BumpMinor
	}

	switch {
	case toParts[0] != fromParts[0]:
		return BumpMajor
	case toParts[1] != fromParts[1]:
		return BumpMinor
	default:
		return BumpPatch
	}
}

// parseVersion reads up to three leading numeric components of a version
// string, tolerating a "v" prefix and pre-release suffixes.
func parseVersion(version string) ([3]int, bool) {
	var parts [3]int

	version = strings.TrimPrefix(version, "v")
	if version == "" {
		return parts, false
	}

	// Cut off pre-release and build metadata.
	if idx := strings.IndexAny(version, "-+"); idx >= 0 {
		version = version[:idx]
	}

	for i, segment := range strings.SplitN(version, ".", 3) {
		n, err := strconv.Atoi(segment)
		if err != nil {
			return parts, false
		}
		parts[i] = n
	}
	return parts, true
}
