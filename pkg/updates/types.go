// Package updates models dependency updates and renders their pull-request
// content.
package updates

import (
	"fmt"
	"strings"
)

// BranchPrefix is the namespace all update branches live under.
const BranchPrefix = "renovate/"

// BumpKind classifies how far a dependency update moves the version.
type BumpKind string

// Bump kinds, ordered from most to least disruptive.
const (
	BumpMajor  BumpKind = "major"
	BumpMinor  BumpKind = "minor"
	BumpPatch  BumpKind = "patch"
	BumpDigest BumpKind = "digest"
	BumpPin    BumpKind = "pin"
)

// Update represents a single dependency update carried by one branch.
type Update struct {
	// DepName is the dependency being updated.
	DepName string
	// CurrentVersion is the version before the update.
	CurrentVersion string
	// NewVersion is the version after the update.
	NewVersion string
	// Kind classifies the bump.
	Kind BumpKind
}

// BranchName returns the update branch for this update, derived from the
// dependency name and the new version.
func (u *Update) BranchName() string {
	slug := Slugify(u.DepName)
	if u.NewVersion == "" {
		return BranchPrefix + slug
	}
	return BranchPrefix + slug + "-" + Slugify(u.NewVersion)
}

// Title returns the conventional-commit title used for the commit and the
// pull request.
func (u *Update) Title() string {
	switch u.Kind {
	case BumpPin:
		return fmt.Sprintf("chore(deps): pin dependency %s to %s", u.DepName, u.NewVersion)
	case BumpDigest:
		return fmt.Sprintf("chore(deps): update %s digest to %s", u.DepName, shortDigest(u.NewVersion))
	default:
		return fmt.Sprintf("chore(deps): update dependency %s to %s", u.DepName, u.NewVersion)
	}
}

// IsDowngrade reports whether the update moves backwards. Used to skip
// branches that raced with a manual upgrade.
func (u *Update) IsDowngrade() bool {
	from, okFrom := parseVersion(u.CurrentVersion)
	to, okTo := parseVersion(u.NewVersion)
	if !okFrom || !okTo {
		return false
	}
	for i := range from {
		if to[i] != from[i] {
			return to[i] < from[i]
		}
	}
	return false
}

// Slugify lowers a dependency name or version into branch-safe form.
func Slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func shortDigest(digest string) string {
	digest = strings.TrimPrefix(digest, "sha256:")
	if len(digest) > 7 {
		return digest[:7]
	}
	return digest
}
