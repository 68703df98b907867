// Package urlutil provides parsing utilities for git remote URLs.
//
// It handles the remote formats the supported providers hand out:
//   - HTTPS: https://github.com/owner/repo.git
//   - SSH colon: git@github.com:owner/repo.git
//   - SSH protocol: ssh://git@gerrit.example.com:29418/owner/repo
//   - Gerrit authenticated HTTP: https://gerrit.example.com/a/owner/repo
package urlutil

import "strings"

// ExtractProjectPath extracts the project path ("owner/repo", or deeper for
// GitLab subgroups and Gerrit hierarchies) from a git remote URL. Returns
// "" when the URL carries no path.
func ExtractProjectPath(url string) string {
	url = strings.TrimSuffix(url, "/")
	url = strings.TrimSuffix(url, ".git")

	var path string
	switch {
	case strings.Contains(url, "://"):
		// Protocol format: scheme://[user@]host[:port]/path
		_, rest, _ := strings.Cut(url, "://")
		_, path, _ = strings.Cut(rest, "/")
	case strings.Contains(url, ":"):
		// SSH colon format: git@host:path
		_, path, _ = strings.Cut(url, ":")
	default:
		return ""
	}

	// Gerrit authenticated endpoints prefix the project with /a/.
	path = strings.TrimPrefix(path, "a/")
	return strings.Trim(path, "/")
}

// ExtractPathComponents extracts the last N path components from a git
// remote URL. Used when a provider needs exactly "owner/repo" regardless of
// extra leading path segments.
//
// Examples:
//
//	ExtractPathComponents("git@github.com:owner/repo", 2) → "owner/repo"
//	ExtractPathComponents("https://gitlab.com/group/subgroup/project", 2) → "subgroup/project"
func ExtractPathComponents(url string, componentCount int) string {
	path := ExtractProjectPath(url)
	if path == "" {
		return ""
	}

	parts := strings.Split(path, "/")
	if len(parts) < componentCount {
		return ""
	}
	return strings.Join(parts[len(parts)-componentCount:], "/")
}
