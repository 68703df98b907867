package urlutil_test

import (
	"testing"

	"github.com/Onesty-Tech-GmbH/renovate/internal/urlutil"
)

func TestExtractProjectPath(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		// GitHub remotes
		{
			name: "github_https",
			url:  "https://github.com/owner/repo.git",
			want: "owner/repo",
		},
		{
			name: "github_ssh_colon",
			url:  "git@github.com:owner/repo.git",
			want: "owner/repo",
		},
		{
			name: "github_ssh_protocol",
			url:  "ssh://git@github.com/owner/repo.git",
			want: "owner/repo",
		},

		// GitLab remotes, including nested groups
		{
			name: "gitlab_https_subgroup",
			url:  "https://gitlab.com/group/subgroup/project.git",
			want: "group/subgroup/project",
		},
		{
			name: "gitlab_ssh_colon_subgroup",
			url:  "git@gitlab.com:group/subgroup/project.git",
			want: "group/subgroup/project",
		},

		// Gerrit remotes
		{
			name: "gerrit_ssh_with_port",
			url:  "ssh://bot@gerrit.example.com:29418/tools/renovate",
			want: "tools/renovate",
		},
		{
			name: "gerrit_authenticated_http",
			url:  "https://gerrit.example.com/a/tools/renovate",
			want: "tools/renovate",
		},

		// Edge cases
		{
			name: "trailing_slash",
			url:  "https://github.com/owner/repo/",
			want: "owner/repo",
		},
		{
			name: "no_path",
			url:  "https://github.com",
			want: "",
		},
		{
			name: "not_a_remote",
			url:  "just-a-name",
			want: "",
		},
		{
			name: "empty",
			url:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := urlutil.ExtractProjectPath(tt.url)
			if got != tt.want {
				t.Errorf("ExtractProjectPath(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractPathComponents(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		componentCount int
		want           string
	}{
		{
			name:           "github_https",
			url:            "https://github.com/owner/repo.git",
			componentCount: 2,
			want:           "owner/repo",
		},
		{
			name:           "gitlab_subgroup_extract_2",
			url:            "https://gitlab.com/group/subgroup/project",
			componentCount: 2,
			want:           "subgroup/project",
		},
		{
			name:           "gitlab_subgroup_extract_3",
			url:            "https://gitlab.com/group/subgroup/project",
			componentCount: 3,
			want:           "group/subgroup/project",
		},
		{
			name:           "too_few_components",
			url:            "https://gerrit.example.com/project",
			componentCount: 2,
			want:           "",
		},
		{
			name:           "no_path",
			url:            "https://github.com",
			componentCount: 2,
			want:           "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := urlutil.ExtractPathComponents(tt.url, tt.componentCount)
			if got != tt.want {
				t.Errorf("ExtractPathComponents(%q, %d) = %q, want %q", tt.url, tt.componentCount, got, tt.want)
			}
		})
	}
}
