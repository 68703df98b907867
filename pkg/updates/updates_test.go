package updates_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Onesty-Tech-GmbH/renovate/pkg/platform"
	"github.com/Onesty-Tech-GmbH/renovate/pkg/updates"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple name", "lodash", "lodash"},
		{"scoped package", "@types/node", "types-node"},
		{"go module path", "github.com/spf13/cobra", "github.com-spf13-cobra"},
		{"version", "2.0.1", "2.0.1"},
		{"uppercase", "MyDep", "mydep"},
		{"consecutive separators collapse", "a//b__c", "a-b-c"},
		{"trailing separator dropped", "dep/", "dep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, updates.Slugify(tt.in))
		})
	}
}

func TestUpdateBranchName(t *testing.T) {
	u := &updates.Update{DepName: "@types/node", NewVersion: "22.5.0"}
	assert.Equal(t, "renovate/types-node-22.5.0", u.BranchName())

	t.Run("no version", func(t *testing.T) {
		u := &updates.Update{DepName: "lodash"}
		assert.Equal(t, "renovate/lodash", u.BranchName())
	})
}

func TestUpdateTitle(t *testing.T) {
	tests := []struct {
		name   string
		update updates.Update
		want   string
	}{
		{
			name:   "version update",
			update: updates.Update{DepName: "lodash", NewVersion: "4.17.21", Kind: updates.BumpMinor},
			want:   "chore(deps): update dependency lodash to 4.17.21",
		},
		{
			name:   "pin",
			update: updates.Update{DepName: "node", NewVersion: "22.5.0", Kind: updates.BumpPin},
			want:   "chore(deps): pin dependency node to 22.5.0",
		},
		{
			name: "digest uses the short form",
			update: updates.Update{
				DepName:    "alpine",
				NewVersion: "sha256:b89d9c93e9ed3597455c90a0b88a8bbb5cb7188438f70953fede212a0c4394e0",
				Kind:       updates.BumpDigest,
			},
			want: "chore(deps): update alpine digest to b89d9c9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.update.Title())
		})
	}
}

func TestTitleRoundTrip(t *testing.T) {
	// Titles produced by Title must parse back into the same update.
	u := &updates.Update{
		DepName:        "lodash",
		CurrentVersion: "4.17.20",
		NewVersion:     "4.17.21",
		Kind:           updates.BumpPatch,
	}

	parsed, err := updates.ParseCommitTitle(u.Title(), u.CurrentVersion)
	require.NoError(t, err)
	assert.Equal(t, u, parsed)
}

func TestParseCommitTitle(t *testing.T) {
	tests := []struct {
		name           string
		title          string
		currentVersion string
		wantDep        string
		wantVersion    string
		wantKind       updates.BumpKind
		wantErr        bool
	}{
		{
			name:           "dependency update",
			title:          "chore(deps): update dependency lodash to 4.18.0",
			currentVersion: "4.17.21",
			wantDep:        "lodash",
			wantVersion:    "4.18.0",
			wantKind:       updates.BumpMinor,
		},
		{
			name:           "major update",
			title:          "fix(deps): update dependency lodash to 5.0.0",
			currentVersion: "4.17.21",
			wantDep:        "lodash",
			wantVersion:    "5.0.0",
			wantKind:       updates.BumpMajor,
		},
		{
			name:        "digest update",
			title:       "chore(deps): update alpine digest to b89d9c9",
			wantDep:     "alpine",
			wantVersion: "b89d9c9",
			wantKind:    updates.BumpDigest,
		},
		{
			name:        "pin",
			title:       "chore(deps): pin dependency node to 22.5.0",
			wantDep:     "node",
			wantVersion: "22.5.0",
			wantKind:    updates.BumpPin,
		},
		{
			name:        "unknown current version assumes minor",
			title:       "chore(deps): update dependency lodash to 4.18.0",
			wantDep:     "lodash",
			wantVersion: "4.18.0",
			wantKind:    updates.BumpMinor,
		},
		{
			name:    "unrelated title",
			title:   "fix: handle nil pointer in parser",
			wantErr: true,
		},
		{
			name:    "empty title",
			title:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, err := updates.ParseCommitTitle(tt.title, tt.currentVersion)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDep, update.DepName)
			assert.Equal(t, tt.wantVersion, update.NewVersion)
			assert.Equal(t, tt.wantKind, update.Kind)
		})
	}
}

func TestClassifyBump(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want updates.BumpKind
	}{
		{"major", "1.2.3", "2.0.0", updates.BumpMajor},
		{"minor", "1.2.3", "1.3.0", updates.BumpMinor},
		{"patch", "1.2.3", "1.2.4", updates.BumpPatch},
		{"same version is patch", "1.2.3", "1.2.3", updates.BumpPatch},
		{"v prefix tolerated", "v1.2.3", "v1.3.0", updates.BumpMinor},
		{"pre-release suffix ignored", "1.2.3", "1.3.0-rc.1", updates.BumpMinor},
		{"two-component versions", "1.2", "1.3", updates.BumpMinor},
		{"digest target", "1.2.3", "b89d9c9", updates.BumpDigest},
		{"no comparison base assumes minor", "", "1.3.0", updates.BumpMinor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, updates.ClassifyBump(tt.from, tt.to))
		})
	}
}

func TestIsUpdateBranch(t *testing.T) {
	assert.True(t, updates.IsUpdateBranch("renovate/lodash-4.18.0"))
	assert.False(t, updates.IsUpdateBranch("feature/add-parser"))
	assert.False(t, updates.IsUpdateBranch("main"))
}

func TestBranchSlug(t *testing.T) {
	slug, err := updates.BranchSlug("renovate/lodash-4.18.0")
	require.NoError(t, err)
	assert.Equal(t, "lodash-4.18.0", slug)

	_, err = updates.BranchSlug("main")
	assert.Error(t, err)
}

func TestIsDowngrade(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		want    bool
	}{
		{"upgrade", "1.2.3", "1.3.0", false},
		{"downgrade", "1.3.0", "1.2.3", true},
		{"major downgrade", "2.0.0", "1.9.9", true},
		{"same version", "1.2.3", "1.2.3", false},
		{"unparsable versions never downgrade", "abc", "def", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &updates.Update{CurrentVersion: tt.current, NewVersion: tt.next}
			assert.Equal(t, tt.want, u.IsDowngrade())
		})
	}
}

func TestRenderBody(t *testing.T) {
	u := &updates.Update{
		DepName:        "lodash",
		CurrentVersion: "4.17.21",
		NewVersion:     "4.18.0",
		Kind:           updates.BumpMinor,
	}

	body := updates.RenderBody(u)
	assert.Contains(t, body, "| lodash | `4.17.21` -> `4.18.0` | minor |")
	assert.Contains(t, body, "<!-- renovate-update-branch -->")

	t.Run("missing current version", func(t *testing.T) {
		u := &updates.Update{DepName: "node", NewVersion: "22.5.0", Kind: updates.BumpPin}
		assert.Contains(t, updates.RenderBody(u), "`none` -> `22.5.0`")
	})
}

func TestRenderDashboard(t *testing.T) {
	t.Run("lists open update prs", func(t *testing.T) {
		prs := []*platform.Pr{
			{
				Title:        "chore(deps): update dependency lodash to 4.18.0",
				SourceBranch: "renovate/lodash-4.18.0",
				State:        platform.StateOpen,
				URL:          "https://example.com/pr/1",
			},
			{
				Title:        "some feature",
				SourceBranch: "feature/thing",
				State:        platform.StateOpen,
			},
			{
				Title:        "chore(deps): update dependency left-pad to 2.0.0",
				SourceBranch: "renovate/left-pad-2.0.0",
				State:        platform.StateMerged,
			},
		}

		body := updates.RenderDashboard(prs)
		assert.Contains(t, body, "## Open")
		assert.Contains(t, body, "renovate/lodash-4.18.0")
		assert.NotContains(t, body, "feature/thing")
		assert.NotContains(t, body, "left-pad")
		assert.Equal(t, 1, strings.Count(body, "- [ ]"))
	})

	t.Run("empty dashboard", func(t *testing.T) {
		body := updates.RenderDashboard(nil)
		assert.Contains(t, body, "up to date")
	})
}

func TestRenderConflictComment(t *testing.T) {
	comment := updates.RenderConflictComment("renovate/lodash-4.18.0")
	assert.Contains(t, comment, "`renovate/lodash-4.18.0`")
	assert.Contains(t, comment, "merge conflicts")
}

func TestRenderStatusFailureComment(t *testing.T) {
	comment := updates.RenderStatusFailureComment("renovate/lodash-4.18.0")
	assert.Contains(t, comment, "`renovate/lodash-4.18.0`")
	assert.Contains(t, comment, "failing")
}
