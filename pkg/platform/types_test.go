package platform_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/Onesty-Tech-GmbH/renovate/pkg/platform"
)

func TestWorstStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []platform.BranchStatus
		want     platform.BranchStatus
	}{
		{
			name:     "no signals defaults to yellow",
			statuses: nil,
			want:     platform.StatusYellow,
		},
		{
			name:     "all green",
			statuses: []platform.BranchStatus{platform.StatusGreen, platform.StatusGreen},
			want:     platform.StatusGreen,
		},
		{
			name:     "yellow beats green",
			statuses: []platform.BranchStatus{platform.StatusGreen, platform.StatusYellow, platform.StatusGreen},
			want:     platform.StatusYellow,
		},
		{
			name:     "red beats everything",
			statuses: []platform.BranchStatus{platform.StatusGreen, platform.StatusYellow, platform.StatusRed},
			want:     platform.StatusRed,
		},
		{
			name:     "single red",
			statuses: []platform.BranchStatus{platform.StatusRed},
			want:     platform.StatusRed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, platform.WorstStatus(tt.statuses...))
		})
	}
}

func TestAllowedStrategies(t *testing.T) {
	full := &platform.RepoConfig{AllowRebase: true, AllowSquash: true, AllowMergeCommit: true}

	tests := []struct {
		name      string
		repo      *platform.RepoConfig
		requested platform.MergeStrategy
		want      []platform.MergeStrategy
	}{
		{
			name:      "auto walks rebase squash merge",
			repo:      full,
			requested: platform.StrategyAuto,
			want:      []platform.MergeStrategy{platform.StrategyRebase, platform.StrategySquash, platform.StrategyMergeCommit},
		},
		{
			name:      "empty strategy behaves like auto",
			repo:      full,
			requested: "",
			want:      []platform.MergeStrategy{platform.StrategyRebase, platform.StrategySquash, platform.StrategyMergeCommit},
		},
		{
			name:      "auto skips forbidden strategies",
			repo:      &platform.RepoConfig{AllowSquash: true, AllowMergeCommit: true},
			requested: platform.StrategyAuto,
			want:      []platform.MergeStrategy{platform.StrategySquash, platform.StrategyMergeCommit},
		},
		{
			name:      "nothing allowed yields empty order",
			repo:      &platform.RepoConfig{},
			requested: platform.StrategyAuto,
			want:      nil,
		},
		{
			name:      "explicit strategy passes through",
			repo:      full,
			requested: platform.StrategySquash,
			want:      []platform.MergeStrategy{platform.StrategySquash},
		},
		{
			name:      "explicit strategy ignores repository capabilities",
			repo:      &platform.RepoConfig{AllowSquash: true},
			requested: platform.StrategyRebase,
			want:      []platform.MergeStrategy{platform.StrategyRebase},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.repo.AllowedStrategies(tt.requested))
		})
	}
}

func TestCommentBody(t *testing.T) {
	t.Run("with topic", func(t *testing.T) {
		body := platform.CommentBody("Merge Conflicts", "Please rebase.")
		assert.Equal(t, "### Merge Conflicts\n\nPlease rebase.", body)
	})

	t.Run("empty topic returns content unchanged", func(t *testing.T) {
		assert.Equal(t, "Please rebase.", platform.CommentBody("", "Please rebase."))
	})
}

func TestCommentMatchesTopic(t *testing.T) {
	body := platform.CommentBody("Merge Conflicts", "Please rebase.")

	tests := []struct {
		name  string
		body  string
		topic string
		want  bool
	}{
		{"matching topic", body, "Merge Conflicts", true},
		{"different topic", body, "Failing Checks", false},
		{"empty topic never matches", body, "", false},
		{"plain comment", "just some text", "Merge Conflicts", false},
		{"trailing whitespace on header", "### Merge Conflicts  \n\ncontent", "Merge Conflicts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, platform.CommentMatchesTopic(tt.body, tt.topic))
		})
	}
}

func TestContentEqual(t *testing.T) {
	assert.True(t, platform.ContentEqual("hello\n", "hello"))
	assert.True(t, platform.ContentEqual("hello \t\n\n", "hello"))
	assert.False(t, platform.ContentEqual("hello", "world"))
	assert.False(t, platform.ContentEqual(" hello", "hello"))
}

func TestTruncateBody(t *testing.T) {
	t.Run("short body unchanged", func(t *testing.T) {
		assert.Equal(t, "short", platform.TruncateBody("short", 100))
	})

	t.Run("long body truncated with marker", func(t *testing.T) {
		body := strings.Repeat("line of text\n", 100)
		got := platform.TruncateBody(body, 200)
		assert.LessOrEqual(t, len(got), 200)
		assert.Contains(t, got, "truncated")
	})

	t.Run("cuts on line boundary", func(t *testing.T) {
		body := strings.Repeat("aaaa\n", 100)
		got := platform.TruncateBody(body, 120)
		content := got[:strings.Index(got, "\n\n---")]
		assert.True(t, strings.HasSuffix(content, "aaaa"), "content should end at a full line")
	})

	t.Run("tiny limit degrades to hard cut", func(t *testing.T) {
		got := platform.TruncateBody("0123456789", 4)
		assert.Equal(t, "0123", got)
	})

	t.Run("never splits a multi-byte rune", func(t *testing.T) {
		body := strings.Repeat("\u00e9", 200)

		got := platform.TruncateBody(body, 101)
		assert.LessOrEqual(t, len(got), 101)
		assert.True(t, utf8.ValidString(got))

		got = platform.TruncateBody(body, 5)
		assert.Equal(t, "\u00e9\u00e9", got)
	})
}

func TestStripHTMLComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no comments", "plain text", "plain text"},
		{"single comment", "before <!-- hidden --> after", "before  after"},
		{"multiple comments", "<!-- a -->x<!-- b -->y", "xy"},
		{"unterminated comment drops the rest", "keep <!-- oops", "keep "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, platform.StripHTMLComments(tt.in))
		})
	}
}
