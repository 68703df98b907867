// Package platform provides a unified abstraction layer over code-hosting
// providers for the dependency-update workflow.
//
// The [Platform] interface defines a common API for repository, pull-request,
// branch-status, comment and issue operations that every provider adapter
// implements. This allows the update logic to be provider-agnostic.
//
// Use [NewPlatform] to create the appropriate adapter for the detected or
// configured provider:
//
//	p, err := platform.NewPlatform(platform.KindGitHub, cfg, logger)
//	repo, _ := p.InitRepo("owner/repo")
//	pr, _ := p.CreatePr(platform.CreatePrConfig{...})
//	status, _ := p.GetBranchStatus(pr.SourceBranch)
package platform

import (
	"strings"
	"time"
)

// Kind identifies a supported code-hosting provider.
type Kind string

// Supported providers.
const (
	KindGitHub Kind = "github"
	KindGitLab Kind = "gitlab"
	KindGerrit Kind = "gerrit"
)

// PrState is the lifecycle state of a pull/change request.
type PrState string

// Pull request states. StateAll is only valid as a search filter.
const (
	StateOpen   PrState = "open"
	StateClosed PrState = "closed"
	StateMerged PrState = "merged"
	StateAll    PrState = "all"
)

// BranchStatus is the three-valued aggregate CI signal for a branch head.
type BranchStatus string

// Branch status values, ordered from best to worst.
const (
	StatusGreen  BranchStatus = "green"
	StatusYellow BranchStatus = "yellow"
	StatusRed    BranchStatus = "red"
)

// MergeStrategy selects how a pull request is merged.
type MergeStrategy string

// Merge strategies. StrategyAuto tries rebase, then squash, then a merge
// commit, skipping strategies the repository forbids.
const (
	StrategyAuto        MergeStrategy = "auto"
	StrategyRebase      MergeStrategy = "rebase"
	StrategySquash      MergeStrategy = "squash"
	StrategyMergeCommit MergeStrategy = "merge-commit"
)

// Pr represents a provider-agnostic pull/change request.
type Pr struct {
	Number       int
	Title        string
	Body         string
	SourceBranch string
	TargetBranch string
	State        PrState
	SHA          string // head commit
	URL          string
	Author       string // provider username of the creator
	Labels       []string
	IsDraft      bool
	CreatedAt    time.Time
}

// RepoConfig holds the per-repository configuration established by InitRepo.
// It is read-only between InitRepo calls.
type RepoConfig struct {
	Repository    string // "owner/name" or Gerrit project path
	Owner         string
	Name          string
	DefaultBranch string
	IsFork        bool

	// Merge-strategy capabilities.
	AllowRebase      bool
	AllowSquash      bool
	AllowMergeCommit bool

	// HasIssues reports whether the provider supports issue tracking for
	// this repository.
	HasIssues bool
}

// AllowedStrategies resolves the requested merge strategy against the
// repository capabilities. For StrategyAuto the fallback order is
// rebase, squash, merge commit; forbidden strategies are skipped.
// An explicitly requested strategy is returned as-is even when the
// repository forbids it, so the provider surfaces the real API error.
func (r *RepoConfig) AllowedStrategies(requested MergeStrategy) []MergeStrategy {
	if requested != StrategyAuto && requested != "" {
		return []MergeStrategy{requested}
	}

	var order []MergeStrategy
	if r.AllowRebase {
		order = append(order, StrategyRebase)
	}
	if r.AllowSquash {
		order = append(order, StrategySquash)
	}
	if r.AllowMergeCommit {
		order = append(order, StrategyMergeCommit)
	}
	return order
}

// StatusCheck is a single named status attached to a branch head.
type StatusCheck struct {
	Context     string
	Description string
	URL         string
	State       BranchStatus
}

// Issue represents a provider issue used for the dependency dashboard and
// config-error reporting.
type Issue struct {
	Number int
	Title  string
	Body   string
	State  string // "open" or "closed"
}

// Comment represents a pull-request comment identified by its topic marker.
type Comment struct {
	ID      int64
	Topic   string
	Content string
}

// FindPrConfig narrows a pull-request lookup. BranchName is required;
// Title and State are optional filters (State defaults to StateOpen).
type FindPrConfig struct {
	BranchName string
	Title      string
	State      PrState
}

// CreatePrConfig holds parameters for creating a pull request.
type CreatePrConfig struct {
	SourceBranch string
	TargetBranch string
	Title        string
	Body         string
	Labels       []string
	Draft        bool
}

// UpdatePrConfig holds parameters for updating a pull request. Zero-valued
// fields are left unchanged; State may be StateOpen or StateClosed.
type UpdatePrConfig struct {
	Number       int
	Title        string
	Body         string
	State        PrState
	TargetBranch string
}

// MergePrConfig holds parameters for merging a pull request.
type MergePrConfig struct {
	Number       int
	Strategy     MergeStrategy
	SourceBranch string
}

// EnsureCommentConfig identifies a comment by topic for idempotent
// find-or-create/update. An empty Topic matches on exact content instead.
type EnsureCommentConfig struct {
	Number  int
	Topic   string
	Content string
}

// EnsureIssueConfig identifies an issue by title for idempotent
// find-or-create/update.
type EnsureIssueConfig struct {
	Title  string
	Body   string
	Labels []string
	// Reopen controls whether a previously closed issue with the same
	// title is reopened instead of left closed.
	Reopen bool
}

// topicHeaderPrefix is the marker convention embedded in comment bodies so
// comments can be found and updated idempotently.
const topicHeaderPrefix = "### "

// CommentBody renders a comment body with the topic marker header.
// An empty topic returns the content unchanged.
func CommentBody(topic, content string) string {
	if topic == "" {
		return content
	}
	return topicHeaderPrefix + topic + "\n\n" + content
}

// CommentMatchesTopic reports whether a comment body carries the given
// topic marker header.
func CommentMatchesTopic(body, topic string) bool {
	if topic == "" {
		return false
	}
	firstLine, _, _ := strings.Cut(body, "\n")
	return strings.TrimSpace(firstLine) == topicHeaderPrefix+topic
}

// ContentEqual compares comment contents ignoring trailing whitespace,
// which providers frequently normalize.
func ContentEqual(a, b string) bool {
	return strings.TrimRight(a, " \t\n") == strings.TrimRight(b, " \t\n")
}

// WorstStatus aggregates branch statuses with the defined precedence:
// any red wins, then any yellow, and green only when every signal is green.
// No signals at all yields yellow, since checks may not have reported yet.
func WorstStatus(statuses ...BranchStatus) BranchStatus {
	if len(statuses) == 0 {
		return StatusYellow
	}

	result := StatusGreen
	for _, s := range statuses {
		switch s {
		case StatusRed:
			return StatusRed
		case StatusYellow:
			result = StatusYellow
		case StatusGreen:
			// keep current
		}
	}
	return result
}
