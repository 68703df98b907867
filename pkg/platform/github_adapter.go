package platform

import (
	"fmt"
	"strings"

	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/bullets"

	ghclient "github.com/Onesty-Tech-GmbH/renovate/pkg/github"
)

// githubMaxBodyLength is the practical limit GitHub accepts for issue and
// pull-request bodies.
const githubMaxBodyLength = 60000

// GitHubAdapter translates the platform vocabulary into GitHub REST and
// GraphQL calls. It caches the pull-request list per repository to avoid
// redundant listing calls; the cache is reset by InitRepo.
type GitHubAdapter struct {
	client ghclient.API
	log    *bullets.Logger

	repo         *RepoConfig
	prCache      []*Pr
	prCacheValid bool
}

// NewGitHubAdapter creates a new GitHub adapter.
func NewGitHubAdapter(client ghclient.API, log *bullets.Logger) *GitHubAdapter {
	return &GitHubAdapter{
		client: client,
		log:    log,
	}
}

// Name returns "github".
func (a *GitHubAdapter) Name() string {
	return string(KindGitHub)
}

// InitRepo establishes the per-repository configuration cache.
func (a *GitHubAdapter) InitRepo(repository string) (*RepoConfig, error) {
	owner, name, found := strings.Cut(repository, "/")
	if !found || owner == "" || name == "" {
		return nil, fmt.Errorf("%w: %q is not in owner/name form", ErrRepoNotFound, repository)
	}

	a.client.SetRepository(owner, name)
	a.repo = nil
	a.prCache = nil
	a.prCacheValid = false

	repo, err := a.client.GetRepo()
	if err != nil {
		if ghclient.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrRepoNotFound, repository)
		}
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}

	if repo.GetArchived() {
		return nil, fmt.Errorf("%w: %s", ErrRepoArchived, repository)
	}
	if !strings.EqualFold(repo.GetFullName(), repository) {
		return nil, fmt.Errorf("%w: %s is now %s", ErrRepoRenamed, repository, repo.GetFullName())
	}

	a.repo = &RepoConfig{
		Repository:       repository,
		Owner:            owner,
		Name:             name,
		DefaultBranch:    repo.GetDefaultBranch(),
		IsFork:           repo.GetFork(),
		AllowRebase:      repo.GetAllowRebaseMerge(),
		AllowSquash:      repo.GetAllowSquashMerge(),
		AllowMergeCommit: repo.GetAllowMergeCommit(),
		HasIssues:        repo.GetHasIssues(),
	}

	a.log.Debugf("Initialized GitHub repository %s (default branch %s)", repository, a.repo.DefaultBranch)
	return a.repo, nil
}

// GetPrList returns the cached pull-request list, fetching it on first use.
func (a *GitHubAdapter) GetPrList() ([]*Pr, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}
	if a.prCacheValid {
		return a.prCache, nil
	}

	prs, err := a.client.ListPrs()
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	a.prCache = make([]*Pr, 0, len(prs))
	for _, pr := range prs {
		a.prCache = append(a.prCache, convertGitHubPr(pr))
	}
	a.prCacheValid = true
	return a.prCache, nil
}

// FindPr searches the cached pull requests for one matching the config.
func (a *GitHubAdapter) FindPr(cfg FindPrConfig) (*Pr, error) {
	prs, err := a.GetPrList()
	if err != nil {
		return nil, err
	}

	state := cfg.State
	if state == "" {
		state = StateOpen
	}

	for _, pr := range prs {
		if pr.SourceBranch != cfg.BranchName {
			continue
		}
		if cfg.Title != "" && pr.Title != cfg.Title {
			continue
		}
		if state != StateAll && pr.State != state {
			continue
		}
		return pr, nil
	}
	return nil, nil
}

// GetBranchPr returns the open pull request for a source branch.
func (a *GitHubAdapter) GetBranchPr(branchName string) (*Pr, error) {
	return a.FindPr(FindPrConfig{BranchName: branchName, State: StateOpen})
}

// GetPr fetches a pull request by number, bypassing the cache.
func (a *GitHubAdapter) GetPr(number int) (*Pr, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}

	pr, err := a.client.GetPr(number)
	if err != nil {
		if ghclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pull request: %w", err)
	}
	return convertGitHubPr(pr), nil
}

// CreatePr creates a pull request and applies its labels.
func (a *GitHubAdapter) CreatePr(cfg CreatePrConfig) (*Pr, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}

	newPr := &github.NewPullRequest{
		Title: github.Ptr(cfg.Title),
		Head:  github.Ptr(cfg.SourceBranch),
		Base:  github.Ptr(cfg.TargetBranch),
		Body:  github.Ptr(a.MassageMarkdown(cfg.Body)),
		Draft: github.Ptr(cfg.Draft),
	}

	created, err := a.client.CreatePr(newPr)
	if err != nil {
		if ghclient.IsAlreadyExists(err) {
			return nil, fmt.Errorf("%w: %s", ErrPrAlreadyExists, cfg.SourceBranch)
		}
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	if len(cfg.Labels) > 0 {
		if err := a.client.AddLabels(created.GetNumber(), cfg.Labels); err != nil {
			a.log.Warnf("Failed to add labels to PR #%d: %v", created.GetNumber(), err)
		}
	}

	pr := convertGitHubPr(created)
	pr.Labels = cfg.Labels
	if a.prCacheValid {
		a.prCache = append([]*Pr{pr}, a.prCache...)
	}

	a.log.Infof("Created pull request #%d (%s -> %s)", pr.Number, pr.SourceBranch, pr.TargetBranch)
	return pr, nil
}

// UpdatePr updates title, body, state or target branch of a pull request.
func (a *GitHubAdapter) UpdatePr(cfg UpdatePrConfig) error {
	if a.repo == nil {
		return ErrUninitialized
	}

	patch := &github.PullRequest{}
	if cfg.Title != "" {
		patch.Title = github.Ptr(cfg.Title)
	}
	if cfg.Body != "" {
		patch.Body = github.Ptr(a.MassageMarkdown(cfg.Body))
	}
	if cfg.State == StateOpen || cfg.State == StateClosed {
		patch.State = github.Ptr(string(cfg.State))
	}
	if cfg.TargetBranch != "" {
		patch.Base = &github.PullRequestBranch{Ref: github.Ptr(cfg.TargetBranch)}
	}

	if err := a.client.EditPr(cfg.Number, patch); err != nil {
		return fmt.Errorf("failed to update pull request: %w", err)
	}

	a.refreshCachedPr(cfg)
	return nil
}

// refreshCachedPr applies an update to the cached copy so later lookups see
// the new values without another listing call.
func (a *GitHubAdapter) refreshCachedPr(cfg UpdatePrConfig) {
	if !a.prCacheValid {
		return
	}
	for _, pr := range a.prCache {
		if pr.Number != cfg.Number {
			continue
		}
		if cfg.Title != "" {
			pr.Title = cfg.Title
		}
		if cfg.Body != "" {
			pr.Body = cfg.Body
		}
		if cfg.State == StateOpen || cfg.State == StateClosed {
			pr.State = cfg.State
		}
		if cfg.TargetBranch != "" {
			pr.TargetBranch = cfg.TargetBranch
		}
		return
	}
}

// MergePr merges a pull request, walking the strategy fallback order for
// StrategyAuto and falling through on conflict responses.
func (a *GitHubAdapter) MergePr(cfg MergePrConfig) error {
	if a.repo == nil {
		return ErrUninitialized
	}

	strategies := a.repo.AllowedStrategies(cfg.Strategy)
	if len(strategies) == 0 {
		return fmt.Errorf("%w: repository permits no merge strategy", ErrNotMergeable)
	}

	var lastErr error
	for _, strategy := range strategies {
		err := a.client.MergePr(cfg.Number, githubMergeMethod(strategy))
		if err == nil {
			a.markCachedPrMerged(cfg.Number)
			a.log.Infof("Merged pull request #%d via %s", cfg.Number, strategy)
			return nil
		}
		if !ghclient.IsConflict(err) && !ghclient.IsUnprocessable(err) {
			return fmt.Errorf("failed to merge pull request: %w", err)
		}
		a.log.Debugf("Merge strategy %s rejected for PR #%d: %v", strategy, cfg.Number, err)
		lastErr = err
	}

	return fmt.Errorf("%w: %v", ErrNotMergeable, lastErr)
}

func (a *GitHubAdapter) markCachedPrMerged(number int) {
	if !a.prCacheValid {
		return
	}
	for _, pr := range a.prCache {
		if pr.Number == number {
			pr.State = StateMerged
			return
		}
	}
}

// githubMergeMethod maps a merge strategy onto GitHub's merge_method value.
func githubMergeMethod(strategy MergeStrategy) string {
	switch strategy {
	case StrategyRebase:
		return "rebase"
	case StrategySquash:
		return "squash"
	default:
		return "merge"
	}
}

// GetBranchStatus aggregates commit statuses and check runs for the branch
// head into the three-valued branch status.
func (a *GitHubAdapter) GetBranchStatus(branchName string) (BranchStatus, error) {
	if a.repo == nil {
		return "", ErrUninitialized
	}

	statuses, err := a.client.ListStatuses(branchName)
	if err != nil {
		return "", fmt.Errorf("failed to get branch status: %w", err)
	}
	checkRuns, err := a.client.ListCheckRuns(branchName)
	if err != nil {
		return "", fmt.Errorf("failed to get branch status: %w", err)
	}

	return aggregateGitHubStatus(statuses, checkRuns), nil
}

// aggregateGitHubStatus combines commit statuses and check runs with the
// platform precedence rule. The statuses listing returns the full history
// newest first, so only the latest status per context counts.
func aggregateGitHubStatus(statuses []*github.RepoStatus, checkRuns []*github.CheckRun) BranchStatus {
	var signals []BranchStatus

	seen := make(map[string]bool)
	for _, status := range statuses {
		if seen[status.GetContext()] {
			continue
		}
		seen[status.GetContext()] = true
		signals = append(signals, statusFromCommitState(status.GetState()))
	}

	for _, run := range checkRuns {
		signals = append(signals, statusFromCheckRun(run))
	}

	return WorstStatus(signals...)
}

// statusFromCommitState maps a commit status state onto a branch status.
func statusFromCommitState(state string) BranchStatus {
	switch state {
	case "success":
		return StatusGreen
	case "failure", "error":
		return StatusRed
	default: // pending
		return StatusYellow
	}
}

// statusFromCheckRun maps a check run onto a branch status.
func statusFromCheckRun(run *github.CheckRun) BranchStatus {
	if run.GetStatus() != "completed" {
		return StatusYellow
	}
	switch run.GetConclusion() {
	case "success", "skipped", "neutral":
		return StatusGreen
	case "failure", "timed_out", "cancelled", "action_required":
		return StatusRed
	default:
		return StatusYellow
	}
}

// GetBranchStatusCheck returns the latest commit status with the given
// context, or (nil, nil) when none exists.
func (a *GitHubAdapter) GetBranchStatusCheck(branchName, statusContext string) (*StatusCheck, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}

	statuses, err := a.client.ListStatuses(branchName)
	if err != nil {
		return nil, fmt.Errorf("failed to get branch status check: %w", err)
	}

	for _, status := range statuses {
		if status.GetContext() != statusContext {
			continue
		}
		return &StatusCheck{
			Context:     status.GetContext(),
			Description: status.GetDescription(),
			URL:         status.GetTargetURL(),
			State:       statusFromCommitState(status.GetState()),
		}, nil
	}
	return nil, nil
}

// SetBranchStatus attaches a commit status to the branch head.
func (a *GitHubAdapter) SetBranchStatus(branchName string, check StatusCheck) error {
	if a.repo == nil {
		return ErrUninitialized
	}

	status := &github.RepoStatus{
		State:       github.Ptr(commitStateFromStatus(check.State)),
		Context:     github.Ptr(check.Context),
		Description: github.Ptr(check.Description),
	}
	if check.URL != "" {
		status.TargetURL = github.Ptr(check.URL)
	}

	if err := a.client.CreateStatus(branchName, status); err != nil {
		return fmt.Errorf("failed to set branch status: %w", err)
	}
	return nil
}

// commitStateFromStatus maps a branch status onto GitHub's commit state.
func commitStateFromStatus(state BranchStatus) string {
	switch state {
	case StatusGreen:
		return "success"
	case StatusRed:
		return "failure"
	default:
		return "pending"
	}
}

// EnsureComment idempotently creates or updates the comment identified by
// the topic marker.
func (a *GitHubAdapter) EnsureComment(cfg EnsureCommentConfig) error {
	if a.repo == nil {
		return ErrUninitialized
	}

	comments, err := a.client.ListComments(cfg.Number)
	if err != nil {
		return fmt.Errorf("failed to ensure comment: %w", err)
	}

	desired := CommentBody(cfg.Topic, cfg.Content)
	for _, comment := range comments {
		body := comment.GetBody()
		match := CommentMatchesTopic(body, cfg.Topic)
		if cfg.Topic == "" {
			match = ContentEqual(body, desired)
		}
		if !match {
			continue
		}
		if ContentEqual(body, desired) {
			a.log.Debugf("Comment for topic %q is up to date on #%d", cfg.Topic, cfg.Number)
			return nil
		}
		if err := a.client.EditComment(comment.GetID(), desired); err != nil {
			return fmt.Errorf("failed to update comment: %w", err)
		}
		a.log.Debugf("Updated comment for topic %q on #%d", cfg.Topic, cfg.Number)
		return nil
	}

	if err := a.client.CreateComment(cfg.Number, desired); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	a.log.Debugf("Created comment for topic %q on #%d", cfg.Topic, cfg.Number)
	return nil
}

// EnsureCommentRemoval deletes the comment matching the topic, if present.
func (a *GitHubAdapter) EnsureCommentRemoval(number int, topic string) error {
	if a.repo == nil {
		return ErrUninitialized
	}

	comments, err := a.client.ListComments(number)
	if err != nil {
		return fmt.Errorf("failed to ensure comment removal: %w", err)
	}

	for _, comment := range comments {
		if !CommentMatchesTopic(comment.GetBody(), topic) {
			continue
		}
		if err := a.client.DeleteComment(comment.GetID()); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		a.log.Debugf("Removed comment for topic %q on #%d", topic, number)
		return nil
	}
	return nil
}

// FindIssue returns the open issue with the given title.
func (a *GitHubAdapter) FindIssue(title string) (*Issue, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}
	if !a.repo.HasIssues {
		return nil, nil
	}

	issues, err := a.client.ListIssues("open")
	if err != nil {
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}

	for _, issue := range issues {
		if issue.GetTitle() == title {
			return convertGitHubIssue(issue), nil
		}
	}
	return nil, nil
}

// EnsureIssue idempotently creates or updates the issue identified by its
// title, closing duplicate open issues.
func (a *GitHubAdapter) EnsureIssue(cfg EnsureIssueConfig) error {
	if a.repo == nil {
		return ErrUninitialized
	}
	if !a.repo.HasIssues {
		a.log.Warnf("Issue tracking is disabled for %s, skipping issue %q", a.repo.Repository, cfg.Title)
		return nil
	}

	issues, err := a.client.ListIssues("all")
	if err != nil {
		return fmt.Errorf("failed to ensure issue: %w", err)
	}

	body := a.MassageMarkdown(cfg.Body)

	var existing *github.Issue
	for _, issue := range issues {
		if issue.GetTitle() != cfg.Title {
			continue
		}
		if existing == nil {
			existing = issue
			continue
		}
		// Duplicate open issues with the same title get closed,
		// keeping the first (newest) one.
		if issue.GetState() == "open" {
			closeReq := &github.IssueRequest{State: github.Ptr("closed")}
			if err := a.client.EditIssue(issue.GetNumber(), closeReq); err != nil {
				a.log.Warnf("Failed to close duplicate issue #%d: %v", issue.GetNumber(), err)
			}
		}
	}

	if existing == nil {
		req := &github.IssueRequest{
			Title: github.Ptr(cfg.Title),
			Body:  github.Ptr(body),
		}
		if len(cfg.Labels) > 0 {
			req.Labels = &cfg.Labels
		}
		if _, err := a.client.CreateIssue(req); err != nil {
			return fmt.Errorf("failed to create issue: %w", err)
		}
		a.log.Infof("Created issue %q", cfg.Title)
		return nil
	}

	if existing.GetState() == "closed" && !cfg.Reopen {
		a.log.Debugf("Issue %q is closed and reopening is disabled", cfg.Title)
		return nil
	}

	if existing.GetState() == "open" && ContentEqual(existing.GetBody(), body) {
		a.log.Debugf("Issue %q is up to date", cfg.Title)
		return nil
	}

	req := &github.IssueRequest{
		Body:  github.Ptr(body),
		State: github.Ptr("open"),
	}
	if err := a.client.EditIssue(existing.GetNumber(), req); err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}
	a.log.Debugf("Updated issue %q", cfg.Title)
	return nil
}

// EnsureIssueClosing closes every open issue with the given title.
func (a *GitHubAdapter) EnsureIssueClosing(title string) error {
	if a.repo == nil {
		return ErrUninitialized
	}
	if !a.repo.HasIssues {
		return nil
	}

	issues, err := a.client.ListIssues("open")
	if err != nil {
		return fmt.Errorf("failed to ensure issue closing: %w", err)
	}

	for _, issue := range issues {
		if issue.GetTitle() != title {
			continue
		}
		req := &github.IssueRequest{State: github.Ptr("closed")}
		if err := a.client.EditIssue(issue.GetNumber(), req); err != nil {
			return fmt.Errorf("failed to close issue #%d: %w", issue.GetNumber(), err)
		}
		a.log.Debugf("Closed issue #%d", issue.GetNumber())
	}
	return nil
}

// GetIssueList returns the open issues created by this tool.
func (a *GitHubAdapter) GetIssueList() ([]*Issue, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}
	if !a.repo.HasIssues {
		return nil, nil
	}

	issues, err := a.client.ListIssues("open")
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	result := make([]*Issue, 0, len(issues))
	for _, issue := range issues {
		result = append(result, convertGitHubIssue(issue))
	}
	return result, nil
}

// AddAssignees assigns users to a pull request.
func (a *GitHubAdapter) AddAssignees(number int, assignees []string) error {
	if a.repo == nil {
		return ErrUninitialized
	}
	if err := a.client.AddAssignees(number, assignees); err != nil {
		return fmt.Errorf("failed to add assignees: %w", err)
	}
	return nil
}

// AddReviewers requests reviews on a pull request.
func (a *GitHubAdapter) AddReviewers(number int, reviewers []string) error {
	if a.repo == nil {
		return ErrUninitialized
	}
	if err := a.client.RequestReviewers(number, reviewers); err != nil {
		return fmt.Errorf("failed to add reviewers: %w", err)
	}
	return nil
}

// DeleteLabel removes a label from a pull request. Labels the provider no
// longer knows are a no-op.
func (a *GitHubAdapter) DeleteLabel(number int, label string) error {
	if a.repo == nil {
		return ErrUninitialized
	}
	if err := a.client.RemoveLabel(number, label); err != nil {
		if ghclient.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete label: %w", err)
	}
	return nil
}

// MassageMarkdown truncates the body to GitHub's limit. GitHub renders the
// internal markdown dialect natively, so no rewriting is needed.
func (a *GitHubAdapter) MassageMarkdown(body string) string {
	return TruncateBody(body, githubMaxBodyLength)
}

// MaxBodyLength returns GitHub's body size limit.
func (a *GitHubAdapter) MaxBodyLength() int {
	return githubMaxBodyLength
}

// convertGitHubPr maps a go-github pull request onto the platform shape.
func convertGitHubPr(pr *github.PullRequest) *Pr {
	result := &Pr{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Body:         pr.GetBody(),
		SourceBranch: pr.GetHead().GetRef(),
		TargetBranch: pr.GetBase().GetRef(),
		SHA:          pr.GetHead().GetSHA(),
		URL:          pr.GetHTMLURL(),
		Author:       pr.GetUser().GetLogin(),
		IsDraft:      pr.GetDraft(),
		CreatedAt:    pr.GetCreatedAt().Time,
	}

	switch {
	case pr.GetMerged():
		result.State = StateMerged
	case pr.GetState() == "closed":
		result.State = StateClosed
	default:
		result.State = StateOpen
	}

	for _, label := range pr.Labels {
		result.Labels = append(result.Labels, label.GetName())
	}
	return result
}

// convertGitHubIssue maps a go-github issue onto the platform shape.
func convertGitHubIssue(issue *github.Issue) *Issue {
	return &Issue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		State:  issue.GetState(),
	}
}

// Compile-time interface check.
var _ Platform = (*GitHubAdapter)(nil)
