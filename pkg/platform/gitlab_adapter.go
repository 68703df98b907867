package platform

import (
	"fmt"
	"strings"
	"time"

	"github.com/sgaunet/bullets"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	glclient "github.com/Onesty-Tech-GmbH/renovate/pkg/gitlab"
)

// gitlabMaxBodyLength keeps descriptions within what the GitLab UI renders
// without clipping.
const gitlabMaxBodyLength = 25000

// draftPrefix marks a merge request as draft through its title, which is
// how GitLab encodes the flag.
const draftPrefix = "Draft: "

// GitLabAdapter translates the platform vocabulary into GitLab REST calls.
// Merge requests stand in for pull requests and notes for comments.
type GitLabAdapter struct {
	client glclient.API
	log    *bullets.Logger

	repo         *RepoConfig
	prCache      []*Pr
	prCacheValid bool
}

// NewGitLabAdapter creates a new GitLab adapter.
func NewGitLabAdapter(client glclient.API, log *bullets.Logger) *GitLabAdapter {
	return &GitLabAdapter{client: client, log: log}
}

// Name returns "gitlab".
func (a *GitLabAdapter) Name() string {
	return string(KindGitLab)
}

// InitRepo establishes the per-project configuration cache.
func (a *GitLabAdapter) InitRepo(repository string) (*RepoConfig, error) {
	a.client.SetProject(repository)
	a.repo = nil
	a.prCache = nil
	a.prCacheValid = false

	project, err := a.client.GetProject()
	if err != nil {
		if glclient.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrRepoNotFound, repository)
		}
		return nil, fmt.Errorf("failed to initialize project: %w", err)
	}

	if project.Archived {
		return nil, fmt.Errorf("%w: %s", ErrRepoArchived, repository)
	}
	if !strings.EqualFold(project.PathWithNamespace, repository) {
		return nil, fmt.Errorf("%w: %s is now %s", ErrRepoRenamed, repository, project.PathWithNamespace)
	}

	a.repo = &RepoConfig{
		Repository:    repository,
		Name:          project.Path,
		DefaultBranch: project.DefaultBranch,
		// The project merge method constrains the strategies GitLab
		// accepts: "merge" permits merge commits, the other methods
		// require a linear history.
		AllowMergeCommit: project.MergeMethod == gitlab.NoFastForwardMerge,
		AllowRebase:      project.MergeMethod != gitlab.NoFastForwardMerge,
		AllowSquash:      project.SquashOption != gitlab.SquashOptionNever,
		HasIssues:        project.IssuesEnabled,
	}

	a.log.Debugf("Initialized GitLab project %s (default branch %s)", repository, project.DefaultBranch)
	return a.repo, nil
}

// GetPrList returns all merge requests of the project, served from the
// cache when warm.
func (a *GitLabAdapter) GetPrList() ([]*Pr, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}
	if a.prCacheValid {
		return a.prCache, nil
	}

	mrs, err := a.client.ListMergeRequests("all")
	if err != nil {
		return nil, fmt.Errorf("failed to list merge requests: %w", err)
	}

	a.prCache = make([]*Pr, 0, len(mrs))
	for _, mr := range mrs {
		a.prCache = append(a.prCache, convertBasicMergeRequest(mr))
	}
	a.prCacheValid = true
	return a.prCache, nil
}

// FindPr searches the merge request cache for a source branch, optionally
// narrowed by title and state.
func (a *GitLabAdapter) FindPr(cfg FindPrConfig) (*Pr, error) {
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

// GetBranchPr returns the open merge request for a source branch.
func (a *GitLabAdapter) GetBranchPr(branchName string) (*Pr, error) {
	return a.FindPr(FindPrConfig{BranchName: branchName, State: StateOpen})
}

// GetPr fetches a merge request by IID.
func (a *GitLabAdapter) GetPr(number int) (*Pr, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}

	mr, err := a.client.GetMergeRequest(number)
	if err != nil {
		if glclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get merge request: %w", err)
	}
	return convertMergeRequest(mr), nil
}

// CreatePr creates a new merge request.
func (a *GitLabAdapter) CreatePr(cfg CreatePrConfig) (*Pr, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}

	title := cfg.Title
	if cfg.Draft && !strings.HasPrefix(title, draftPrefix) {
		title = draftPrefix + title
	}

	opts := &gitlab.CreateMergeRequestOptions{
		Title:              gitlab.Ptr(title),
		Description:        gitlab.Ptr(a.MassageMarkdown(cfg.Body)),
		SourceBranch:       gitlab.Ptr(cfg.SourceBranch),
		TargetBranch:       gitlab.Ptr(cfg.TargetBranch),
		RemoveSourceBranch: gitlab.Ptr(true),
	}
	if len(cfg.Labels) > 0 {
		opts.Labels = (*gitlab.LabelOptions)(&cfg.Labels)
	}

	mr, err := a.client.CreateMergeRequest(opts)
	if err != nil {
		if glclient.IsNotAcceptable(err) {
			return nil, fmt.Errorf("%w: %v", ErrPrAlreadyExists, err)
		}
		return nil, fmt.Errorf("failed to create merge request: %w", err)
	}

	pr := convertMergeRequest(mr)
	if a.prCacheValid {
		a.prCache = append([]*Pr{pr}, a.prCache...)
	}

	a.log.Infof("Created merge request !%d: %s", pr.Number, pr.Title)
	return pr, nil
}

// UpdatePr updates title, body, labels or state of a merge request.
func (a *GitLabAdapter) UpdatePr(cfg UpdatePrConfig) error {
	if a.repo == nil {
		return ErrUninitialized
	}

	opts := &gitlab.UpdateMergeRequestOptions{}
	if cfg.Title != "" {
		opts.Title = gitlab.Ptr(cfg.Title)
	}
	if cfg.Body != "" {
		opts.Description = gitlab.Ptr(a.MassageMarkdown(cfg.Body))
	}
	if cfg.State == StateClosed {
		opts.StateEvent = gitlab.Ptr("close")
	}
	if cfg.State == StateOpen {
		opts.StateEvent = gitlab.Ptr("reopen")
	}
	if cfg.TargetBranch != "" {
		opts.TargetBranch = gitlab.Ptr(cfg.TargetBranch)
	}

	mr, err := a.client.UpdateMergeRequest(cfg.Number, opts)
	if err != nil {
		return fmt.Errorf("failed to update merge request: %w", err)
	}

	a.refreshCachedPr(convertMergeRequest(mr))
	return nil
}

// refreshCachedPr replaces the cached entry for an updated merge request.
func (a *GitLabAdapter) refreshCachedPr(pr *Pr) {
	if !a.prCacheValid {
		return
	}
	for i, cached := range a.prCache {
		if cached.Number == pr.Number {
			a.prCache[i] = pr
			return
		}
	}
}

// MergePr merges a merge request, walking the strategy fallback chain when
// the requested strategy is StrategyAuto. GitLab fixes the merge method at
// the project level, so the chain only varies the squash flag.
func (a *GitLabAdapter) MergePr(cfg MergePrConfig) error {
	if a.repo == nil {
		return ErrUninitialized
	}

	strategies := a.repo.AllowedStrategies(cfg.Strategy)
	if len(strategies) == 0 {
		return fmt.Errorf("%w: repository permits no merge strategy", ErrNotMergeable)
	}

	var lastErr error
	for _, strategy := range strategies {
		opts := &gitlab.AcceptMergeRequestOptions{
			Squash:                   gitlab.Ptr(strategy == StrategySquash),
			ShouldRemoveSourceBranch: gitlab.Ptr(true),
		}

		err := a.client.AcceptMergeRequest(cfg.Number, opts)
		if err == nil {
			a.markCachedPrMerged(cfg.Number)
			a.log.Infof("Merged merge request !%d with strategy %s", cfg.Number, strategy)
			return nil
		}
		if !glclient.IsNotAcceptable(err) {
			return fmt.Errorf("failed to merge merge request: %w", err)
		}

		a.log.Debugf("Strategy %s rejected for !%d: %v", strategy, cfg.Number, err)
		lastErr = err
	}

	return fmt.Errorf("%w: %v", ErrNotMergeable, lastErr)
}

func (a *GitLabAdapter) markCachedPrMerged(number int) {
	if !a.prCacheValid {
		return
	}
	for _, cached := range a.prCache {
		if cached.Number == number {
			cached.State = StateMerged
			return
		}
	}
}

// GetBranchStatus aggregates the commit statuses of a branch head into the
// three-valued summary.
func (a *GitLabAdapter) GetBranchStatus(branchName string) (BranchStatus, error) {
	statuses, err := a.branchStatuses(branchName)
	if err != nil {
		return "", err
	}
	if len(statuses) == 0 {
		return StatusYellow, nil
	}

	signals := make([]BranchStatus, 0, len(statuses))
	for _, status := range statuses {
		signals = append(signals, statusFromGitLabState(status.Status))
	}
	return WorstStatus(signals...), nil
}

// GetBranchStatusCheck reads a single named status of a branch head.
func (a *GitLabAdapter) GetBranchStatusCheck(branchName, statusContext string) (*StatusCheck, error) {
	statuses, err := a.branchStatuses(branchName)
	if err != nil {
		return nil, err
	}

	for _, status := range statuses {
		if status.Name != statusContext {
			continue
		}
		return &StatusCheck{
			Context:     status.Name,
			Description: status.Description,
			State:       statusFromGitLabState(status.Status),
			URL:         status.TargetURL,
		}, nil
	}
	return nil, nil
}

// branchStatuses returns the deduplicated statuses of the branch head,
// keeping the newest report per name.
func (a *GitLabAdapter) branchStatuses(branchName string) ([]*gitlab.CommitStatus, error) {
	sha, err := a.branchHead(branchName)
	if err != nil {
		return nil, err
	}

	statuses, err := a.client.GetCommitStatuses(sha)
	if err != nil {
		return nil, fmt.Errorf("failed to get branch status for %s: %w", branchName, err)
	}

	seen := make(map[string]bool, len(statuses))
	deduped := make([]*gitlab.CommitStatus, 0, len(statuses))
	for _, status := range statuses {
		if seen[status.Name] {
			continue
		}
		seen[status.Name] = true
		deduped = append(deduped, status)
	}
	return deduped, nil
}

// branchHead resolves the head SHA of an update branch through its open
// merge request.
func (a *GitLabAdapter) branchHead(branchName string) (string, error) {
	pr, err := a.GetBranchPr(branchName)
	if err != nil {
		return "", err
	}
	if pr == nil || pr.SHA == "" {
		return "", fmt.Errorf("%w: no open merge request for branch %s", ErrUninitialized, branchName)
	}
	return pr.SHA, nil
}

// statusFromGitLabState maps a commit status state onto the three-valued
// summary.
func statusFromGitLabState(state string) BranchStatus {
	switch state {
	case "success", "skipped":
		return StatusGreen
	case "failed", "canceled":
		return StatusRed
	default:
		// pending, running, created, manual, waiting_for_resource
		return StatusYellow
	}
}

// SetBranchStatus reports a status on the head commit of a branch.
func (a *GitLabAdapter) SetBranchStatus(branchName string, check StatusCheck) error {
	sha, err := a.branchHead(branchName)
	if err != nil {
		return err
	}

	opts := &gitlab.SetCommitStatusOptions{
		State:       buildStateFromStatus(check.State),
		Context:     gitlab.Ptr(check.Context),
		Description: gitlab.Ptr(check.Description),
	}
	if check.URL != "" {
		opts.TargetURL = gitlab.Ptr(check.URL)
	}

	if err := a.client.SetCommitStatus(sha, opts); err != nil {
		return fmt.Errorf("failed to set branch status: %w", err)
	}
	return nil
}

// buildStateFromStatus maps the three-valued summary onto a commit status
// state.
func buildStateFromStatus(state BranchStatus) gitlab.BuildStateValue {
	switch state {
	case StatusGreen:
		return gitlab.Success
	case StatusRed:
		return gitlab.Failed
	default:
		return gitlab.Pending
	}
}

// EnsureComment creates or updates the note identified by its topic,
// leaving matching content untouched.
func (a *GitLabAdapter) EnsureComment(cfg EnsureCommentConfig) error {
	if a.repo == nil {
		return ErrUninitialized
	}

	iid := cfg.Number
	notes, err := a.client.ListMergeRequestNotes(iid)
	if err != nil {
		return fmt.Errorf("failed to ensure comment: %w", err)
	}

	desired := CommentBody(cfg.Topic, cfg.Content)
	for _, note := range notes {
		if cfg.Topic != "" && !CommentMatchesTopic(note.Body, cfg.Topic) {
			continue
		}
		if cfg.Topic == "" && !ContentEqual(note.Body, cfg.Content) {
			continue
		}
		if ContentEqual(note.Body, desired) {
			a.log.Debugf("Note for topic %q is up to date on !%d", cfg.Topic, cfg.Number)
			return nil
		}
		if err := a.client.UpdateMergeRequestNote(iid, note.ID, desired); err != nil {
			return fmt.Errorf("failed to update comment: %w", err)
		}
		a.log.Debugf("Updated note for topic %q on !%d", cfg.Topic, cfg.Number)
		return nil
	}

	if err := a.client.CreateMergeRequestNote(iid, desired); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	a.log.Debugf("Posted note for topic %q on !%d", cfg.Topic, cfg.Number)
	return nil
}

// EnsureCommentRemoval deletes the note identified by its topic, if any.
func (a *GitLabAdapter) EnsureCommentRemoval(number int, topic string) error {
	if a.repo == nil {
		return ErrUninitialized
	}

	iid := number
	notes, err := a.client.ListMergeRequestNotes(iid)
	if err != nil {
		return fmt.Errorf("failed to ensure comment removal: %w", err)
	}

	for _, note := range notes {
		if !CommentMatchesTopic(note.Body, topic) {
			continue
		}
		if err := a.client.DeleteMergeRequestNote(iid, note.ID); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		a.log.Debugf("Deleted note for topic %q on !%d", topic, number)
		return nil
	}
	return nil
}

// FindIssue returns the newest open issue with the given title.
func (a *GitLabAdapter) FindIssue(title string) (*Issue, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}
	if !a.repo.HasIssues {
		return nil, nil
	}

	issues, err := a.client.ListIssues("opened")
	if err != nil {
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}

	for _, issue := range issues {
		if issue.Title == title {
			return convertGitLabIssue(issue), nil
		}
	}
	return nil, nil
}

// EnsureIssue creates or updates the issue identified by its title. Extra
// open issues with the same title are closed, keeping the first.
func (a *GitLabAdapter) EnsureIssue(cfg EnsureIssueConfig) error {
	if a.repo == nil {
		return ErrUninitialized
	}
	if !a.repo.HasIssues {
		a.log.Warnf("Issue tracking is disabled for %s, skipping issue %q", a.repo.Repository, cfg.Title)
		return nil
	}

	// Closed issues count: a closed match must block re-creation unless
	// Reopen asks for it.
	issues, err := a.client.ListIssues("all")
	if err != nil {
		return fmt.Errorf("failed to ensure issue: %w", err)
	}

	var existing *gitlab.Issue
	for _, issue := range issues {
		if issue.Title != cfg.Title {
			continue
		}
		if existing == nil {
			existing = issue
			continue
		}
		if issue.State == "opened" {
			a.log.Warnf("Closing duplicate issue #%d: %s", issue.IID, issue.Title)
			closeOpts := &gitlab.UpdateIssueOptions{StateEvent: gitlab.Ptr("close")}
			if _, err := a.client.UpdateIssue(issue.IID, closeOpts); err != nil {
				return fmt.Errorf("failed to close duplicate issue: %w", err)
			}
		}
	}

	body := a.MassageMarkdown(cfg.Body)

	if existing == nil {
		opts := &gitlab.CreateIssueOptions{
			Title:       gitlab.Ptr(cfg.Title),
			Description: gitlab.Ptr(body),
		}
		if len(cfg.Labels) > 0 {
			opts.Labels = (*gitlab.LabelOptions)(&cfg.Labels)
		}
		if _, err := a.client.CreateIssue(opts); err != nil {
			return fmt.Errorf("failed to create issue: %w", err)
		}
		a.log.Infof("Created issue: %s", cfg.Title)
		return nil
	}

	if existing.State != "opened" && !cfg.Reopen {
		a.log.Debugf("Issue %q exists but is closed, not reopening", cfg.Title)
		return nil
	}
	if existing.State == "opened" && ContentEqual(existing.Description, body) {
		a.log.Debugf("Issue %q is up to date", cfg.Title)
		return nil
	}

	opts := &gitlab.UpdateIssueOptions{Description: gitlab.Ptr(body)}
	if existing.State != "opened" {
		opts.StateEvent = gitlab.Ptr("reopen")
	}
	if _, err := a.client.UpdateIssue(existing.IID, opts); err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}
	a.log.Debugf("Updated issue: %s", cfg.Title)
	return nil
}

// EnsureIssueClosing closes every open issue with the given title.
func (a *GitLabAdapter) EnsureIssueClosing(title string) error {
	if a.repo == nil {
		return ErrUninitialized
	}
	if !a.repo.HasIssues {
		return nil
	}

	issues, err := a.client.ListIssues("opened")
	if err != nil {
		return fmt.Errorf("failed to ensure issue closing: %w", err)
	}

	for _, issue := range issues {
		if issue.Title != title {
			continue
		}
		opts := &gitlab.UpdateIssueOptions{StateEvent: gitlab.Ptr("close")}
		if _, err := a.client.UpdateIssue(issue.IID, opts); err != nil {
			return fmt.Errorf("failed to close issue: %w", err)
		}
		a.log.Debugf("Closed issue #%d: %s", issue.IID, title)
	}
	return nil
}

// GetIssueList returns the open issues created by the tool's account.
func (a *GitLabAdapter) GetIssueList() ([]*Issue, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}
	if !a.repo.HasIssues {
		return nil, nil
	}

	issues, err := a.client.ListIssues("opened")
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	result := make([]*Issue, 0, len(issues))
	for _, issue := range issues {
		result = append(result, convertGitLabIssue(issue))
	}
	return result, nil
}

// AddAssignees assigns users to a merge request.
func (a *GitLabAdapter) AddAssignees(number int, assignees []string) error {
	ids, err := a.lookupUsers(assignees)
	if err != nil {
		return fmt.Errorf("failed to add assignees: %w", err)
	}

	opts := &gitlab.UpdateMergeRequestOptions{AssigneeIDs: &ids}
	if _, err := a.client.UpdateMergeRequest(number, opts); err != nil {
		return fmt.Errorf("failed to add assignees: %w", err)
	}
	return nil
}

// AddReviewers requests reviews on a merge request.
func (a *GitLabAdapter) AddReviewers(number int, reviewers []string) error {
	ids, err := a.lookupUsers(reviewers)
	if err != nil {
		return fmt.Errorf("failed to add reviewers: %w", err)
	}

	opts := &gitlab.UpdateMergeRequestOptions{ReviewerIDs: &ids}
	if _, err := a.client.UpdateMergeRequest(number, opts); err != nil {
		return fmt.Errorf("failed to add reviewers: %w", err)
	}
	return nil
}

func (a *GitLabAdapter) lookupUsers(usernames []string) ([]int, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}

	ids := make([]int, 0, len(usernames))
	for _, username := range usernames {
		id, err := a.client.LookupUser(username)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DeleteLabel removes a label from a merge request.
func (a *GitLabAdapter) DeleteLabel(number int, label string) error {
	if a.repo == nil {
		return ErrUninitialized
	}

	remove := gitlab.LabelOptions{label}
	opts := &gitlab.UpdateMergeRequestOptions{RemoveLabels: &remove}
	if _, err := a.client.UpdateMergeRequest(number, opts); err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	return nil
}

// MassageMarkdown truncates the body to GitLab's rendering limit.
func (a *GitLabAdapter) MassageMarkdown(body string) string {
	return TruncateBody(body, gitlabMaxBodyLength)
}

// MaxBodyLength returns GitLab's body size limit.
func (a *GitLabAdapter) MaxBodyLength() int {
	return gitlabMaxBodyLength
}

// convertBasicMergeRequest maps a list-view merge request onto the platform
// shape.
func convertBasicMergeRequest(mr *gitlab.BasicMergeRequest) *Pr {
	return &Pr{
		Number:       mr.IID,
		Title:        strings.TrimPrefix(mr.Title, draftPrefix),
		Body:         mr.Description,
		SourceBranch: mr.SourceBranch,
		TargetBranch: mr.TargetBranch,
		State:        prStateFromGitLab(mr.State),
		SHA:          mr.SHA,
		URL:          mr.WebURL,
		Author:       usernameOrEmpty(mr.Author),
		Labels:       mr.Labels,
		IsDraft:      mr.Draft,
		CreatedAt:    timeOrZero(mr.CreatedAt),
	}
}

// convertMergeRequest maps a detail-view merge request onto the platform
// shape.
func convertMergeRequest(mr *gitlab.MergeRequest) *Pr {
	return &Pr{
		Number:       mr.IID,
		Title:        strings.TrimPrefix(mr.Title, draftPrefix),
		Body:         mr.Description,
		SourceBranch: mr.SourceBranch,
		TargetBranch: mr.TargetBranch,
		State:        prStateFromGitLab(mr.State),
		SHA:          mr.SHA,
		URL:          mr.WebURL,
		Author:       usernameOrEmpty(mr.Author),
		Labels:       mr.Labels,
		IsDraft:      mr.Draft,
		CreatedAt:    timeOrZero(mr.CreatedAt),
	}
}

// prStateFromGitLab maps a merge request state onto the platform state.
func prStateFromGitLab(state string) PrState {
	switch state {
	case "merged":
		return StateMerged
	case "closed", "locked":
		return StateClosed
	default:
		return StateOpen
	}
}

// convertGitLabIssue maps an issue onto the platform shape. GitLab uses
// "opened" where the platform vocabulary says "open".
func convertGitLabIssue(issue *gitlab.Issue) *Issue {
	state := "open"
	if issue.State == "closed" {
		state = "closed"
	}
	return &Issue{
		Number: issue.IID,
		Title:  issue.Title,
		Body:   issue.Description,
		State:  state,
	}
}

// usernameOrEmpty guards against list payloads without author expansion.
func usernameOrEmpty(user *gitlab.BasicUser) string {
	if user == nil {
		return ""
	}
	return user.Username
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// Compile-time interface check.
var _ Platform = (*GitLabAdapter)(nil)
