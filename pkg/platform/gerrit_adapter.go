package platform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andygrunwald/go-gerrit"
	"github.com/sgaunet/bullets"

	gerritclient "github.com/Onesty-Tech-GmbH/renovate/pkg/gerrit"
)

// gerritMaxBodyLength keeps commit messages within what Gerrit accepts for
// a change description.
const gerritMaxBodyLength = 16384

// defaultVoteLabel is the review label used for branch statuses when none
// is configured.
const defaultVoteLabel = "Verified"

// commentTagPrefix marks review messages this tool posted, so
// EnsureComment can find them again. Gerrit hides autogenerated-tagged
// messages from the default UI view.
const commentTagPrefix = "autogenerated:renovate:"

// GerritAdapter translates the platform vocabulary into Gerrit REST calls.
//
// Gerrit has no native pull requests: changes stand in for them. Since a
// change carries no source branch, the update branch name travels in the
// change topic, and FindPr queries by topic. Labels are mapped onto
// hashtags, and branch statuses onto review label votes.
type GerritAdapter struct {
	client    gerritclient.API
	log       *bullets.Logger
	endpoint  string
	voteLabel string

	repo         *RepoConfig
	prCache      []*Pr
	prCacheValid bool
}

// NewGerritAdapter creates a new Gerrit adapter. voteLabel is the review
// label used to publish branch statuses; empty selects "Verified".
func NewGerritAdapter(client gerritclient.API, endpoint, voteLabel string, log *bullets.Logger) *GerritAdapter {
	if voteLabel == "" {
		voteLabel = defaultVoteLabel
	}
	return &GerritAdapter{
		client:    client,
		log:       log,
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		voteLabel: voteLabel,
	}
}

// Name returns "gerrit".
func (a *GerritAdapter) Name() string {
	return string(KindGerrit)
}

// InitRepo establishes the per-project configuration cache.
func (a *GerritAdapter) InitRepo(repository string) (*RepoConfig, error) {
	a.client.SetProject(repository)
	a.repo = nil
	a.prCache = nil
	a.prCacheValid = false

	project, err := a.client.GetProject()
	if err != nil {
		if gerritclient.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrRepoNotFound, repository)
		}
		return nil, fmt.Errorf("failed to initialize project: %w", err)
	}

	if project.State != "ACTIVE" {
		return nil, fmt.Errorf("%w: project state is %s", ErrRepoArchived, project.State)
	}

	head, err := a.client.GetBranch("HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default branch: %w", err)
	}

	a.repo = &RepoConfig{
		Repository:    repository,
		Name:          repository,
		DefaultBranch: strings.TrimPrefix(head.Ref, "refs/heads/"),
		// Submit strategy is a server-side project setting; the adapter
		// accepts any requested strategy and lets Gerrit decide.
		AllowRebase:      true,
		AllowSquash:      true,
		AllowMergeCommit: true,
		HasIssues:        false,
	}

	a.log.Debugf("Initialized Gerrit project %s (default branch %s)", repository, a.repo.DefaultBranch)
	return a.repo, nil
}

// GetPrList returns the open changes, served from the cache when warm.
func (a *GerritAdapter) GetPrList() ([]*Pr, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}
	if a.prCacheValid {
		return a.prCache, nil
	}

	changes, err := a.client.QueryChanges([]string{"status:open"})
	if err != nil {
		return nil, fmt.Errorf("failed to list changes: %w", err)
	}

	a.prCache = make([]*Pr, 0, len(changes))
	for i := range changes {
		a.prCache = append(a.prCache, a.convertChange(&changes[i]))
	}
	a.prCacheValid = true
	return a.prCache, nil
}

// FindPr searches for a change by topic (the source branch). Open changes
// come from the cache; closed and merged states query directly.
func (a *GerritAdapter) FindPr(cfg FindPrConfig) (*Pr, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}

	state := cfg.State
	if state == "" {
		state = StateOpen
	}

	if state == StateOpen {
		prs, err := a.GetPrList()
		if err != nil {
			return nil, err
		}
		for _, pr := range prs {
			if pr.SourceBranch != cfg.BranchName {
				continue
			}
			if cfg.Title != "" && pr.Title != cfg.Title {
				continue
			}
			return pr, nil
		}
		return nil, nil
	}

	terms := []string{fmt.Sprintf("topic:%q", cfg.BranchName)}
	if term := gerritStateTerm(state); term != "" {
		terms = append(terms, term)
	}

	changes, err := a.client.QueryChanges(terms)
	if err != nil {
		return nil, fmt.Errorf("failed to find change: %w", err)
	}
	for i := range changes {
		pr := a.convertChange(&changes[i])
		if cfg.Title != "" && pr.Title != cfg.Title {
			continue
		}
		return pr, nil
	}
	return nil, nil
}

// gerritStateTerm maps a PrState onto a Gerrit query term.
func gerritStateTerm(state PrState) string {
	switch state {
	case StateOpen:
		return "status:open"
	case StateMerged:
		return "status:merged"
	case StateClosed:
		return "status:abandoned"
	default:
		return ""
	}
}

// GetBranchPr returns the open change for an update branch.
func (a *GerritAdapter) GetBranchPr(branchName string) (*Pr, error) {
	return a.FindPr(FindPrConfig{BranchName: branchName, State: StateOpen})
}

// GetPr fetches a change by number.
func (a *GerritAdapter) GetPr(number int) (*Pr, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}

	change, err := a.client.GetChange(strconv.Itoa(number))
	if err != nil {
		if gerritclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get change: %w", err)
	}
	return a.convertChange(change), nil
}

// CreatePr adopts the change already pushed via refs/for/<target> with the
// source branch as topic, applying title, body and labels. Gerrit creates
// changes on push, so there is nothing to create through the REST API.
func (a *GerritAdapter) CreatePr(cfg CreatePrConfig) (*Pr, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}

	terms := []string{
		fmt.Sprintf("topic:%q", cfg.SourceBranch),
		fmt.Sprintf("branch:%q", cfg.TargetBranch),
		"status:open",
	}
	changes, err := a.client.QueryChanges(terms)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}
	if len(changes) == 0 {
		return nil, fmt.Errorf("no open change found for branch %s; push it via refs/for/%s first",
			cfg.SourceBranch, cfg.TargetBranch)
	}

	change := &changes[0]
	changeID := strconv.Itoa(change.Number)

	message := gerritCommitMessage(cfg.Title, a.MassageMarkdown(cfg.Body), change.ChangeID)
	if err := a.client.SetCommitMessage(changeID, message); err != nil {
		return nil, fmt.Errorf("failed to apply change description: %w", err)
	}

	if len(cfg.Labels) > 0 {
		if _, err := a.client.SetHashtags(changeID, cfg.Labels, nil); err != nil {
			a.log.Warnf("Failed to set hashtags on change %s: %v", changeID, err)
		}
	}

	pr := a.convertChange(change)
	pr.Title = cfg.Title
	pr.Body = cfg.Body
	pr.Labels = cfg.Labels
	if a.prCacheValid {
		a.prCache = append([]*Pr{pr}, a.prCache...)
	}

	a.log.Infof("Adopted change %s for branch %s", changeID, cfg.SourceBranch)
	return pr, nil
}

// UpdatePr updates the change description or abandons the change.
func (a *GerritAdapter) UpdatePr(cfg UpdatePrConfig) error {
	if a.repo == nil {
		return ErrUninitialized
	}

	changeID := strconv.Itoa(cfg.Number)

	if cfg.State == StateClosed {
		if err := a.client.AbandonChange(changeID); err != nil {
			return fmt.Errorf("failed to abandon change: %w", err)
		}
		a.invalidateCache()
		return nil
	}

	if cfg.Title == "" && cfg.Body == "" {
		return nil
	}

	change, err := a.client.GetChange(changeID)
	if err != nil {
		return fmt.Errorf("failed to update change: %w", err)
	}

	title := cfg.Title
	if title == "" {
		title = change.Subject
	}
	body := cfg.Body
	if body == "" {
		body = gerritChangeBody(change)
	}

	message := gerritCommitMessage(title, a.MassageMarkdown(body), change.ChangeID)
	if err := a.client.SetCommitMessage(changeID, message); err != nil {
		return fmt.Errorf("failed to update change description: %w", err)
	}

	a.invalidateCache()
	return nil
}

func (a *GerritAdapter) invalidateCache() {
	a.prCache = nil
	a.prCacheValid = false
}

// MergePr submits the change. The merge strategy is a server-side project
// setting, so the requested strategy is ignored.
func (a *GerritAdapter) MergePr(cfg MergePrConfig) error {
	if a.repo == nil {
		return ErrUninitialized
	}
	if cfg.Strategy != StrategyAuto && cfg.Strategy != "" {
		a.log.Debugf("Gerrit decides the submit strategy server-side; ignoring %s", cfg.Strategy)
	}

	if err := a.client.SubmitChange(strconv.Itoa(cfg.Number)); err != nil {
		if gerritclient.IsConflict(err) {
			return fmt.Errorf("%w: %v", ErrNotMergeable, err)
		}
		return fmt.Errorf("failed to submit change: %w", err)
	}

	a.invalidateCache()
	a.log.Infof("Submitted change %d", cfg.Number)
	return nil
}

// GetBranchStatus derives the aggregate status of an update branch from the
// review label votes of its open change.
func (a *GerritAdapter) GetBranchStatus(branchName string) (BranchStatus, error) {
	change, err := a.findOpenChange(branchName)
	if err != nil {
		return "", err
	}
	if change == nil {
		return StatusYellow, nil
	}
	return aggregateGerritLabels(change.Labels), nil
}

// aggregateGerritLabels folds label votes into the three-valued status:
// any rejected vote is red, unapproved required labels are yellow, and
// green needs every required label approved. Optional labels carry no
// signal.
func aggregateGerritLabels(labels map[string]gerrit.LabelInfo) BranchStatus {
	var signals []BranchStatus
	for _, label := range labels {
		switch {
		case label.Rejected.AccountID != 0:
			signals = append(signals, StatusRed)
		case label.Optional:
			// no signal
		case label.Approved.AccountID != 0:
			signals = append(signals, StatusGreen)
		default:
			signals = append(signals, StatusYellow)
		}
	}
	if len(signals) == 0 {
		return StatusYellow
	}
	return WorstStatus(signals...)
}

// GetBranchStatusCheck reads a single label vote as a status check.
func (a *GerritAdapter) GetBranchStatusCheck(branchName, statusContext string) (*StatusCheck, error) {
	change, err := a.findOpenChange(branchName)
	if err != nil {
		return nil, err
	}
	if change == nil {
		return nil, nil
	}

	label, ok := change.Labels[statusContext]
	if !ok {
		return nil, nil
	}
	return &StatusCheck{
		Context: statusContext,
		State:   aggregateGerritLabels(map[string]gerrit.LabelInfo{statusContext: label}),
	}, nil
}

// SetBranchStatus publishes a status as a vote on the configured review
// label: green votes +1, red votes -1 and yellow resets to 0.
func (a *GerritAdapter) SetBranchStatus(branchName string, check StatusCheck) error {
	change, err := a.findOpenChange(branchName)
	if err != nil {
		return err
	}
	if change == nil {
		return fmt.Errorf("%w: no open change for branch %s", ErrUninitialized, branchName)
	}

	label := a.voteLabel
	if _, ok := change.Labels[check.Context]; ok {
		label = check.Context
	}

	input := &gerrit.ReviewInput{
		Message: check.Description,
		Labels:  map[string]int{label: gerritVote(check.State)},
	}
	if err := a.client.SetReview(strconv.Itoa(change.Number), input); err != nil {
		return fmt.Errorf("failed to set branch status: %w", err)
	}
	return nil
}

// gerritVote maps a branch status onto a label vote.
func gerritVote(state BranchStatus) int {
	switch state {
	case StatusGreen:
		return 1
	case StatusRed:
		return -1
	default:
		return 0
	}
}

// EnsureComment posts a review message when no message with the same topic
// tag and content exists. Gerrit prefixes messages with patch-set headers,
// so matching is on containment rather than equality.
func (a *GerritAdapter) EnsureComment(cfg EnsureCommentConfig) error {
	if a.repo == nil {
		return ErrUninitialized
	}

	change, err := a.client.GetChange(strconv.Itoa(cfg.Number))
	if err != nil {
		return fmt.Errorf("failed to ensure comment: %w", err)
	}

	desired := CommentBody(cfg.Topic, cfg.Content)
	tag := commentTagPrefix + cfg.Topic

	for i := range change.Messages {
		message := &change.Messages[i]
		if cfg.Topic != "" && message.Tag != tag {
			continue
		}
		if strings.Contains(message.Message, strings.TrimRight(desired, " \t\n")) {
			a.log.Debugf("Comment for topic %q is up to date on change %d", cfg.Topic, cfg.Number)
			return nil
		}
	}

	input := &gerrit.ReviewInput{
		Message: desired,
		Tag:     tag,
	}
	if err := a.client.SetReview(strconv.Itoa(cfg.Number), input); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	a.log.Debugf("Posted comment for topic %q on change %d", cfg.Topic, cfg.Number)
	return nil
}

// EnsureCommentRemoval is a no-op: Gerrit cannot delete change messages.
func (a *GerritAdapter) EnsureCommentRemoval(number int, topic string) error {
	a.log.Debugf("Gerrit cannot delete change messages; leaving topic %q on change %d", topic, number)
	return nil
}

// FindIssue always returns absent: Gerrit has no issue tracking.
func (a *GerritAdapter) FindIssue(_ string) (*Issue, error) {
	return nil, nil
}

// EnsureIssue is a warning no-op: Gerrit has no issue tracking.
func (a *GerritAdapter) EnsureIssue(cfg EnsureIssueConfig) error {
	a.log.Warnf("Gerrit has no issue tracking, skipping issue %q", cfg.Title)
	return nil
}

// EnsureIssueClosing is a no-op: Gerrit has no issue tracking.
func (a *GerritAdapter) EnsureIssueClosing(_ string) error {
	return nil
}

// GetIssueList returns an empty list: Gerrit has no issue tracking.
func (a *GerritAdapter) GetIssueList() ([]*Issue, error) {
	return nil, nil
}

// AddAssignees maps assignees onto reviewers: Gerrit's assignee concept is
// deprecated in favor of the attention set, which reviewers feed.
func (a *GerritAdapter) AddAssignees(number int, assignees []string) error {
	a.log.Debugf("Mapping %d assignees to reviewers on change %d", len(assignees), number)
	return a.AddReviewers(number, assignees)
}

// AddReviewers adds reviewers to the change.
func (a *GerritAdapter) AddReviewers(number int, reviewers []string) error {
	if a.repo == nil {
		return ErrUninitialized
	}

	changeID := strconv.Itoa(number)
	for _, reviewer := range reviewers {
		if err := a.client.AddReviewer(changeID, reviewer); err != nil {
			return fmt.Errorf("failed to add reviewers: %w", err)
		}
	}
	return nil
}

// DeleteLabel removes the hashtag standing in for the label.
func (a *GerritAdapter) DeleteLabel(number int, label string) error {
	if a.repo == nil {
		return ErrUninitialized
	}
	if _, err := a.client.SetHashtags(strconv.Itoa(number), nil, []string{label}); err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	return nil
}

// MassageMarkdown strips HTML comments, which Gerrit renders literally, and
// truncates to the commit-message limit.
func (a *GerritAdapter) MassageMarkdown(body string) string {
	return TruncateBody(StripHTMLComments(body), gerritMaxBodyLength)
}

// MaxBodyLength returns Gerrit's body size limit.
func (a *GerritAdapter) MaxBodyLength() int {
	return gerritMaxBodyLength
}

// findOpenChange locates the open change whose topic is the branch name.
func (a *GerritAdapter) findOpenChange(branchName string) (*gerrit.ChangeInfo, error) {
	if a.repo == nil {
		return nil, ErrUninitialized
	}

	terms := []string{fmt.Sprintf("topic:%q", branchName), "status:open"}
	changes, err := a.client.QueryChanges(terms)
	if err != nil {
		return nil, fmt.Errorf("failed to find change for branch %s: %w", branchName, err)
	}
	if len(changes) == 0 {
		return nil, nil
	}
	return &changes[0], nil
}

// convertChange maps a Gerrit change onto the platform shape.
func (a *GerritAdapter) convertChange(change *gerrit.ChangeInfo) *Pr {
	pr := &Pr{
		Number:       change.Number,
		Title:        change.Subject,
		Body:         gerritChangeBody(change),
		SourceBranch: change.Topic,
		TargetBranch: change.Branch,
		SHA:          change.CurrentRevision,
		URL:          fmt.Sprintf("%s/c/%s/+/%d", a.endpoint, change.Project, change.Number),
		Author:       change.Owner.Username,
		Labels:       change.Hashtags,
		IsDraft:      change.WorkInProgress,
		CreatedAt:    change.Created.Time,
	}

	switch change.Status {
	case "MERGED":
		pr.State = StateMerged
	case "ABANDONED":
		pr.State = StateClosed
	default:
		pr.State = StateOpen
	}
	return pr
}

// gerritChangeBody extracts the description from the current commit
// message: everything between the subject line and the footers.
func gerritChangeBody(change *gerrit.ChangeInfo) string {
	revision, ok := change.Revisions[change.CurrentRevision]
	if !ok {
		return ""
	}

	message := revision.Commit.Message
	_, rest, found := strings.Cut(message, "\n")
	if !found {
		return ""
	}

	// Drop the trailing footer block (Change-Id and friends).
	rest = strings.TrimSpace(rest)
	if idx := strings.LastIndex(rest, "\n\n"); idx >= 0 {
		if strings.Contains(rest[idx:], "Change-Id:") {
			rest = strings.TrimSpace(rest[:idx])
		}
	}
	return rest
}

// gerritCommitMessage renders a commit message that keeps the Change-Id
// footer, which Gerrit requires to stay attached to the change.
func gerritCommitMessage(title, body, changeID string) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(body, "\n"))
		b.WriteString("\n")
	}
	b.WriteString("\nChange-Id: ")
	b.WriteString(changeID)
	b.WriteString("\n")
	return b.String()
}

// Compile-time interface check.
var _ Platform = (*GerritAdapter)(nil)
