// Package main provides the entry point for the renovate-platform CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sgaunet/bullets"
	"github.com/spf13/cobra"

	"github.com/Onesty-Tech-GmbH/renovate/internal/labels"
	"github.com/Onesty-Tech-GmbH/renovate/internal/logger"
	"github.com/Onesty-Tech-GmbH/renovate/internal/security"
	"github.com/Onesty-Tech-GmbH/renovate/internal/timeutil"
	"github.com/Onesty-Tech-GmbH/renovate/internal/ui"
	"github.com/Onesty-Tech-GmbH/renovate/pkg/config"
	"github.com/Onesty-Tech-GmbH/renovate/pkg/git"
	"github.com/Onesty-Tech-GmbH/renovate/pkg/platform"
	"github.com/Onesty-Tech-GmbH/renovate/pkg/updates"
)

const (
	statusPollInterval   = 10 * time.Second
	defaultStatusTimeout = 30 * time.Minute
)

var (
	errOnMainBranch     = errors.New("you are on the main branch. Please checkout an update branch")
	errNotUpdateBranch  = errors.New("current branch is not an update branch")
	errNothingToPush    = errors.New("update branch has no commits ahead of the default branch")
	errNoPrForBranch    = errors.New("no open pull request for branch")
	errChecksNotGreen   = errors.New("branch checks did not turn green")
	errInvalidState     = errors.New("invalid status state")
	errMergeNotAccepted = errors.New("merge not confirmed")
)

var (
	logLevel     string
	platformName string
	endpoint     string
	repository   string
	log          *bullets.Logger
)

var rootCmd = &cobra.Command{
	Use:   "renovate-platform",
	Short: "Provider-agnostic dependency update operations",
	Long: `renovate-platform drives dependency update branches through their
pull-request lifecycle on GitHub, GitLab and Gerrit through one uniform
vocabulary: find or create the PR for an update branch, watch its checks,
merge it and maintain the dependency dashboard.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "",
		"Set log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&platformName, "platform", "",
		"Force the provider (github, gitlab, gerrit) instead of detecting it")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "",
		"Provider base URL for self-hosted instances")
	rootCmd.PersistentFlags().StringVar(&repository, "repository", "",
		"Project to operate on (owner/repo) instead of detecting it")

	rootCmd.AddCommand(prCmd)
	prCmd.AddCommand(prListCmd, prCreateCmd, prMergeCmd)
	rootCmd.AddCommand(statusCmd)
	statusCmd.AddCommand(statusGetCmd, statusSetCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(dashboardCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", security.SanitizeError(err))
		os.Exit(1)
	}
}

// session bundles everything a subcommand needs once the provider adapter
// is initialized.
type session struct {
	cfg  *config.Config
	repo *git.Repository
	p    platform.Platform
	rc   *platform.RepoConfig
}

// setup loads configuration, opens the local repository and initializes the
// provider adapter. Flags override the configuration file, which overrides
// detection from the git remote.
func setup() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	log = logger.NewLogger(logLevel)

	repo, err := git.OpenRepository(".")
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	repo.SetLogger(log)

	kindName := platformName
	if kindName == "" {
		kindName = cfg.Platform
	}

	var kind platform.Kind
	if kindName != "" {
		kind, err = platform.ParseKind(kindName)
	} else {
		kind, err = repo.DetectPlatform()
	}
	if err != nil {
		return nil, err
	}
	log.Infof("Platform: %s", kind)

	if endpoint == "" {
		endpoint = cfg.Endpoint
	}

	project := repository
	if project == "" {
		project = cfg.Repository
	}
	if project == "" {
		remoteURL, err := repo.GetRemoteURL("origin")
		if err != nil {
			return nil, err
		}
		log.Debugf("Detecting project from remote %s", security.SanitizeURL(remoteURL))
		project, err = git.ProjectPath(remoteURL, kind)
		if err != nil {
			return nil, err
		}
	}

	p, err := platform.NewPlatform(kind, platform.Config{
		Endpoint:        endpoint,
		GerritVoteLabel: cfg.Gerrit.VoteLabel,
	}, log)
	if err != nil {
		return nil, err
	}

	rc, err := p.InitRepo(project)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repository %s: %w", project, err)
	}
	log.Infof("Repository: %s (default branch %s)", rc.Repository, rc.DefaultBranch)

	return &session{cfg: cfg, repo: repo, p: p, rc: rc}, nil
}

var prCmd = &cobra.Command{
	Use:   "pr",
	Short: "Manage update pull requests",
}

var prListState string

var prListCmd = &cobra.Command{
	Use:   "list",
	Short: "List update pull requests",
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := setup()
		if err != nil {
			return err
		}

		prs, err := s.p.GetPrList()
		if err != nil {
			return err
		}

		state := platform.PrState(prListState)
		for _, pr := range prs {
			if state != platform.StateAll && pr.State != state {
				continue
			}
			if !updates.IsUpdateBranch(pr.SourceBranch) {
				continue
			}
			if s.cfg.IsIgnoredAuthor(pr.Author) {
				continue
			}
			fmt.Printf("#%d\t%s\t%s\t%s\n", pr.Number, pr.State, pr.SourceBranch, pr.Title)
		}
		return nil
	},
}

var prCreateSelectLabels bool

var prCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create or update the pull request for the current update branch",
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := setup()
		if err != nil {
			return err
		}
		return runPrCreate(s)
	},
}

var (
	prMergeStrategy string
	prMergeYes      bool
	prMergeTimeout  time.Duration
)

var prMergeCmd = &cobra.Command{
	Use:   "merge [number]",
	Short: "Merge an update pull request once its checks are green",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := setup()
		if err != nil {
			return err
		}
		return runPrMerge(s, args)
	},
}

func init() {
	prListCmd.Flags().StringVar(&prListState, "state", "open",
		"Filter by state (open, closed, merged, all)")
	prCreateCmd.Flags().BoolVar(&prCreateSelectLabels, "select-labels", false,
		"Interactively confirm the labels before creating the pull request")
	prMergeCmd.Flags().StringVar(&prMergeStrategy, "strategy", "",
		"Merge strategy (auto, rebase, squash, merge-commit)")
	prMergeCmd.Flags().BoolVarP(&prMergeYes, "yes", "y", false,
		"Merge without interactive confirmation")
	prMergeCmd.Flags().DurationVar(&prMergeTimeout, "timeout", defaultStatusTimeout,
		"How long to wait for checks to turn green")
}

func runPrCreate(s *session) error {
	branch, err := s.repo.GetCurrentBranch()
	if err != nil {
		return err
	}
	if branch == s.rc.DefaultBranch {
		return errOnMainBranch
	}
	if !updates.IsUpdateBranch(branch) {
		return fmt.Errorf("%w: %s", errNotUpdateBranch, branch)
	}

	// Guard against pushing a branch that carries nothing. The count can
	// fail when the default branch has no local ref, in which case the
	// provider is left to judge the push.
	commits, err := s.repo.GetCommitsSince(s.rc.DefaultBranch)
	if err != nil {
		log.Debugf("Could not count commits ahead of %s: %v", s.rc.DefaultBranch, err)
	} else if len(commits) == 0 {
		return fmt.Errorf("%w: %s", errNothingToPush, branch)
	}

	message, err := s.repo.GetLatestCommitMessage()
	if err != nil {
		return err
	}
	title, _ := splitMessage(message)

	update, err := updates.ParseCommitTitle(title, "")
	if err != nil {
		return err
	}

	log.Infof("Pushing branch %s", branch)
	if s.p.Name() == string(platform.KindGerrit) {
		err = s.repo.PushForReview(branch, s.rc.DefaultBranch)
	} else {
		err = s.repo.PushBranch(branch)
	}
	if err != nil {
		return fmt.Errorf("failed to push branch: %w", err)
	}

	prLabels := labels.ForUpdate(update.Kind, nil, s.cfg.Labels)
	if prCreateSelectLabels {
		prLabels, err = ui.SelectLabels(prLabels, prLabels)
		if err != nil {
			return err
		}
	}

	pr, err := s.p.CreatePr(platform.CreatePrConfig{
		SourceBranch: branch,
		TargetBranch: s.rc.DefaultBranch,
		Title:        update.Title(),
		Body:         updates.RenderBody(update),
		Labels:       prLabels,
	})
	if errors.Is(err, platform.ErrPrAlreadyExists) {
		log.Warnf("Pull request already exists for branch %s", branch)
		pr, err = s.p.GetBranchPr(branch)
	}
	if err != nil {
		return err
	}

	if len(s.cfg.Assignees) > 0 {
		if err := s.p.AddAssignees(pr.Number, s.cfg.Assignees); err != nil {
			log.Warnf("Failed to add assignees: %v", err)
		}
	}
	if len(s.cfg.Reviewers) > 0 {
		if err := s.p.AddReviewers(pr.Number, s.cfg.Reviewers); err != nil {
			log.Warnf("Failed to add reviewers: %v", err)
		}
	}

	log.Infof("Pull request ready: %s", pr.URL)
	return nil
}

func runPrMerge(s *session, args []string) error {
	pr, err := resolvePr(s, args)
	if err != nil {
		return err
	}
	if pr == nil {
		return fmt.Errorf("%w", errNoPrForBranch)
	}

	if !prMergeYes {
		confirmed, err := ui.ConfirmMerge(pr)
		if err != nil {
			return err
		}
		if !confirmed {
			return errMergeNotAccepted
		}
	}

	if err := waitForGreen(s, pr.SourceBranch); err != nil {
		if errors.Is(err, errChecksNotGreen) {
			postMergeBlocker(s, pr, updates.TopicStatusFailure,
				updates.RenderStatusFailureComment(pr.SourceBranch))
		}
		return err
	}

	strategy := platform.MergeStrategy(prMergeStrategy)
	if strategy == "" {
		strategy = s.cfg.Strategy()
	}

	log.Infof("Merging #%d with strategy %s", pr.Number, strategy)
	if err := s.p.MergePr(platform.MergePrConfig{
		Number:       pr.Number,
		Strategy:     strategy,
		SourceBranch: pr.SourceBranch,
	}); err != nil {
		if errors.Is(err, platform.ErrNotMergeable) {
			postMergeBlocker(s, pr, updates.TopicConflict,
				updates.RenderConflictComment(pr.SourceBranch))
		}
		return err
	}
	log.Info("Pull request merged successfully")

	current, err := s.repo.GetCurrentBranch()
	if err == nil && current == pr.SourceBranch {
		// The remote HEAD is the freshest view of the main branch; the
		// provider's cached default is the fallback.
		mainBranch, err := s.repo.GetMainBranch()
		if err != nil {
			mainBranch = s.rc.DefaultBranch
		}
		report := s.repo.Cleanup(mainBranch, pr.SourceBranch)
		if !report.Success() {
			return report.FirstError()
		}
	}
	return nil
}

// postMergeBlocker leaves a topic comment on the pull request explaining
// why the merge did not happen. A failure to comment only warns; the
// caller reports the merge error itself.
func postMergeBlocker(s *session, pr *platform.Pr, topic, content string) {
	err := s.p.EnsureComment(platform.EnsureCommentConfig{
		Number:  pr.Number,
		Topic:   topic,
		Content: content,
	})
	if err != nil {
		log.Warnf("Failed to post %q comment on #%d: %v", topic, pr.Number, err)
	}
}

// resolvePr finds the pull request to act on: an explicit number, the
// current update branch, or an interactive pick from the open updates.
func resolvePr(s *session, args []string) (*platform.Pr, error) {
	if len(args) == 1 {
		number := 0
		if _, err := fmt.Sscanf(args[0], "%d", &number); err != nil {
			return nil, fmt.Errorf("invalid pull request number %q", args[0])
		}
		return s.p.GetPr(number)
	}

	branch, err := s.repo.GetCurrentBranch()
	if err == nil && updates.IsUpdateBranch(branch) {
		return s.p.GetBranchPr(branch)
	}

	prs, err := s.p.GetPrList()
	if err != nil {
		return nil, err
	}
	open := make([]*platform.Pr, 0, len(prs))
	for _, pr := range prs {
		if pr.State == platform.StateOpen && updates.IsUpdateBranch(pr.SourceBranch) {
			open = append(open, pr)
		}
	}
	return ui.SelectPr(open)
}

// waitForGreen polls the aggregate branch status until it turns green, the
// timeout expires, or it turns red.
func waitForGreen(s *session, branch string) error {
	start := time.Now()
	for {
		status, err := s.p.GetBranchStatus(branch)
		if err != nil {
			return err
		}

		elapsed := timeutil.FormatDuration(time.Since(start))
		switch status {
		case platform.StatusGreen:
			log.Infof("Checks green after %s", elapsed)
			return nil
		case platform.StatusRed:
			return fmt.Errorf("%w: status is red after %s", errChecksNotGreen, elapsed)
		}

		if time.Since(start) > prMergeTimeout {
			return fmt.Errorf("%w: timeout after %s", errChecksNotGreen, elapsed)
		}
		log.Debugf("Checks still %s after %s", status, elapsed)
		time.Sleep(statusPollInterval)
	}
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Read and write branch statuses",
}

var statusGetCmd = &cobra.Command{
	Use:   "get <branch>",
	Short: "Print the aggregate status of a branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := setup()
		if err != nil {
			return err
		}

		status, err := s.p.GetBranchStatus(args[0])
		if err != nil {
			return err
		}
		fmt.Println(status)
		return nil
	},
}

var statusSetDescription string

var statusSetCmd = &cobra.Command{
	Use:   "set <branch> <context> <green|yellow|red>",
	Short: "Report a status on a branch head",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := setup()
		if err != nil {
			return err
		}

		state := platform.BranchStatus(args[2])
		switch state {
		case platform.StatusGreen, platform.StatusYellow, platform.StatusRed:
		default:
			return fmt.Errorf("%w: %q", errInvalidState, args[2])
		}

		return s.p.SetBranchStatus(args[0], platform.StatusCheck{
			Context:     args[1],
			Description: statusSetDescription,
			State:       state,
		})
	},
}

var (
	commentTopic  string
	commentRemove bool
)

var commentCmd = &cobra.Command{
	Use:   "comment <number> [content]",
	Short: "Ensure or remove a topic comment on a pull request",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := setup()
		if err != nil {
			return err
		}

		number := 0
		if _, err := fmt.Sscanf(args[0], "%d", &number); err != nil {
			return fmt.Errorf("invalid pull request number %q", args[0])
		}

		if commentRemove {
			return s.p.EnsureCommentRemoval(number, commentTopic)
		}
		if len(args) < 2 {
			return errors.New("content is required unless --remove is set")
		}
		return s.p.EnsureComment(platform.EnsureCommentConfig{
			Number:  number,
			Topic:   commentTopic,
			Content: args[1],
		})
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Create or refresh the dependency dashboard issue",
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := setup()
		if err != nil {
			return err
		}

		if !s.rc.HasIssues {
			log.Warn("Issues are disabled on this repository, skipping dashboard")
			return nil
		}

		prs, err := s.p.GetPrList()
		if err != nil {
			return err
		}

		listed := make([]*platform.Pr, 0, len(prs))
		for _, pr := range prs {
			if s.cfg.IsIgnoredAuthor(pr.Author) {
				continue
			}
			listed = append(listed, pr)
		}

		return s.p.EnsureIssue(platform.EnsureIssueConfig{
			Title:  updates.DashboardTitle,
			Body:   updates.RenderDashboard(listed),
			Reopen: true,
		})
	},
}

func init() {
	statusSetCmd.Flags().StringVar(&statusSetDescription, "description", "",
		"Human-readable status description")
	commentCmd.Flags().StringVar(&commentTopic, "topic", "",
		"Comment topic used for idempotent updates")
	commentCmd.Flags().BoolVar(&commentRemove, "remove", false,
		"Remove the topic comment instead of ensuring it")
}

func splitMessage(message string) (string, string) {
	for i := 0; i < len(message); i++ {
		if message[i] == '\n' {
			return message[:i], message[i+1:]
		}
	}
	return message, ""
}
