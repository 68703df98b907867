package updates

import (
	"fmt"
	"strings"

	"github.com/Onesty-Tech-GmbH/renovate/pkg/platform"
)

// Well-known titles and comment topics used for idempotent comments and
// issues on update pull requests.
const (
	// DashboardTitle is the title of the issue listing all pending
	// updates.
	DashboardTitle = "Dependency Dashboard"

	// TopicConflict marks the comment warning about merge conflicts.
	TopicConflict = "Merge Conflicts"

	// TopicStatusFailure marks the comment summarizing failing checks.
	TopicStatusFailure = "Failing Checks"
)

// RenderBody renders the pull-request description for an update.
func RenderBody(u *Update) string {
	var b strings.Builder

	b.WriteString("This PR contains the following update:\n\n")
	b.WriteString("| Dependency | Change | Type |\n")
	b.WriteString("|---|---|---|\n")
	fmt.Fprintf(&b, "| %s | `%s` -> `%s` | %s |\n",
		u.DepName, orNone(u.CurrentVersion), orNone(u.NewVersion), u.Kind)
	b.WriteString("\n---\n\n")
	b.WriteString("<!-- renovate-update-branch -->\n")

	return b.String()
}

// RenderConflictComment renders the comment posted when an update branch
// no longer merges cleanly.
func RenderConflictComment(branch string) string {
	return fmt.Sprintf(
		"This update branch has merge conflicts with its target branch.\n\n"+
			"Rebase `%s` or close this PR to get a fresh one.", branch)
}

// RenderStatusFailureComment renders the comment posted when an update
// branch's checks stay red.
func RenderStatusFailureComment(branch string) string {
	return fmt.Sprintf(
		"The checks on this update branch are failing.\n\n"+
			"The merge of `%s` is on hold until they pass again.", branch)
}

// RenderDashboard renders the body of the dependency dashboard issue from
// the open update pull requests.
func RenderDashboard(prs []*platform.Pr) string {
	var b strings.Builder

	b.WriteString("This issue lists all pending dependency updates.\n")

	open := make([]*platform.Pr, 0, len(prs))
	for _, pr := range prs {
		if pr.State == platform.StateOpen && IsUpdateBranch(pr.SourceBranch) {
			open = append(open, pr)
		}
	}

	if len(open) == 0 {
		b.WriteString("\nNo updates pending. This repository is up to date.\n")
		return b.String()
	}

	b.WriteString("\n## Open\n\n")
	for _, pr := range open {
		fmt.Fprintf(&b, "- [ ] [%s](%s) (`%s`)\n", pr.Title, pr.URL, pr.SourceBranch)
	}
	return b.String()
}

func orNone(version string) string {
	if version == "" {
		return "none"
	}
	return version
}
