package fixtures

import (
	"fmt"
	"time"

	"github.com/andygrunwald/go-gerrit"
)

// Test constants for Gerrit fixtures.
const (
	DefaultChangeNumber = 4711
	DefaultChangeID     = "I8473b95934b5732ac55d26311a706c9c2bde9940"
	DefaultRevision     = "674ac754f91e64a0efb8087e59a176484bd534d1"
)

// Gerrit fixtures for common test scenarios

// ActiveGerritProject returns project metadata in the ACTIVE state.
func ActiveGerritProject(name string) *gerrit.ProjectInfo {
	return &gerrit.ProjectInfo{
		ID:    name,
		Name:  name,
		State: "ACTIVE",
	}
}

// ReadOnlyGerritProject returns project metadata in the READ_ONLY state.
func ReadOnlyGerritProject(name string) *gerrit.ProjectInfo {
	project := ActiveGerritProject(name)
	project.State = "READ_ONLY"
	return project
}

// GerritHead returns the HEAD branch info pointing at refs/heads/main.
func GerritHead() *gerrit.BranchInfo {
	return &gerrit.BranchInfo{
		Ref:      "refs/heads/main",
		Revision: DefaultRevision,
	}
}

// OpenChange returns an open change whose topic carries the update branch
// name. The current revision carries a commit message with a Change-Id
// footer, the way Gerrit stores change descriptions.
func OpenChange(number int, topic, targetBranch string) gerrit.ChangeInfo {
	subject := "chore(deps): update dependency example to v2.0.0"
	message := fmt.Sprintf("%s\n\nThis change contains the following updates.\n\nChange-Id: %s\n", subject, DefaultChangeID)
	return gerrit.ChangeInfo{
		ID:              fmt.Sprintf("project~%s~%s", targetBranch, DefaultChangeID),
		Project:         "project",
		Branch:          targetBranch,
		Topic:           topic,
		ChangeID:        DefaultChangeID,
		Subject:         subject,
		Status:          "NEW",
		Number:          number,
		Owner:           gerrit.AccountInfo{Username: "renovate-bot"},
		CurrentRevision: DefaultRevision,
		Revisions: map[string]gerrit.RevisionInfo{
			DefaultRevision: {
				Number: 1,
				Ref:    fmt.Sprintf("refs/changes/11/%d/1", number),
				Commit: gerrit.CommitInfo{
					Subject: subject,
					Message: message,
				},
			},
		},
		Created: gerrit.Timestamp{Time: time.Now()},
	}
}

// MergedChange returns a change in the MERGED state.
func MergedChange(number int, topic, targetBranch string) gerrit.ChangeInfo {
	change := OpenChange(number, topic, targetBranch)
	change.Status = "MERGED"
	return change
}

// AbandonedChange returns a change in the ABANDONED state.
func AbandonedChange(number int, topic, targetBranch string) gerrit.ChangeInfo {
	change := OpenChange(number, topic, targetBranch)
	change.Status = "ABANDONED"
	return change
}

// ApprovedLabel returns a label with a passing vote.
func ApprovedLabel() gerrit.LabelInfo {
	return gerrit.LabelInfo{
		Approved: gerrit.AccountInfo{AccountID: 1000096, Name: "CI"},
	}
}

// RejectedLabel returns a label with a blocking vote.
func RejectedLabel() gerrit.LabelInfo {
	return gerrit.LabelInfo{
		Rejected: gerrit.AccountInfo{AccountID: 1000096, Name: "CI"},
	}
}

// PendingLabel returns a required label nobody has voted on.
func PendingLabel() gerrit.LabelInfo {
	return gerrit.LabelInfo{}
}

// OptionalLabel returns a label that does not block submission.
func OptionalLabel() gerrit.LabelInfo {
	return gerrit.LabelInfo{Optional: true}
}

// TaggedMessage returns a change message with the given tag, prefixed with
// the patch-set header Gerrit adds to review messages.
func TaggedMessage(tag, message string) gerrit.ChangeMessageInfo {
	return gerrit.ChangeMessageInfo{
		ID:      "msg-" + tag,
		Tag:     tag,
		Message: "Patch Set 1:\n\n" + message,
		Date:    gerrit.Timestamp{Time: time.Now()},
	}
}
