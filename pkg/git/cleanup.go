package git

import "fmt"

// CleanupReport tracks the state of each cleanup operation.
type CleanupReport struct {
	// Step completion status
	SwitchedBranch bool
	PulledChanges  bool
	Pruned         bool
	DeletedBranch  bool

	// Errors encountered (nil if step succeeded)
	SwitchError error
	PullError   error
	PruneError  error
	DeleteError error

	// Metadata
	MainBranch string
	BranchName string
}

// Success returns true if all critical steps completed successfully.
// Critical steps are: SwitchBranch and Pull.
func (r *CleanupReport) Success() bool {
	return r.SwitchedBranch && r.PulledChanges
}

// PartialSuccess returns true if at least one step completed successfully.
func (r *CleanupReport) PartialSuccess() bool {
	return r.SwitchedBranch || r.PulledChanges || r.Pruned || r.DeletedBranch
}

// FirstError returns the first error encountered, or nil if all succeeded.
// Errors are returned in execution order: Switch -> Pull -> Prune -> Delete.
func (r *CleanupReport) FirstError() error {
	if r.SwitchError != nil {
		return r.SwitchError
	}
	if r.PullError != nil {
		return r.PullError
	}
	if r.PruneError != nil {
		return r.PruneError
	}
	return r.DeleteError
}

// Cleanup brings the local repository back to the main branch after an
// update branch has been merged: switch, pull, prune and delete the update
// branch. Switch and pull are fail-fast; prune and delete continue on
// error so a flaky network does not leave the report empty.
func (r *Repository) Cleanup(mainBranch, updateBranch string) *CleanupReport {
	report := &CleanupReport{
		MainBranch: mainBranch,
		BranchName: updateBranch,
	}

	if err := r.SwitchBranch(mainBranch); err != nil {
		report.SwitchError = fmt.Errorf(
			"failed to switch to main branch: %w\n\n"+
				"If you have local changes that conflict, please handle them manually:\n"+
				"  - Commit your changes, or\n"+
				"  - Stash your changes with: git stash\n"+
				"  - Then run: git switch %s",
			err, mainBranch)
		return report
	}
	report.SwitchedBranch = true

	if err := r.Pull(); err != nil {
		report.PullError = fmt.Errorf(
			"failed to pull changes: %w\n\n"+
				"Please resolve any conflicts manually and run: git pull",
			err)
		return report
	}
	report.PulledChanges = true

	if err := r.FetchAndPrune(); err != nil {
		report.PruneError = fmt.Errorf(
			"failed to fetch and prune: %w\n\n"+
				"You can manually run: git fetch --prune",
			err)
		if r.log != nil {
			r.log.Warn("Fetch and prune failed, continuing with cleanup")
		}
	} else {
		report.Pruned = true
	}

	if err := r.DeleteBranch(updateBranch); err != nil {
		report.DeleteError = fmt.Errorf(
			"failed to delete branch: %w\n\n"+
				"You can manually delete it with: git branch -D %s",
			err, updateBranch)
		if r.log != nil {
			r.log.Warn("Branch deletion failed, but cleanup is complete")
		}
	} else {
		report.DeletedBranch = true
	}

	return report
}
