// Package ui provides interactive prompts for the command-line workflow.
package ui

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/Onesty-Tech-GmbH/renovate/pkg/platform"
)

// ConfirmMerge asks the user to confirm merging a pull request.
func ConfirmMerge(pr *platform.Pr) (bool, error) {
	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Merge #%d %q into %s?", pr.Number, pr.Title, pr.TargetBranch),
		Default: true,
	}

	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, fmt.Errorf("failed to get merge confirmation: %w", err)
	}
	return confirmed, nil
}

// SelectPr asks the user to pick one pull request from a list.
func SelectPr(prs []*platform.Pr) (*platform.Pr, error) {
	if len(prs) == 0 {
		return nil, nil
	}
	if len(prs) == 1 {
		return prs[0], nil
	}

	options := make([]string, len(prs))
	for i, pr := range prs {
		options[i] = fmt.Sprintf("#%d %s (%s)", pr.Number, pr.Title, pr.SourceBranch)
	}

	var selected int
	prompt := &survey.Select{
		Message: "Choose a pull request:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, fmt.Errorf("failed to get pull request selection: %w", err)
	}

	return prs[selected], nil
}

// SelectLabels asks the user to pick labels from the available set.
func SelectLabels(available []string, preselected []string) ([]string, error) {
	if len(available) == 0 {
		return nil, nil
	}

	var selected []string
	prompt := &survey.MultiSelect{
		Message: "Choose labels:",
		Options: available,
		Default: preselected,
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, fmt.Errorf("failed to get label selection: %w", err)
	}
	return selected, nil
}
