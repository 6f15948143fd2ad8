/*
Package pipup provides the batch driver tying the update engine together:
manifest requirements in, update suggestions out.

Every per-dependency failure is collected instead of aborting the run, so
one unresolvable constraint set never blocks the remaining updates.
*/
package pipup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dephub/pipup-core/providers/api/pip"
	"github.com/dephub/pipup-core/providers/ignore"
	"github.com/dephub/pipup-core/providers/markers"
	"github.com/dephub/pipup-core/providers/parsers"
	"github.com/dephub/pipup-core/providers/semver"
	"github.com/dephub/pipup-core/providers/updater"
)

// Suggestion represents one proposed dependency update.
type Suggestion struct {
	Name              string `json:"name"`
	LatestVersion     string `json:"latest_version"`
	CurrentConstraint string `json:"constraint,omitempty"`
	UpdatedConstraint string `json:"updated_constraint,omitempty"`
	// Requirement is the regenerated requirement line, ready to be spliced
	// back into the manifest by the caller.
	Requirement string `json:"requirement,omitempty"`
}

// DependencyError attaches the offending dependency name to an engine error,
// so batch callers can report and skip just that dependency.
type DependencyError struct {
	Name string
	Err  error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("package %q: %v", e.Name, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// UpdatesChecker represents checkers interface.
type UpdatesChecker interface {
	// SuggestUpdates returns constraint rewrites admitting the latest
	// released versions, plus the per-dependency failures encountered.
	SuggestUpdates(ctx context.Context, requirements []parsers.Requirement) ([]Suggestion, []*DependencyError, error)
}

// NewPIPUpdatesChecker constructs a PyPI-backed updates checker.
func NewPIPUpdatesChecker(httpClient *http.Client, rules ignore.Rules) *PIPUpdatesChecker {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PIPUpdatesChecker{
		api:   pip.NewPyPiClient(httpClient, nil),
		rules: rules,
	}
}

// PIPUpdatesChecker suggests updates for python package requirements.
type PIPUpdatesChecker struct {
	api   pip.Client
	rules ignore.Rules
}

// SuggestUpdates checks every requirement against PyPI's latest release and
// rewrites its constraint set when an admissible update exists.
//
// URL-pinned and unrestricted requirements are skipped, matching ignore
// rules suppress their updates, and "already up to date" is a silent no-op.
func (uc PIPUpdatesChecker) SuggestUpdates(ctx context.Context, requirements []parsers.Requirement) ([]Suggestion, []*DependencyError, error) {
	if len(requirements) == 0 {
		return nil, nil, fmt.Errorf("no packages provided")
	}

	suggestions := make([]Suggestion, 0, len(requirements))
	var failures []*DependencyError
	handled := map[string]bool{}

	for _, requirement := range requirements {
		if handled[requirement.Name] {
			continue
		}
		handled[requirement.Name] = true

		// Nothing to negotiate for URL pins and unrestricted dependencies.
		if requirement.URL != "" || len(requirement.Specifiers) == 0 {
			continue
		}

		latestRaw, err := uc.api.LatestVersion(ctx, requirement.Name)
		if err != nil {
			failures = append(failures, &DependencyError{Name: requirement.Name, Err: err})
			continue
		}
		latest, err := semver.Parse(latestRaw)
		if err != nil {
			failures = append(failures, &DependencyError{Name: requirement.Name, Err: err})
			continue
		}

		if rule, ok := uc.rules.For(requirement.Name); ok {
			if ignore.ShouldIgnore(requirement.Specifiers.Lower(), latest, rule) {
				continue
			}
		}

		updated, changed, err := updater.Update(requirement.Specifiers, latest)
		if err != nil {
			failures = append(failures, &DependencyError{Name: requirement.Name, Err: err})
			continue
		}
		if !changed {
			continue
		}

		regenerated := requirement
		regenerated.Specifiers = updated
		suggestions = append(suggestions, Suggestion{
			Name:              requirement.Name,
			LatestVersion:     latestRaw,
			CurrentConstraint: requirement.Specifiers.String(),
			UpdatedConstraint: updated.String(),
			Requirement:       regenerated.String(),
		})
	}

	return suggestions, failures, nil
}

// MinimumPythonVersion finds the lowest interpreter version satisfying an
// environment marker, searching upwards from the project's declared version
// at that version's granularity.
func MinimumPythonVersion(eval markers.Evaluator, projectVersion string) (string, error) {
	start, err := semver.Parse(projectVersion)
	if err != nil {
		return "", fmt.Errorf("invalid project python version: %w", err)
	}
	return markers.FindMinimum(eval, start, start.LastSpecified(), 0)
}
