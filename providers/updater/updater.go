/*
Package updater rewrites a dependency's constraint set so it admits a newly
released version.

Goals:
 - Minimal-diff rewriting: exactly one constraint is touched per call
 - Preserving user-authored lower bounds and unrelated constraints
 - Failing loudly when no rewriting rule applies, instead of guessing
*/
package updater

import (
	"fmt"

	"github.com/dephub/pipup-core/providers/semver"
)

// UnresolvableError is returned when the constraint set has no
// upper-bound-capable operator the engine knows how to rewrite (e.g. only
// '>=' constraints). Human judgment is required for these sets.
type UnresolvableError struct {
	Set    semver.ConstraintSet
	Latest semver.Version
}

func (e *UnresolvableError) Error() string {
	return fmt.Sprintf("cannot resolve how to update constraint set %q to include version %q", e.Set, e.Latest)
}

// Update rewrites current so it admits latest.
//
// When latest already satisfies the set, a '~=' or '==' pin (if any) is
// re-pinned to latest at its original segment granularity; otherwise the set
// is returned unchanged with changed=false.
//
// When latest falls outside the set, the first bounding constraint found in
// the priority order '<=', '<', '~=' is rewritten; a '~=' whose major is
// overtaken by latest is expanded into an explicit '>=' lower and '<' upper
// bound. Sets without any of those operators yield an UnresolvableError.
func Update(current semver.ConstraintSet, latest semver.Version) (semver.ConstraintSet, bool, error) {
	if current.Match(latest) {
		return repin(current, latest)
	}

	if idx, ok := indexOf(current, semver.OpLessEqual); ok {
		// Expand the inclusive bound to latest, at the bound's granularity.
		bound := current[idx]
		out := clone(current)
		out[idx] = semver.Constraint{Op: semver.OpLessEqual, Version: latest.Truncate(bound.Version.Parts())}
		return out, true, nil
	}

	if idx, ok := indexOf(current, semver.OpLess); ok {
		// The new exclusive bound is the next version strictly above latest
		// at the bound's granularity.
		bound := current[idx]
		var upper semver.Version
		switch bound.Version.Parts() {
		case 1:
			upper = latest.Next(semver.PartMajor).Truncate(1)
		case 2:
			upper = latest.Next(semver.PartMinor).Truncate(2)
		default:
			upper = latest.Next(semver.PartPatch)
		}
		out := clone(current)
		out[idx] = semver.Constraint{Op: semver.OpLess, Version: upper}
		return out, true, nil
	}

	if idx, ok := indexOf(current, semver.OpCompatible); ok {
		pin := current[idx]
		out := clone(current)
		if latest.Major() > pin.Version.Major() {
			// The compatible range cannot stretch across majors; expand it
			// into an explicit lower and upper bound.
			lower := semver.Constraint{Op: semver.OpGreaterEqual, Version: pin.Version.Padded()}
			upper := semver.Constraint{Op: semver.OpLess, Version: latest.Next(semver.PartMajor).Truncate(1)}
			out = append(out[:idx], append(semver.ConstraintSet{lower, upper}, out[idx+1:]...)...)
			return out, true, nil
		}
		out[idx] = semver.Constraint{Op: semver.OpCompatible, Version: latest.Truncate(pin.Version.Parts())}
		return out, true, nil
	}

	return nil, false, &UnresolvableError{Set: current, Latest: latest}
}

// repin handles the case where latest is already admitted: a '~=' or '=='
// pin still moves up to latest, anything else is left alone.
func repin(current semver.ConstraintSet, latest semver.Version) (semver.ConstraintSet, bool, error) {
	for idx, constraint := range current {
		if constraint.Op != semver.OpCompatible && constraint.Op != semver.OpEqual {
			continue
		}
		updated := semver.Constraint{Op: constraint.Op, Version: latest.Truncate(constraint.Version.Parts())}
		if updated.Version.Equal(constraint.Version) && updated.Version.Parts() == constraint.Version.Parts() {
			// Already pinned to latest.
			return current, false, nil
		}
		out := clone(current)
		out[idx] = updated
		return out, true, nil
	}
	return current, false, nil
}

func indexOf(set semver.ConstraintSet, op semver.Operator) (int, bool) {
	for idx, constraint := range set {
		if constraint.Op == op {
			return idx, true
		}
	}
	return 0, false
}

func clone(set semver.ConstraintSet) semver.ConstraintSet {
	out := make(semver.ConstraintSet, len(set))
	copy(out, set)
	return out
}
