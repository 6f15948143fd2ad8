/*
Package markers resolves interpreter version bounds for environment-marker
restricted dependencies.

The marker expression itself is evaluated by an external collaborator; this
package only drives the search over candidate interpreter versions and
derives bounds from 'requires-python' style specifier sets.
*/
package markers

import (
	"errors"
	"fmt"

	"github.com/dephub/pipup-core/providers/semver"
)

// Evaluator decides whether a boolean environment-marker expression holds
// under the binding 'python_version -> pythonVersion'.
type Evaluator interface {
	Evaluate(pythonVersion string) (bool, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(pythonVersion string) (bool, error)

// Evaluate calls the wrapped function.
func (f EvaluatorFunc) Evaluate(pythonVersion string) (bool, error) { return f(pythonVersion) }

// DefaultMaxIterations bounds the FindMinimum search loop when the caller
// does not supply a ceiling. A malformed or unsatisfiable marker has no
// natural fixed point, so the loop must never run unbounded.
const DefaultMaxIterations = 1000

// ExhaustedError is returned when FindMinimum gives up before the marker
// predicate became true.
type ExhaustedError struct {
	Start      semver.Version
	Iterations int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no valid interpreter version satisfied the marker within %d candidates from %s", e.Iterations, e.Start)
}

// ErrUnresolvable is wrapped by errors returned when no minimum or maximum
// version can be derived from a specifier set.
var ErrUnresolvable = errors.New("cannot determine version bound")

// FindMinimum returns the lowest interpreter version, starting at start and
// stepping by one unit of part, for which the marker predicate holds.
//
// Candidates are first gated by a semi-valid interpreter version check (see
// semiValidPythonVersion); the predicate is only consulted for candidates
// that pass it. The result is in shortened display form. maxIterations <= 0
// selects DefaultMaxIterations.
func FindMinimum(eval Evaluator, start semver.Version, part semver.Part, maxIterations int) (string, error) {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	candidate := start
	for i := 0; i < maxIterations; i++ {
		if semiValidPythonVersion(candidate) {
			ok, err := eval.Evaluate(candidate.String())
			if err != nil {
				return "", fmt.Errorf("unable to evaluate marker for %q: %w", candidate, err)
			}
			if ok {
				return candidate.Shortened(), nil
			}
		}
		candidate = candidate.Next(part)
	}

	return "", &ExhaustedError{Start: start, Iterations: maxIterations}
}

// semiValidPythonVersion checks each segment against the range of released
// interpreter versions. The check is only semi-valid since the segments are
// validated independently: 3.6.15 passes, but so does 3.6.18, which was
// never released (18 is only a valid patch level for other minors). The
// bounds are a policy choice kept as-is, not a derivable invariant.
func semiValidPythonVersion(v semver.Version) bool {
	if v.Major() < 1 || v.Major() > 3 {
		return false
	}
	if v.Minor() < 0 || v.Minor() > 12 {
		return false
	}
	if v.Patch() < 0 || v.Patch() > 18 {
		return false
	}
	return true
}

// MinMaxVersion derives an interpreter version bound from a
// 'requires-python' specifier set.
//
// Whether the bound is a minimum or a maximum depends on the first operator
// with a rule: '>=', '==' and '~=' yield their own version (minimum), '>'
// the next version at the specifier's granularity, '<=' its own version
// (maximum) and '<' the previous version at the specifier's granularity.
func MinMaxVersion(requiresPython string) (string, error) {
	set, err := semver.ParseConstraintSet(requiresPython)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnresolvable, err)
	}

	for _, specifier := range set {
		version := specifier.Version
		switch specifier.Op {
		case semver.OpGreaterEqual, semver.OpEqual, semver.OpCompatible:
			return version.CoreString(version.Parts()), nil

		case semver.OpGreater:
			switch version.Parts() {
			case 1:
				return version.Next(semver.PartMajor).CoreString(1), nil
			case 2:
				return version.Next(semver.PartMinor).CoreString(2), nil
			default:
				return version.Next(semver.PartPatch).String(), nil
			}

		case semver.OpLessEqual:
			return version.CoreString(version.Parts()), nil

		case semver.OpLess:
			if version.Equal(semver.Version{}) {
				return "", fmt.Errorf("%w: %q is not a valid version specifier", ErrUnresolvable, specifier)
			}
			switch version.Parts() {
			case 1:
				return version.Previous(semver.PartMajor, -1).String(), nil
			case 2:
				return version.Previous(semver.PartMinor, -1).String(), nil
			default:
				return version.Previous(semver.PartPatch, -1).String(), nil
			}

		case semver.OpNotEqual:
			// An exclusion carries no bound of its own.
			continue
		}
	}

	return "", fmt.Errorf("%w: no usable operator in specifier set %q", ErrUnresolvable, set)
}
