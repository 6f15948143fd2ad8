/*
Package ignore parses user-declared ignore rules and decides whether a
candidate dependency update must be suppressed.

Rule encoding follows the Dependabot `ignore` config option: every raw rule
is a list of key/value-pairs, the keys restricted to 'dependency-name'
(mandatory), 'versions' (a single 'OPERATOR VERSION' token) and
'update-types' (a 'version-update:semver-major|minor|patch' literal), each
key at most once per rule. Repeated rules for the same dependency accumulate
their filters.
*/
package ignore

import (
	"fmt"
	"strings"

	"github.com/dephub/pipup-core/providers/semver"
)

// ValidationError is returned for a semantically invalid filter, e.g. a
// bare-major '~=' version filter or an unknown update-type literal.
type ValidationError struct {
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid ignore rule value %q: %s", e.Value, e.Reason)
}

// UpdateType represents one semantic-version delta class.
type UpdateType int

const (
	UpdateMajor UpdateType = iota
	UpdateMinor
	UpdatePatch
)

const updateTypePrefix = "version-update:semver-"

// String returns the wire literal, e.g. 'version-update:semver-minor'.
func (t UpdateType) String() string {
	switch t {
	case UpdateMajor:
		return updateTypePrefix + "major"
	case UpdateMinor:
		return updateTypePrefix + "minor"
	case UpdatePatch:
		return updateTypePrefix + "patch"
	}
	return updateTypePrefix + "unknown"
}

// ParseUpdateType parses a 'version-update:semver-*' literal. Unknown values
// fail immediately, they are never silently dropped.
func ParseUpdateType(value string) (UpdateType, error) {
	switch value {
	case updateTypePrefix + "major":
		return UpdateMajor, nil
	case updateTypePrefix + "minor":
		return UpdateMinor, nil
	case updateTypePrefix + "patch":
		return UpdatePatch, nil
	}
	return 0, &ValidationError{
		Value:  value,
		Reason: "must be one of 'version-update:semver-major', 'version-update:semver-minor' or 'version-update:semver-patch'",
	}
}

// Rule holds the accumulated filters for one dependency name. A Rule with
// both lists empty ignores every update for that dependency.
type Rule struct {
	// Versions filters are AND-combined: latest is suppressed only when it
	// satisfies every filter (they form a conjunctive range, e.g. '>2.2.2'
	// AND '<3').
	Versions []semver.Constraint
	// UpdateTypes filters are OR-combined: any matching delta class
	// suppresses the update.
	UpdateTypes []UpdateType
}

// Rules maps dependency name patterns to their accumulated rule. Built once
// by ParseEntries and treated as immutable afterwards.
type Rules map[string]*Rule

// For collects the filters applying to the dependency name, merging the '*'
// wildcard rule (if any) with the name's own rule. The second return value
// reports whether any rule applies at all.
func (r Rules) For(name string) (Rule, bool) {
	merged := Rule{}
	found := false
	for _, key := range []string{"*", name} {
		rule, ok := r[key]
		if !ok {
			continue
		}
		found = true
		merged.Versions = append(merged.Versions, rule.Versions...)
		merged.UpdateTypes = append(merged.UpdateTypes, rule.UpdateTypes...)
	}
	return merged, found
}

// ParseEntries parses raw ignore rules of the form
// 'key=value<separator>key=value' and accumulates them per dependency name.
func ParseEntries(entries []string, separator string) (Rules, error) {
	rules := Rules{}

	for _, entry := range entries {
		pairs := strings.SplitN(entry, separator, 3)
		for _, pair := range pairs {
			if strings.Contains(pair, separator) {
				return nil, &ValidationError{
					Value:  entry,
					Reason: "more than three key/value-pairs given, while only three key names are allowed",
				}
			}
		}

		name := ""
		seen := map[string]bool{}
		parsed := &Rule{}
		for _, pair := range pairs {
			split := strings.SplitN(pair, "=", 2)
			if len(split) != 2 {
				return nil, &ValidationError{Value: pair, Reason: "not a key=value pair"}
			}
			key, value := split[0], strings.TrimSpace(split[1])
			if seen[key] {
				return nil, &ValidationError{
					Value:  entry,
					Reason: fmt.Sprintf("configuration key %q given more than once", key),
				}
			}
			seen[key] = true

			switch key {
			case "dependency-name":
				name = value
			case "versions":
				filter, err := parseVersionFilter(value)
				if err != nil {
					return nil, err
				}
				parsed.Versions = append(parsed.Versions, filter)
			case "update-types":
				updateType, err := ParseUpdateType(value)
				if err != nil {
					return nil, err
				}
				parsed.UpdateTypes = append(parsed.UpdateTypes, updateType)
			default:
				return nil, &ValidationError{
					Value:  pair,
					Reason: "only 'dependency-name', 'versions' and 'update-types' keys are supported",
				}
			}
		}

		if name == "" {
			return nil, &ValidationError{Value: entry, Reason: "missing required 'dependency-name' configuration"}
		}

		if existing, ok := rules[name]; ok {
			existing.Versions = append(existing.Versions, parsed.Versions...)
			existing.UpdateTypes = append(existing.UpdateTypes, parsed.UpdateTypes...)
		} else {
			rules[name] = parsed
		}
	}

	return rules, nil
}

// parseVersionFilter parses a single 'OPERATOR VERSION' token and applies
// the filter-specific validation on top of the constraint grammar.
func parseVersionFilter(value string) (semver.Constraint, error) {
	filter, err := semver.ParseConstraint(value)
	if err != nil {
		return semver.Constraint{}, &ValidationError{Value: value, Reason: err.Error()}
	}
	if filter.Op == semver.OpCompatible && filter.Version.Parts() < 2 {
		return semver.Constraint{}, &ValidationError{
			Value:  value,
			Reason: "the '~=' operator requires more than a single version part, e.g. use '~=2.0' instead of '~=2'",
		}
	}
	return filter, nil
}

// ShouldIgnore decides whether the update from current to latest must be
// suppressed under the rule.
//
// A rule without any filters is a blanket ignore. Otherwise the update is
// suppressed when latest satisfies all version filters, or when any
// update-type filter matches the delta from current to latest; either condition
// alone is sufficient.
func ShouldIgnore(current, latest semver.Version, rule Rule) bool {
	if len(rule.Versions) == 0 && len(rule.UpdateTypes) == 0 {
		return true
	}

	if len(rule.Versions) > 0 && semver.ConstraintSet(rule.Versions).Match(latest) {
		return true
	}

	for _, updateType := range rule.UpdateTypes {
		if matchUpdateType(updateType, current, latest) {
			return true
		}
	}

	return false
}

// matchUpdateType implements the semver-delta classes: 'major' matches any
// change of the major segment, 'minor' and 'patch' only match forward jumps
// within an unchanged coarser prefix, and require the segment to actually be
// spelled out on both sides.
func matchUpdateType(updateType UpdateType, current, latest semver.Version) bool {
	switch updateType {
	case UpdateMajor:
		return latest.Major() != current.Major()
	case UpdateMinor:
		return latest.Parts() >= 2 && current.Parts() >= 2 &&
			latest.Major() == current.Major() &&
			latest.Minor() > current.Minor()
	case UpdatePatch:
		return latest.Parts() >= 3 && current.Parts() >= 3 &&
			latest.Major() == current.Major() &&
			latest.Minor() == current.Minor() &&
			latest.Patch() > current.Patch()
	}
	return false
}
