/*
Package semver implements the semantic version and constraint model used by
the update engine.

Goals:
 - Parsing dotted version strings into an ordered value type
 - Range membership checks for the seven pip constraint operators
 - Version arithmetic (next/previous/truncated versions) for range rewriting
*/
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Part represents one of the three core version segments.
type Part int

const (
	PartMajor Part = iota
	PartMinor
	PartPatch
)

// String returns the segment name (e.g. 'major').
func (p Part) String() string {
	switch p {
	case PartMajor:
		return "major"
	case PartMinor:
		return "minor"
	case PartPatch:
		return "patch"
	}
	return fmt.Sprintf("part(%d)", int(p))
}

// ParseError is returned when a version or constraint string does not match
// the supported grammar.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse %q: %s", e.Input, e.Reason)
}

// DefaultMaxFiller is used by Previous when no filler value is given.
const DefaultMaxFiller = 99

// Version represents a parsed semantic version:
//
//     <major>.<minor>.<patch>-<pre_release>+<build>
//
// Missing minor and patch segments default to 0, but the number of segments
// the source string spelled out is kept, since specifier rewriting truncates
// updated versions at the same granularity (so '~=2.0' is re-pinned to
// '~=2.3', never '~=2.3.7').
//
// Equality and ordering ignore the build metadata entirely. A release sorts
// above any of its pre-releases.
type Version struct {
	major, minor, patch int
	preRelease, build   string
	parts               int
}

// Fields is used to construct a Version from structured values instead of a
// string. Minor and Patch are pointers so that '2' and '2.0' stay distinct.
type Fields struct {
	Major      int
	Minor      *int
	Patch      *int
	PreRelease string
	Build      string
}

// Parse parses a version string of the form
// 'major[.minor[.patch]][-prerelease][+build]'.
//
// Core segments are non-negative integers without leading zeros. Pre-release
// and build metadata are dot-separated alphanumeric-or-hyphen identifiers;
// numeric pre-release identifiers must not have leading zeros.
func Parse(value string) (Version, error) {
	v := Version{}
	core := value

	if idx := strings.IndexByte(core, '+'); idx >= 0 {
		v.build = core[idx+1:]
		core = core[:idx]
		if err := checkIdentifiers(v.build, false); err != nil {
			return Version{}, &ParseError{Input: value, Reason: fmt.Sprintf("invalid build metadata: %s", err)}
		}
	}
	if idx := strings.IndexByte(core, '-'); idx >= 0 {
		v.preRelease = core[idx+1:]
		core = core[:idx]
		if err := checkIdentifiers(v.preRelease, true); err != nil {
			return Version{}, &ParseError{Input: value, Reason: fmt.Sprintf("invalid pre-release: %s", err)}
		}
	}

	segments := strings.Split(core, ".")
	if len(segments) > 3 {
		return Version{}, &ParseError{Input: value, Reason: "more than three core version segments"}
	}
	for i, segment := range segments {
		number, err := parseNumericSegment(segment)
		if err != nil {
			return Version{}, &ParseError{Input: value, Reason: err.Error()}
		}
		switch i {
		case 0:
			v.major = number
		case 1:
			v.minor = number
		case 2:
			v.patch = number
		}
	}
	v.parts = len(segments)

	return v, nil
}

// FromFields constructs a Version from structured fields.
//
// Patch requires Minor, and pre-release/build metadata require Patch, the
// same chain the string grammar enforces.
func FromFields(fields Fields) (Version, error) {
	if fields.Major < 0 || (fields.Minor != nil && *fields.Minor < 0) || (fields.Patch != nil && *fields.Patch < 0) {
		return Version{}, &ParseError{Input: "fields", Reason: "negative version segment"}
	}
	if fields.Patch != nil && fields.Minor == nil {
		return Version{}, &ParseError{Input: "fields", Reason: "patch requires minor"}
	}
	if (fields.PreRelease != "" || fields.Build != "") && fields.Patch == nil {
		return Version{}, &ParseError{Input: "fields", Reason: "pre-release and build metadata require patch"}
	}
	if fields.PreRelease != "" {
		if err := checkIdentifiers(fields.PreRelease, true); err != nil {
			return Version{}, &ParseError{Input: fields.PreRelease, Reason: fmt.Sprintf("invalid pre-release: %s", err)}
		}
	}
	if fields.Build != "" {
		if err := checkIdentifiers(fields.Build, false); err != nil {
			return Version{}, &ParseError{Input: fields.Build, Reason: fmt.Sprintf("invalid build metadata: %s", err)}
		}
	}

	v := Version{major: fields.Major, parts: 1, preRelease: fields.PreRelease, build: fields.Build}
	if fields.Minor != nil {
		v.minor = *fields.Minor
		v.parts = 2
	}
	if fields.Patch != nil {
		v.patch = *fields.Patch
		v.parts = 3
	}
	return v, nil
}

// parseNumericSegment parses one core version segment.
func parseNumericSegment(segment string) (int, error) {
	if segment == "" {
		return 0, fmt.Errorf("empty version segment")
	}
	if len(segment) > 1 && segment[0] == '0' {
		return 0, fmt.Errorf("version segment '%s' has a leading zero", segment)
	}
	number, err := strconv.Atoi(segment)
	if err != nil || number < 0 {
		return 0, fmt.Errorf("version segment '%s' is not a non-negative integer", segment)
	}
	return number, nil
}

// checkIdentifiers validates dot-separated pre-release/build identifiers.
func checkIdentifiers(value string, numericNoLeadingZero bool) error {
	for _, identifier := range strings.Split(value, ".") {
		if identifier == "" {
			return fmt.Errorf("empty identifier")
		}
		numeric := true
		for _, r := range identifier {
			switch {
			case r >= '0' && r <= '9':
			case r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
				numeric = false
			default:
				return fmt.Errorf("identifier '%s' contains invalid character %q", identifier, r)
			}
		}
		if numericNoLeadingZero && numeric && len(identifier) > 1 && identifier[0] == '0' {
			return fmt.Errorf("numeric identifier '%s' has a leading zero", identifier)
		}
	}
	return nil
}

// Major method returns integer value of the major version segment (e.g. '?.0.0')
func (v Version) Major() int { return v.major }

// Minor method returns integer value of the minor version segment (e.g. '0.?.0')
func (v Version) Minor() int { return v.minor }

// Patch method returns integer value of the patch version segment (e.g. '0.0.?')
func (v Version) Patch() int { return v.patch }

// PreRelease method returns the pre-release part of the version, i.e. the part
// supplied after a minus ('-'), but before a plus ('+'). Empty when absent.
func (v Version) PreRelease() string { return v.preRelease }

// Build method returns the build metadata part of the version, i.e. the part
// supplied after a plus ('+'). Empty when absent.
func (v Version) Build() string { return v.build }

// Parts method returns how many core segments the source string spelled out (1-3).
func (v Version) Parts() int {
	if v.parts == 0 {
		return 1
	}
	return v.parts
}

// LastSpecified returns the finest core segment the source string spelled out.
func (v Version) LastSpecified() Part {
	switch v.Parts() {
	case 1:
		return PartMajor
	case 2:
		return PartMinor
	}
	return PartPatch
}

// Compare returns -1, 0 or +1 when v sorts below, equal to or above other.
//
// Ordering is lexicographic on (major, minor, patch); on a tie the release
// sorts above any of its pre-releases, and two pre-releases compare as plain
// strings. Build metadata never participates.
func (v Version) Compare(other Version) int {
	if v.major != other.major {
		return compareInt(v.major, other.major)
	}
	if v.minor != other.minor {
		return compareInt(v.minor, other.minor)
	}
	if v.patch != other.patch {
		return compareInt(v.patch, other.patch)
	}
	switch {
	case v.preRelease == other.preRelease:
		return 0
	case v.preRelease == "":
		return 1
	case other.preRelease == "":
		return -1
	}
	return strings.Compare(v.preRelease, other.preRelease)
}

func compareInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Equal reports whether the two versions are equal, ignoring build metadata.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Less reports whether v sorts strictly below other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Next returns the version with the given segment incremented by one and all
// finer segments zeroed. Pre-release and build metadata are cleared.
func (v Version) Next(part Part) Version {
	switch part {
	case PartMajor:
		return Version{major: v.major + 1, parts: 3}
	case PartMinor:
		return Version{major: v.major, minor: v.minor + 1, parts: 3}
	}
	return Version{major: v.major, minor: v.minor, patch: v.patch + 1, parts: 3}
}

// Previous returns the version with the given segment decremented by one.
// When the segment is already 0 the next-coarser segment is decremented
// instead and the borrowed segments are filled with maxFiller (negative
// values select DefaultMaxFiller). Decrementing major below 0 is undefined,
// callers must guard against it.
func (v Version) Previous(part Part, maxFiller int) Version {
	if maxFiller < 0 {
		maxFiller = DefaultMaxFiller
	}

	borrowMajor := Version{major: v.major - 1, minor: maxFiller, patch: maxFiller, parts: 3}
	borrowMinor := Version{major: v.major, minor: v.minor - 1, patch: maxFiller, parts: 3}

	switch part {
	case PartMajor:
		return borrowMajor
	case PartMinor:
		if v.minor == 0 {
			return borrowMajor
		}
		return borrowMinor
	}
	if v.patch == 0 {
		if v.minor == 0 {
			return borrowMajor
		}
		return borrowMinor
	}
	return Version{major: v.major, minor: v.minor, patch: v.patch - 1, parts: 3}
}

// Truncate re-segments the version to the first parts core segments, dropping
// the finer values along with any pre-release/build metadata. It is used when
// re-pinning specifiers at the granularity the user originally wrote.
func (v Version) Truncate(parts int) Version {
	if parts < 1 {
		parts = 1
	}
	if parts > 3 {
		parts = 3
	}
	out := Version{major: v.major, parts: parts}
	if parts >= 2 {
		out.minor = v.minor
	}
	if parts == 3 {
		out.patch = v.patch
	}
	return out
}

// Padded returns the version rendered across all three core segments, with
// pre-release/build metadata dropped.
func (v Version) Padded() Version {
	return Version{major: v.major, minor: v.minor, patch: v.patch, parts: 3}
}

// String returns the full version, always padded to major.minor.patch, with
// pre-release and build metadata appended when present.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.major, v.minor, v.patch)
	if v.preRelease != "" {
		b.WriteByte('-')
		b.WriteString(v.preRelease)
	}
	if v.build != "" {
		b.WriteByte('+')
		b.WriteString(v.build)
	}
	return b.String()
}

// CoreString renders the first parts core segments (e.g. '2.3' for parts=2).
func (v Version) CoreString(parts int) string {
	switch {
	case parts <= 1:
		return strconv.Itoa(v.major)
	case parts == 2:
		return fmt.Sprintf("%d.%d", v.major, v.minor)
	}
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// Shortened returns the version without trailing zero patch/minor segments
// and without pre-release/build metadata. Display use only, never compare
// shortened strings.
func (v Version) Shortened() string {
	if v.patch == 0 {
		if v.minor == 0 {
			return strconv.Itoa(v.major)
		}
		return fmt.Sprintf("%d.%d", v.major, v.minor)
	}
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}
