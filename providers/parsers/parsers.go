/*
Package parsers turns dependency manifest files into structured requirements.

Goals:
 - Parsing requirements.txt style manifests into name/extras/specifiers/marker
 - Keeping unparseable or unsupported lines away from the update engine
*/
package parsers

import (
	"context"
	"errors"
	"strings"

	"github.com/dephub/pipup-core/providers/semver"
)

var (
	ErrFileNotFound = errors.New("dependency manifest not found")
)

// RequirementParser represents basic interface for parsers in this package.
type RequirementParser interface {
	// Requirements returns the declared dependencies with their constraint sets.
	Requirements(context.Context) ([]Requirement, error)
}

// Requirement represents one declared dependency.
//
// Specifiers holds the parsed constraint set; it is empty for unrestricted
// dependencies. URL is set for requirements pinned to a direct reference
// ('name @ url'), which the update engine skips.
type Requirement struct {
	Name       string
	Extras     []string
	Specifiers semver.ConstraintSet
	Marker     string
	URL        string
}

// String regenerates the requirement line, minus any surrounding whitespace
// or comments from the source manifest.
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteByte('[')
		b.WriteString(strings.Join(r.Extras, ","))
		b.WriteByte(']')
	}
	if r.URL != "" {
		b.WriteString(" @ ")
		b.WriteString(r.URL)
	} else if len(r.Specifiers) > 0 {
		b.WriteString(r.Specifiers.String())
	}
	if r.Marker != "" {
		b.WriteString("; ")
		b.WriteString(r.Marker)
	}
	return b.String()
}
