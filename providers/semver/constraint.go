package semver

import (
	"strings"
)

// Operator enumerates the supported pip constraint operators.
//
// Every algorithm switching over an Operator handles all seven cases
// explicitly, so a new operator cannot slip through a lookup table unnoticed.
type Operator int

const (
	OpEqual Operator = iota // ==
	OpNotEqual              // !=
	OpLess                  // <
	OpLessEqual             // <=
	OpGreater               // >
	OpGreaterEqual          // >=
	OpCompatible            // ~=
)

// String returns the operator token (e.g. '>=').
func (op Operator) String() string {
	switch op {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	case OpCompatible:
		return "~="
	}
	return "??"
}

// ParseOperator parses an operator token.
func ParseOperator(token string) (Operator, error) {
	switch token {
	case "==":
		return OpEqual, nil
	case "!=":
		return OpNotEqual, nil
	case "<":
		return OpLess, nil
	case "<=":
		return OpLessEqual, nil
	case ">":
		return OpGreater, nil
	case ">=":
		return OpGreaterEqual, nil
	case "~=":
		return OpCompatible, nil
	}
	return 0, &ParseError{Input: token, Reason: "unsupported constraint operator"}
}

// Constraint represents one (operator, version) pair, e.g. '>=1.2'.
type Constraint struct {
	Op      Operator
	Version Version
}

// ParseConstraint parses a single 'OPERATOR VERSION' token. Whitespace around
// and between operator and version is allowed but not required.
func ParseConstraint(value string) (Constraint, error) {
	trimmed := strings.TrimSpace(value)

	var token string
	switch {
	case len(trimmed) >= 2 && isOperatorToken(trimmed[:2]):
		token = trimmed[:2]
	case len(trimmed) >= 1 && (trimmed[0] == '<' || trimmed[0] == '>'):
		token = trimmed[:1]
	default:
		return Constraint{}, &ParseError{Input: value, Reason: "constraint must start with one of ==, !=, <, <=, >, >=, ~="}
	}

	op, err := ParseOperator(token)
	if err != nil {
		return Constraint{}, err
	}
	version, err := Parse(strings.TrimSpace(trimmed[len(token):]))
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Op: op, Version: version}, nil
}

func isOperatorToken(token string) bool {
	switch token {
	case "==", "!=", "<=", ">=", "~=":
		return true
	}
	return false
}

// Match reports whether the version satisfies the constraint.
//
// The '~=' (compatible release) operator denotes the half-open range
// [version, version.Next(lastSpecifiedSegment)), so '~=2.2' admits anything
// in [2.2, 2.3) and '~=2' anything in [2, 3).
func (c Constraint) Match(v Version) bool {
	cmp := v.Compare(c.Version)
	switch c.Op {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpCompatible:
		upper := c.Version.Next(c.Version.LastSpecified())
		return cmp >= 0 && v.Compare(upper) < 0
	}
	return false
}

// String renders the constraint at the granularity the version was written
// in, e.g. '<=1.5' stays two segments.
func (c Constraint) String() string {
	var b strings.Builder
	b.WriteString(c.Op.String())
	b.WriteString(c.Version.CoreString(c.Version.Parts()))
	if pre := c.Version.PreRelease(); pre != "" {
		b.WriteByte('-')
		b.WriteString(pre)
	}
	if build := c.Version.Build(); build != "" {
		b.WriteByte('+')
		b.WriteString(build)
	}
	return b.String()
}

// ConstraintSet is the conjunction of all constraints declared for one
// dependency, e.g. '>=1.0,<3'. Operators may repeat within a set.
type ConstraintSet []Constraint

// ParseConstraintSet parses a comma-joined list of constraints.
func ParseConstraintSet(value string) (ConstraintSet, error) {
	parts := strings.Split(value, ",")
	set := make(ConstraintSet, 0, len(parts))
	for _, part := range parts {
		constraint, err := ParseConstraint(part)
		if err != nil {
			return nil, err
		}
		set = append(set, constraint)
	}
	return set, nil
}

// Match reports whether the version satisfies every constraint in the set.
func (cs ConstraintSet) Match(v Version) bool {
	for _, constraint := range cs {
		if !constraint.Match(v) {
			return false
		}
	}
	return true
}

// HasOperator reports whether any constraint in the set uses the operator.
func (cs ConstraintSet) HasOperator(op Operator) bool {
	for _, constraint := range cs {
		if constraint.Op == op {
			return true
		}
	}
	return false
}

// Lower returns the highest lower bound declared by the set, i.e. the version
// the project is currently expected to run with. Sets without any lower-bound
// operator yield the zero version.
func (cs ConstraintSet) Lower() Version {
	var lower Version
	for _, constraint := range cs {
		switch constraint.Op {
		case OpGreaterEqual, OpGreater, OpEqual, OpCompatible:
			if constraint.Version.Compare(lower) > 0 {
				lower = constraint.Version
			}
		}
	}
	return lower
}

// String joins the set back into the comma-separated wire form.
func (cs ConstraintSet) String() string {
	tokens := make([]string, len(cs))
	for i, constraint := range cs {
		tokens[i] = constraint.String()
	}
	return strings.Join(tokens, ",")
}
