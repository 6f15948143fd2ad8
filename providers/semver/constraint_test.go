package semver

import (
	"testing"
)

func TestParseOperator(t *testing.T) {
	for _, token := range []string{"==", "!=", "<", "<=", ">", ">=", "~="} {
		op, err := ParseOperator(token)
		if err != nil {
			t.Fatalf("unexpected error parsing operator %q: %v", token, err)
		}
		if op.String() != token {
			t.Errorf("operator %q round trip failed, got %q", token, op)
		}
	}

	for _, token := range []string{"", "=", "===", "^", "~", ">>"} {
		if _, err := ParseOperator(token); err == nil {
			t.Errorf("expected error parsing operator %q, got none", token)
		}
	}
}

func TestParseConstraint(t *testing.T) {
	cases := []struct {
		Raw      string
		Expected string
	}{
		{">=1.2.3", ">=1.2.3"},
		{"<= 1.5", "<=1.5"},
		{" ~=2.0 ", "~=2.0"},
		{"<3", "<3"},
		{"==0.6.1", "==0.6.1"},
		{"!= 3.5", "!=3.5"},
		{">2", ">2"},
	}

	for _, c := range cases {
		constraint, err := ParseConstraint(c.Raw)
		if err != nil {
			t.Fatalf("unexpected error parsing constraint %q: %v", c.Raw, err)
		}
		if constraint.String() != c.Expected {
			t.Errorf("constraint %q rendered as %q, expected %q", c.Raw, constraint, c.Expected)
		}
	}

	for _, raw := range []string{"", "1.2.3", "=1.2", "~1.2", ">=abc", ">= "} {
		if _, err := ParseConstraint(raw); err == nil {
			t.Errorf("expected error parsing constraint %q, got none", raw)
		}
	}
}

func TestConstraintMatch(t *testing.T) {
	// Table test
	cases := []struct {
		Constraint string
		Version    string
		Result     bool
	}{
		{">2.2.2", "2.2.2", false},
		{">2.2", "2.2.2", true},
		{">2", "2.2.2", true},
		{">=2.2.2", "2.2.2", true},
		{">=2.2", "2.2.2", true},
		{"<2.2.2", "2.2.2", false},
		{"<2.3", "2.2.2", true},
		{"<=2.2.2", "2.2.2", true},
		{"<=2.2", "2.2.2", false},
		{"==2.2.2", "2.2.2", true},
		{"==2.2", "2.2.2", false},
		{"==2.2", "2.2.0", true},
		{"!=2.2.2", "2.2.2", false},
		{"!=2.2", "2.2.2", true},
		// '~=' admits the half-open range up to the next value of the last
		// specified segment.
		{"~=2.2", "2.2.0", true},
		{"~=2.2", "2.2.9", true},
		{"~=2.2", "2.3.0", false},
		{"~=2.2", "2.1.9", false},
		{"~=2", "2.9.9", true},
		{"~=2", "3.0.0", false},
		{"~=2.2.2", "2.2.2", true},
		{"~=2.2.2", "2.2.3", false},
		// Pre-releases sort below their release.
		{">=1.0.0", "1.0.0-rc.1", false},
		{"<1.0.0", "1.0.0-rc.1", true},
	}

	for _, c := range cases {
		constraint, err := ParseConstraint(c.Constraint)
		if err != nil {
			t.Fatalf("unexpected error parsing constraint %q: %v", c.Constraint, err)
		}
		version, err := Parse(c.Version)
		if err != nil {
			t.Fatalf("unexpected error parsing version %q: %v", c.Version, err)
		}
		if got := constraint.Match(version); got != c.Result {
			t.Errorf("Match(%q, %q) = %v, expected %v", c.Constraint, c.Version, got, c.Result)
		}
	}
}

func TestConstraintSet(t *testing.T) {
	set, err := ParseConstraintSet(">=1.0, <3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 constraints, got %d", len(set))
	}
	if set.String() != ">=1.0,<3" {
		t.Errorf("unexpected set rendering: %q", set)
	}
	if !set.HasOperator(OpGreaterEqual) || set.HasOperator(OpCompatible) {
		t.Error("HasOperator reported wrong operators")
	}

	inside, _ := Parse("2.2.2")
	outside, _ := Parse("3.0.0")
	if !set.Match(inside) {
		t.Errorf("expected %q to match %q", inside, set)
	}
	if set.Match(outside) {
		t.Errorf("expected %q not to match %q", outside, set)
	}

	if _, err := ParseConstraintSet(">=1.0,,<3"); err == nil {
		t.Error("expected error on empty set item, got none")
	}
}

func TestConstraintSetLower(t *testing.T) {
	cases := []struct {
		Set      string
		Expected string
	}{
		{">=1.0,<3", "1.0.0"},
		{"<3", "0.0.0"},
		{">=1.0,>2.4,<3", "2.4.0"},
		{"~=2.2", "2.2.0"},
		{"==1.1.0", "1.1.0"},
	}

	for _, c := range cases {
		set, err := ParseConstraintSet(c.Set)
		if err != nil {
			t.Fatalf("unexpected error parsing %q: %v", c.Set, err)
		}
		if got := set.Lower(); got.String() != c.Expected {
			t.Errorf("Lower(%q) = %q, expected %q", c.Set, got, c.Expected)
		}
	}
}
