package parsers

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dephub/pipup-core/providers/fetchers"
	"github.com/dephub/pipup-core/providers/semver"
)

// NewPipParser constructs pip manifest parser.
// If 'filename' parameter is an empty string - 'requirements.txt' will be used instead.
func NewPipParser(fetcher fetchers.FileFetcher, filename string) *PipParser {
	if filename == "" {
		filename = "requirements.txt"
	}
	return &PipParser{fetcher: fetcher, SourceName: filename}
}

// PipParser represents concrete pip parser implementation.
type PipParser struct {
	fetcher fetchers.FileFetcher
	// SourceName is the source filename (e.g. 'requirements.txt')
	SourceName string
}

// Requirements method returns the python dependencies declared in the manifest.
//
// Comment lines, blank lines and pip directives ('-r', '--hash', ...) are
// skipped. Lines that look like requirements but cannot be parsed fail the
// whole call, so a broken manifest never yields a silently shorter list.
func (p PipParser) Requirements(ctx context.Context) ([]Requirement, error) {
	content, err := p.fetcher.FileContent(ctx, p.SourceName)
	if err != nil {
		if errors.Is(err, fetchers.ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("unable to fetch python(pip) dependencies from the source: %w", err)
	}

	var result []Requirement
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		line = stripComment(line)
		if line == "" {
			continue
		}
		// Bare URL lines (git+https://..., local paths) are not PEP 508
		// requirements and carry nothing the engine can update.
		if strings.Contains(line, "://") && !strings.Contains(line, "@") {
			continue
		}

		requirement, err := ParseRequirementLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.SourceName, err)
		}
		result = append(result, requirement)
	}

	return result, nil
}

// ParseRequirementLine parses one requirement line:
//
//     name[extra1,extra2] >=1.0,<3 ; python_version < "3.12"
//     name @ https://example.com/name.tar.gz
func ParseRequirementLine(line string) (Requirement, error) {
	requirement := Requirement{}

	// Environment marker comes after ';' and is kept verbatim.
	if idx := strings.Index(line, ";"); idx >= 0 {
		requirement.Marker = strings.TrimSpace(line[idx+1:])
		line = strings.TrimSpace(line[:idx])
	}

	// Direct reference requirements keep their URL and skip specifier parsing.
	if idx := strings.Index(line, "@"); idx >= 0 {
		requirement.URL = strings.TrimSpace(line[idx+1:])
		line = strings.TrimSpace(line[:idx])
	}

	specIdx := strings.IndexFunc(line, func(r rune) bool {
		return strings.ContainsRune("<>=!~", r)
	})
	specifiers := ""
	if specIdx >= 0 {
		specifiers = stripSpaces(line[specIdx:])
		line = strings.TrimSpace(line[:specIdx])
	}

	if idx := strings.Index(line, "["); idx >= 0 {
		end := strings.Index(line, "]")
		if end < idx {
			return Requirement{}, fmt.Errorf("unclosed extras bracket in requirement %q", line)
		}
		for _, extra := range strings.Split(line[idx+1:end], ",") {
			if extra = strings.TrimSpace(extra); extra != "" {
				requirement.Extras = append(requirement.Extras, extra)
			}
		}
		line = strings.TrimSpace(line[:idx])
	}

	if line == "" || strings.ContainsAny(line, " /") {
		return Requirement{}, fmt.Errorf("unable to parse requirement name from %q", line)
	}
	requirement.Name = line

	if specifiers != "" && requirement.URL == "" {
		set, err := semver.ParseConstraintSet(specifiers)
		if err != nil {
			return Requirement{}, fmt.Errorf("requirement %q: %w", requirement.Name, err)
		}
		requirement.Specifiers = set
	}

	return requirement, nil
}

// stripComment removes a trailing '#' comment from a requirement line.
func stripComment(line string) string {
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

// Fast way to strip all whitespaces from a string
func stripSpaces(str string) string {
	var b strings.Builder
	b.Grow(len(str))
	for _, ch := range str {
		if !unicode.IsSpace(ch) {
			b.WriteRune(ch)
		}
	}
	return b.String()
}
