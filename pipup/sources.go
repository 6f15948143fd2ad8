package pipup

import (
	"context"
	"net/http"

	"github.com/dephub/pipup-core/providers/fetchers"
	"github.com/dephub/pipup-core/providers/parsers"
)

// DependencySource represents abstraction over a project's manifest files and
// provides a convenient interface to fetch its declared requirements.
type DependencySource interface {
	// Requirements returns the project's declared dependencies.
	Requirements(ctx context.Context) ([]parsers.Requirement, error)
}

// NewMemorySource constructs a source reading manifests from memory.
// An empty filename selects 'requirements.txt'.
func NewMemorySource(files map[string][]byte, filename string) DependencySource {
	return &pipSource{parser: parsers.NewPipParser(fetchers.ByteMapFetcher{Files: files}, filename)}
}

// NewGitHubSource constructs a source reading manifests from a GitHub
// repository at the given ref. httpClient can be used as an OAuth2 or
// BasicAuth http transport. An empty filename selects 'requirements.txt'.
func NewGitHubSource(httpClient *http.Client, owner, repo, sha, filename string) DependencySource {
	fetcher := fetchers.NewGitHubFetcher(httpClient, owner, repo, sha)
	return &pipSource{parser: parsers.NewPipParser(fetcher, filename)}
}

type pipSource struct {
	parser *parsers.PipParser
}

// Requirements returns the project's declared dependencies.
func (s pipSource) Requirements(ctx context.Context) ([]parsers.Requirement, error) {
	return s.parser.Requirements(ctx)
}
