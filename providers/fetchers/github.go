/*
Package fetchers provides manifest fetching for local and remote repositories.

Fetchers hand raw manifest bytes to the parsers; they never interpret the
contents themselves.
*/
package fetchers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v33/github"
)

var (
	ErrFileNotFound = errors.New("dependency manifest not found")
)

// FileFetcher interface defines fetchers methods.
type FileFetcher interface {
	FileContent(ctx context.Context, path string) ([]byte, error)
}

// ByteMapFetcher serves manifest contents from memory (useful for testing or
// for building custom repository logic).
type ByteMapFetcher struct {
	Files map[string][]byte
}

// FileContent retrieves (if found) []byte contents from its map using the path argument as a key.
func (bf ByteMapFetcher) FileContent(ctx context.Context, path string) ([]byte, error) {
	v, ok := bf.Files[path]
	if !ok {
		return nil, ErrFileNotFound
	}
	return v, nil
}

// GitHubFetcher fetches manifests from the specified repository.
// Owner and Repo represent '{owner}/{repo}' notation.
type GitHubFetcher struct {
	Owner        string
	Repo         string
	SHA          string
	githubClient *github.Client
}

// NewGitHubFetcher constructs a GitHubFetcher with the specified parameters.
// httpClient can be used as an OAuth2 or BasicAuth http transport.
func NewGitHubFetcher(httpClient *http.Client, owner, repo, sha string) *GitHubFetcher {
	return &GitHubFetcher{
		Owner:        owner,
		Repo:         repo,
		SHA:          sha,
		githubClient: github.NewClient(httpClient),
	}
}

// FileContent fetches the specified manifest content from the configured repository.
// Path argument is the root-related file path.
func (gf GitHubFetcher) FileContent(ctx context.Context, path string) ([]byte, error) {
	opts := github.RepositoryContentGetOptions{
		Ref: gf.SHA,
	}

	fileContent, dirContent, resp, err := gf.githubClient.Repositories.GetContents(ctx, gf.Owner, gf.Repo, path, &opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("unable to load '%s' file from github: %w", path, err)
	}

	if len(dirContent) != 0 {
		return nil, fmt.Errorf("'%s' is a directory, not a manifest file", path)
	}

	content, err := fileContent.GetContent()

	return []byte(content), err
}
