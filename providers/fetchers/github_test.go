package fetchers

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

// configureClient configures client that intercepts ALL requests and forwards them into the specified handler.
func configureClient(t *testing.T, handleFunc http.Handler) *http.Client {
	t.Helper()
	srv := httptest.NewTLSServer(handleFunc)

	// Configuring so that all the request go into our handler.
	return &http.Client{
		Transport: &http.Transport{
			DialContext: func(_ context.Context, network, _ string) (net.Conn, error) {
				return net.Dial(network, srv.Listener.Addr().String())
			},
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

func TestByteMapFetcher(t *testing.T) {
	fetcher := ByteMapFetcher{Files: map[string][]byte{
		"requirements.txt": []byte("requests >=2.26,<3\n"),
	}}

	content, err := fetcher.FileContent(context.Background(), "requirements.txt")
	if err != nil {
		t.Fatalf("unexpected FileContent() error: %v", err)
	}
	if string(content) != "requests >=2.26,<3\n" {
		t.Errorf("unexpected content %q", content)
	}

	_, err = fetcher.FileContent(context.Background(), "missing.txt")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("error = %v, expected ErrFileNotFound", err)
	}
}

func TestFetchContentMethod(t *testing.T) {
	cl := configureClient(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		_, _ = rw.Write([]byte(`{
			"content" : "requests >=2.26,<3"
		}`))
	}))

	expected := "requests >=2.26,<3"

	fetcher := NewGitHubFetcher(cl, "test", "testing", "")
	content, err := fetcher.FileContent(context.Background(), "requirements.txt")
	if err != nil {
		t.Error(err)
	}
	if string(content) != expected {
		t.Errorf("expected content '%s', got '%s'", expected, string(content))
	}
}

func TestFetchContentMethod_HttpNotFound(t *testing.T) {
	cl := configureClient(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusNotFound)
		_, _ = rw.Write([]byte(`{
			"message": "Not Found",
			"documentation_url": "https://docs.github.com/rest/reference/repos#get-repository-content"
		  }`))
	}))

	fetcher := NewGitHubFetcher(cl, "test", "testing", "")
	_, err := fetcher.FileContent(context.Background(), "requirements.txt")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("error = %v, expected ErrFileNotFound", err)
	}
}

func TestFetchContentMethod_DirectoryError(t *testing.T) {
	cl := configureClient(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		_, _ = rw.Write([]byte(`[
			{
			  "name": "CODE_OF_CONDUCT.md",
			  "path": ".github/CODE_OF_CONDUCT.md",
			  "sha": "2b4a5fccdaf12f98cf8e255affa28cfd7e6a784d",
			  "url": "https://api.github.com/repos/golang/go/contents/.github/CODE_OF_CONDUCT.md?ref=master"
			},
			{
			  "name": "ISSUE_TEMPLATE",
			  "path": ".github/ISSUE_TEMPLATE",
			  "sha": "5cbfc09fe76804461d5bf2221d8a6e5ceff5c385",
			  "url": "https://api.github.com/repos/golang/go/contents/.github/ISSUE_TEMPLATE?ref=master"
			}
		  ]`))
	}))

	fetcher := NewGitHubFetcher(cl, "test", "testing", "")
	_, err := fetcher.FileContent(context.Background(), ".github")
	if err == nil {
		t.Error("expected error on a directory path, got none")
	}
}
