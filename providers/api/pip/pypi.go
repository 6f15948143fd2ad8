/*
Package pip provides a client for the PyPI JSON API.

The update engine only needs the "latest version" answer (plus the release's
interpreter requirement), so the client exposes a narrow Client interface
that callers can mock.
*/
package pip

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
)

// pyPiBaseURL - PyPI base API url (used as default client baseURL)
var pyPiBaseURL *url.URL

// pyPiHostname - PyPI API hostname (used as default API).
//
// PyPI is the official Python package index. The JSON API is documented at
// warehouse.pypa.io/api-reference/json
var pyPiHostname string = "https://pypi.org"

func init() {
	pyPiBaseURL, _ = url.Parse(pyPiHostname)
}

// Client describes the PyPI queries the update engine depends on.
type Client interface {
	// Release returns package metadata, optionally for a concrete version.
	Release(ctx context.Context, name, version string) (*Package, *http.Response, error)
	// LatestVersion returns the latest released version string for a package.
	LatestVersion(ctx context.Context, name string) (string, error)
}

// NewPyPiClient constructs a new PyPiClient.
//
// If httpClient or URL is nil - default values will be used.
// Pass URL only if you are sure that the address is compatible with the PyPI JSON API.
func NewPyPiClient(httpClient *http.Client, URL *url.URL) *PyPiClient {
	if URL == nil {
		URL = pyPiBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PyPiClient{httpClient: httpClient, baseURL: *URL}
}

// PyPiClient is used to communicate with a PyPI compatible API service.
type PyPiClient struct {
	httpClient *http.Client
	baseURL    url.URL
}

// Release method is used to get information about a package and its metadata.
//
// Version argument is optional.
func (pc PyPiClient) Release(ctx context.Context, name, version string) (*Package, *http.Response, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("package name is required and can't be empty")
	}

	var path string
	if version == "" {
		path = fmt.Sprintf("%s/pypi/%s/json", &pc.baseURL, name)
	} else {
		path = fmt.Sprintf("%s/pypi/%s/%s/json", &pc.baseURL, name, version)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create a request: %w", err)
	}
	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to send the request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, resp, fmt.Errorf("PyPI returned with !=200 status code")
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, fmt.Errorf("unable to read the response body: %w", err)
	}

	pkg := Package{}
	if err = json.Unmarshal(body, &pkg); err != nil {
		return nil, resp, fmt.Errorf("unable to parse the response body: %w", err)
	}

	return &pkg, resp, nil
}

// LatestVersion returns the latest released version string for a package.
func (pc PyPiClient) LatestVersion(ctx context.Context, name string) (string, error) {
	pkg, _, err := pc.Release(ctx, name, "")
	if err != nil {
		return "", err
	}
	if pkg.Info.Version == "" {
		return "", fmt.Errorf("PyPI returned no version for package %q", name)
	}
	return pkg.Info.Version, nil
}

// Package represents the package metadata block the engine consumes.
type Package struct {
	Info       PackageInfo `json:"info"`
	LastSerial int         `json:"last_serial"`
}

// PackageInfo represents package information data.
type PackageInfo struct {
	Author         string   `json:"author"`
	HomePage       string   `json:"home_page"`
	License        string   `json:"license"`
	Name           string   `json:"name"`
	PackageURL     string   `json:"package_url"`
	ReleaseURL     string   `json:"release_url"`
	RequiresDist   []string `json:"requires_dist"`
	RequiresPython string   `json:"requires_python"`
	Summary        string   `json:"summary"`
	Version        string   `json:"version"`
	Yanked         bool     `json:"yanked"`
}
