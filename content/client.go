// Package content fetches long-form investment memos from a private GitHub
// repository at runtime, keeping confidential markdown out of deployed
// assets. When no access token is configured the client falls back to a
// local directory, which keeps development and demos working offline.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/darkmatter-vc/portal/internal/cache"
)

const (
	githubRawBase = "https://raw.githubusercontent.com"
	githubAPIBase = "https://api.github.com"

	// CacheTTL bounds how long fetched content and listings are reused.
	CacheTTL = 5 * time.Minute
)

// Config holds the private content store settings.
type Config struct {
	PAT            string // fine-grained token with read-only Contents access
	Owner          string
	Repo           string
	Branch         string
	LocalDir       string // fallback directory when no PAT is configured
	DiscoveryLocal bool   // force local memo discovery even with a PAT
}

// Result is one fetched file.
type Result struct {
	Content      string
	SHA          string
	LastModified string
}

// FileEntry is one item of a directory listing.
type FileEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Type string `json:"type"` // "file" or "dir"
	Size int    `json:"size"`
}

// Client reads from the private content repository.
type Client struct {
	cfg          Config
	rawBase      string
	apiBase      string
	httpClient   *http.Client
	contentCache *cache.Cache[Result]
	listCache    *cache.Cache[[]FileEntry]
	latestCache  *cache.Cache[*string]
}

// ClientOption modifies a Client instance.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client (primarily for testing)
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithEndpoints overrides the GitHub raw and API base URLs (for testing)
func WithEndpoints(rawBase, apiBase string) ClientOption {
	return func(c *Client) {
		c.rawBase = rawBase
		c.apiBase = apiBase
	}
}

func NewClient(cfg Config, options ...ClientOption) *Client {
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	c := &Client{
		cfg:          cfg,
		rawBase:      githubRawBase,
		apiBase:      githubAPIBase,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		contentCache: cache.New[Result](CacheTTL),
		listCache:    cache.New[[]FileEntry](CacheTTL),
		latestCache:  cache.New[*string](latestMemoCacheTTL),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// LocalMode reports whether the client reads from the local fallback
// directory instead of GitHub.
func (c *Client) LocalMode() bool {
	return c.cfg.PAT == "" || c.cfg.DiscoveryLocal
}

// ClearCache drops all cached content, listings, and memo slugs.
func (c *Client) ClearCache() {
	c.contentCache.Clear()
	c.listCache.Clear()
	c.latestCache.Clear()
}

// FetchContent retrieves one file's raw content. A missing file is nil, not
// an error. In local mode the slug derived from the path's basename is
// looked up in the fallback directory.
func (c *Client) FetchContent(ctx context.Context, path string) (*Result, error) {
	if c.cfg.PAT == "" {
		slug := strings.TrimSuffix(filepath.Base(path), ".md")
		return c.fetchLocalContent(slug)
	}

	cacheKey := fmt.Sprintf("%s/%s/%s/%s", c.cfg.Owner, c.cfg.Repo, c.cfg.Branch, path)
	if cached, ok := c.contentCache.Get(cacheKey); ok {
		return &cached, nil
	}

	rawURL := fmt.Sprintf("%s/%s/%s/%s/%s", c.rawBase, c.cfg.Owner, c.cfg.Repo, c.cfg.Branch, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating request for %s", path)
	}
	req.Header.Set("Authorization", "token "+c.cfg.PAT)
	req.Header.Set("Accept", "application/vnd.github.raw")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "error fetching %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Warn().Str("path", path).Msg("content not found")
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("github API error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", path)
	}

	result := Result{
		Content:      string(body),
		SHA:          strings.Trim(resp.Header.Get("Etag"), `"`),
		LastModified: resp.Header.Get("Last-Modified"),
	}
	c.contentCache.Set(cacheKey, result)
	return &result, nil
}

// ListDirectory lists files in a repo directory, markdown only unless
// includeNonMarkdown. A missing directory is an empty listing.
func (c *Client) ListDirectory(ctx context.Context, dirPath string, includeNonMarkdown bool) ([]FileEntry, error) {
	if c.cfg.PAT == "" {
		return c.listLocalDirectory()
	}

	cacheKey := fmt.Sprintf("list:%s/%s/%s/%s:%t", c.cfg.Owner, c.cfg.Repo, c.cfg.Branch, dirPath, includeNonMarkdown)
	if cached, ok := c.listCache.Get(cacheKey); ok {
		return cached, nil
	}

	entries, err := c.listGitHubDirectory(ctx, dirPath)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		return []FileEntry{}, nil
	}

	files := make([]FileEntry, 0, len(entries))
	for _, e := range entries {
		if e.Type != "file" {
			continue
		}
		if !includeNonMarkdown && !strings.HasSuffix(e.Name, ".md") {
			continue
		}
		files = append(files, e)
	}

	c.listCache.Set(cacheKey, files)
	return files, nil
}

// listGitHubDirectory fetches a raw contents-API listing, nil when the
// directory does not exist.
func (c *Client) listGitHubDirectory(ctx context.Context, dirPath string) ([]FileEntry, error) {
	apiURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		c.apiBase, c.cfg.Owner, c.cfg.Repo, dirPath, c.cfg.Branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating request for %s", dirPath)
	}
	req.Header.Set("Authorization", "token "+c.cfg.PAT)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "error listing %s", dirPath)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Warn().Str("dir", dirPath).Msg("content directory not found")
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("github API error: %d %s", resp.StatusCode, resp.Status)
	}

	var entries []FileEntry
	if err := decodeJSON(resp.Body, &entries); err != nil {
		return nil, errors.Wrapf(err, "error decoding listing of %s", dirPath)
	}
	return entries, nil
}

// fetchLocalContent searches the fallback directory for a file matching the
// slug, tolerating dot differences in version segments.
func (c *Client) fetchLocalContent(slug string) (*Result, error) {
	entries, err := os.ReadDir(c.cfg.LocalDir)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading local content dir %s", c.cfg.LocalDir)
	}

	normalized := NormalizeSlug(slug)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		fileSlug := strings.TrimSuffix(name, ".md")
		if fileSlug != slug && NormalizeSlug(fileSlug) != normalized {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.cfg.LocalDir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "error reading local file %s", name)
		}
		return &Result{Content: string(data), SHA: "local"}, nil
	}

	log.Warn().Str("slug", slug).Msg("no matching local content file")
	return nil, nil
}

func (c *Client) listLocalDirectory() ([]FileEntry, error) {
	entries, err := os.ReadDir(c.cfg.LocalDir)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading local content dir %s", c.cfg.LocalDir)
	}

	files := make([]FileEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		files = append(files, FileEntry{
			Name: e.Name(),
			Path: filepath.Join(c.cfg.LocalDir, e.Name()),
			SHA:  "local",
			Type: "file",
		})
	}
	return files, nil
}

// NormalizeSlug lowercases a slug and strips dots, for loose comparison.
func NormalizeSlug(slug string) string {
	return strings.ReplaceAll(strings.ToLower(slug), ".", "")
}

func decodeJSON(r io.Reader, v interface{}) error {
	return json.NewDecoder(r).Decode(v)
}
