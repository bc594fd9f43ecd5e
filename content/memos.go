package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseDir is the deals folder in the content repository.
	DefaultBaseDir = "deals"

	latestMemoCacheTTL = 10 * time.Minute
)

// Version is a parsed semver-style memo version: major, minor, patch.
type Version [3]int

var versionPattern = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)$`)

// ParseVersion parses "v0.0.2" or "0.0.2".
func ParseVersion(s string) (Version, bool) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, false
	}
	var v Version
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, false
		}
		v[i] = n
	}
	return v, true
}

// CompareVersions returns -1, 0, or 1 as a is less than, equal to, or
// greater than b.
func CompareVersions(a, b Version) int {
	for i := 0; i < 3; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

var versionedNamePattern = regexp.MustCompile(`^(.+?)-(v\d+\.\d+\.\d+)(?:-.*)?$`)

// parseVersionedName splits "MitrixBio-v0.0.2" into company and version.
func parseVersionedName(name string) (company, version string, ok bool) {
	m := versionedNamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// urlVersionToDotted converts a URL-safe version (v002) to its dotted form
// (v0.0.2). Anything that is not exactly three digits passes through.
func urlVersionToDotted(urlVersion string) string {
	digits := urlVersion[1:]
	if len(digits) == 3 {
		return fmt.Sprintf("v%c.%c.%c", digits[0], digits[1], digits[2])
	}
	return urlVersion
}

var (
	numberedSlugPattern   = regexp.MustCompile(`^\d+-(.+?)-(v\d+\.\d+\.\d+)$`)
	urlVersionSlugPattern = regexp.MustCompile(`^(.+?)-(v\d{3})(-.*)?$`)
	dottedSlugPattern     = regexp.MustCompile(`^(.+?)-(v\d+\.\d+\.\d+)(-.*)?$`)
)

// DeriveMemoPath derives the repository path for a memo slug.
//
// Repo structure: {baseDir}/{Company}/outputs/{Company}-{version}/{slug}.md
//
// Handled slug formats:
//   - numbered prefix: 6-RavenGraph-v0.0.3
//   - URL-safe version: Aito-v002-draft (v002 becomes v0.0.2 in the path)
//   - dotted version: Class5-Global-v0.0.2-draft
func DeriveMemoPath(slug, baseDir string) string {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}

	if m := numberedSlugPattern.FindStringSubmatch(slug); m != nil {
		company, version := m[1], m[2]
		return fmt.Sprintf("%s/%s/outputs/%s-%s/%s.md", baseDir, company, company, version, slug)
	}

	if m := urlVersionSlugPattern.FindStringSubmatch(slug); m != nil {
		company, urlVersion, suffix := m[1], m[2], m[3]
		dotted := urlVersionToDotted(urlVersion)
		return fmt.Sprintf("%s/%s/outputs/%s-%s/%s-%s%s.md", baseDir, company, company, dotted, company, dotted, suffix)
	}

	if m := dottedSlugPattern.FindStringSubmatch(slug); m != nil {
		company, version := m[1], m[2]
		return fmt.Sprintf("%s/%s/outputs/%s-%s/%s.md", baseDir, company, company, version, slug)
	}

	return fmt.Sprintf("%s/%s.md", baseDir, slug)
}

type companyVersion struct {
	version string
	path    string
}

// findDraftMemo picks the draft memo out of a version directory's markdown
// files, trying the naming conventions in priority order: the -draft suffix,
// a numbered prefix, the plain name, then any file mentioning both company
// and version.
func findDraftMemo(fileNames []string, companyName, version string) string {
	company := regexp.QuoteMeta(companyName)
	ver := regexp.QuoteMeta(version)

	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?i)^` + company + `-` + ver + `-draft\.md$`),
		regexp.MustCompile(`(?i)^\d+-` + company + `-` + ver + `\.md$`),
		regexp.MustCompile(`(?i)^` + company + `-` + ver + `\.md$`),
		regexp.MustCompile(`(?i)` + company + `.*` + ver),
	}

	for _, pattern := range patterns {
		for _, name := range fileNames {
			if !strings.HasSuffix(name, ".md") {
				continue
			}
			if pattern.MatchString(name) {
				return strings.TrimSuffix(name, ".md")
			}
		}
	}
	return ""
}

// LatestMemoSlug discovers the newest memo for a company: list its outputs
// directory, pick the highest version, then find the draft memo inside.
// Empty when the company has no memo. Results are cached for ten minutes.
func (c *Client) LatestMemoSlug(ctx context.Context, companyName string) (string, error) {
	cacheKey := "latest:" + companyName
	if cached, ok := c.latestCache.Get(cacheKey); ok {
		if cached == nil {
			return "", nil
		}
		return *cached, nil
	}

	versions, err := c.listCompanyVersions(ctx, companyName)
	if err != nil {
		return "", err
	}

	latest, ok := highestVersion(versions)
	if !ok {
		log.Info().Str("company", companyName).Msg("no memo versions found")
		c.latestCache.Set(cacheKey, nil)
		return "", nil
	}

	names, err := c.versionDirFileNames(ctx, latest.path)
	if err != nil {
		return "", err
	}

	slug := findDraftMemo(names, companyName, latest.version)
	if slug == "" {
		c.latestCache.Set(cacheKey, nil)
		return "", nil
	}

	c.latestCache.Set(cacheKey, &slug)
	return slug, nil
}

// LatestMemoSlugs resolves latest memo slugs for several companies. Missing
// memos map to the empty string.
func (c *Client) LatestMemoSlugs(ctx context.Context, companyNames []string) (map[string]string, error) {
	results := make(map[string]string, len(companyNames))
	for _, name := range companyNames {
		slug, err := c.LatestMemoSlug(ctx, name)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve latest memo for %s", name)
		}
		results[name] = slug
	}
	return results, nil
}

func highestVersion(versions []companyVersion) (companyVersion, bool) {
	var best companyVersion
	var bestParsed Version
	found := false
	for _, v := range versions {
		parsed, ok := ParseVersion(v.version)
		if !ok {
			continue
		}
		if !found || CompareVersions(parsed, bestParsed) > 0 {
			best, bestParsed, found = v, parsed, true
		}
	}
	return best, found
}

func (c *Client) listCompanyVersions(ctx context.Context, companyName string) ([]companyVersion, error) {
	outputsPath := fmt.Sprintf("%s/%s/outputs", DefaultBaseDir, companyName)

	if c.LocalMode() {
		localPath := filepath.Join(c.cfg.LocalDir, companyName, "outputs")
		entries, err := os.ReadDir(localPath)
		if err != nil {
			log.Warn().Str("company", companyName).Msg("no local outputs directory")
			return nil, nil
		}
		var versions []companyVersion
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			company, version, ok := parseVersionedName(e.Name())
			if ok && company == companyName {
				versions = append(versions, companyVersion{version: version, path: filepath.Join(localPath, e.Name())})
			}
		}
		return versions, nil
	}

	entries, err := c.listGitHubDirectory(ctx, outputsPath)
	if err != nil {
		return nil, errors.Wrapf(err, "list versions for %s", companyName)
	}
	var versions []companyVersion
	for _, e := range entries {
		if e.Type != "dir" {
			continue
		}
		company, version, ok := parseVersionedName(e.Name)
		if ok && company == companyName {
			versions = append(versions, companyVersion{version: version, path: e.Path})
		}
	}
	return versions, nil
}

func (c *Client) versionDirFileNames(ctx context.Context, dirPath string) ([]string, error) {
	if c.LocalMode() {
		entries, err := os.ReadDir(dirPath)
		if err != nil {
			return nil, nil
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		return names, nil
	}

	entries, err := c.listGitHubDirectory(ctx, dirPath)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dirPath)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type == "file" {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

// Memo is a fetched memo split into frontmatter and body.
type Memo struct {
	Result      Result
	Frontmatter map[string]interface{}
	Body        string
}

// FetchMemoBySlug fetches a memo by slug, deriving its repository path from
// the slug structure. Nil when the memo does not exist.
func (c *Client) FetchMemoBySlug(ctx context.Context, slug string) (*Memo, error) {
	var result *Result
	var err error

	if c.LocalMode() {
		result, err = c.fetchLocalMemo(slug)
	} else {
		path := DeriveMemoPath(slug, DefaultBaseDir)
		log.Info().Str("path", path).Msg("fetching memo from derived path")
		result, err = c.FetchContent(ctx, path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "fetch memo %s", slug)
	}
	if result == nil {
		return nil, nil
	}

	frontmatter, body := ParseFrontmatter(result.Content)
	return &Memo{Result: *result, Frontmatter: frontmatter, Body: body}, nil
}

// fetchLocalMemo tries the derived directory layout under LocalDir first,
// then falls back to a flat file matching the slug.
func (c *Client) fetchLocalMemo(slug string) (*Result, error) {
	relative := DeriveMemoPath(slug, ".")
	fullPath := filepath.Join(c.cfg.LocalDir, relative)
	if data, err := os.ReadFile(fullPath); err == nil {
		return &Result{Content: string(data), SHA: "local"}, nil
	}
	return c.fetchLocalContent(slug)
}
