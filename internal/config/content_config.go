package config

import "github.com/kelseyhightower/envconfig"

type ContentConfig interface {
	GetContentPAT() string
	GetContentOwner() string
	GetContentRepo() string
	GetContentBranch() string
	GetContentLocalDir() string
	GetMemoDiscoveryLocal() bool
}

// Content holds the private GitHub content-store settings. When no PAT is
// configured the content client falls back to reading from LocalDir.
type Content struct {
	PAT            string `envconfig:"GITHUB_CONTENT_PAT"`
	Owner          string `envconfig:"GITHUB_CONTENT_OWNER" default:"lossless-group"`
	Repo           string `envconfig:"GITHUB_CONTENT_REPO" default:"dark-matter-secure-data"`
	Branch         string `envconfig:"GITHUB_CONTENT_BRANCH" default:"main"`
	LocalDir       string `envconfig:"GITHUB_CONTENT_LOCAL_DIR" default:"content/markdown-memos"`
	DiscoveryLocal bool   `envconfig:"MEMO_DISCOVERY_LOCAL"`
}

var _ ContentConfig = Content{}

func NewContent() (Content, error) {
	c := Content{}
	err := envconfig.Process("", &c)
	return c, err
}

func (c Content) GetContentPAT() string { return c.PAT }

func (c Content) GetContentOwner() string { return c.Owner }

func (c Content) GetContentRepo() string { return c.Repo }

func (c Content) GetContentBranch() string { return c.Branch }

func (c Content) GetContentLocalDir() string { return c.LocalDir }

func (c Content) GetMemoDiscoveryLocal() bool { return c.DiscoveryLocal }
