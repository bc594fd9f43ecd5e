package config

import "github.com/pkg/errors"

type Config interface {
	EnvConfig
	AccessConfig
	StoreConfig
	ContentConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Access
	Store
	Content
}

// New loads configuration from the environment. The store and content
// sections are required to parse; everything else falls back to defaults.
func New() (Config, error) {
	store, err := NewStore()
	if err != nil {
		return nil, errors.Wrap(err, "[config.New] store config")
	}
	content, err := NewContent()
	if err != nil {
		return nil, errors.Wrap(err, "[config.New] content config")
	}
	return mainConfig{
		Store:   store,
		Content: content,
	}, nil
}
