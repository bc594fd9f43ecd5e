package config

import "github.com/kelseyhightower/envconfig"

type StoreConfig interface {
	GetStoreAPIKey() string
	GetStoreBaseURL() string
	GetStoreBaseID() string
	GetSessionsTableID() string
	GetOrganizationsTableID() string
}

// Store holds the NocoDB connection settings.
type Store struct {
	APIKey               string `envconfig:"NOCODB_API_KEY"`
	BaseURL              string `envconfig:"NOCODB_BASE_URL" default:"https://app.nocodb.com"`
	BaseID               string `envconfig:"NOCODB_BASE_ID" default:"pvop0ydhmtugzvv"`
	SessionsTableID      string `envconfig:"NOCODB_SESSIONS_TABLE_ID" default:"ms0dzr6telg2cxu"`
	OrganizationsTableID string `envconfig:"NOCODB_ORGANIZATIONS_TABLE_ID" default:"myxl4ug85sr1d4p"`
}

var _ StoreConfig = Store{}

func NewStore() (Store, error) {
	s := Store{}
	err := envconfig.Process("", &s)
	return s, err
}

func (s Store) GetStoreAPIKey() string { return s.APIKey }

func (s Store) GetStoreBaseURL() string { return s.BaseURL }

func (s Store) GetStoreBaseID() string { return s.BaseID }

func (s Store) GetSessionsTableID() string { return s.SessionsTableID }

func (s Store) GetOrganizationsTableID() string { return s.OrganizationsTableID }
