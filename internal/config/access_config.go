package config

import (
	"strings"
	"time"
)

type AccessConfig interface {
	GetAllowedDomains() []string
	GetPasscodePlaintext() string
	GetPasscodeHash() string
	GetPasscodeSalt() string
	GetSessionMaxAge() time.Duration
}

// defaultAllowedDomains are email domains granted access without approval.
var defaultAllowedDomains = []string{
	"darkmatter.vc",
	"darkmatterlongevity.com",
	"lossless.group",
}

type Access struct{}

var _ AccessConfig = Access{}

// GetAllowedDomains returns the auto-approved email domains, from the
// ALLOWED_EMAIL_DOMAINS env var (comma-separated) or the built-in defaults.
func (Access) GetAllowedDomains() []string {
	envDomains := GetEnv("ALLOWED_EMAIL_DOMAINS", "")
	if envDomains == "" {
		return defaultAllowedDomains
	}
	parts := strings.Split(envDomains, ",")
	domains := make([]string, 0, len(parts))
	for _, p := range parts {
		if d := strings.ToLower(strings.TrimSpace(p)); d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}

func (Access) GetPasscodePlaintext() string {
	return GetEnv("UNIVERSAL_PORTFOLIO_PASSCODE_PLAINTEXT", "")
}

func (Access) GetPasscodeHash() string {
	return GetEnv("UNIVERSAL_PORTFOLIO_PASSCODE_HASH", "")
}

func (Access) GetPasscodeSalt() string {
	return GetEnv("UNIVERSAL_PORTFOLIO_PASSCODE_SALT", "")
}

func (Access) GetSessionMaxAge() time.Duration {
	return 24 * time.Hour
}
