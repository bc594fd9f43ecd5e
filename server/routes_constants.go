package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Gate page and public pages
	RouteIndex     = "/"
	RouteGatePage  = "/portfolio-gate"
	RoutePortfolio = "/portfolio"

	// Confidential pages (behind the access gate)
	RoutePortfolioConfidential = "/portfolio/confidential"
	RoutePipelineConfidential  = "/pipeline/confidential"
	RouteMemo                  = "/memos/{slug}"

	// Access API routes
	RouteVerifyEmail    = "/api/verify-email"
	RouteVerifyPasscode = "/api/verify-portfolio-passcode"
	RouteTempAccess     = "/api/verify-temp-access"
	RouteHeartbeat      = "/api/session-heartbeat"

	// Static Asset Routes (patterns)
	RouteStaticCSS   = "/css/{file}"
	RouteStaticJS    = "/js/{file}"
	RouteStaticLogos = "/portfolio/logos/{file}"
)

// protectedPrefixes lists the path prefixes that require an access cookie.
var protectedPrefixes = []string{
	RoutePortfolioConfidential,
	RoutePipelineConfidential,
	"/memos",
}
