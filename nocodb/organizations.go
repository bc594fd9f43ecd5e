package nocodb

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// TrademarksSlugs is the logos JSON structure stored on an organization row.
type TrademarksSlugs struct {
	TrademarkDarkMode    string `json:"trademarkDarkMode,omitempty"`
	TrademarkLightMode   string `json:"trademarkLightMode,omitempty"`
	TrademarkVibrantMode string `json:"trademarkVibrantMode,omitempty"`
}

// OrganizationFields matches the organizations table schema.
type OrganizationFields struct {
	ConventionalName string          `json:"conventionalName"`
	OfficialName     string          `json:"officialName"`
	EntityType       string          `json:"Entity-Type,omitempty"`
	URL              string          `json:"url,omitempty"`
	ElevatorPitch    string          `json:"elevatorPitch,omitempty"`
	TrademarksSlugs  json.RawMessage `json:"trademarksSlugs,omitempty"`
}

// PortfolioCompany is the simplified structure the portfolio page renders.
type PortfolioCompany struct {
	ID                 int
	ConventionalName   string
	OfficialName       string
	EntityType         string
	Category           string // "direct" or "lp"
	LogoLightMode      string
	LogoDarkMode       string
	LogoVibrantMode    string
	LogoIsTransparent  bool
	URLToPortfolioSite string
	BlurbShortTxt      string
}

const portfolioLogosBase = "/portfolio/logos"

// OrganizationsStore reads the organizations (portfolio companies) table.
type OrganizationsStore struct {
	client  *Client
	tableID string
}

func NewOrganizationsStore(client *Client, tableID string) *OrganizationsStore {
	return &OrganizationsStore{client: client, tableID: tableID}
}

// PortfolioCompanies fetches and transforms all organizations, sorted by
// conventional name, ready for rendering.
func (os *OrganizationsStore) PortfolioCompanies(ctx context.Context) ([]PortfolioCompany, error) {
	records, err := FetchAllRecords[OrganizationFields](ctx, os.client, os.tableID, QueryParams{
		Sort: []SortParam{{Field: "conventionalName", Direction: "asc"}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "[OrganizationsStore.PortfolioCompanies]")
	}
	return TransformToPortfolioCompanies(records), nil
}

// TransformToPortfolioCompanies maps organization records to the portfolio
// page structure: LP entities become fund investments, everything else a
// direct investment; logo slugs resolve against the static logos directory
// with placeholders for missing art.
func TransformToPortfolioCompanies(records []Record[OrganizationFields]) []PortfolioCompany {
	companies := make([]PortfolioCompany, 0, len(records))
	for _, record := range records {
		fields := record.Fields

		category := "direct"
		if fields.EntityType == "LP" {
			category = "lp"
		}

		trademarks := parseTrademarksSlugs(fields.TrademarksSlugs)
		lightMode := logoPath(trademarks.TrademarkLightMode)
		darkMode := logoPath(trademarks.TrademarkDarkMode)
		vibrantMode := logoPath(trademarks.TrademarkVibrantMode)

		// Transparent SVGs need CSS color treatment on render
		logoIsTransparent := strings.Contains(lightMode, "--Transparent") ||
			strings.Contains(darkMode, "--Transparent")

		if lightMode == "" {
			lightMode = portfolioLogosBase + "/placeholder-light.svg"
		}
		if darkMode == "" {
			darkMode = portfolioLogosBase + "/placeholder-dark.svg"
		}
		if vibrantMode == "" {
			vibrantMode = darkMode
		}

		companies = append(companies, PortfolioCompany{
			ID:                 record.ID,
			ConventionalName:   fields.ConventionalName,
			OfficialName:       fields.OfficialName,
			EntityType:         fields.EntityType,
			Category:           category,
			LogoLightMode:      lightMode,
			LogoDarkMode:       darkMode,
			LogoVibrantMode:    vibrantMode,
			LogoIsTransparent:  logoIsTransparent,
			URLToPortfolioSite: NormalizeURL(fields.URL),
			BlurbShortTxt:      fields.ElevatorPitch,
		})
	}
	return companies
}

// parseTrademarksSlugs decodes the trademarksSlugs field, which arrives
// either as a JSON object or as a JSON-encoded string of one.
func parseTrademarksSlugs(raw json.RawMessage) TrademarksSlugs {
	if len(raw) == 0 {
		return TrademarksSlugs{}
	}

	var trademarks TrademarksSlugs
	if err := json.Unmarshal(raw, &trademarks); err == nil {
		return trademarks
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &trademarks); err == nil {
			return trademarks
		}
	}

	log.Warn().Str("trademarksSlugs", string(raw)).Msg("failed to parse trademarksSlugs JSON")
	return TrademarksSlugs{}
}

func logoPath(slug string) string {
	if slug == "" {
		return ""
	}
	return portfolioLogosBase + "/" + slug
}

// NormalizeURL ensures a URL carries a protocol prefix, empty in = empty out.
func NormalizeURL(url string) string {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}
