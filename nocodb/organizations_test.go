package nocodb_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/darkmatter-vc/portal/nocodb"
)

func orgRecord(id int, fields nocodb.OrganizationFields) nocodb.Record[nocodb.OrganizationFields] {
	return nocodb.Record[nocodb.OrganizationFields]{ID: id, Fields: fields}
}

func TestTransformCategories(t *testing.T) {
	companies := nocodb.TransformToPortfolioCompanies([]nocodb.Record[nocodb.OrganizationFields]{
		orgRecord(1, nocodb.OrganizationFields{ConventionalName: "Acme", OfficialName: "Acme Inc", EntityType: "C-Corp"}),
		orgRecord(2, nocodb.OrganizationFields{ConventionalName: "Fund IX", OfficialName: "Fund IX LP", EntityType: "LP"}),
	})
	require.Len(t, companies, 2)
	require.Equal(t, "direct", companies[0].Category)
	require.Equal(t, "lp", companies[1].Category)
}

func TestTransformLogoPlaceholders(t *testing.T) {
	companies := nocodb.TransformToPortfolioCompanies([]nocodb.Record[nocodb.OrganizationFields]{
		orgRecord(1, nocodb.OrganizationFields{ConventionalName: "NoArt"}),
	})
	require.Equal(t, "/portfolio/logos/placeholder-light.svg", companies[0].LogoLightMode)
	require.Equal(t, "/portfolio/logos/placeholder-dark.svg", companies[0].LogoDarkMode)
	require.Equal(t, "/portfolio/logos/placeholder-dark.svg", companies[0].LogoVibrantMode)
	require.False(t, companies[0].LogoIsTransparent)
}

func TestTransformTrademarksObject(t *testing.T) {
	trademarks := json.RawMessage(`{"trademarkLightMode":"acme--Transparent.svg","trademarkDarkMode":"acme-dark.svg"}`)
	companies := nocodb.TransformToPortfolioCompanies([]nocodb.Record[nocodb.OrganizationFields]{
		orgRecord(1, nocodb.OrganizationFields{ConventionalName: "Acme", TrademarksSlugs: trademarks}),
	})
	require.Equal(t, "/portfolio/logos/acme--Transparent.svg", companies[0].LogoLightMode)
	require.Equal(t, "/portfolio/logos/acme-dark.svg", companies[0].LogoDarkMode)
	require.Equal(t, "/portfolio/logos/acme-dark.svg", companies[0].LogoVibrantMode)
	require.True(t, companies[0].LogoIsTransparent)
}

func TestTransformTrademarksEncodedString(t *testing.T) {
	// NocoDB sometimes returns the JSON object double-encoded as a string
	trademarks := json.RawMessage(`"{\"trademarkDarkMode\":\"acme-dark.svg\"}"`)
	companies := nocodb.TransformToPortfolioCompanies([]nocodb.Record[nocodb.OrganizationFields]{
		orgRecord(1, nocodb.OrganizationFields{ConventionalName: "Acme", TrademarksSlugs: trademarks}),
	})
	require.Equal(t, "/portfolio/logos/acme-dark.svg", companies[0].LogoDarkMode)
}

func TestTransformMalformedTrademarks(t *testing.T) {
	companies := nocodb.TransformToPortfolioCompanies([]nocodb.Record[nocodb.OrganizationFields]{
		orgRecord(1, nocodb.OrganizationFields{ConventionalName: "Acme", TrademarksSlugs: json.RawMessage(`"not json"`)}),
	})
	require.Equal(t, "/portfolio/logos/placeholder-light.svg", companies[0].LogoLightMode)
}

func TestNormalizeURL(t *testing.T) {
	require.Equal(t, "", nocodb.NormalizeURL("  "))
	require.Equal(t, "https://acme.com", nocodb.NormalizeURL("acme.com"))
	require.Equal(t, "https://acme.com", nocodb.NormalizeURL("https://acme.com"))
	require.Equal(t, "http://acme.com", nocodb.NormalizeURL("http://acme.com"))
}
