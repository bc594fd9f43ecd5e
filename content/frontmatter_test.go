package content_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/darkmatter-vc/portal/content"
)

func TestParseFrontmatter(t *testing.T) {
	doc := "---\n" +
		"title: \"Acme: The Memo\"\n" +
		"company: Acme\n" +
		"confidential: true\n" +
		"version: 0.3\n" +
		"date: 2026-08-12\n" +
		"---\n" +
		"# Thesis\n\nBody text."

	fm, body := content.ParseFrontmatter(doc)
	require.Equal(t, "Acme: The Memo", fm["title"])
	require.Equal(t, "Acme", fm["company"])
	require.Equal(t, true, fm["confidential"])
	require.Equal(t, 0.3, fm["version"])
	require.Equal(t, "2026-08-12", fm["date"])
	require.Equal(t, "# Thesis\n\nBody text.", body)
}

func TestParseFrontmatterCRLF(t *testing.T) {
	doc := "---\r\ntitle: Memo\r\n---\r\nbody"
	fm, body := content.ParseFrontmatter(doc)
	require.Equal(t, "Memo", fm["title"])
	require.Equal(t, "body", body)
}

func TestParseFrontmatterAbsent(t *testing.T) {
	fm, body := content.ParseFrontmatter("just markdown")
	require.Empty(t, fm)
	require.Equal(t, "just markdown", body)
}
