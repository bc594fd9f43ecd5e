package dates

import (
	"time"

	"github.com/pkg/errors"
)

// Format identifies a preset display format for dates. Dates are stored in
// ISO format (YYYY-MM-DD) and converted to a display format at render time.
type Format string

const (
	FormatISO            Format = "iso"            // 2025-12-26
	FormatCitation       Format = "citation"       // 2025, Dec 26
	FormatFull           Format = "full"           // December 26, 2025
	FormatShort          Format = "short"          // Dec 26, 2025
	FormatMonthYear      Format = "monthYear"      // December 2025
	FormatMonthYearShort Format = "monthYearShort" // Dec 2025
	FormatYearOnly       Format = "yearOnly"       // 2025
	FormatUS             Format = "us"             // 12/26/2025
	FormatEU             Format = "eu"             // 26/12/2025
)

// DefaultFormat is the site-wide default.
const DefaultFormat = FormatCitation

var layouts = map[Format]string{
	FormatISO:            "2006-01-02",
	FormatCitation:       "2006, Jan 2",
	FormatFull:           "January 2, 2006",
	FormatShort:          "Jan 2, 2006",
	FormatMonthYear:      "January 2006",
	FormatMonthYearShort: "Jan 2006",
	FormatYearOnly:       "2006",
	FormatUS:             "01/02/2006",
	FormatEU:             "02/01/2006",
}

var parseLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Parse parses a raw date string in ISO or RFC3339 form.
func Parse(raw string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unparseable date %q", raw)
}

// FormatDate converts a raw stored date to a display format. Invalid or empty
// input yields the fallback text.
func FormatDate(raw string, format Format, fallback string) string {
	if raw == "" {
		return fallback
	}
	t, err := Parse(raw)
	if err != nil {
		return fallback
	}
	layout, ok := layouts[format]
	if !ok {
		layout = layouts[DefaultFormat]
	}
	return t.Format(layout)
}
