package content

import (
	"regexp"
	"strconv"
	"strings"
)

var frontmatterPattern = regexp.MustCompile(`(?s)^---\r?\n(.*?)\r?\n---\r?\n(.*)$`)

// ParseFrontmatter splits markdown into its frontmatter block and body.
// Only simple "key: value" scalar pairs are handled; memos do not use
// nested YAML. Content without a frontmatter block is all body.
func ParseFrontmatter(content string) (map[string]interface{}, string) {
	frontmatter := map[string]interface{}{}

	m := frontmatterPattern.FindStringSubmatch(content)
	if m == nil {
		return frontmatter, content
	}

	for _, line := range strings.Split(m[1], "\n") {
		key, rawValue, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		frontmatter[key] = parseScalar(strings.TrimSpace(rawValue))
	}

	return frontmatter, m[2]
}

func parseScalar(value string) interface{} {
	if len(value) >= 2 {
		if (strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)) ||
			(strings.HasPrefix(value, `'`) && strings.HasSuffix(value, `'`)) {
			return value[1 : len(value)-1]
		}
	}
	if value == "true" {
		return true
	}
	if value == "false" {
		return false
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	return value
}
