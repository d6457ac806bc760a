package ai

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// normalize parses the model reply (optionally wrapped in a ```json fence) and
// renders it as a single multi-line string with === SECTION === headers.
//
// Per-section rendering:
//   - mapping content: each sub-key becomes a titled line; list-valued
//     sub-entries expand to "  - item" bullets, with mapping items flattened
//     to comma-joined "key: value" pairs
//   - list content: one "- item" bullet per element
//   - scalar content: plain text
//
// The four requested sections render first in their canonical order; any
// extra top-level keys the model added follow alphabetically. Sub-keys render
// alphabetically so the output is deterministic for a given reply.
func normalize(raw string) (string, error) {
	cleaned := stripFences(raw)

	var sections map[string]any
	if err := json.Unmarshal([]byte(cleaned), &sections); err != nil {
		return "", err
	}

	var lines []string
	for _, key := range orderedSectionKeys(sections) {
		lines = append(lines, "\n=== "+strings.ToUpper(key)+" ===")

		switch content := sections[key].(type) {
		case map[string]any:
			for _, k := range sortedKeys(content) {
				switch v := content[k].(type) {
				case []any:
					lines = append(lines, "\n"+titleize(k)+":")
					for _, item := range v {
						if m, ok := item.(map[string]any); ok {
							lines = append(lines, "  - "+joinPairs(m))
						} else {
							lines = append(lines, "  - "+formatValue(item))
						}
					}
				default:
					lines = append(lines, "\n"+titleize(k)+":\n"+formatValue(v))
				}
			}
		case []any:
			for _, item := range content {
				lines = append(lines, "- "+formatValue(item))
			}
		default:
			lines = append(lines, formatValue(content))
		}
	}

	return strings.Join(lines, "\n"), nil
}

// stripFences removes an optional leading/trailing triple-backtick block,
// optionally tagged json. Unfenced input passes through unchanged.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// orderedSectionKeys returns the canonical section keys that are present,
// followed by any unexpected extras in alphabetical order.
func orderedSectionKeys(sections map[string]any) []string {
	seen := make(map[string]bool, len(sectionKeys))
	var keys []string
	for _, k := range sectionKeys {
		if _, ok := sections[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var extras []string
	for k := range sections {
		if !seen[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	return append(keys, extras...)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// joinPairs flattens a mapping list item to "key: value, key: value".
func joinPairs(m map[string]any) string {
	parts := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		parts = append(parts, k+": "+formatValue(m[k]))
	}
	return strings.Join(parts, ", ")
}

// titleize turns a snake_case sub-key into a display label:
// "portion_sizes" → "Portion sizes".
func titleize(key string) string {
	s := strings.ToLower(strings.ReplaceAll(key, "_", " "))
	r := []rune(s)
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
