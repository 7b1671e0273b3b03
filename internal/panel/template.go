package panel

import (
	"regexp"
	"strings"

	"github.com/five82/lightpanel/internal/device"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^{}\s]+)\}\}`)

// Placeholder returns the markup token replaced by the value of key.
func Placeholder(key string) string {
	return "{{" + key + "}}"
}

// Substitute replaces every {{key}} in markup with the matching response
// value, visiting keys in response order. Keys and values are used
// literally. Placeholders without a matching key are left in place.
func Substitute(markup string, resp device.ConfigResponse) string {
	out := markup
	for _, f := range resp.Fields() {
		out = strings.ReplaceAll(out, Placeholder(f.Key), f.Value)
	}
	return out
}

// Unresolved lists the placeholder keys still present in markup, in order of
// first appearance.
func Unresolved(markup string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(markup, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		keys = append(keys, m[1])
	}
	return keys
}
