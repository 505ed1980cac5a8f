package slug

import (
	"strings"
)

// Make derives a URL-safe slug from a title: lowercase, with runs of
// non-alphanumeric characters collapsed into single hyphens. The result is
// deterministic and idempotent, so Make(Make(s)) == Make(s).
func Make(title string) string {
	out := make([]rune, 0, len(title))
	lastDash := false

	for _, ch := range strings.ToLower(strings.TrimSpace(title)) {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			out = append(out, ch)
			lastDash = false
			continue
		}
		if !lastDash {
			out = append(out, '-')
			lastDash = true
		}
	}

	return strings.Trim(string(out), "-")
}
