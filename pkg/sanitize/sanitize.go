package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var policy *bluemonday.Policy
var policyOnce sync.Once

// Sanitize cleans remote-authored markdown (issue titles, descriptions,
// comment bodies) before it is handed back to the host.
func Sanitize(input string) string {
	return FilterHTMLTags(FilterInvisibleCharacters(input))
}

// FilterInvisibleCharacters removes invisible or control characters that
// should not appear in user-facing text:
// - Unicode tag characters: U+E0001, U+E0020-U+E007F
// - BiDi control characters: U+202A-U+202E, U+2066-U+2069
// - Hidden modifier characters: U+200B, U+200C, U+200E, U+200F, U+00AD, U+FEFF, U+180E, U+2060-U+2064
func FilterInvisibleCharacters(input string) string {
	if input == "" {
		return input
	}

	out := make([]rune, 0, len(input))
	for _, r := range input {
		if !shouldRemoveRune(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// FilterHTMLTags strips HTML markup, leaving plain text and markdown intact.
func FilterHTMLTags(input string) string {
	if input == "" {
		return input
	}
	return getPolicy().Sanitize(input)
}

func shouldRemoveRune(r rune) bool {
	switch {
	case r == 0xE0001:
		return true
	case r >= 0xE0020 && r <= 0xE007F:
		return true
	case r >= 0x202A && r <= 0x202E:
		return true
	case r >= 0x2066 && r <= 0x2069:
		return true
	case r == 0x200B, r == 0x200C, r == 0x200E, r == 0x200F:
		return true
	case r == 0x00AD, r == 0xFEFF, r == 0x180E:
		return true
	case r >= 0x2060 && r <= 0x2064:
		return true
	}
	return false
}

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}
