package generator

import (
	"strings"
)

const fence = "```"

// Sanitize prepares a raw completion for JSON parsing.
//
// Surrounding whitespace is trimmed and a fence wrapping the whole completion
// (```json ... ```) is removed. Inside every remaining fenced region, double
// quotes that are not already escaped and raw line breaks or tabs are escaped,
// so code samples embedded in answers do not terminate the JSON string early.
// Text outside fenced regions is never changed. An opening fence with no
// closing fence does not start a region.
func Sanitize(completion string) string {
	s := unwrapFence(strings.TrimSpace(completion))
	return escapeFenced(s)
}

func unwrapFence(s string) string {
	if len(s) < 2*len(fence) || !strings.HasPrefix(s, fence) || !strings.HasSuffix(s, fence) {
		return s
	}

	body := s[len(fence) : len(s)-len(fence)]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && isLanguageTag(body[:nl]) {
		body = body[nl+1:]
	}
	return strings.TrimSpace(body)
}

// isLanguageTag reports whether the text following an opening fence is an info string like "json".
func isLanguageTag(s string) bool {
	s = strings.TrimSpace(s)
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '+') {
			return false
		}
	}
	return true
}

func escapeFenced(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for {
		open := strings.Index(s, fence)
		if open < 0 {
			break
		}
		end := strings.Index(s[open+len(fence):], fence)
		if end < 0 {
			break
		}
		end += open + len(fence)

		sb.WriteString(s[:open+len(fence)])
		sb.WriteString(escapeRegion(s[open+len(fence) : end]))
		sb.WriteString(fence)
		s = s[end+len(fence):]
	}

	sb.WriteString(s)
	return sb.String()
}

func escapeRegion(region string) string {
	var sb strings.Builder
	sb.Grow(len(region) + 8)

	backslashes := 0
	for i := 0; i < len(region); i++ {
		c := region[i]
		switch c {
		case '\\':
			backslashes++
			sb.WriteByte(c)
			continue
		case '"':
			if backslashes%2 == 0 {
				sb.WriteByte('\\')
			}
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
		backslashes = 0
	}

	return sb.String()
}
