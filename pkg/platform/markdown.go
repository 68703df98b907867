package platform

import (
	"strings"
	"unicode/utf8"
)

// truncationMarker is appended when a body exceeds the provider limit.
const truncationMarker = "\n\n---\n\n*Body truncated to fit the provider limit.*"

// TruncateBody shortens a markdown body to at most maxLength bytes,
// cutting on a line boundary where possible and appending a marker so
// readers know content was dropped. Cuts never land inside a multi-byte
// rune. Bodies within the limit are returned unchanged.
func TruncateBody(body string, maxLength int) string {
	if len(body) <= maxLength {
		return body
	}

	limit := maxLength - len(truncationMarker)
	if limit <= 0 {
		return cutAtRune(body, maxLength)
	}

	cut := body[:limit]
	if idx := strings.LastIndexByte(cut, '\n'); idx > 0 {
		cut = cut[:idx]
	} else {
		cut = cutAtRune(body, limit)
	}
	return cut + truncationMarker
}

// cutAtRune truncates body to at most limit bytes, backing up to the
// nearest rune boundary.
func cutAtRune(body string, limit int) string {
	for limit > 0 && !utf8.RuneStart(body[limit]) {
		limit--
	}
	return body[:limit]
}

// StripHTMLComments removes <!-- --> blocks, which plain-text providers
// such as Gerrit would otherwise render literally.
func StripHTMLComments(body string) string {
	for {
		start := strings.Index(body, "<!--")
		if start < 0 {
			return body
		}
		end := strings.Index(body[start:], "-->")
		if end < 0 {
			return body[:start]
		}
		body = body[:start] + body[start+end+len("-->"):]
	}
}
