package utils

import (
	"github.com/microcosm-cc/bluemonday"
)

// postPolicy mirrors the small inline tag whitelist forum posts have always
// accepted. Everything else is stripped; script and style bodies are dropped.
var postPolicy = newPostPolicy()

func newPostPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "blockquote", "code", "em", "i", "li", "ol", "strong", "ul")
	p.AllowAttrs("title").OnElements("abbr", "acronym")
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(false)
	return p
}

// SanitizeHTML returns an HTML-safe version of s with active markup removed.
// Plain text is preserved.
func SanitizeHTML(s string) string {
	return postPolicy.Sanitize(s)
}
