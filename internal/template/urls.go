package template

import (
	"net/url"
	"strings"
)

// ResolveURL resolves a user-supplied page entry against the site base URL.
// Absolute http/https URLs pass through untouched, anything else is treated
// as a root-relative path. Entries that fail to parse are returned verbatim
// so a typo never drops a page the owner asked for.
func ResolveURL(base, entry string) string {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return ""
	}

	u, err := url.Parse(entry)
	if err != nil {
		return entry
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return entry
	}

	if strings.HasPrefix(entry, "/") {
		return base + entry
	}
	return base + "/" + entry
}

// NormalizeURL lower-cases a URL and strips any trailing slash, giving the
// canonical form used for de-duplication and priority matching.
func NormalizeURL(raw string) string {
	n := strings.ToLower(strings.TrimSpace(raw))
	return strings.TrimRight(n, "/")
}

// Slugify converts a section name into the URL fragment used for
// substring-based section matching.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// TitleFromURL derives a human-readable title from the last path segment of
// a URL. The root path becomes "Home".
func TitleFromURL(raw string) string {
	u, err := url.Parse(raw)
	path := raw
	if err == nil {
		path = u.Path
	}

	path = strings.Trim(path, "/")
	if path == "" {
		return "Home"
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	last = strings.NewReplacer("-", " ", "_", " ").Replace(last)

	words := strings.Fields(last)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
