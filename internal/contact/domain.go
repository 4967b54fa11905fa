// Package contact derives likely web domains and corporate email addresses
// for Mexican businesses from their registered names.
package contact

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes lists Mexican legal-entity suffixes stripped before
// slugging, longest first so compound forms match before their parts.
var legalSuffixes = []string{
	"s.a.p.i. de c.v.",
	"s. de r.l. de c.v.",
	"s de rl de cv",
	"s.a. de c.v.",
	"sa de cv",
	"s. de r.l.",
	"s.a.",
	"s.c.",
	"a.c.",
}

// accentFolder strips combining marks so "Panadería" slugs to "panaderia".
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and removes diacritics.
func Fold(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Slug reduces a company name to lowercase alphanumerics, with legal-entity
// suffixes and diacritics removed.
func Slug(companyName string) string {
	name := Fold(companyName)
	for _, suffix := range legalSuffixes {
		name = strings.ReplaceAll(name, suffix, " ")
	}

	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GuessDomain returns the likely web domain for a company. A known website
// wins; otherwise the name is slugged and given a .com.mx suffix. It never
// fails: an empty slug still yields a syntactically well-formed string.
func GuessDomain(companyName, website string) string {
	if host := hostOf(website); host != "" {
		return host
	}
	return Slug(companyName) + ".com.mx"
}

// hostOf extracts the lowercased host from a URL-ish string, tolerating a
// missing scheme.
func hostOf(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}

	candidate := website
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" || !strings.Contains(u.Host, ".") {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
