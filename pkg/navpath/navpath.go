// Package navpath decides whether a navigation link refers to the
// current page. Hrefs and document URLs are reduced to a canonical
// path (origin stripped, trailing slash and index page normalized
// away) before comparison.
package navpath

import (
	"net/url"
	"strings"
)

// Schemes that never address a page and therefore never match.
var nonNavigable = []string{"mailto:", "tel:", "javascript:"}

// IsNonNavigable reports whether href uses a scheme that can never
// refer to the current page.
func IsNonNavigable(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	for _, scheme := range nonNavigable {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// CanonicalPath normalizes a bare path component:
//   - empty input becomes "/"
//   - a leading "/" is forced
//   - a trailing "/index.html" is stripped, case-insensitively
//   - a trailing slash is stripped, except for the root
func CanonicalPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	lower := strings.ToLower(p)
	if strings.HasSuffix(lower, "/index.html") {
		p = p[:len(p)-len("index.html")]
	}

	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}

// Canonical resolves ref against base and returns its canonical path.
// A malformed ref never fails: it degrades to manual splitting on "?"
// and "#" with the same normalization applied.
func Canonical(ref, base string) string {
	path, _ := splitRef(ref, base)
	return path
}

// Fragment returns the fragment of ref resolved against base, without
// the leading "#". Empty when ref carries no fragment.
func Fragment(ref, base string) string {
	_, frag := splitRef(ref, base)
	return frag
}

// splitRef resolves ref against base and returns (canonical path,
// fragment). The fragment keeps its presence distinct from emptiness
// only as far as the matcher needs: a bare "#" counts as no fragment.
func splitRef(ref, base string) (string, string) {
	if u, err := url.Parse(ref); err == nil {
		if base != "" {
			if b, berr := url.Parse(base); berr == nil {
				u = b.ResolveReference(u)
			}
		}
		return CanonicalPath(u.Path), u.Fragment
	}

	// Malformed URL: manual splitting, never an error.
	s := ref
	frag := ""
	if i := strings.IndexByte(s, '#'); i >= 0 {
		frag = s[i+1:]
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	return CanonicalPath(s), frag
}

// Matches reports whether linkHref refers to the page at currentURL.
//
// Non-navigable schemes never match. Otherwise both sides are reduced
// to canonical paths; equality is required, and when the link carries
// a fragment the fragment must also equal the current URL's fragment.
// A link without a fragment matches on path alone.
func Matches(linkHref, currentURL string) bool {
	if IsNonNavigable(linkHref) {
		return false
	}

	linkPath, linkFrag := splitRef(linkHref, currentURL)
	curPath, curFrag := splitRef(currentURL, "")

	if linkPath != curPath {
		return false
	}
	if linkFrag != "" && linkFrag != curFrag {
		return false
	}
	return true
}

// SectionMatch returns the index of the first href (in the given
// order) whose canonical path is a non-root section prefix of the
// current canonical path, or -1. It is the fallback tier used when no
// link matches exactly; at most one index is ever produced, and the
// first candidate in order wins.
func SectionMatch(hrefs []string, currentURL string) int {
	curPath, _ := splitRef(currentURL, "")
	for i, href := range hrefs {
		if IsNonNavigable(href) {
			continue
		}
		linkPath, _ := splitRef(href, currentURL)
		if linkPath == "/" || linkPath == curPath {
			continue
		}
		if strings.HasPrefix(curPath, linkPath+"/") {
			return i
		}
	}
	return -1
}
