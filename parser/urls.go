package parser

import (
	"strings"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// Resolver turns URLs found in storefront markup into absolute URLs.
type Resolver struct {
	base string
}

// NewResolver returns a resolver rooted at the storefront origin.
func NewResolver(base string) *Resolver {
	return &Resolver{base: strings.TrimRight(base, "/") + "/"}
}

// Absolute resolves ref against the storefront origin. Protocol-relative,
// root-relative and absolute references are all accepted. An empty ref
// stays empty.
func (r *Resolver) Absolute(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := urlParser.ParseRef(r.base, ref)
	if err != nil {
		return ref
	}
	return u.Href(false)
}

// AbsoluteOptional is Absolute for optional fields: an empty ref yields nil.
func (r *Resolver) AbsoluteOptional(ref string) *string {
	return optional(r.Absolute(ref))
}
