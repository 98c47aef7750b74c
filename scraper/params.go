package scraper

import (
	"net/url"
	"strings"
)

// Param is one query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered query. Encode keeps insertion order, unlike
// url.Values.
type Params []Param

// Set replaces the value of key in place, or appends it.
func (p Params) Set(key, value string) Params {
	for i := range p {
		if p[i].Key == key {
			p[i].Value = value
			return p
		}
	}
	return append(p, Param{Key: key, Value: value})
}

// Del removes key.
func (p Params) Del(key string) Params {
	out := p[:0]
	for _, param := range p {
		if param.Key != key {
			out = append(out, param)
		}
	}
	return out
}

// Get returns the value of key.
func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// Encode renders the query in insertion order.
func (p Params) Encode() string {
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String()
}

// BuildURL joins base, the store prefix and path segments, trims a trailing
// slash and appends the encoded query when there is one.
func BuildURL(base string, path []string, params Params) string {
	u := strings.TrimRight(base, "/") + strings.TrimRight("/store/"+strings.TrimLeft(strings.Join(path, "/"), "/"), "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}
