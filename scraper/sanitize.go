package scraper

import "bytes"

var nulByte = []byte{0}

// Sanitize removes stray NUL bytes that some storefront responses embed and
// that break HTML parsing. All other bytes are kept in order.
func Sanitize(body []byte) []byte {
	if bytes.IndexByte(body, 0) < 0 {
		return body
	}
	return bytes.ReplaceAll(body, nulByte, nil)
}
