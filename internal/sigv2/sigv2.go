// Package sigv2 implements AWS signature version 2 request signing.
package sigv2

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"hash"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Version is the wire value of the SignatureVersion request parameter.
const Version = "2"

// TimeLayout renders request timestamps: UTC, second precision, no zone
// designator.
const TimeLayout = "2006-01-02T15:04:05"

// Method is an HMAC signing algorithm. Name is the wire value of the
// SignatureMethod request parameter.
type Method struct {
	Name string
	New  func() hash.Hash
}

// HMACSHA256 is the default signing algorithm. HMACSHA1 exists for
// endpoints that predate SHA-256 support.
var (
	HMACSHA256 = Method{Name: "HmacSHA256", New: sha256.New}
	HMACSHA1   = Method{Name: "HmacSHA1", New: sha1.New}
)

// Timestamp formats t for the Timestamp request parameter.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

const upperhex = "0123456789ABCDEF"

// Escape percent-encodes s for signing. Only unreserved characters
// (letters, digits, '-', '_', '.', '~') pass through; every other byte
// is encoded with uppercase hex. url.QueryEscape cannot be used here:
// it emits '+' for spaces and lowercase hex, both of which break the
// signature.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xf])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	}
	return false
}

// CanonicalQuery renders params in the form that gets signed: name-sorted
// key=value pairs joined with '&', Escape applied to both sides, with any
// Signature parameter left out.
func CanonicalQuery(params url.Values) string {
	return encodePairs(params, true)
}

// Encode renders params as a POST request body. Unlike CanonicalQuery it
// keeps the Signature parameter; the same escaping ensures the body the
// server verifies matches the bytes that were signed.
func Encode(params url.Values) string {
	return encodePairs(params, false)
}

func encodePairs(params url.Values, skipSignature bool) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if skipSignature && k == "Signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []string
	for _, k := range keys {
		values := append([]string(nil), params[k]...)
		sort.Strings(values)
		for _, v := range values {
			pairs = append(pairs, Escape(k)+"="+Escape(v))
		}
	}
	return strings.Join(pairs, "&")
}

// StringToSign builds the version 2 base string for a request: uppercased
// method, lowercased host, request path, and canonical query, joined by
// newlines. An empty path is signed as "/".
func StringToSign(method, rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("sigv2: parse url %q: %w", rawURL, err)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return strings.Join([]string{
		strings.ToUpper(method),
		strings.ToLower(u.Host),
		path,
		CanonicalQuery(params),
	}, "\n"), nil
}

// Sign computes the base64 signature of a request under secret.
func (m Method) Sign(method, rawURL string, params url.Values, secret string) (string, error) {
	base, err := StringToSign(method, rawURL, params)
	if err != nil {
		return "", err
	}
	mac := hmac.New(m.New, []byte(secret))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
