package wyvern

import (
	"bytes"
	"net"
	"strconv"
	"strings"
	"time"
)

// SameSite is the SameSite attribute of a response cookie.
type SameSite int

// SameSite values.
const (
	SameSiteDefault SameSite = iota
	SameSiteLax
	SameSiteStrict
	SameSiteNone
)

func (s SameSite) String() string {
	switch s {
	case SameSiteLax:
		return "Lax"
	case SameSiteStrict:
		return "Strict"
	case SameSiteNone:
		return "None"
	default:
		return ""
	}
}

// CookieOptions configures a response cookie set via Response.SetCookie.
type CookieOptions struct {
	HTTPOnly bool
	Secure   bool
	SameSite SameSite
	Path     string
	Domain   string

	// MaxAge, in seconds. Zero omits the attribute; negative expires the
	// cookie immediately (serialized as Max-Age=0).
	MaxAge int

	// Expires, as a Unix timestamp. Zero omits the attribute.
	Expires int64
}

// setCookie is an outbound (Set-Cookie) cookie awaiting serialization.
type setCookie struct {
	name    string
	value   string
	options CookieOptions
}

// String returns the serialization of c as a Set-Cookie header value, with
// attributes ordered HttpOnly, SameSite, Secure, Path, Domain, Max-Age,
// Expires, matching RFC 6265's conventional ordering.
func (c *setCookie) String() string {
	if !validCookieName(c.name) {
		return ""
	}

	buf := bytes.Buffer{}

	name := strings.ReplaceAll(c.name, "\r", "-")
	name = strings.ReplaceAll(name, "\n", "-")
	value := sanitizeCookie(c.value, validCookieValueByte)
	if strings.IndexByte(value, ' ') >= 0 || strings.IndexByte(value, ',') >= 0 {
		value = `"` + value + `"`
	}

	buf.WriteString(name)
	buf.WriteByte('=')
	buf.WriteString(value)

	if c.options.HTTPOnly {
		buf.WriteString("; HttpOnly")
	}

	if s := c.options.SameSite.String(); s != "" {
		buf.WriteString("; SameSite=")
		buf.WriteString(s)
	}

	if c.options.Secure {
		buf.WriteString("; Secure")
	}

	if c.options.Path != "" {
		buf.WriteString("; Path=")
		buf.WriteString(sanitizeCookie(c.options.Path, func(b byte) bool {
			return 0x20 <= b && b < 0x7f && b != ';'
		}))
	}

	if validCookieDomain(c.options.Domain) {
		d := c.options.Domain
		if d[0] == '.' {
			d = d[1:]
		}
		buf.WriteString("; Domain=")
		buf.WriteString(d)
	}

	if c.options.MaxAge != 0 {
		buf.WriteString("; Max-Age=")
		buf.WriteString(strconv.Itoa(maxAgeOrZero(c.options.MaxAge)))
	}

	if c.options.Expires > 0 {
		buf.WriteString("; Expires=")
		buf.WriteString(time.Unix(c.options.Expires, 0).UTC().Format(httpTimeFormat))
	}

	return buf.String()
}

func maxAgeOrZero(maxAge int) int {
	if maxAge < 0 {
		return 0
	}
	return maxAge
}

const httpTimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// clearCookieString returns the Set-Cookie header value used to clear a
// cookie named name: an empty value, root path, and Max-Age=0.
func clearCookieString(name string) string {
	if !validCookieName(name) {
		return ""
	}
	return name + "=; Path=/; Max-Age=0"
}

// parseCookieHeader parses the value of a Cookie request header
// ("name=value" pairs separated by "; ") into a name-to-value mapping.
func parseCookieHeader(header string) map[string]string {
	cookies := map[string]string{}
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, value, found := cutFirst(part, '=')
		if !found {
			continue
		}

		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if len(value) > 1 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}

		if validCookieName(name) {
			cookies[name] = value
		}
	}
	return cookies
}

// validCookieName returns whether n is a valid cookie name.
func validCookieName(n string) bool {
	return n != "" && strings.IndexFunc(n, func(r rune) bool {
		return !strings.ContainsRune(
			"!#$%&'*+-."+
				"0123456789"+
				"ABCDEFGHIJKLMNOPQRSTUWVXYZ"+
				"^_`"+
				"abcdefghijklmnopqrstuvwxyz"+
				"|~",
			r,
		)
	}) < 0
}

func validCookieValueByte(b byte) bool {
	return 0x20 <= b && b < 0x7f && b != '"' && b != ';' && b != '\\'
}

// validCookieDomain returns whether d is a valid cookie domain.
func validCookieDomain(d string) bool {
	if l := len(d); l == 0 || l > 255 {
		return false
	}

	if net.ParseIP(d) != nil && !strings.Contains(d, ":") {
		return true
	}

	if d[0] == '.' {
		// A cookie domain attribute may start with a leading dot.
		d = d[1:]
	}

	ok := false // Ok once we have seen a letter.
	last := byte('.')
	partLen := 0
	for i := 0; i < len(d); i++ {
		c := d[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
			ok = true
			partLen++
		case '0' <= c && c <= '9':
			partLen++
		case c == '-':
			if last == '.' {
				return false
			}
			partLen++
		case c == '.':
			if last == '.' || last == '-' {
				return false
			}
			if partLen > 63 || partLen == 0 {
				return false
			}
			partLen = 0
		default:
			return false
		}
		last = c
	}

	if last == '-' || partLen > 63 {
		return false
	}

	return ok
}

func sanitizeCookie(s string, valid func(byte) bool) string {
	ok := true
	for i := 0; i < len(s); i++ {
		if !valid(s[i]) {
			ok = false
			break
		}
	}
	if ok {
		return s
	}

	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if b := s[i]; valid(b) {
			buf = append(buf, b)
		}
	}
	return string(buf)
}
