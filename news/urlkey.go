package news

import (
	"errors"
	"net/url"
	"sort"
	"strings"
)

// clickIDParams are per-click tracking parameters stripped before comparing
// URLs. Any utm_* parameter is stripped as well.
var clickIDParams = map[string]struct{}{
	"gclid":   {},
	"dclid":   {},
	"fbclid":  {},
	"msclkid": {},
	"igshid":  {},
}

// canonicalKey reduces a URL to a comparison key so the same article reached
// through scheme variants, a www prefix or tracking links dedupes to one
// candidate. The key drops the scheme entirely and is not a usable URL.
func canonicalKey(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		if strings.HasPrefix(raw, "//") {
			raw = "https:" + raw
		} else {
			raw = "https://" + raw
		}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if h, p, ok := strings.Cut(host, ":"); ok && (p == "80" || p == "443") {
		host = h
	}
	if host == "" {
		return "", errors.New("url missing host")
	}

	return host + strings.TrimSuffix(u.EscapedPath(), "/") + comparableQuery(u.Query()), nil
}

// comparableQuery renders the query with tracking parameters removed and the
// rest sorted, so parameter order never splits one article into two keys.
func comparableQuery(query url.Values) string {
	for key := range query {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "utm_") {
			query.Del(key)
			continue
		}
		if _, drop := clickIDParams[lower]; drop {
			query.Del(key)
		}
	}
	if len(query) == 0 {
		return ""
	}

	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		values := append([]string(nil), query[key]...)
		sort.Strings(values)
		for _, v := range values {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return "?" + b.String()
}
