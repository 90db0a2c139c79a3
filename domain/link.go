package domain

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

var blockedHostnames = map[string]struct{}{
	"localhost":                {},
	"0.0.0.0":                  {},
	"metadata.google.internal": {},
}

// ValidateURL parses raw and checks that it is an absolute http(s) URL that
// does not point at a local, link-local or private address.
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	if _, blocked := blockedHostnames[host]; blocked {
		return nil, fmt.Errorf("%w: host %q is not allowed", ErrInvalidURL, host)
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return nil, fmt.Errorf("%w: address %q is not allowed", ErrInvalidURL, host)
		}
	}

	return u, nil
}

// CleanURL strips utm_* tracking parameters and the fragment.
func CleanURL(u *url.URL) string {
	cleaned := *u
	cleaned.Fragment = ""
	cleaned.RawFragment = ""

	if cleaned.RawQuery != "" {
		q := cleaned.Query()
		removed := false
		for key := range q {
			if strings.HasPrefix(strings.ToLower(key), "utm_") {
				q.Del(key)
				removed = true
			}
		}
		if removed {
			cleaned.RawQuery = q.Encode()
		}
	}

	return cleaned.String()
}

// ResolveItemLink picks the canonical link of an item. Links marked rel=via
// win over rel=alternate, which win over rel=self or unmarked link elements,
// which win over bare hrefs. Each candidate is resolved against feedURL and
// the first one that validates is returned.
func ResolveItemLink(links []ItemLink, feedURL string) (string, error) {
	base, err := url.Parse(feedURL)
	if err != nil {
		return "", fmt.Errorf("%w: feed url: %v", ErrInvalidItemLink, err)
	}

	var via, alternate, self string
	plain := make([]string, 0, len(links))
	for _, l := range links {
		href := strings.TrimSpace(l.Href)
		if href == "" {
			continue
		}
		switch {
		case l.Plain:
			plain = append(plain, href)
		case l.Rel == LinkRelVia:
			if via == "" {
				via = href
			}
		case l.Rel == LinkRelAlternate:
			if alternate == "" {
				alternate = href
			}
		case l.Rel == LinkRelSelf || l.Rel == "":
			if self == "" {
				self = href
			}
		}
	}

	candidates := append([]string{via, alternate, self}, plain...)
	for _, c := range candidates {
		if c == "" {
			continue
		}
		ref, err := url.Parse(c)
		if err != nil {
			continue
		}
		resolved, err := ValidateURL(base.ResolveReference(ref).String())
		if err != nil {
			continue
		}
		return CleanURL(resolved), nil
	}

	return "", ErrInvalidItemLink
}
