package domain

import (
	"fmt"
	"net/url"
)

// FaviconURL derives the favicon address for rawURL by templating its
// hostname into service (which must contain a single %s).
// Unparseable URLs, or URLs without a host, yield "".
func FaviconURL(service, rawURL string) string {
	if service == "" || rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" {
		return ""
	}
	return fmt.Sprintf(service, host)
}
