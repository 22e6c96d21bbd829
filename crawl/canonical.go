package crawl

import (
	"net/url"
	"strings"

	"github.com/fwojciec/sitemapgen"
)

// Canonicalizer resolves raw link text against a page and reduces it to
// the canonical address used for crawl identity. Only addresses on the
// root's origin that pass the filter are accepted.
type Canonicalizer struct {
	root   *url.URL
	filter *sitemapgen.URLFilter
}

// NewCanonicalizer creates a Canonicalizer for the site at rootURL.
// The root must be an absolute http or https URL.
func NewCanonicalizer(rootURL string, filter *sitemapgen.URLFilter) (*Canonicalizer, error) {
	raw := strings.TrimSpace(rootURL)
	if raw == "" {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "root URL required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "invalid root URL %q: %v", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "root URL must be absolute: %q", raw)
	}
	if s := strings.ToLower(u.Scheme); s != "http" && s != "https" {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "root URL must use http or https: %q", raw)
	}
	return &Canonicalizer{root: canonicalURL(u.ResolveReference(&url.URL{})), filter: filter}, nil
}

// Root returns the canonical form of the root URL.
func (c *Canonicalizer) Root() string {
	return c.root.String()
}

// Canonicalize resolves raw relative to base and returns its canonical
// form. The bool result is false when the link is blank, unparseable,
// off-origin, or excluded by the filter. A nil base means the root.
func (c *Canonicalizer) Canonicalize(base *url.URL, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	var abs *url.URL
	switch {
	case ref.IsAbs():
		abs = c.root.ResolveReference(ref)
	case strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//"):
		abs = c.root.ResolveReference(ref)
	default:
		if base == nil {
			base = c.root
		}
		abs = base.ResolveReference(ref)
	}

	canon := canonicalURL(abs)
	if canon.Scheme != c.root.Scheme || canon.Host != c.root.Host {
		return "", false
	}

	s := canon.String()
	if !c.filter.Match(s) {
		return "", false
	}
	return s, true
}

// canonicalURL reduces u to scheme://host/path with lower-case scheme and
// host, no default port, no query and no fragment.
func canonicalURL(u *url.URL) *url.URL {
	scheme := strings.ToLower(u.Scheme)
	c := &url.URL{
		Scheme:  scheme,
		Host:    canonicalHost(scheme, u),
		Path:    u.Path,
		RawPath: u.RawPath,
	}
	if c.Path == "" {
		c.Path = "/"
		c.RawPath = ""
	}
	return c
}

func canonicalHost(scheme string, u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	port := u.Port()
	if port == "" || (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		return host
	}
	return host + ":" + port
}
