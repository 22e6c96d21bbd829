// Package fs provides file-based storage for crawl output.
package fs

import (
	"net/url"
	"strings"
)

// Output file names.
const (
	SitemapFile      = "sitemap.xml"
	IssuesFile       = "issues.txt"
	SitemapIndexFile = "sitemap-index.xml"
)

// SitemapFileName returns the per-site sitemap file name for rootURL.
// Example: https://docs.example.com/ → sitemap-docs.example.com.xml
func SitemapFileName(rootURL string) string {
	return "sitemap-" + hostSlug(rootURL) + ".xml"
}

// IssuesFileName returns the per-site issues file name for rootURL.
func IssuesFileName(rootURL string) string {
	return "issues-" + hostSlug(rootURL) + ".txt"
}

// FormatIssues renders issues one per line.
func FormatIssues(issues []string) string {
	if len(issues) == 0 {
		return ""
	}
	return strings.Join(issues, "\n") + "\n"
}

// hostSlug turns the host of rawURL into a file-name safe token.
func hostSlug(rawURL string) string {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = strings.ToLower(u.Host)
	}
	host = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, host)
	host = strings.Trim(host, "._")
	if host == "" {
		return "site"
	}
	return host
}
