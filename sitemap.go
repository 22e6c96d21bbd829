package sitemapgen

import (
	"context"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// SitemapNamespace is the XML namespace of the sitemaps.org protocol.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// PageEntry records one successfully fetched and parsed page.
type PageEntry struct {
	// URL is the canonical address of the page.
	URL string `json:"url"`

	// Summary is the AI-generated summary of the page.
	// An empty summary means none was produced.
	Summary string `json:"summary,omitempty"`
}

// HasSummary reports whether the entry carries a non-blank summary.
func (e PageEntry) HasSummary() bool {
	return strings.TrimSpace(e.Summary) != ""
}

// SiteMap is the set of pages discovered by a crawl, unique by URL.
// The zero value is not usable; create one with NewSiteMap.
type SiteMap struct {
	entries map[string]PageEntry
}

// NewSiteMap returns an empty SiteMap.
func NewSiteMap() *SiteMap {
	return &SiteMap{entries: make(map[string]PageEntry)}
}

// Add inserts the entry. A second entry for an already present URL is
// ignored and Add returns false.
func (m *SiteMap) Add(e PageEntry) bool {
	if _, ok := m.entries[e.URL]; ok {
		return false
	}
	m.entries[e.URL] = e
	return true
}

// Contains reports whether an entry for url exists.
func (m *SiteMap) Contains(url string) bool {
	if m == nil {
		return false
	}
	_, ok := m.entries[url]
	return ok
}

// Len returns the number of entries.
func (m *SiteMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns all entries ordered ascending by URL.
func (m *SiteMap) Entries() []PageEntry {
	if m == nil {
		return nil
	}
	entries := make([]PageEntry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].URL < entries[j].URL
	})
	return entries
}

// SiteMapIndex lists the locations of several sitemaps.
type SiteMapIndex struct {
	locations map[string]struct{}
}

// NewSiteMapIndex returns an index containing the given locations.
func NewSiteMapIndex(locations ...string) *SiteMapIndex {
	idx := &SiteMapIndex{locations: make(map[string]struct{})}
	for _, loc := range locations {
		idx.Add(loc)
	}
	return idx
}

// Add records a sitemap location. Blank and repeated locations are ignored.
func (idx *SiteMapIndex) Add(location string) {
	if strings.TrimSpace(location) == "" {
		return
	}
	idx.locations[location] = struct{}{}
}

// Locations returns the sitemap locations ordered ascending.
func (idx *SiteMapIndex) Locations() []string {
	if idx == nil {
		return nil
	}
	locs := make([]string, 0, len(idx.locations))
	for loc := range idx.locations {
		locs = append(locs, loc)
	}
	sort.Strings(locs)
	return locs
}

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml. Sitemap indexes are resolved recursively.
	//
	// If filter is nil, all URLs are returned.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter specifies which URLs a crawl skips.
type URLFilter struct {
	// ExcludePrefixes are URL path prefixes to skip, e.g. "/private/".
	ExcludePrefixes []string

	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(rawURL string) bool {
	if f == nil {
		return true
	}

	if len(f.ExcludePrefixes) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return false
		}
		path := u.Path
		if path == "" {
			path = "/"
		}
		for _, prefix := range f.ExcludePrefixes {
			if prefix != "" && strings.HasPrefix(path, prefix) {
				return false
			}
		}
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(rawURL) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(rawURL) {
			return false
		}
	}

	return true
}

// CompileURLFilter builds a URLFilter from path prefixes and regular
// expression sources. It returns EINVALID when a pattern does not compile.
func CompileURLFilter(prefixes, include, exclude []string) (*URLFilter, error) {
	f := &URLFilter{ExcludePrefixes: prefixes}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid include pattern %q: %v", p, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %v", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}
