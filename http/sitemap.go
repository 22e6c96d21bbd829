package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/sitemapgen"
	"github.com/temoto/robotstxt"
)

// maxIndexDepth bounds how deeply nested sitemap indexes are followed.
const maxIndexDepth = 3

// Ensure SitemapService implements sitemapgen.SitemapService.
var _ sitemapgen.SitemapService = (*SitemapService)(nil)

// SitemapService discovers URLs from a site's published sitemaps via HTTP.
type SitemapService struct {
	client      *http.Client
	maxBodySize int64
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, maxBodySize: 5 * DefaultMaxBodySize}
}

// DiscoverURLs finds all page URLs from a site's sitemaps, de-duplicated in
// document order. Returns an empty slice (not nil) if no sitemap is found.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *sitemapgen.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "invalid base URL %q", baseURL)
	}
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host}

	locations, err := s.sitemapLocations(ctx, origin)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	seenSitemaps := make(map[string]bool)
	seenURLs := make(map[string]bool)
	for _, loc := range locations {
		found, err := s.readSitemap(ctx, loc, seenSitemaps, 0)
		if err != nil {
			return nil, err
		}
		for _, u := range found {
			if seenURLs[u] || !filter.Match(u) {
				continue
			}
			seenURLs[u] = true
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// sitemapLocations returns the Sitemap: directives of robots.txt, or
// /sitemap.xml when robots.txt names none and that file exists.
func (s *SitemapService) sitemapLocations(ctx context.Context, origin *url.URL) ([]string, error) {
	robotsURL := origin.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if locs, err := s.robotsSitemaps(ctx, robotsURL); err == nil && len(locs) > 0 {
		return locs, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := origin.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	body, err := s.get(ctx, fallback)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	body.Close()
	return []string{fallback}, nil
}

func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, s.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	robots, err := robotstxt.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	var locs []string
	for _, loc := range robots.Sitemaps {
		if loc = strings.TrimSpace(loc); loc != "" {
			locs = append(locs, loc)
		}
	}
	return locs, nil
}

// readSitemap parses a <urlset> or, recursively, a <sitemapindex>.
func (s *SitemapService) readSitemap(ctx context.Context, loc string, seen map[string]bool, depth int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[loc] {
		return nil, nil
	}
	seen[loc] = true

	body, err := s.get(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(io.LimitReader(body, s.maxBodySize)); err != nil {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "parsing sitemap %s: %v", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "empty sitemap %s", loc)
	}

	if root.Tag != "sitemapindex" {
		return childLocs(root, "url"), nil
	}
	if depth >= maxIndexDepth {
		return nil, nil
	}

	var urls []string
	for _, child := range childLocs(root, "sitemap") {
		found, err := s.readSitemap(ctx, child, seen, depth+1)
		if err != nil {
			return nil, err
		}
		urls = append(urls, found...)
	}
	return urls, nil
}

// childLocs returns the trimmed <loc> text of every tag child of root.
func childLocs(root *etree.Element, tag string) []string {
	var locs []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			locs = append(locs, u)
		}
	}
	return locs
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "invalid request: %v", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}
