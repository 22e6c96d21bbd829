// Package etree renders site maps as sitemaps.org XML documents using
// github.com/beevik/etree.
package etree

import (
	"github.com/beevik/etree"
	"github.com/fwojciec/sitemapgen"
)

// Option configures document rendering.
type Option func(*config)

type config struct {
	indent int
	header bool
}

// WithIndent pretty-prints the document with the given number of spaces
// per level. The default is compact output.
func WithIndent(spaces int) Option {
	return func(c *config) {
		c.indent = spaces
	}
}

// WithHeader prepends an XML declaration.
func WithHeader() Option {
	return func(c *config) {
		c.header = true
	}
}

// MarshalSiteMap renders m as a <urlset> document. Entries appear in
// ascending URL order; a <summary> element is written only for entries
// with a non-blank summary. A nil site map renders as an empty urlset.
func MarshalSiteMap(m *sitemapgen.SiteMap, opts ...Option) (string, error) {
	doc, cfg := newDocument(opts)

	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", sitemapgen.SitemapNamespace)
	for _, e := range m.Entries() {
		u := urlset.CreateElement("url")
		u.CreateElement("loc").SetText(e.URL)
		if e.HasSummary() {
			u.CreateElement("summary").SetText(e.Summary)
		}
	}

	return write(doc, cfg)
}

// MarshalSiteMapIndex renders idx as a <sitemapindex> document with one
// <sitemap><loc> element per location in ascending order.
func MarshalSiteMapIndex(idx *sitemapgen.SiteMapIndex, opts ...Option) (string, error) {
	doc, cfg := newDocument(opts)

	root := doc.CreateElement("sitemapindex")
	root.CreateAttr("xmlns", sitemapgen.SitemapNamespace)
	for _, loc := range idx.Locations() {
		root.CreateElement("sitemap").CreateElement("loc").SetText(loc)
	}

	return write(doc, cfg)
}

func newDocument(opts []Option) (*etree.Document, config) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	doc := etree.NewDocument()
	// Empty elements are written as <x></x> rather than <x/>.
	doc.WriteSettings.CanonicalEndTags = true
	if cfg.header {
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	}
	return doc, cfg
}

func write(doc *etree.Document, cfg config) (string, error) {
	if cfg.indent > 0 {
		doc.Indent(cfg.indent)
	}
	s, err := doc.WriteToString()
	if err != nil {
		return "", sitemapgen.Errorf(sitemapgen.EINTERNAL, "write XML: %v", err)
	}
	return s, nil
}
