package mock

import "github.com/fwojciec/sitemapgen"

var (
	_ sitemapgen.Parser   = (*Parser)(nil)
	_ sitemapgen.Document = (*Document)(nil)
)

// Parser is a mock implementation of sitemapgen.Parser.
type Parser struct {
	ParseFn func(html string) (sitemapgen.Document, error)
}

func (p *Parser) Parse(html string) (sitemapgen.Document, error) {
	return p.ParseFn(html)
}

// Document is a mock implementation of sitemapgen.Document.
type Document struct {
	LinksFn func() []string
	TextFn  func() string
}

func (d *Document) Links() []string {
	return d.LinksFn()
}

func (d *Document) Text() string {
	return d.TextFn()
}
