// Package goquery implements HTML parsing with github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitemapgen"
)

// Compile-time interface verification.
var (
	_ sitemapgen.Parser   = (*Parser)(nil)
	_ sitemapgen.Document = (*Document)(nil)
)

// linkSelector matches every element whose href is a navigable link target.
const linkSelector = "a[href], area[href]"

// hiddenSelector matches elements whose text is never shown to a reader.
const hiddenSelector = "script, style, noscript, template"

// Parser parses HTML into goquery documents.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses html. Blank input yields an empty document.
func (p *Parser) Parse(html string) (sitemapgen.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Document{doc: doc}, nil
}

// Document wraps a parsed goquery document.
type Document struct {
	doc *goquery.Document
}

// Links returns the href value of every anchor and area element in
// document order.
func (d *Document) Links() []string {
	var links []string
	d.doc.Find(linkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		links = append(links, href)
	})
	return links
}

// Text returns the whitespace-normalized visible text of the body.
func (d *Document) Text() string {
	body := d.doc.Find("body").Clone()
	body.Find(hiddenSelector).Remove()
	return strings.Join(strings.Fields(body.Text()), " ")
}
