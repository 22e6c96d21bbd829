package sitemapgen

// Parser turns raw HTML into a queryable Document.
type Parser interface {
	// Parse parses html. Markup that cannot be interpreted as an HTML
	// document yields an error.
	Parse(html string) (Document, error)
}

// Document is a parsed HTML page.
type Document interface {
	// Links returns the raw href values of every anchor and area element
	// in document order. Values are neither resolved nor filtered.
	Links() []string

	// Text returns the visible text of the page body with script and
	// style content removed.
	Text() string
}
