package sitemapgen

// ResultStore writes crawl output files. Saved files only become visible
// once Commit succeeds.
type ResultStore interface {
	// Save stages a file with the given name and content.
	Save(name, content string) error

	// Commit publishes every staged file.
	Commit() error

	// Abort discards every staged file.
	Abort() error
}
