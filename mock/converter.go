package mock

import "github.com/fwojciec/sitemapgen"

var _ sitemapgen.Converter = (*Converter)(nil)

// Converter is a mock implementation of sitemapgen.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
