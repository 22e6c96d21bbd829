package goquery_test

import (
	"testing"

	"github.com/fwojciec/sitemapgen/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse_accepts_blank_input(t *testing.T) {
	t.Parallel()

	p := goquery.NewParser()

	for _, input := range []string{"", "   ", "\n\t"} {
		doc, err := p.Parse(input)
		require.NoError(t, err, "input %q", input)
		assert.Empty(t, doc.Links(), "input %q", input)
		assert.Empty(t, doc.Text(), "input %q", input)
	}
}

func TestDocument_Links(t *testing.T) {
	t.Parallel()

	t.Run("returns anchor and area targets in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/about">About</a>
			<map name="m"><area href="contact.html" alt="Contact"></map>
			<a href="https://example.com/blog#top">Blog</a>
			<a name="anchor-without-href">x</a>
			<link href="/style.css" rel="stylesheet">
		</body></html>`

		doc, err := goquery.NewParser().Parse(html)
		require.NoError(t, err)

		assert.Equal(t, []string{"/about", "contact.html", "https://example.com/blog#top"}, doc.Links())
	})

	t.Run("keeps duplicates and unusual schemes for the caller to filter", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/a">1</a><a href="/a">2</a><a href="mailto:x@example.com">m</a><a href="">empty</a>`

		doc, err := goquery.NewParser().Parse(html)
		require.NoError(t, err)

		assert.Equal(t, []string{"/a", "/a", "mailto:x@example.com", ""}, doc.Links())
	})

	t.Run("page without links", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.NewParser().Parse("<p>plain</p>")
		require.NoError(t, err)

		assert.Empty(t, doc.Links())
	})
}

func TestDocument_Text(t *testing.T) {
	t.Parallel()

	html := `<html><head><title> Home </title><style>body{}</style></head>
	<body>
		<h1>Welcome</h1>
		<script>var x = 1;</script>
		<p>We build   sitemaps.</p>
		<noscript>Enable JS</noscript>
	</body></html>`

	parsed, err := goquery.NewParser().Parse(html)
	require.NoError(t, err)

	assert.Equal(t, "Welcome We build sitemaps.", parsed.Text())
}
