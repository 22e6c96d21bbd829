package http_test

import (
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/fwojciec/sitemapgen"
	sitemaphttp "github.com/fwojciec/sitemapgen/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := sitemaphttp.NewFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", html)
	})

	t.Run("sends user agent", func(t *testing.T) {
		t.Parallel()

		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<p>ok</p>"))
		}))
		defer server.Close()

		fetcher := sitemaphttp.NewFetcher(sitemaphttp.WithUserAgent("test-agent/2"))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "test-agent/2", got)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(100 * time.Millisecond)
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := sitemaphttp.NewFetcher(sitemaphttp.WithTimeout(10 * time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(100 * time.Millisecond)
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := sitemaphttp.NewFetcher()
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, server.URL)
		require.Error(t, err)
	})

	t.Run("returns error for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := sitemaphttp.NewFetcher(sitemaphttp.WithTimeout(time.Second))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), "http://localhost:1/")
		require.Error(t, err)
	})

	t.Run("classifies status codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			status int
			code   string
		}{
			{http.StatusNotFound, sitemapgen.ENOTFOUND},
			{http.StatusGone, sitemapgen.ENOTFOUND},
			{http.StatusForbidden, sitemapgen.EINVALID},
			{http.StatusTooManyRequests, sitemapgen.EINTERNAL},
			{http.StatusInternalServerError, sitemapgen.EINTERNAL},
		}
		for _, tt := range tests {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))

			fetcher := sitemaphttp.NewFetcher()
			_, err := fetcher.Fetch(context.Background(), server.URL)
			fetcher.Close()
			server.Close()

			require.Error(t, err, "status %d", tt.status)
			assert.Equal(t, tt.code, sitemapgen.ErrorCode(err), "status %d", tt.status)
			assert.Equal(t, fmt.Sprintf("HTTP %d", tt.status), sitemapgen.ErrorMessage(err))
			assert.NotContains(t, sitemapgen.ErrorMessage(err), server.URL)
		}
	})

	t.Run("rejects non-HTML content", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.7"))
		}))
		defer server.Close()

		fetcher := sitemaphttp.NewFetcher()
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, sitemapgen.EINVALID, sitemapgen.ErrorCode(err))
		assert.Equal(t, `unsupported content type "application/pdf"`, sitemapgen.ErrorMessage(err))
	})

	t.Run("caps body size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(strings.Repeat("a", 100)))
		}))
		defer server.Close()

		fetcher := sitemaphttp.NewFetcher(sitemaphttp.WithMaxBodySize(10))
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Len(t, html, 10)
	})

	t.Run("uses a supplied client", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<p>shared</p>"))
		}))
		defer server.Close()

		fetcher := sitemaphttp.NewFetcher(sitemaphttp.WithClient(server.Client()))

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<p>shared</p>", html)
		require.NoError(t, fetcher.Close())
	})

	t.Run("decodes compressed bodies", func(t *testing.T) {
		t.Parallel()

		const page = "<html><body>compressed</body></html>"
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			switch r.URL.Path {
			case "/gzip":
				w.Header().Set("Content-Encoding", "gzip")
				zw := gzip.NewWriter(w)
				_, _ = zw.Write([]byte(page))
				_ = zw.Close()
			case "/br":
				w.Header().Set("Content-Encoding", "br")
				bw := brotli.NewWriter(w)
				_, _ = bw.Write([]byte(page))
				_ = bw.Close()
			}
		}))
		defer server.Close()

		fetcher := sitemaphttp.NewFetcher()

		for _, path := range []string{"/gzip", "/br"} {
			html, err := fetcher.Fetch(context.Background(), server.URL+path)
			require.NoError(t, err, path)
			assert.Equal(t, page, html, path)
		}
	})

	t.Run("rejects corrupt gzip", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write([]byte("not gzip"))
		}))
		defer server.Close()

		_, err := sitemaphttp.NewFetcher().Fetch(context.Background(), server.URL)

		assert.Equal(t, sitemapgen.EINVALID, sitemapgen.ErrorCode(err))
	})
}
