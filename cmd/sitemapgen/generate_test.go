package main_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fwojciec/sitemapgen"
	main "github.com/fwojciec/sitemapgen/cmd/sitemapgen"
	"github.com/fwojciec/sitemapgen/crawl"
	"github.com/fwojciec/sitemapgen/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	result *crawl.Result
	err    error

	mu     sync.Mutex
	closed bool
}

func (g *fakeGenerator) Generate(ctx context.Context) (*crawl.Result, error) {
	return g.result, g.err
}

func (g *fakeGenerator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}

func (g *fakeGenerator) isClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

func newResult(urls ...string) *crawl.Result {
	m := sitemapgen.NewSiteMap()
	for _, u := range urls {
		m.Add(sitemapgen.PageEntry{URL: u})
	}
	return &crawl.Result{SiteMap: m, Issues: sitemapgen.NewIssueLog(), Status: crawl.StatusDone, Pages: len(urls)}
}

// memoryStore records staged files in a map.
type memoryStore struct {
	staged    map[string]string
	committed bool
	aborted   bool
}

func newMemoryStore() (*memoryStore, *mock.ResultStore) {
	s := &memoryStore{staged: map[string]string{}}
	return s, &mock.ResultStore{
		SaveFn: func(name, content string) error {
			s.staged[name] = content
			return nil
		},
		CommitFn: func() error {
			s.committed = true
			return nil
		},
		AbortFn: func() error {
			s.aborted = true
			return nil
		},
	}
}

func newDeps(store sitemapgen.ResultStore, gens map[string]*fakeGenerator) (*main.Dependencies, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: &bytes.Buffer{},
		Store:  store,
		NewGenerator: func(root string) (main.SiteGenerator, error) {
			g, ok := gens[root]
			if !ok {
				return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "unknown root")
			}
			return g, nil
		},
	}, stdout
}

func TestGenerateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("single root writes sitemap and issues", func(t *testing.T) {
		t.Parallel()

		res := newResult("https://a.test/", "https://a.test/docs")
		res.Issues.Add("Failed to fetch https://a.test/gone: not found")
		gen := &fakeGenerator{result: res}

		files, store := newMemoryStore()
		deps, stdout := newDeps(store, map[string]*fakeGenerator{"https://a.test/": gen})

		err := (&main.GenerateCmd{URLs: []string{"https://a.test/"}}).Run(deps)

		require.NoError(t, err)
		assert.True(t, files.committed)
		assert.Contains(t, files.staged["sitemap.xml"], "<loc>https://a.test/docs</loc>")
		assert.Contains(t, files.staged["sitemap.xml"], `<?xml version="1.0" encoding="UTF-8"?>`)
		assert.Equal(t, "Failed to fetch https://a.test/gone: not found\n", files.staged["issues.txt"])
		assert.NotContains(t, files.staged, "sitemap-index.xml")
		assert.Contains(t, stdout.String(), "a.test: 2 pages in sitemap, 1 issues (done)")
		assert.True(t, gen.isClosed())
	})

	t.Run("several roots write per-host files and an index", func(t *testing.T) {
		t.Parallel()

		files, store := newMemoryStore()
		deps, stdout := newDeps(store, map[string]*fakeGenerator{
			"https://a.test/": {result: newResult("https://a.test/")},
			"https://b.test/": {result: newResult("https://b.test/")},
		})

		cmd := &main.GenerateCmd{
			URLs:      []string{"https://a.test/", "https://b.test/"},
			IndexBase: "https://cdn.test/maps/",
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, files.staged["sitemap-a.test.xml"], "<loc>https://a.test/</loc>")
		assert.Contains(t, files.staged["sitemap-b.test.xml"], "<loc>https://b.test/</loc>")
		assert.Contains(t, files.staged, "issues-a.test.txt")
		assert.Contains(t, files.staged, "issues-b.test.txt")
		assert.Contains(t, files.staged["sitemap-index.xml"], "<loc>https://cdn.test/maps/sitemap-a.test.xml</loc>")
		assert.Contains(t, files.staged["sitemap-index.xml"], "<loc>https://cdn.test/maps/sitemap-b.test.xml</loc>")
		assert.Contains(t, stdout.String(), "a.test: 1 pages")
		assert.Contains(t, stdout.String(), "b.test: 1 pages")
	})

	t.Run("index entries default to file names", func(t *testing.T) {
		t.Parallel()

		files, store := newMemoryStore()
		deps, _ := newDeps(store, map[string]*fakeGenerator{
			"https://a.test/": {result: newResult("https://a.test/")},
			"https://b.test/": {result: newResult("https://b.test/")},
		})

		err := (&main.GenerateCmd{URLs: []string{"https://a.test/", "https://b.test/"}}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, files.staged["sitemap-index.xml"], "<loc>sitemap-a.test.xml</loc>")
	})

	t.Run("rejects roots sharing a host", func(t *testing.T) {
		t.Parallel()

		files, store := newMemoryStore()
		deps, _ := newDeps(store, map[string]*fakeGenerator{})

		err := (&main.GenerateCmd{URLs: []string{"https://a.test/x", "https://a.test/y"}}).Run(deps)

		assert.Equal(t, sitemapgen.EINVALID, sitemapgen.ErrorCode(err))
		assert.Empty(t, files.staged)
	})

	t.Run("invalid root closes generators already created", func(t *testing.T) {
		t.Parallel()

		good := &fakeGenerator{result: newResult("https://a.test/")}
		files, store := newMemoryStore()
		deps, _ := newDeps(store, map[string]*fakeGenerator{"https://a.test/": good})

		err := (&main.GenerateCmd{URLs: []string{"https://a.test/", "https://bad.test/"}}).Run(deps)

		assert.Equal(t, sitemapgen.EINVALID, sitemapgen.ErrorCode(err))
		assert.True(t, good.isClosed())
		assert.False(t, files.committed)
	})

	t.Run("generator failure writes nothing", func(t *testing.T) {
		t.Parallel()

		files, store := newMemoryStore()
		deps, _ := newDeps(store, map[string]*fakeGenerator{
			"https://a.test/": {err: errors.New("generator is closed")},
		})

		err := (&main.GenerateCmd{URLs: []string{"https://a.test/"}}).Run(deps)

		require.Error(t, err)
		assert.Empty(t, files.staged)
		assert.False(t, files.committed)
	})

	t.Run("save failure aborts", func(t *testing.T) {
		t.Parallel()

		aborted := false
		store := &mock.ResultStore{
			SaveFn:   func(name, content string) error { return errors.New("disk full") },
			CommitFn: func() error { t.Fatal("commit should not be called"); return nil },
			AbortFn:  func() error { aborted = true; return nil },
		}
		deps, _ := newDeps(store, map[string]*fakeGenerator{
			"https://a.test/": {result: newResult("https://a.test/")},
		})

		err := (&main.GenerateCmd{URLs: []string{"https://a.test/"}}).Run(deps)

		require.Error(t, err)
		assert.True(t, aborted)
	})

	t.Run("cancelled crawl still writes partial output", func(t *testing.T) {
		t.Parallel()

		res := newResult("https://a.test/")
		res.Status = crawl.StatusCancelled
		files, store := newMemoryStore()
		deps, stdout := newDeps(store, map[string]*fakeGenerator{"https://a.test/": {result: res}})

		err := (&main.GenerateCmd{URLs: []string{"https://a.test/"}}).Run(deps)

		require.NoError(t, err)
		assert.True(t, files.committed)
		assert.Contains(t, stdout.String(), "(cancelled)")
	})

	t.Run("requires a URL", func(t *testing.T) {
		t.Parallel()

		_, store := newMemoryStore()
		deps, _ := newDeps(store, nil)

		err := (&main.GenerateCmd{}).Run(deps)

		assert.Equal(t, sitemapgen.EINVALID, sitemapgen.ErrorCode(err))
	})
}
