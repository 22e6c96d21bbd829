package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/sitemapgen"
	"github.com/fwojciec/sitemapgen/crawl"
	"github.com/fwojciec/sitemapgen/etree"
	"github.com/fwojciec/sitemapgen/fs"
	"golang.org/x/sync/errgroup"
)

// GenerateCmd crawls every root and writes the resulting files.
type GenerateCmd struct {
	URLs      []string
	IndexBase string
}

// Run executes the crawl for each root concurrently and publishes the
// output only after every crawl has finished.
func (c *GenerateCmd) Run(deps *Dependencies) (err error) {
	if len(c.URLs) == 0 {
		return sitemapgen.Errorf(sitemapgen.EINVALID, "at least one URL is required")
	}
	if err := c.checkFileNames(); err != nil {
		return err
	}

	gens := make([]SiteGenerator, 0, len(c.URLs))
	defer func() {
		for _, g := range gens {
			_ = g.Close()
		}
	}()
	for _, root := range c.URLs {
		g, err := deps.NewGenerator(root)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", root, sitemapgen.ErrorMessage(err))
			return err
		}
		gens = append(gens, g)
	}

	results := make([]*crawl.Result, len(gens))
	eg, ctx := errgroup.WithContext(deps.Ctx)
	for i, g := range gens {
		eg.Go(func() error {
			res, err := g.Generate(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", c.URLs[i], err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = deps.Store.Abort()
		}
	}()
	if err := c.save(deps.Store, results); err != nil {
		return err
	}

	for i, res := range results {
		fmt.Fprintln(deps.Stdout, crawl.FormatSummary(c.URLs[i], res))
	}

	return deps.Store.Commit()
}

// save stages the sitemap and issue files for every result.
func (c *GenerateCmd) save(store sitemapgen.ResultStore, results []*crawl.Result) error {
	single := len(results) == 1
	index := sitemapgen.NewSiteMapIndex()

	for i, res := range results {
		sitemapName, issuesName := fs.SitemapFile, fs.IssuesFile
		if !single {
			sitemapName, issuesName = fs.SitemapFileName(c.URLs[i]), fs.IssuesFileName(c.URLs[i])
		}

		xml, err := etree.MarshalSiteMap(res.SiteMap, etree.WithHeader(), etree.WithIndent(2))
		if err != nil {
			return err
		}
		if err := store.Save(sitemapName, xml); err != nil {
			return fmt.Errorf("save %s: %w", sitemapName, err)
		}
		if err := store.Save(issuesName, fs.FormatIssues(res.Issues.Issues())); err != nil {
			return fmt.Errorf("save %s: %w", issuesName, err)
		}

		index.Add(c.indexLocation(sitemapName))
	}

	if single {
		return nil
	}

	xml, err := etree.MarshalSiteMapIndex(index, etree.WithHeader(), etree.WithIndent(2))
	if err != nil {
		return err
	}
	if err := store.Save(fs.SitemapIndexFile, xml); err != nil {
		return fmt.Errorf("save %s: %w", fs.SitemapIndexFile, err)
	}
	return nil
}

// indexLocation returns the sitemap-index entry for a sitemap file. Without
// an index base the entry is the bare file name.
func (c *GenerateCmd) indexLocation(name string) string {
	if c.IndexBase == "" {
		return name
	}
	return strings.TrimSuffix(c.IndexBase, "/") + "/" + name
}

// checkFileNames rejects root lists whose output files would collide.
func (c *GenerateCmd) checkFileNames() error {
	if len(c.URLs) < 2 {
		return nil
	}
	seen := make(map[string]string, len(c.URLs))
	for _, root := range c.URLs {
		name := fs.SitemapFileName(root)
		if prev, ok := seen[name]; ok {
			return sitemapgen.Errorf(sitemapgen.EINVALID, "%s and %s share a host; crawl them separately", prev, root)
		}
		seen[name] = root
	}
	return nil
}
