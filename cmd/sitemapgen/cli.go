package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitemapgen"
	"github.com/fwojciec/sitemapgen/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Store sitemapgen.ResultStore

	// NewGenerator creates the crawler for one root address.
	NewGenerator func(root string) (SiteGenerator, error)
}

// SiteGenerator crawls one site.
type SiteGenerator interface {
	Generate(ctx context.Context) (*crawl.Result, error)
	Close() error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URLs []string `arg:"" name:"url" help:"Root URL to crawl (repeatable)"`

	Out            string        `short:"o" default:"." type:"path" help:"Output directory"`
	Model          string        `short:"m" help:"Summary model; enables summarization (needs GEMINI_API_KEY)"`
	ExcludePrefix  []string      `short:"x" sep:"none" help:"Path prefix to skip (repeatable)"`
	Exclude        []string      `sep:"none" help:"URL regex to skip (repeatable)"`
	Include        []string      `sep:"none" help:"URL regex a page must match to be crawled (repeatable)"`
	MaxPages       int           `default:"0" help:"Stop after N pages (0 = unlimited)"`
	Timeout        time.Duration `short:"t" default:"10s" help:"Per-fetch timeout"`
	Render         bool          `help:"Fetch with a headless browser"`
	Extractor      string        `default:"trafilatura" enum:"trafilatura,readability,none" help:"Main content extractor (trafilatura, readability, none)"`
	SeedSitemap    bool          `help:"Also seed from the site's existing sitemap"`
	Cache          string        `type:"path" help:"SQLite summary cache file"`
	CacheMaxAge    time.Duration `help:"Delete cached summaries older than this on start (0 = keep)"`
	SummaryRPS     float64       `name:"summary-rps" default:"1" help:"Maximum summary requests per second"`
	MaxInputTokens int           `default:"0" help:"Token budget for summary input (0 = default)"`
	IndexBase      string        `help:"Base URL under which per-site sitemaps are published, used for sitemap-index.xml entries"`
	Quiet          bool          `short:"q" help:"Do not print progress lines"`
	Verbose        bool          `short:"v" help:"Debug logging to stderr"`

	Config kong.ConfigFlag `help:"YAML config file (flags override)"`
}
