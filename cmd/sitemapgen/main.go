package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitemapgen"
	"github.com/fwojciec/sitemapgen/crawl"
	"github.com/fwojciec/sitemapgen/fs"
	"github.com/fwojciec/sitemapgen/gemini"
	"github.com/fwojciec/sitemapgen/goquery"
	"github.com/fwojciec/sitemapgen/htmltomarkdown"
	smhttp "github.com/fwojciec/sitemapgen/http"
	"github.com/fwojciec/sitemapgen/readability"
	"github.com/fwojciec/sitemapgen/rod"
	sitemapslog "github.com/fwojciec/sitemapgen/slog"
	"github.com/fwojciec/sitemapgen/sqlite"
	"github.com/fwojciec/sitemapgen/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv reads environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	fetcher sitemapgen.Fetcher
	db      *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Close releases the fetcher and the summary cache.
func (m *Main) Close() error {
	var err error
	if m.fetcher != nil {
		err = m.fetcher.Close()
		m.fetcher = nil
	}
	if m.db != nil {
		if e := m.db.Close(); err == nil {
			err = e
		}
		m.db = nil
	}
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitemapgen"),
		kong.Description("Crawl a website and write its sitemap, optionally with page summaries"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Configuration(YAML),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no URL specified. Run 'sitemapgen --help' for usage")
	}
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}
	defer m.Close()

	logger := slog.New(slog.DiscardHandler)
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	filter, err := sitemapgen.CompileURLFilter(cli.ExcludePrefix, cli.Include, cli.Exclude)
	if err != nil {
		return err
	}
	if cli.CacheMaxAge < 0 {
		return sitemapgen.Errorf(sitemapgen.EINVALID, "--cache-max-age must not be negative")
	}
	if cli.MaxInputTokens < 0 {
		return sitemapgen.Errorf(sitemapgen.EINVALID, "--max-input-tokens must not be negative")
	}

	if cli.Render {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.fetcher = f
	} else {
		m.fetcher = smhttp.NewFetcher(smhttp.WithTimeout(cli.Timeout))
	}
	fetcher := sitemapslog.NewLoggingFetcher(m.fetcher, logger)

	var extractor sitemapgen.Extractor
	switch cli.Extractor {
	case "trafilatura":
		extractor = trafilatura.NewExtractor()
	case "readability":
		extractor = readability.NewExtractor()
	}

	var summarizer sitemapgen.Summarizer
	if cli.Model != "" {
		s, err := m.newSummarizer(ctx, cli, stderr)
		if err != nil {
			return err
		}
		summarizer = sitemapslog.NewLoggingSummarizer(s, logger)
	}

	var cache sitemapgen.SummaryCache
	if cli.Cache != "" {
		m.db = sqlite.NewDB(cli.Cache)
		if err := m.db.Open(); err != nil {
			m.db = nil
			return fmt.Errorf("failed to open summary cache at %q: %w", cli.Cache, err)
		}
		store := sqlite.NewSummaryCache(m.db)
		if cli.CacheMaxAge > 0 {
			n, err := store.Prune(ctx, time.Now().Add(-cli.CacheMaxAge))
			if err != nil {
				return fmt.Errorf("failed to prune summary cache: %w", err)
			}
			logger.Debug("summary cache pruned", "removed", n, "max_age", cli.CacheMaxAge)
		}
		cache = sitemapslog.NewLoggingSummaryCache(store, logger)
	}

	var sitemaps sitemapgen.SitemapService
	if cli.SeedSitemap {
		sitemaps = sitemapslog.NewLoggingSitemapService(smhttp.NewSitemapService(nil), logger)
	}

	var progress crawl.ProgressFunc
	if !cli.Quiet {
		var mu sync.Mutex
		progress = func(event crawl.ProgressEvent) {
			if line := crawl.FormatProgress(event); line != "" {
				mu.Lock()
				fmt.Fprintln(stderr, line)
				mu.Unlock()
			}
		}
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
		Store:  fs.NewStore(cli.Out),
		NewGenerator: func(root string) (SiteGenerator, error) {
			return crawl.NewGenerator(crawl.Options{
				RootURL:      root,
				Fetcher:      fetcher,
				Parser:       goquery.NewParser(),
				Extractor:    extractor,
				Converter:    htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(root)),
				Summarizer:   summarizer,
				SummaryModel: cli.Model,
				SummaryCache: cache,
				Filter:       filter,
				Sitemaps:     sitemaps,
				MaxPages:     cli.MaxPages,
				Progress:     progress,
				Logger: func(format string, args ...any) {
					logger.Info(fmt.Sprintf(format, args...), "root", root)
				},
			})
		},
	}

	cmd := &GenerateCmd{
		URLs:      cli.URLs,
		IndexBase: cli.IndexBase,
	}
	return cmd.Run(deps)
}

// newSummarizer connects to the Gemini API.
func (m *Main) newSummarizer(ctx context.Context, cli *CLI, stderr io.Writer) (*gemini.Summarizer, error) {
	apiKey := m.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "Hint: get an API key at https://aistudio.google.com/apikey")
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "GEMINI_API_KEY not set; it is required when --model is given")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	counter, err := gemini.NewApproximateTokenCounter(cli.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create token counter: %w", err)
	}

	opts := []gemini.Option{
		gemini.WithTokenCounter(counter),
		gemini.WithRateLimit(cli.SummaryRPS),
	}
	if cli.MaxInputTokens > 0 {
		opts = append(opts, gemini.WithMaxInputTokens(cli.MaxInputTokens))
	}
	return gemini.NewSummarizer(client, opts...), nil
}
