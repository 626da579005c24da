package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"

	"github.com/askcampus/campusrag/rag"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36 campusrag/1.0"

// Crawler walks a single site breadth-first, collecting page records. It is
// deliberately sequential: one in-flight request, paced by a rate limiter,
// which keeps the crawl polite without per-host accounting.
type Crawler struct {
	baseURL   string
	seeds     []string
	maxPages  int
	minWords  int
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	robots    *robotstxt.Group
	logger    rag.Logger
}

// Stats summarizes a finished crawl.
type Stats struct {
	TotalPages          int     `json:"total_pages"`
	TotalWords          int     `json:"total_words"`
	URLsVisited         int     `json:"urls_visited"`
	AverageWordsPerPage float64 `json:"average_words_per_page"`
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxPages caps how many URLs the crawl visits.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		c.maxPages = n
	}
}

// WithMinWords drops pages with fewer words than n after extraction.
func WithMinWords(n int) Option {
	return func(c *Crawler) {
		c.minWords = n
	}
}

// WithRequestsPerSecond paces the crawl; values below one slow it down.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Crawler) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Crawler) {
		c.userAgent = ua
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Crawler) {
		c.client = client
	}
}

// WithSeeds sets the starting URLs. Defaults to the base URL itself.
func WithSeeds(seeds ...string) Option {
	return func(c *Crawler) {
		c.seeds = seeds
	}
}

// WithLogger overrides the crawl logger.
func WithLogger(logger rag.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler rooted at baseURL. Defaults: 500 page cap, 30 word
// minimum, 2 requests per second, 15 second request timeout.
func New(baseURL string, opts ...Option) (*Crawler, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q", baseURL)
	}

	c := &Crawler{
		baseURL:   strings.TrimRight(baseURL, "/"),
		maxPages:  500,
		minWords:  30,
		userAgent: defaultUserAgent,
		client: &http.Client{
			Timeout: 15 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
		logger:  rag.GlobalLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.seeds) == 0 {
		c.seeds = []string{c.baseURL}
	}
	return c, nil
}

// Run performs the crawl and returns the collected pages with stats. The
// frontier loop stops at the page cap, when the frontier drains, or when the
// context is canceled; pages collected so far are returned either way.
func (c *Crawler) Run(ctx context.Context) ([]rag.Page, Stats, error) {
	c.loadRobots(ctx)

	frontier := make([]string, 0, len(c.seeds))
	for _, seed := range c.seeds {
		frontier = append(frontier, NormalizeURL(seed))
	}
	visited := make(map[string]bool)
	seenHashes := make(map[string]bool)
	var pages []rag.Page

	c.logger.Info("starting crawl", "base", c.baseURL, "maxPages", c.maxPages)

	for len(frontier) > 0 && len(visited) < c.maxPages {
		select {
		case <-ctx.Done():
			return pages, c.stats(pages, visited), ctx.Err()
		default:
		}

		pageURL := frontier[0]
		frontier = frontier[1:]

		if visited[pageURL] || !SameDomain(pageURL, c.baseURL) {
			continue
		}
		visited[pageURL] = true

		if !c.allowed(pageURL) {
			c.logger.Debug("blocked by robots.txt", "url", pageURL)
			continue
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return pages, c.stats(pages, visited), err
		}

		body, err := c.fetch(ctx, pageURL)
		if err != nil {
			c.logger.Debug("fetch failed", "url", pageURL, "error", err)
			continue
		}

		page, ok := ExtractPage(body, pageURL)
		if !ok || page.WordCount < c.minWords {
			continue
		}

		hash := ContentHash(page.Content)
		if seenHashes[hash] {
			continue
		}
		seenHashes[hash] = true
		pages = append(pages, page)

		for _, link := range ExtractLinks(body, pageURL, c.baseURL) {
			if !visited[link] {
				frontier = append(frontier, link)
			}
		}
	}

	stats := c.stats(pages, visited)
	c.logger.Info("crawl finished", "visited", stats.URLsVisited, "collected", stats.TotalPages)
	return pages, stats, nil
}

func (c *Crawler) stats(pages []rag.Page, visited map[string]bool) Stats {
	stats := Stats{
		TotalPages:  len(pages),
		URLsVisited: len(visited),
	}
	for _, page := range pages {
		stats.TotalWords += page.WordCount
	}
	if len(pages) > 0 {
		stats.AverageWordsPerPage = float64(stats.TotalWords) / float64(len(pages))
	}
	return stats
}

// fetch downloads a page, returning an error for non-2xx statuses and
// non-HTML content types.
func (c *Crawler) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// loadRobots fetches robots.txt once. A fetch or parse failure means the
// crawl proceeds without restrictions, mirroring how robots-aware clients
// treat an unreachable robots file on an otherwise reachable host.
func (c *Crawler) loadRobots(ctx context.Context) {
	robotsURL := c.baseURL + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("failed to load robots.txt", "url", robotsURL, "error", err)
		return
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		c.logger.Warn("failed to parse robots.txt", "url", robotsURL, "error", err)
		return
	}
	c.robots = data.FindGroup(c.userAgent)
	c.logger.Info("loaded robots.txt", "url", robotsURL)
}

func (c *Crawler) allowed(pageURL string) bool {
	if c.robots == nil {
		return true
	}
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return true
	}
	path := parsed.Path
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	return c.robots.Test(path)
}

// WriteOutputs persists per-page JSON files, the aggregate pages array and
// crawl stats, creating directories as needed.
func WriteOutputs(pages []rag.Page, stats Stats, pagesDir, aggregatePath, statsPath string) error {
	if err := os.MkdirAll(pagesDir, 0755); err != nil {
		return fmt.Errorf("failed to create pages directory: %w", err)
	}
	for _, page := range pages {
		data, err := json.MarshalIndent(page, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(pagesDir, pageFileName(page.URL)), data, 0644); err != nil {
			return fmt.Errorf("failed to save page %s: %w", page.URL, err)
		}
	}

	for path, v := range map[string]interface{}{
		aggregatePath: pages,
		statsPath:     stats,
	} {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// pageFileName derives a filesystem-safe name from a page URL.
func pageFileName(pageURL string) string {
	name := strings.ReplaceAll(pageURL, "://", "_")
	name = strings.ReplaceAll(name, "/", "__")
	if len(name) > 200 {
		name = name[:200]
	}
	return name + ".json"
}
