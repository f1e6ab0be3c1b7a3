package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
	"github.com/custodia-labs/admitscan-cli/internal/core/ports/driven"
	"github.com/custodia-labs/admitscan-cli/internal/logger"
	"github.com/custodia-labs/admitscan-cli/internal/textclean"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const (
	defaultMaxPages = 40
	defaultTimeout  = 30 * time.Second
	maxBodyBytes    = 4 << 20 // refuse to buffer pages larger than 4 MiB
	userAgent       = "admitscan/1.0 (+https://github.com/custodia-labs/admitscan-cli)"
)

// defaultSeedPaths are admissions-site sections worth visiting even when no
// crawled page links to them directly.
var defaultSeedPaths = []string{
	"/education/admissions",
	"/education/financial-aid",
	"/education/financial-aid/tuition",
	"/education/financial-aid/scholarships",
	"/education/student-financial-services",
}

// followKeywords mark same-host link paths worth crawling.
var followKeywords = []string{"financial", "tuition", "scholarship", "aid", "admissions"}

// Config holds web extractor configuration.
type Config struct {
	// BaseURL is the site root, e.g. "https://icahn.mssm.edu".
	BaseURL string
	// SeedPaths are site-relative paths queued ahead of link discovery.
	// Empty means defaultSeedPaths.
	SeedPaths []string
	// MaxPages bounds the crawl. Zero means defaultMaxPages.
	MaxPages int
	// RateLimit paces fetches. Zero values mean DefaultRateLimit.
	RateLimit RateLimitConfig
	// Timeout applies per HTTP request. Zero means defaultTimeout.
	Timeout time.Duration
}

// Extractor crawls an admissions website and streams cleaned text units.
// It follows same-host links whose path mentions admissions or money
// and extracts one unit per heading-delimited section.
type Extractor struct {
	cfg     Config
	base    *url.URL
	client  *http.Client
	limiter *RateLimiter
}

// New creates a web extractor for the given site.
func New(cfg Config) (*Extractor, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if len(cfg.SeedPaths) == 0 {
		cfg.SeedPaths = defaultSeedPaths
	}

	return &Extractor{
		cfg:     cfg,
		base:    base,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: NewRateLimiter(cfg.RateLimit),
	}, nil
}

// Origin returns the origin kind this extractor produces.
func (e *Extractor) Origin() domain.OriginKind {
	return domain.OriginWeb
}

// Validate checks the base URL is usable.
func (e *Extractor) Validate(_ context.Context) error {
	_, err := parseBaseURL(e.cfg.BaseURL)
	return err
}

// Close releases idle connections.
func (e *Extractor) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// Extract crawls the site and streams document units.
// Per-page failures are reported on the error channel without stopping
// the crawl; both channels are closed when the crawl completes.
func (e *Extractor) Extract(ctx context.Context) (<-chan domain.DocumentUnit, <-chan error) {
	units := make(chan domain.DocumentUnit)
	errs := make(chan error, 1)

	go func() {
		defer close(units)
		defer close(errs)

		queue := e.seedQueue()
		visited := make(map[string]struct{})
		position := 0
		fetched := 0

		for len(queue) > 0 && fetched < e.cfg.MaxPages {
			if ctx.Err() != nil {
				return
			}

			pageURL := queue[0]
			queue = queue[1:]

			key := canonical(pageURL)
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}

			page, err := e.fetch(ctx, pageURL)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("fetch %s: %v", pageURL, err)
				select {
				case errs <- fmt.Errorf("fetch %s: %w", pageURL, err):
				default:
					// Error buffer full, the failure is already logged.
				}
				continue
			}
			fetched++

			sections, links := parsePage(page, pageURL)
			for _, sec := range sections {
				for _, text := range textclean.CleanChunks([]string{sec.text}) {
					unit := domain.DocumentUnit{
						Source:   pageURL.String(),
						Origin:   domain.OriginWeb,
						Heading:  sec.heading,
						Text:     text,
						Position: position,
					}
					position++
					select {
					case units <- unit:
					case <-ctx.Done():
						return
					}
				}
			}

			for _, link := range links {
				if e.shouldFollow(link) {
					queue = append(queue, link)
				}
			}
		}

		logger.Debug("web extract complete: %d pages, %d units", fetched, position)
	}()

	return units, errs
}

// seedQueue builds the initial crawl frontier: the base URL first, then
// the configured seed paths resolved against it.
func (e *Extractor) seedQueue() []*url.URL {
	queue := []*url.URL{e.base}
	for _, path := range e.cfg.SeedPaths {
		ref, err := url.Parse(path)
		if err != nil {
			continue
		}
		queue = append(queue, e.base.ResolveReference(ref))
	}
	return queue
}

// shouldFollow reports whether a discovered link is worth crawling.
// Only same-host links whose path mentions admissions or financial
// topics are followed.
func (e *Extractor) shouldFollow(u *url.URL) bool {
	if !strings.EqualFold(u.Host, e.base.Host) {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, kw := range followKeywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}

// fetch retrieves one page, honouring the rate limit and recording 429
// backoff hints.
func (e *Extractor) fetch(ctx context.Context, pageURL *url.URL) (*html.Node, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	logger.Debug("fetching %s", pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		e.limiter.RecordRateLimitError(parseRetryAfter(resp.Header.Get("Retry-After")))
		return nil, fmt.Errorf("rate limited (HTTP 429)")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	return html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
}

// parseRetryAfter interprets a Retry-After header value in seconds.
func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// parseBaseURL validates and normalises the configured site root.
func parseBaseURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: base URL is required", domain.ErrInvalidInput)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q", domain.ErrInvalidInput, raw)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL must be absolute http(s), got %q", domain.ErrInvalidInput, raw)
	}
	return u, nil
}

// canonical produces the visited-set key for a URL: scheme, host and
// path only, so fragment and query variants of a page are fetched once.
func canonical(u *url.URL) string {
	return u.Scheme + "://" + strings.ToLower(u.Host) + strings.TrimSuffix(u.Path, "/")
}

// section is a heading-delimited run of page text.
type section struct {
	heading string
	text    string
}

// skipElements are DOM subtrees that never carry admissions content.
var skipElements = map[string]struct{}{
	"head":     {},
	"script":   {},
	"style":    {},
	"noscript": {},
	"nav":      {},
	"footer":   {},
	"header":   {},
	"aside":    {},
	"form":     {},
	"svg":      {},
	"iframe":   {},
}

// parsePage walks the DOM once, grouping text under the most recent
// h1-h3 heading and collecting candidate links.
func parsePage(doc *html.Node, pageURL *url.URL) ([]section, []*url.URL) {
	var sections []section
	var links []*url.URL
	current := section{}

	flush := func() {
		if strings.TrimSpace(current.text) != "" {
			sections = append(sections, current)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skipElements[n.Data]; skip {
				return
			}
			switch n.Data {
			case "h1", "h2", "h3":
				flush()
				current = section{heading: nodeText(n)}
				return
			case "a":
				if link := resolveLink(n, pageURL); link != nil {
					links = append(links, link)
				}
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				current.text += text + " "
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	flush()

	return sections, links
}

// nodeText concatenates the text nodes under n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// resolveLink extracts and resolves an anchor's href against the page URL.
func resolveLink(n *html.Node, pageURL *url.URL) *url.URL {
	for _, attr := range n.Attr {
		if attr.Key != "href" {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(attr.Val))
		if err != nil || ref.Scheme == "mailto" || ref.Scheme == "tel" || ref.Scheme == "javascript" {
			return nil
		}
		resolved := pageURL.ResolveReference(ref)
		resolved.Fragment = ""
		return resolved
	}
	return nil
}
