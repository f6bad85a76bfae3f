// File: internal/search/duckduckgo.go
package search

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/shadowglass/inquest/api/schemas"
	"github.com/shadowglass/inquest/internal/config"
)

const maxResponseBytes = 2 << 20

// Provider performs web searches against the DuckDuckGo HTML endpoint and
// news searches against the Google News RSS feed. Neither requires an API
// key; both return relevance-ranked records that are passed through in
// provider order.
type Provider struct {
	webURL     string
	newsURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewProvider builds a provider from configuration.
func NewProvider(cfg config.SearchConfig, logger *zap.Logger) *Provider {
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Provider{
		webURL:    "https://html.duckduckgo.com/html/",
		newsURL:   "https://news.google.com/rss/search",
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:  logger.Named("search_provider"),
	}
}

// TextSearch scrapes the DuckDuckGo HTML results page.
func (p *Provider) TextSearch(ctx context.Context, keywords string, maxResults int) ([]schemas.SearchResult, error) {
	endpoint := p.webURL + "?q=" + url.QueryEscape(keywords)
	body, err := p.fetch(ctx, endpoint)
	if err != nil {
		return nil, schemas.NewProviderError("duckduckgo", err)
	}

	results, err := parseResultsPage(body, maxResults)
	if err != nil {
		return nil, schemas.NewProviderError("duckduckgo", err)
	}
	p.logger.Debug("Web search finished",
		zap.String("keywords", keywords),
		zap.Int("results", len(results)))
	return results, nil
}

// NewsSearch queries the Google News RSS feed.
func (p *Provider) NewsSearch(ctx context.Context, keywords string, maxResults int) ([]schemas.SearchResult, error) {
	endpoint := p.newsURL + "?q=" + url.QueryEscape(keywords) + "&hl=pt-BR&gl=BR&ceid=BR:pt-419"
	body, err := p.fetch(ctx, endpoint)
	if err != nil {
		return nil, schemas.NewProviderError("news", err)
	}

	results, err := parseNewsFeed(body, maxResults)
	if err != nil {
		return nil, schemas.NewProviderError("news", err)
	}
	p.logger.Debug("News search finished",
		zap.String("keywords", keywords),
		zap.Int("results", len(results)))
	return results, nil
}

// fetch performs one rate-limited GET and returns the decoded body.
func (p *Provider) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.8,en;q=0.5")
	// Explicit Accept-Encoding disables the transport's transparent
	// decompression, so both branches below are exercised.
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("bad gzip body: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	body, err := io.ReadAll(io.LimitReader(reader, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// parseResultsPage extracts result records from the DuckDuckGo HTML page.
// Results live in div.result.results_links blocks, with the link in
// a.result__a and the snippet in a.result__snippet.
func parseResultsPage(page []byte, maxResults int) ([]schemas.SearchResult, error) {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	var results []schemas.SearchResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if maxResults > 0 && len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" {
			class := attrValue(n, "class")
			if strings.Contains(class, "result") && strings.Contains(class, "results_links") {
				if r := extractResult(n); r.Href != "" && r.Title != "" {
					results = append(results, r)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results, nil
}

// extractResult pulls one record out of a result div.
func extractResult(n *html.Node) schemas.SearchResult {
	var result schemas.SearchResult

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			class := attrValue(n, "class")
			if strings.Contains(class, "result__a") {
				result.Href = attrValue(n, "href")
				result.Title = textContent(n)
			} else if strings.Contains(class, "result__snippet") {
				result.Body = textContent(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	result.Href = unwrapRedirect(result.Href)
	return result
}

// unwrapRedirect strips the DuckDuckGo click-through wrapper.
func unwrapRedirect(href string) string {
	const prefix = "//duckduckgo.com/l/?uddg="
	if !strings.HasPrefix(href, prefix) {
		return href
	}
	decoded, err := url.QueryUnescape(strings.TrimPrefix(href, prefix))
	if err != nil {
		return href
	}
	if idx := strings.Index(decoded, "&"); idx > 0 {
		decoded = decoded[:idx]
	}
	return decoded
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// parseNewsFeed extracts result records from an RSS feed.
func parseNewsFeed(feed []byte, maxResults int) ([]schemas.SearchResult, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(feed); err != nil {
		return nil, fmt.Errorf("failed to parse news feed: %w", err)
	}

	var results []schemas.SearchResult
	for _, item := range doc.FindElements("//channel/item") {
		if maxResults > 0 && len(results) >= maxResults {
			break
		}
		r := schemas.SearchResult{}
		if el := item.SelectElement("title"); el != nil {
			r.Title = strings.TrimSpace(el.Text())
		}
		if el := item.SelectElement("link"); el != nil {
			r.Href = strings.TrimSpace(el.Text())
		}
		if el := item.SelectElement("description"); el != nil {
			r.Body = strings.Join(strings.Fields(stripTags(el.Text())), " ")
		}
		if r.Title == "" && r.Href == "" {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

// stripTags drops HTML markup that Google News embeds in descriptions.
func stripTags(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String()
}

var _ schemas.SearchProvider = (*Provider)(nil)
