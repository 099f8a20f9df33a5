// Package news fetches trending articles from the Google News RSS search feed.
package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"

	"github.com/tlandry-heckleandcode/ai-news/internal/trend"
)

const defaultBaseURL = "https://news.google.com"

// Google News blocks default Go user agents; present a browser string.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the Google News base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// Client fetches keyword-filtered articles from the Google News RSS feed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	parser     *gofeed.Parser
}

// NewClient creates a new Google News RSS client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}

	parser := gofeed.NewParser()
	parser.Client = c.httpClient
	parser.UserAgent = userAgent
	c.parser = parser

	return c
}

// FetchArticles queries the feed once per term and merges the results into
// a deduplicated list of normalized records. The feed returns the same
// story under multiple tracking links, so deduplication uses the URL
// normalized to scheme/host/path with the query stripped.
func (c *Client) FetchArticles(ctx context.Context, terms []string, window time.Duration, maxPerTerm int) ([]trend.Article, error) {
	cutoff := time.Now().UTC().Add(-window)

	var all []trend.Article
	for _, term := range terms {
		articles, err := c.searchNews(ctx, term, cutoff, maxPerTerm)
		if err != nil {
			return nil, fmt.Errorf("%w: feed %q: %v", trend.ErrSourceUnavailable, term, err)
		}
		all = append(all, articles...)
	}

	all = lo.UniqBy(all, func(a trend.Article) string { return normalizeURL(a.URL) })
	return all, nil
}

// searchNews fetches and parses the feed for one term, keeping up to
// maxResults items inside the lookback window. The feed is not windowed
// server-side, so up to twice maxResults entries are scanned before
// giving up.
func (c *Client) searchNews(ctx context.Context, term string, cutoff time.Time, maxResults int) ([]trend.Article, error) {
	feedURL := fmt.Sprintf("%s/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en", c.baseURL, url.QueryEscape(term))

	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	articles := make([]trend.Article, 0, maxResults)
	for i, item := range feed.Items {
		if i >= maxResults*2 || len(articles) >= maxResults {
			break
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		}
		if !published.IsZero() && published.Before(cutoff) {
			continue
		}

		title, source := splitSource(item.Title)
		articles = append(articles, trend.Article{
			Title:       title,
			Source:      source,
			URL:         item.Link,
			PublishedAt: published,
		})
	}

	return articles, nil
}

// FetchThumbnail resolves the og:image meta tag of an article page.
// Google News links use JavaScript redirects that cannot be followed, so
// they are skipped. Thumbnails are optional: any failure returns "".
func (c *Client) FetchThumbnail(ctx context.Context, articleURL string) string {
	if articleURL == "" || strings.Contains(articleURL, "news.google.com") {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	image, _ := doc.Find(`meta[property="og:image"]`).Attr("content")
	return image
}

// splitSource extracts the article title and publication from the Google
// News title form "Article Title - Source Name".
func splitSource(title string) (string, string) {
	if idx := strings.LastIndex(title, " - "); idx >= 0 {
		return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
	}
	return strings.TrimSpace(title), "Unknown"
}

// normalizeURL reduces a URL to scheme://host/path so that tracking
// variants of the same link compare equal. Unparseable URLs are returned
// as-is.
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.Scheme + "://" + u.Host + u.Path
}
