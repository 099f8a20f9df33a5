// Package youtube provides a client for the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/tlandry-heckleandcode/ai-news/internal/trend"
)

const defaultBaseURL = "https://www.googleapis.com"

// statsBatchSize is the maximum number of video IDs the videos.list
// endpoint accepts per request.
const statsBatchSize = 50

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// Client is a YouTube Data API client authenticated with a static API key.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
}

// NewClient creates a new YouTube API client with the given API key.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("YouTube API key is required: set YOUTUBE_API_KEY")
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// FetchVideos searches each term for videos published within the lookback
// window and returns a deduplicated list of normalized records with view
// counts. A video matching multiple terms appears once, keeping its first
// occurrence. The call budget is one search request per term plus one
// statistics request per 50 collected IDs.
func (c *Client) FetchVideos(ctx context.Context, terms []string, window time.Duration, maxPerTerm int) ([]trend.Video, error) {
	publishedAfter := time.Now().UTC().Add(-window).Format(time.RFC3339)

	var all []trend.Video
	for _, term := range terms {
		videos, err := c.searchVideos(ctx, term, publishedAfter, maxPerTerm)
		if err != nil {
			return nil, fmt.Errorf("%w: search %q: %v", trend.ErrSourceUnavailable, term, err)
		}
		all = append(all, videos...)
	}

	all = lo.UniqBy(all, func(v trend.Video) string { return v.ID })
	if len(all) == 0 {
		return []trend.Video{}, nil
	}

	ids := lo.Map(all, func(v trend.Video, _ int) string { return v.ID })
	stats, err := c.videoStatistics(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: statistics: %v", trend.ErrSourceUnavailable, err)
	}

	for i := range all {
		s := stats[all[i].ID]
		all[i].ViewCount = s.viewCount
		all[i].LikeCount = s.likeCount
	}

	return all, nil
}

// searchVideos issues a single search.list call for one term.
func (c *Client) searchVideos(ctx context.Context, term, publishedAfter string, maxResults int) ([]trend.Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("order", "viewCount")
	params.Set("q", term)
	params.Set("publishedAfter", publishedAfter)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("relevanceLanguage", "en")
	params.Set("key", c.apiKey)

	body, err := c.doRequest(ctx, c.baseURL+"/youtube/v3/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	videos := make([]trend.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)

		thumbnail := item.Snippet.Thumbnails.Medium.URL
		if thumbnail == "" {
			thumbnail = item.Snippet.Thumbnails.Default.URL
		}

		videos = append(videos, trend.Video{
			ID:          item.ID.VideoID,
			Title:       html.UnescapeString(item.Snippet.Title),
			Channel:     item.Snippet.ChannelTitle,
			PublishedAt: publishedAt,
			Thumbnail:   thumbnail,
			URL:         "https://www.youtube.com/watch?v=" + item.ID.VideoID,
		})
	}

	return videos, nil
}

// videoStatistics fetches view and like counts for the given IDs, batching
// requests at the API's 50-ID limit.
func (c *Client) videoStatistics(ctx context.Context, ids []string) (map[string]videoStats, error) {
	stats := make(map[string]videoStats, len(ids))

	for start := 0; start < len(ids); start += statsBatchSize {
		end := start + statsBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		params := url.Values{}
		params.Set("part", "statistics")
		params.Set("id", strings.Join(ids[start:end], ","))
		params.Set("key", c.apiKey)

		body, err := c.doRequest(ctx, c.baseURL+"/youtube/v3/videos?"+params.Encode())
		if err != nil {
			return nil, err
		}

		var resp videosResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse videos response: %w", err)
		}

		for _, item := range resp.Items {
			viewCount, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
			likeCount, _ := strconv.ParseInt(item.Statistics.LikeCount, 10, 64)
			stats[item.ID] = videoStats{viewCount: viewCount, likeCount: likeCount}
		}
	}

	return stats, nil
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleAPIError(resp.StatusCode)
	}

	return body, nil
}

func (c *Client) handleAPIError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusBadRequest:
		return fmt.Errorf("YouTube API rejected the request - check your API key (status %d)", statusCode)
	case http.StatusForbidden:
		return errors.New("YouTube API access denied - daily quota may be exhausted")
	case http.StatusTooManyRequests:
		return errors.New("YouTube API rate limit exceeded - please try again later")
	case http.StatusServiceUnavailable:
		return errors.New("YouTube API temporarily unavailable - please try again in a few minutes")
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return errors.New("YouTube API server error - please try again later")
	default:
		return fmt.Errorf("YouTube API error (status %d)", statusCode)
	}
}

// API response types (private - implementation detail)

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type videoStats struct {
	viewCount int64
	likeCount int64
}
