package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tlandry-heckleandcode/ai-news/internal/trend"
)

const week = 7 * 24 * time.Hour

func searchJSON(ids ...string) string {
	var items []string
	for _, id := range ids {
		items = append(items, `{
			"id": {"videoId": "`+id+`"},
			"snippet": {
				"title": "Video `+id+`",
				"channelTitle": "Channel `+id+`",
				"publishedAt": "2026-01-14T12:00:00Z",
				"thumbnails": {"medium": {"url": "https://example.com/`+id+`.jpg"}}
			}
		}`)
	}
	return `{"items": [` + strings.Join(items, ",") + `]}`
}

func statsJSON(views map[string]string) string {
	var items []string
	for id, count := range views {
		items = append(items, `{"id": "`+id+`", "statistics": {"viewCount": "`+count+`", "likeCount": "10"}}`)
	}
	return `{"items": [` + strings.Join(items, ",") + `]}`
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatal("expected error when API key is missing")
	}

	client, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil {
		t.Fatal("client should not be nil")
	}
}

func TestFetchVideos_SearchThenStatistics(t *testing.T) {
	var searchCalls, statsCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected key=test-key in query, got %q", r.URL.Query().Get("key"))
		}

		switch r.URL.Path {
		case "/youtube/v3/search":
			searchCalls++
			_, _ = w.Write([]byte(searchJSON("vid1", "vid2")))
		case "/youtube/v3/videos":
			statsCalls++
			if got := r.URL.Query().Get("id"); got != "vid1,vid2" {
				t.Errorf("expected batched id lookup vid1,vid2, got %q", got)
			}
			_, _ = w.Write([]byte(statsJSON(map[string]string{"vid1": "50000", "vid2": "12000"})))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()

	client, _ := NewClient("test-key", WithBaseURL(server.URL))
	videos, err := client.FetchVideos(context.Background(), []string{"Cursor AI"}, week, 10)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searchCalls != 1 || statsCalls != 1 {
		t.Errorf("expected 1 search + 1 stats call, got %d + %d", searchCalls, statsCalls)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	if videos[0].ViewCount != 50000 {
		t.Errorf("expected view count 50000, got %d", videos[0].ViewCount)
	}
	if videos[0].URL != "https://www.youtube.com/watch?v=vid1" {
		t.Errorf("unexpected video URL %q", videos[0].URL)
	}
	if videos[0].Thumbnail != "https://example.com/vid1.jpg" {
		t.Errorf("unexpected thumbnail %q", videos[0].Thumbnail)
	}
}

func TestFetchVideos_DeduplicatesAcrossTerms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/youtube/v3/search":
			// Both terms return the same video.
			_, _ = w.Write([]byte(searchJSON("shared")))
		case "/youtube/v3/videos":
			_, _ = w.Write([]byte(statsJSON(map[string]string{"shared": "99000"})))
		}
	}))
	defer server.Close()

	client, _ := NewClient("test-key", WithBaseURL(server.URL))
	videos, err := client.FetchVideos(context.Background(), []string{"Cursor AI", "Claude Code"}, week, 10)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("video matching both terms must appear once, got %d", len(videos))
	}
	if videos[0].ViewCount != 99000 {
		t.Errorf("expected view count 99000, got %d", videos[0].ViewCount)
	}
}

func TestFetchVideos_QuotaExhaustedWrapsSourceUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client, _ := NewClient("test-key", WithBaseURL(server.URL))
	_, err := client.FetchVideos(context.Background(), []string{"Cursor AI"}, week, 10)

	if !errors.Is(err, trend.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota") {
		t.Errorf("403 should mention quota, got %q", err.Error())
	}
}

func TestFetchVideos_EmptySearchReturnsEmptyWithoutStatsCall(t *testing.T) {
	var statsCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/youtube/v3/videos" {
			statsCalls++
		}
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client, _ := NewClient("test-key", WithBaseURL(server.URL))
	videos, err := client.FetchVideos(context.Background(), []string{"Cursor AI"}, week, 10)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(videos) != 0 {
		t.Fatalf("expected no videos, got %d", len(videos))
	}
	if statsCalls != 0 {
		t.Error("statistics lookup must be skipped when search returns nothing")
	}
}

func TestFetchVideos_URLEncodesSearchTerm(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/youtube/v3/search" {
			rawQuery = r.URL.RawQuery
			if got := r.URL.Query().Get("q"); got != "Claude Code & friends" {
				t.Errorf("expected decoded term, got %q", got)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client, _ := NewClient("test-key", WithBaseURL(server.URL))
	_, _ = client.FetchVideos(context.Background(), []string{"Claude Code & friends"}, week, 10)

	if strings.Contains(rawQuery, "Claude Code & friends") {
		t.Error("search term must be URL-encoded in the query string")
	}
}

func TestFetchVideos_UnescapesHTMLEntitiesInTitles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/youtube/v3/search":
			_, _ = w.Write([]byte(`{"items": [{
				"id": {"videoId": "ent1"},
				"snippet": {"title": "Cursor &amp; Claude", "channelTitle": "Ch", "publishedAt": "2026-01-14T12:00:00Z", "thumbnails": {}}
			}]}`))
		case "/youtube/v3/videos":
			_, _ = w.Write([]byte(statsJSON(map[string]string{"ent1": "1"})))
		}
	}))
	defer server.Close()

	client, _ := NewClient("test-key", WithBaseURL(server.URL))
	videos, err := client.FetchVideos(context.Background(), []string{"Cursor AI"}, week, 10)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if videos[0].Title != "Cursor & Claude" {
		t.Errorf("expected HTML entities unescaped, got %q", videos[0].Title)
	}
}
