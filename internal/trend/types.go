// Package trend defines the normalized content records shared by the
// fetchers, the ranker, and the report composer.
//
// Records are source-agnostic: they carry only the fields needed for
// ranking and display, stripped of upstream-specific metadata.
package trend

import (
	"errors"
	"time"
)

// ErrSourceUnavailable indicates an upstream fetch failed (quota exhausted,
// network failure, malformed feed). Callers treat it as non-fatal: the
// source contributes no records and the run continues.
var ErrSourceUnavailable = errors.New("source unavailable")

// Video is a normalized YouTube video record.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Channel     string    `json:"channel"`
	ViewCount   int64     `json:"view_count"`
	LikeCount   int64     `json:"like_count"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}

// Published returns the publish timestamp for ranking.
func (v Video) Published() time.Time { return v.PublishedAt }

// Score returns the engagement metric for ranking.
func (v Video) Score() int64 { return v.ViewCount }

// Article is a normalized news article record. The feed exposes no
// engagement metric, so recency is its only ranking signal.
type Article struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}

// Published returns the publish timestamp for ranking.
func (a Article) Published() time.Time { return a.PublishedAt }

// Score returns 0: articles carry no engagement metric.
func (a Article) Score() int64 { return 0 }
