// Package main provides the ai-news CLI entry point.
//
// ai-news fetches trending YouTube videos and news articles about AI
// coding tools, ranks them, and sends a formatted report to Slack. It is
// designed to run unattended once per day from a scheduler.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tlandry-heckleandcode/ai-news/internal/config"
	"github.com/tlandry-heckleandcode/ai-news/internal/news"
	"github.com/tlandry-heckleandcode/ai-news/internal/ranking"
	"github.com/tlandry-heckleandcode/ai-news/internal/report"
	"github.com/tlandry-heckleandcode/ai-news/internal/slack"
	"github.com/tlandry-heckleandcode/ai-news/internal/trend"
	"github.com/tlandry-heckleandcode/ai-news/internal/youtube"
)

var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnvFile loads a .env file if one exists next to the binary or in
// a config/ subdirectory. Production deployments set real environment
// variables instead, so a missing file is not an error.
func loadEnvFile() {
	for _, path := range []string{".env", "config/.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

// options holds the resolved CLI flags for one run.
type options struct {
	dryRun       bool
	test         bool
	videosOnly   bool
	articlesOnly bool
}

// newRootCmd creates the root command for the ai-news CLI.
func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "ai-news",
		Short:        "Report trending AI videos and articles to Slack",
		Long:         "ai-news fetches trending YouTube videos and news articles about AI coding tools,\nranks them by engagement and recency, and posts a daily report to a Slack webhook.",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	cmd.SetVersionTemplate("ai-news version {{.Version}}\n")

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Fetch data but print the report instead of sending to Slack")
	cmd.Flags().BoolVar(&opts.test, "test", false, "Send a test message to verify the Slack webhook")
	cmd.Flags().BoolVar(&opts.videosOnly, "videos", false, "Only fetch videos")
	cmd.Flags().BoolVar(&opts.articlesOnly, "articles", false, "Only fetch articles")

	return cmd
}

// youtubeOptions returns client options, honoring the test override URL.
func youtubeOptions(httpClient *http.Client) []youtube.ClientOption {
	opts := []youtube.ClientOption{youtube.WithHTTPClient(httpClient)}
	if url := os.Getenv("AI_NEWS_YOUTUBE_API_URL"); url != "" {
		opts = append(opts, youtube.WithBaseURL(url))
	}
	return opts
}

// newsOptions returns client options, honoring the test override URL.
func newsOptions(httpClient *http.Client) []news.ClientOption {
	opts := []news.ClientOption{news.WithHTTPClient(httpClient)}
	if url := os.Getenv("AI_NEWS_FEED_URL"); url != "" {
		opts = append(opts, news.WithBaseURL(url))
	}
	return opts
}

func run(cmd *cobra.Command, opts options) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintf(out, "[%s] Starting AI Trends Reporter...\n", time.Now().Format("2006-01-02 15:04:05"))
	loadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if opts.test {
		sl, err := slack.NewClient(cfg.SlackWebhookURL)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Sending test message to Slack...")
		if err := sl.SendTest(ctx); err != nil {
			return fmt.Errorf("test message failed: %w", err)
		}
		fmt.Fprintln(out, "Test message sent successfully!")
		return nil
	}

	fmt.Fprintf(out, "Search terms: %s\n", strings.Join(cfg.SearchTerms, ", "))
	fmt.Fprintf(out, "Looking back: %d days\n", cfg.DaysLookback)

	// Credential checks happen before any network call: a bad webhook
	// should not burn YouTube quota.
	var sl *slack.Client
	if !opts.dryRun {
		sl, err = slack.NewClient(cfg.SlackWebhookURL)
		if err != nil {
			return err
		}
	}

	fetchVideos := !opts.articlesOnly || opts.videosOnly
	fetchArticles := !opts.videosOnly || opts.articlesOnly

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	window := cfg.Window()
	now := time.Now()

	var videos []trend.Video
	if fetchVideos {
		yt, err := youtube.NewClient(cfg.YouTubeAPIKey, youtubeOptions(httpClient)...)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "Fetching YouTube videos...")
		fetched, err := yt.FetchVideos(ctx, cfg.SearchTerms, window, cfg.MaxResultsPerTerm)
		if err != nil {
			fmt.Fprintf(errOut, "YouTube: %v\n", err)
		} else {
			videos = ranking.Top(fetched, window, cfg.TopN, now)
			fmt.Fprintf(out, "Found %d trending videos\n", len(videos))
		}
	}

	var articles []trend.Article
	if fetchArticles {
		nc := news.NewClient(newsOptions(httpClient)...)

		fmt.Fprintln(out, "Fetching news articles...")
		fetched, err := nc.FetchArticles(ctx, cfg.SearchTerms, window, cfg.MaxResultsPerTerm)
		if err != nil {
			fmt.Fprintf(errOut, "News: %v\n", err)
		} else {
			articles = ranking.Top(fetched, window, cfg.TopN, now)
			fmt.Fprintf(out, "Found %d trending articles\n", len(articles))

			// Thumbnails render only in Slack blocks, and only for the
			// records that made the report, keeping outbound requests
			// bounded.
			if !opts.dryRun {
				for i := range articles {
					articles[i].Thumbnail = nc.FetchThumbnail(ctx, articles[i].URL)
				}
			}
		}
	}

	composer := report.NewComposer(cfg.DaysLookback, cfg.SearchTerms)

	if opts.dryRun {
		fmt.Fprint(out, composer.Text(videos, articles, now))
		fmt.Fprintln(out, "[Dry run - report not sent to Slack]")
		return nil
	}

	fmt.Fprintln(out, "Sending report to Slack...")
	if err := sl.Send(ctx, composer.SlackMessage(videos, articles, now)); err != nil {
		fmt.Fprintf(errOut, "Failed to send report: %v\n", err)
		// Console output is the backup when delivery fails.
		fmt.Fprint(out, composer.Text(videos, articles, now))
		return err
	}

	fmt.Fprintln(out, "Report sent successfully!")
	return nil
}
