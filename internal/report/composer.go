// Package report composes the daily trends report, as plain text for the
// console and as a Slack Block Kit message for webhook delivery.
//
// Composition is a pure function of the ranked records and the report
// time: identical inputs produce byte-identical output, and both empty
// sections still render with their placeholder lines.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tlandry-heckleandcode/ai-news/internal/slack"
	"github.com/tlandry-heckleandcode/ai-news/internal/trend"
)

const (
	maxTitleLen   = 200
	maxSourceLen  = 100
	maxAltTextLen = 75
)

// Composer formats ranked videos and articles into a report.
type Composer struct {
	lookbackDays int
	searchTerms  []string
}

// NewComposer creates a Composer. lookbackDays is rendered in the section
// headings and placeholder lines; searchTerms appear in the footer.
func NewComposer(lookbackDays int, searchTerms []string) *Composer {
	return &Composer{lookbackDays: lookbackDays, searchTerms: searchTerms}
}

func (c *Composer) noVideosLine() string {
	return fmt.Sprintf("No trending videos found in the last %d days.", c.lookbackDays)
}

func (c *Composer) noArticlesLine() string {
	return fmt.Sprintf("No trending articles found in the last %d days.", c.lookbackDays)
}

// Text renders the console report.
func (c *Composer) Text(videos []trend.Video, articles []trend.Article, now time.Time) string {
	var b strings.Builder

	rule := strings.Repeat("=", 60)
	b.WriteString(rule + "\n")
	b.WriteString("AI TRENDS REPORT - " + now.Format("Monday, January 2, 2006") + "\n")
	b.WriteString(rule + "\n")

	b.WriteString(fmt.Sprintf("\nTRENDING YOUTUBE VIDEOS (Last %d Days)\n", c.lookbackDays))
	b.WriteString(strings.Repeat("-", 40) + "\n")
	if len(videos) == 0 {
		b.WriteString(c.noVideosLine() + "\n")
	}
	for i, v := range videos {
		b.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, v.Title))
		b.WriteString(fmt.Sprintf("   Channel: %s\n", v.Channel))
		b.WriteString(fmt.Sprintf("   Views: %s | Published: %s\n", humanize.Comma(v.ViewCount), videoAge(v.PublishedAt, now)))
		b.WriteString(fmt.Sprintf("   URL: %s\n", v.URL))
	}

	b.WriteString(fmt.Sprintf("\nTRENDING ARTICLES (Last %d Days)\n", c.lookbackDays))
	b.WriteString(strings.Repeat("-", 40) + "\n")
	if len(articles) == 0 {
		b.WriteString(c.noArticlesLine() + "\n")
	}
	for i, a := range articles {
		b.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, a.Title))
		b.WriteString(fmt.Sprintf("   Source: %s\n", a.Source))
		b.WriteString(fmt.Sprintf("   Published: %s\n", articleAge(a.PublishedAt, now)))
		b.WriteString(fmt.Sprintf("   URL: %s\n", a.URL))
	}

	b.WriteString("\n" + rule + "\n")
	b.WriteString("Report generated at " + now.Format("3:04 PM") + "\n")

	return b.String()
}

// SlackMessage renders the report as a Block Kit message.
func (c *Composer) SlackMessage(videos []trend.Video, articles []trend.Article, now time.Time) slack.Message {
	blocks := []slack.Block{
		slack.HeaderBlock("AI Trends Report - " + now.Format("Monday, January 2, 2006")),
		slack.SectionBlock("Good morning! Here's your daily roundup of trending AI content."),
		slack.DividerBlock(),
	}

	blocks = append(blocks, slack.SectionBlock(fmt.Sprintf("*:tv: TRENDING YOUTUBE VIDEOS (Last %d Days)*", c.lookbackDays)))
	if len(videos) == 0 {
		blocks = append(blocks, slack.SectionBlock("_"+c.noVideosLine()+"_"))
	}
	for i, v := range videos {
		block := slack.SectionBlock(c.formatVideo(v, i+1, now))
		if thumb := safeURL(v.Thumbnail); thumb != "" {
			block.Accessory = slack.ImageAccessory(thumb, truncate(v.Title, maxAltTextLen))
		}
		blocks = append(blocks, block)
	}
	blocks = append(blocks, slack.DividerBlock())

	blocks = append(blocks, slack.SectionBlock(fmt.Sprintf("*:newspaper: TRENDING ARTICLES (Last %d Days)*", c.lookbackDays)))
	if len(articles) == 0 {
		blocks = append(blocks, slack.SectionBlock("_"+c.noArticlesLine()+"_"))
	}
	for i, a := range articles {
		block := slack.SectionBlock(c.formatArticle(a, i+1, now))
		if thumb := safeURL(a.Thumbnail); thumb != "" {
			block.Accessory = slack.ImageAccessory(thumb, truncate(a.Title, maxAltTextLen))
		}
		blocks = append(blocks, block)
	}
	blocks = append(blocks, slack.DividerBlock())

	footer := fmt.Sprintf("Report generated at %s | Search terms: %s",
		now.Format("3:04 PM"), strings.Join(c.searchTerms, ", "))
	blocks = append(blocks, slack.ContextBlock(footer))

	return slack.Message{Blocks: blocks}
}

// formatVideo renders one video entry in mrkdwn.
func (c *Composer) formatVideo(v trend.Video, index int, now time.Time) string {
	lines := []string{
		fmt.Sprintf("*%d. %s*", index, escapeMrkdwn(v.Title, maxTitleLen)),
		fmt.Sprintf("   Channel: %s", escapeMrkdwn(v.Channel, maxSourceLen)),
		fmt.Sprintf("   Views: %s | Published: %s", humanize.Comma(v.ViewCount), videoAge(v.PublishedAt, now)),
	}
	if u := safeURL(v.URL); u != "" {
		lines = append(lines, fmt.Sprintf("   <%s|Watch on YouTube>", u))
	}
	return strings.Join(lines, "\n")
}

// formatArticle renders one article entry in mrkdwn.
func (c *Composer) formatArticle(a trend.Article, index int, now time.Time) string {
	lines := []string{
		fmt.Sprintf("*%d. %s*", index, escapeMrkdwn(a.Title, maxTitleLen)),
		fmt.Sprintf("   Source: %s", escapeMrkdwn(a.Source, maxSourceLen)),
		fmt.Sprintf("   Published: %s", articleAge(a.PublishedAt, now)),
	}
	if u := safeURL(a.URL); u != "" {
		lines = append(lines, fmt.Sprintf("   <%s|Read Article>", u))
	}
	return strings.Join(lines, "\n")
}

// videoAge renders a publish time relative to now at day granularity.
func videoAge(published, now time.Time) string {
	days := int(now.Sub(published).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// articleAge renders a publish time relative to now, in hours for recent
// articles and days beyond 48 hours.
func articleAge(published, now time.Time) string {
	hours := int(now.Sub(published).Hours())
	switch {
	case hours < 1:
		return "Just now"
	case hours == 1:
		return "1 hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	case hours < 48:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", hours/24)
	}
}

// mrkdwnEscaper escapes Slack mrkdwn special characters. & is replaced
// first so entity escapes are not double-escaped.
var mrkdwnEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"*", `\*`,
	"_", `\_`,
	"~", `\~`,
	"`", "\\`",
)

// escapeMrkdwn truncates then escapes external text before it is
// interpolated into a mrkdwn block.
func escapeMrkdwn(text string, maxLen int) string {
	return mrkdwnEscaper.Replace(truncate(text, maxLen))
}

// truncate limits text to maxLen runes, adding "..." when cut.
func truncate(text string, maxLen int) string {
	runes := []rune(text)
	if maxLen <= 0 || len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}

// safeURL returns the URL only when it uses http or https, otherwise "".
func safeURL(url string) string {
	if strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://") {
		return url
	}
	return ""
}
