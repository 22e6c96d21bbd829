package crawl

import (
	"fmt"
	"net/url"
)

// progressURLWidth is the display width of URLs in progress lines.
const progressURLWidth = 60

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatProgress renders event as a single terminal line. Started and
// finished events render as an empty string.
func FormatProgress(event ProgressEvent) string {
	switch event.Type {
	case ProgressCompleted:
		return fmt.Sprintf("[%d, %d queued] %s", event.Completed, event.Queued, TruncateURL(event.URL, progressURLWidth))
	case ProgressFailed:
		return fmt.Sprintf("[%d, %d queued] %s (failed)", event.Completed, event.Queued, TruncateURL(event.URL, progressURLWidth))
	}
	return ""
}

// FormatSummary renders a one-line report of a finished crawl.
func FormatSummary(root string, r *Result) string {
	name := root
	if u, err := url.Parse(root); err == nil && u.Host != "" {
		name = u.Host
	}
	return fmt.Sprintf("%s: %d pages in sitemap, %d issues (%s)", name, r.SiteMap.Len(), r.Issues.Len(), r.Status)
}
