package news

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/asset-dashboard/internal/logging"
)

// og:image content in either attribute order
var ogImagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`<meta[^>]+property=["']og:image["'][^>]+content=["']([^"']+)["']`),
	regexp.MustCompile(`<meta[^>]+content=["']([^"']+)["'][^>]+property=["']og:image["']`),
}

const maxScrapeBody = 256 * 1024

// ScrapeOGImage fetches the article page and extracts its og:image URL.
// Best-effort: it aborts after the timeout and returns "" on any failure.
func ScrapeOGImage(ctx context.Context, client *http.Client, pageURL string, timeout time.Duration) string {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; asset-dashboard/1.0)")

	resp, err := client.Do(req)
	if err != nil {
		logging.FromContext(ctx).WithError(err).WithField("url", pageURL).Debug("og:image scrape failed")
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScrapeBody))
	if err != nil {
		return ""
	}

	for _, pattern := range ogImagePatterns {
		if m := pattern.FindSubmatch(body); m != nil {
			return string(m[1])
		}
	}
	return ""
}
