package feed

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

var _ Client = (*RSSClient)(nil)

// RSSClient reads RSS/Atom sources. The first item category stands in for
// the post tag and the item author for the poster.
type RSSClient struct {
	httpClient       *http.Client
	gofeedParser     *gofeed.Parser
	contentExtractor *ContentExtractor
	userAgent        string
}

func NewRSSClient(httpClient *http.Client, userAgent string) *RSSClient {
	return &RSSClient{
		httpClient:       httpClient,
		gofeedParser:     gofeed.NewParser(),
		contentExtractor: NewContentExtractor(),
		userAgent:        userAgent,
	}
}

func (c *RSSClient) FetchLatest(ctx context.Context, source Source, count int) ([]Post, error) {
	data, err := c.fetchFeed(ctx, source.URL)
	if err != nil {
		return nil, err
	}

	return c.Parse(source, data, count)
}

func (c *RSSClient) Parse(source Source, data []byte, count int) ([]Post, error) {
	parsed, err := c.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := parsed.Items
	if count > 0 && len(items) > count {
		items = items[:count]
	}

	posts := make([]Post, 0, len(items))
	for _, item := range items {
		post, ok := c.normalizeItem(source, item)
		if !ok {
			slog.Debug("Skipping feed item without id or date", "source", source.ID, "title", item.Title)
			continue
		}
		posts = append(posts, post)
	}

	return posts, nil
}

func (c *RSSClient) normalizeItem(source Source, item *gofeed.Item) (Post, bool) {
	post := Post{
		ExternalID: cmp.Or(item.GUID, item.Link),
		SourceID:   source.ID,
		Title:      item.Title,
		URL:        item.Link,
		Permalink:  item.Link,
	}
	if post.ExternalID == "" {
		return Post{}, false
	}

	published := item.PublishedParsed
	if published == nil {
		published = item.UpdatedParsed
	}
	if published == nil {
		return Post{}, false
	}
	post.CreatedUTC = float64(published.UnixMilli()) / 1000

	body, err := c.contentExtractor.Run(cmp.Or(item.Content, item.Description))
	if err != nil {
		slog.Debug("Failed to flatten item body", "source", source.ID, "id", post.ExternalID, "error", err)
		body = cmp.Or(item.Content, item.Description)
	}
	post.Body = body

	if len(item.Categories) > 0 {
		tag := item.Categories[0]
		post.Tag = &tag
	}

	if item.Author != nil {
		post.Author = cmp.Or(item.Author.Name, item.Author.Email)
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		post.Author = cmp.Or(item.Authors[0].Name, item.Authors[0].Email)
	}

	return post, true
}

func (c *RSSClient) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	slog.Debug("Feed fetched", "url", url, "bytes", len(data), "duration", time.Since(start))
	return data, nil
}
