// Package feed provides the article intake for a pipeline run. Feeds are
// parsed with gofeed; short feed summaries are optionally enriched with the
// full article text extracted via readability.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"newsreel/internal/domain/entity"
	"newsreel/internal/resilience/circuitbreaker"
	"newsreel/internal/resilience/retry"
)

// ArticleSource yields the articles a run is built from.
type ArticleSource interface {
	Fetch(ctx context.Context, limit int) ([]*entity.Article, error)
}

// userAgent identifies the intake bot to feed servers.
const userAgent = "NewsreelBot"

// enrichBelowChars is the summary length under which the full article body
// is fetched.
const enrichBelowChars = 280

// RSSSource fetches articles from a list of RSS/Atom feeds in order until
// the limit is reached.
type RSSSource struct {
	FeedURLs []string
	Enricher ContentEnricher // optional

	client      *http.Client
	breakers    *circuitbreaker.Registry
	retryConfig retry.Config
	logger      *slog.Logger
}

// NewRSSSource creates an intake over the given feeds.
func NewRSSSource(feedURLs []string, breakers *circuitbreaker.Registry, logger *slog.Logger) *RSSSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &RSSSource{
		FeedURLs:    feedURLs,
		client:      &http.Client{Timeout: 30 * time.Second},
		breakers:    breakers,
		retryConfig: retry.DefaultConfig(),
		logger:      logger,
	}
}

// Fetch parses each configured feed and returns up to limit articles.
// A broken feed is skipped; only zero articles across all feeds is an error.
func (s *RSSSource) Fetch(ctx context.Context, limit int) ([]*entity.Article, error) {
	if limit <= 0 {
		limit = 5
	}

	var articles []*entity.Article
	for _, feedURL := range s.FeedURLs {
		if len(articles) >= limit {
			break
		}

		items, err := s.fetchFeed(ctx, feedURL)
		if err != nil {
			s.logger.Warn("feed fetch failed, skipping",
				slog.String("feed_url", feedURL),
				slog.String("error", err.Error()))
			continue
		}

		for _, item := range items {
			if len(articles) >= limit {
				break
			}
			articles = append(articles, s.toArticle(ctx, item))
		}
	}

	if len(articles) == 0 {
		return nil, fmt.Errorf("fetch articles: no articles from %d feeds", len(s.FeedURLs))
	}
	return articles, nil
}

func (s *RSSSource) fetchFeed(ctx context.Context, feedURL string) ([]*gofeed.Item, error) {
	report, allowed := s.breakers.Allow("feed:" + feedURL)
	if !allowed {
		return nil, fmt.Errorf("feed circuit open: %s", feedURL)
	}

	var items []*gofeed.Item
	err := retry.WithBackoff(ctx, s.retryConfig, func(ctx context.Context) error {
		fp := gofeed.NewParser()
		fp.UserAgent = userAgent
		fp.Client = s.client

		feed, err := fp.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			return fmt.Errorf("parse feed %s: %w", feedURL, err)
		}
		items = feed.Items
		return nil
	})

	report(err == nil)
	return items, err
}

func (s *RSSSource) toArticle(ctx context.Context, item *gofeed.Item) *entity.Article {
	article := &entity.Article{
		Title:   item.Title,
		URL:     item.Link,
		Summary: item.Description,
	}
	if item.PublishedParsed != nil {
		article.PublishedAt = *item.PublishedParsed
	}

	if s.Enricher != nil && len(article.Summary) < enrichBelowChars && article.URL != "" {
		content, err := s.Enricher.Extract(ctx, article.URL)
		if err != nil {
			s.logger.Warn("content enrichment failed, using feed summary",
				slog.String("url", article.URL),
				slog.String("error", err.Error()))
		} else {
			article.Content = content
		}
	}
	return article
}
