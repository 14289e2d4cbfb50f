// Command diagnose_feeds checks every configured feed URL and prints a
// one-line verdict per feed: reachability, item count, and the newest
// publish date. Useful when a run produces fewer articles than expected.
//
// Usage:
//
//	FEED_URLS=https://a/rss,https://b/rss go run ./scripts
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mmcdole/gofeed"
)

const feedTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	raw := os.Getenv("FEED_URLS")
	if raw == "" {
		fmt.Fprintln(os.Stderr, "FEED_URLS is not set")
		os.Exit(1)
	}

	parser := gofeed.NewParser()
	failures := 0
	for _, url := range strings.Split(raw, ",") {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		if err := diagnose(parser, url); err != nil {
			fmt.Printf("FAIL %-60s %v\n", url, err)
			failures++
		}
	}
	if failures > 0 {
		os.Exit(1)
	}
}

func diagnose(parser *gofeed.Parser, url string) error {
	ctx, cancel := context.WithTimeout(context.Background(), feedTimeout)
	defer cancel()

	start := time.Now()
	feed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return err
	}

	newest := "unknown"
	for _, item := range feed.Items {
		if item.PublishedParsed != nil {
			newest = item.PublishedParsed.Format(time.RFC3339)
			break
		}
	}

	fmt.Printf("OK   %-60s %3d items, newest %s, %dms\n",
		url, len(feed.Items), newest, time.Since(start).Milliseconds())
	return nil
}
