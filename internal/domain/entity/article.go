package entity

import "time"

// Article is one news item feeding a script. Only the fields the script
// generator consumes are kept.
type Article struct {
	Title       string
	URL         string
	Summary     string
	Content     string
	PublishedAt time.Time
}

// Text returns the richest available body for the article.
func (a *Article) Text() string {
	if a.Content != "" {
		return a.Content
	}
	return a.Summary
}
