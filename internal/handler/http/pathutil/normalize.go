package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern pairs a route regex with its normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns lists the dynamic routes, most specific first. Patterns
// are pre-compiled at initialization.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/jobs/[0-9a-fA-F-]+/pause$`), Template: "/jobs/:id/pause"},
	{Pattern: regexp.MustCompile(`^/jobs/[0-9a-fA-F-]+/resume$`), Template: "/jobs/:id/resume"},
	{Pattern: regexp.MustCompile(`^/jobs/[0-9a-fA-F-]+$`), Template: "/jobs/:id"},
}

// NormalizePath collapses dynamic URL paths to templates so metrics
// labels keep bounded cardinality: /jobs/3f2a... becomes /jobs/:id.
// Static paths pass through unchanged.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
