package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"newsreel/internal/domain/entity"
	"newsreel/internal/resilience/retry"
	"newsreel/internal/usecase/route"
)

const unsplashBaseURL = "https://api.unsplash.com"

// Unsplash serves photos only; video requests fail permanently so the
// router falls through without retrying.
type Unsplash struct {
	cfg    Config
	client client
}

// NewUnsplash creates an Unsplash adapter.
func NewUnsplash(cfg Config) *Unsplash {
	cfg = cfg.withDefaults(unsplashBaseURL, 1.0, 3)
	return &Unsplash{cfg: cfg, client: newClient(cfg)}
}

func (p *Unsplash) Name() string { return "unsplash" }

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
			Full    string `json:"full"`
		} `json:"urls"`
	} `json:"results"`
}

func (p *Unsplash) Search(ctx context.Context, req route.Request) (*entity.Artifact, error) {
	if req.Media == entity.MediaTypeVideo {
		return nil, &retry.PermanentError{
			Err: fmt.Errorf("unsplash: video not supported"),
		}
	}

	q := url.Values{}
	q.Set("query", req.Query)
	q.Set("per_page", "5")

	h := http.Header{}
	h.Set("Authorization", "Client-ID "+p.cfg.APIKey)

	var out unsplashSearchResponse
	if err := p.client.getJSON(ctx, fmt.Sprintf("%s/search/photos?%s", p.cfg.BaseURL, q.Encode()), h, &out); err != nil {
		return nil, err
	}

	for _, r := range out.Results {
		u := r.URLs.Regular
		if u == "" {
			u = r.URLs.Full
		}
		if u == "" {
			continue
		}
		return &entity.Artifact{
			Kind:      entity.ArtifactKindMedia,
			URL:       u,
			Provider:  p.Name(),
			MediaType: entity.MediaTypeImage,
			FetchedAt: time.Now(),
		}, nil
	}
	return nil, errNoResults(p.Name(), req.Query)
}
