package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"newsreel/internal/domain/entity"
	"newsreel/internal/usecase/route"
)

const pixabayBaseURL = "https://pixabay.com"

// Pixabay serves both photos and videos from separate endpoints.
type Pixabay struct {
	cfg    Config
	client client
}

// NewPixabay creates a Pixabay adapter.
func NewPixabay(cfg Config) *Pixabay {
	cfg = cfg.withDefaults(pixabayBaseURL, 1.0, 3)
	return &Pixabay{cfg: cfg, client: newClient(cfg)}
}

func (p *Pixabay) Name() string { return "pixabay" }

type pixabayImageResponse struct {
	Hits []struct {
		LargeImageURL string `json:"largeImageURL"`
		WebformatURL  string `json:"webformatURL"`
	} `json:"hits"`
}

type pixabayVideoResponse struct {
	Hits []struct {
		Videos struct {
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
			Small struct {
				URL string `json:"url"`
			} `json:"small"`
		} `json:"videos"`
	} `json:"hits"`
}

func (p *Pixabay) Search(ctx context.Context, req route.Request) (*entity.Artifact, error) {
	if req.Media == entity.MediaTypeVideo {
		return p.searchVideos(ctx, req)
	}
	return p.searchImages(ctx, req)
}

func (p *Pixabay) searchImages(ctx context.Context, req route.Request) (*entity.Artifact, error) {
	q := url.Values{}
	q.Set("key", p.cfg.APIKey)
	q.Set("q", req.Query)
	q.Set("image_type", "photo")
	q.Set("safesearch", "true")

	var out pixabayImageResponse
	if err := p.client.getJSON(ctx, fmt.Sprintf("%s/api/?%s", p.cfg.BaseURL, q.Encode()), nil, &out); err != nil {
		return nil, err
	}

	for _, hit := range out.Hits {
		u := hit.LargeImageURL
		if u == "" {
			u = hit.WebformatURL
		}
		if u == "" {
			continue
		}
		return p.artifact(u, entity.MediaTypeImage), nil
	}
	return nil, errNoResults(p.Name(), req.Query)
}

func (p *Pixabay) searchVideos(ctx context.Context, req route.Request) (*entity.Artifact, error) {
	q := url.Values{}
	q.Set("key", p.cfg.APIKey)
	q.Set("q", req.Query)
	q.Set("safesearch", "true")

	var out pixabayVideoResponse
	if err := p.client.getJSON(ctx, fmt.Sprintf("%s/api/videos/?%s", p.cfg.BaseURL, q.Encode()), nil, &out); err != nil {
		return nil, err
	}

	for _, hit := range out.Hits {
		u := hit.Videos.Medium.URL
		if u == "" {
			u = hit.Videos.Small.URL
		}
		if u == "" {
			continue
		}
		return p.artifact(u, entity.MediaTypeVideo), nil
	}
	return nil, errNoResults(p.Name(), req.Query)
}

func (p *Pixabay) artifact(u string, media entity.MediaType) *entity.Artifact {
	return &entity.Artifact{
		Kind:      entity.ArtifactKindMedia,
		URL:       u,
		Provider:  p.Name(),
		MediaType: media,
		FetchedAt: time.Now(),
	}
}
