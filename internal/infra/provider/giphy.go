package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"newsreel/internal/domain/entity"
	"newsreel/internal/usecase/route"
)

const giphyBaseURL = "https://api.giphy.com"

// Giphy is the last resort in the video order; animated loops beat a blank
// segment.
type Giphy struct {
	cfg    Config
	client client
}

// NewGiphy creates a Giphy adapter.
func NewGiphy(cfg Config) *Giphy {
	cfg = cfg.withDefaults(giphyBaseURL, 1.0, 3)
	return &Giphy{cfg: cfg, client: newClient(cfg)}
}

func (p *Giphy) Name() string { return "giphy" }

type giphySearchResponse struct {
	Data []struct {
		Images struct {
			Original struct {
				MP4 string `json:"mp4"`
				URL string `json:"url"`
			} `json:"original"`
		} `json:"images"`
	} `json:"data"`
}

func (p *Giphy) Search(ctx context.Context, req route.Request) (*entity.Artifact, error) {
	q := url.Values{}
	q.Set("api_key", p.cfg.APIKey)
	q.Set("q", req.Query)
	q.Set("limit", "5")
	q.Set("rating", "g")

	var out giphySearchResponse
	if err := p.client.getJSON(ctx, fmt.Sprintf("%s/v1/gifs/search?%s", p.cfg.BaseURL, q.Encode()), nil, &out); err != nil {
		return nil, err
	}

	for _, d := range out.Data {
		u := d.Images.Original.MP4
		if u == "" {
			u = d.Images.Original.URL
		}
		if u == "" {
			continue
		}
		return &entity.Artifact{
			Kind:      entity.ArtifactKindMedia,
			URL:       u,
			Provider:  p.Name(),
			MediaType: entity.MediaTypeVideo,
			FetchedAt: time.Now(),
		}, nil
	}
	return nil, errNoResults(p.Name(), req.Query)
}
