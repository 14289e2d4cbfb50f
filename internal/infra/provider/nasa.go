package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"newsreel/internal/domain/entity"
	"newsreel/internal/usecase/route"
)

const nasaBaseURL = "https://images-api.nasa.gov"

// NASA searches the NASA image and video library. No API key is required.
type NASA struct {
	cfg    Config
	client client
}

// NewNASA creates a NASA images adapter.
func NewNASA(cfg Config) *NASA {
	cfg = cfg.withDefaults(nasaBaseURL, 1.0, 3)
	return &NASA{cfg: cfg, client: newClient(cfg)}
}

func (p *NASA) Name() string { return "nasa" }

type nasaSearchResponse struct {
	Collection struct {
		Items []struct {
			Links []struct {
				Href string `json:"href"`
			} `json:"links"`
			Data []struct {
				MediaType string `json:"media_type"`
				Title     string `json:"title"`
			} `json:"data"`
		} `json:"items"`
	} `json:"collection"`
}

func (p *NASA) Search(ctx context.Context, req route.Request) (*entity.Artifact, error) {
	mediaType := "image"
	if req.Media == entity.MediaTypeVideo {
		mediaType = "video"
	}

	q := url.Values{}
	q.Set("q", req.Query)
	q.Set("media_type", mediaType)

	var out nasaSearchResponse
	if err := p.client.getJSON(ctx, fmt.Sprintf("%s/search?%s", p.cfg.BaseURL, q.Encode()), nil, &out); err != nil {
		return nil, err
	}

	for _, item := range out.Collection.Items {
		if len(item.Links) == 0 || item.Links[0].Href == "" {
			continue
		}
		return &entity.Artifact{
			Kind:      entity.ArtifactKindMedia,
			URL:       item.Links[0].Href,
			Provider:  p.Name(),
			MediaType: req.Media,
			FetchedAt: time.Now(),
		}, nil
	}
	return nil, errNoResults(p.Name(), req.Query)
}
