package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"newsreel/internal/domain/entity"
	"newsreel/internal/usecase/route"
)

const pexelsBaseURL = "https://api.pexels.com"

// Pexels authenticates with a plain Authorization header.
type Pexels struct {
	cfg    Config
	client client
}

// NewPexels creates a Pexels adapter.
func NewPexels(cfg Config) *Pexels {
	cfg = cfg.withDefaults(pexelsBaseURL, 1.0, 3)
	return &Pexels{cfg: cfg, client: newClient(cfg)}
}

func (p *Pexels) Name() string { return "pexels" }

func (p *Pexels) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", p.cfg.APIKey)
	return h
}

type pexelsPhotoResponse struct {
	Photos []struct {
		Src struct {
			Large2x string `json:"large2x"`
			Large   string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

type pexelsVideoResponse struct {
	Videos []struct {
		VideoFiles []struct {
			Link    string `json:"link"`
			Quality string `json:"quality"`
		} `json:"video_files"`
	} `json:"videos"`
}

func (p *Pexels) Search(ctx context.Context, req route.Request) (*entity.Artifact, error) {
	if req.Media == entity.MediaTypeVideo {
		return p.searchVideos(ctx, req)
	}
	return p.searchPhotos(ctx, req)
}

func (p *Pexels) searchPhotos(ctx context.Context, req route.Request) (*entity.Artifact, error) {
	q := url.Values{}
	q.Set("query", req.Query)
	q.Set("per_page", "5")

	var out pexelsPhotoResponse
	if err := p.client.getJSON(ctx, fmt.Sprintf("%s/v1/search?%s", p.cfg.BaseURL, q.Encode()), p.header(), &out); err != nil {
		return nil, err
	}

	for _, photo := range out.Photos {
		u := photo.Src.Large2x
		if u == "" {
			u = photo.Src.Large
		}
		if u == "" {
			continue
		}
		return p.artifact(u, entity.MediaTypeImage), nil
	}
	return nil, errNoResults(p.Name(), req.Query)
}

func (p *Pexels) searchVideos(ctx context.Context, req route.Request) (*entity.Artifact, error) {
	q := url.Values{}
	q.Set("query", req.Query)
	q.Set("per_page", "5")

	var out pexelsVideoResponse
	if err := p.client.getJSON(ctx, fmt.Sprintf("%s/videos/search?%s", p.cfg.BaseURL, q.Encode()), p.header(), &out); err != nil {
		return nil, err
	}

	for _, video := range out.Videos {
		for _, f := range video.VideoFiles {
			if f.Link == "" {
				continue
			}
			return p.artifact(f.Link, entity.MediaTypeVideo), nil
		}
	}
	return nil, errNoResults(p.Name(), req.Query)
}

func (p *Pexels) artifact(u string, media entity.MediaType) *entity.Artifact {
	return &entity.Artifact{
		Kind:      entity.ArtifactKindMedia,
		URL:       u,
		Provider:  p.Name(),
		MediaType: media,
		FetchedAt: time.Now(),
	}
}
