package pathutil

import (
	"errors"
	"testing"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		prefix  string
		want    string
		wantErr bool
	}{
		{
			name:   "plain id",
			path:   "/jobs/3f2a8c1e-9b6d-4f70-8a21-0c5e7d9b1a34",
			prefix: "/jobs/",
			want:   "3f2a8c1e-9b6d-4f70-8a21-0c5e7d9b1a34",
		},
		{
			name:   "id with action suffix",
			path:   "/jobs/3f2a8c1e/pause",
			prefix: "/jobs/",
			want:   "3f2a8c1e",
		},
		{
			name:    "missing id",
			path:    "/jobs/",
			prefix:  "/jobs/",
			wantErr: true,
		},
		{
			name:    "prefix not present",
			path:    "/other/abc",
			prefix:  "/jobs/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractID(tt.path, tt.prefix)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidID) {
					t.Errorf("ExtractID() error = %v, want ErrInvalidID", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractID() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/jobs/3f2a8c1e-9b6d-4f70-8a21-0c5e7d9b1a34", "/jobs/:id"},
		{"/jobs/3f2a8c1e/pause", "/jobs/:id/pause"},
		{"/jobs/3f2a8c1e/resume", "/jobs/:id/resume"},
		{"/jobs/3f2a8c1e?verbose=1", "/jobs/:id"},
		{"/jobs/3f2a8c1e/", "/jobs/:id"},
		{"/jobs", "/jobs"},
		{"/healthz", "/healthz"},
		{"/metrics", "/metrics"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.path); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
