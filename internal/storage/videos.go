package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

type videoLink struct {
	URL string `json:"url"`
}

// VideoLinks returns exercise id to form-video URL.
func (s *Store) VideoLinks(ctx context.Context) (map[string]string, error) {
	docs, err := s.b.list(ctx, colVideos)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(docs))
	for _, doc := range docs {
		var v videoLink
		if err := json.Unmarshal(doc.Body, &v); err != nil {
			return nil, fmt.Errorf("decoding video link %s: %w", doc.ID, err)
		}
		out[doc.ID] = v.URL
	}
	return out, nil
}

// SetVideoLink attaches an http(s) URL to an exercise.
func (s *Store) SetVideoLink(ctx context.Context, exerciseID, link string) error {
	if exerciseID == "" {
		return fmt.Errorf("exercise id is required")
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid video url %q", link)
	}
	return s.putJSON(ctx, colVideos, exerciseID, time.Time{}, videoLink{URL: u.String()})
}

// DeleteVideoLink removes an exercise's video link.
func (s *Store) DeleteVideoLink(ctx context.Context, exerciseID string) error {
	return s.remove(ctx, colVideos, exerciseID)
}
