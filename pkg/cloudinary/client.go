// Package cloudinary assembles delivery URLs for the preview backend and
// optionally warms the remote cache so first playback is fast.
package cloudinary

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"clipforge/log"
)

const warmConcurrency = 4

type Config struct {
	CloudName string
	BaseURL   string
	Secure    bool
}

type Client struct {
	cfg  Config
	http *resty.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://res.cloudinary.com"
	}
	httpClient := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2)

	return &Client{cfg: cfg, http: httpClient}
}

// Configured reports whether a cloud name is present. Without one no
// preview URL can be built.
func (c *Client) Configured() bool {
	return c.cfg.CloudName != ""
}

// VideoURL assembles the delivery URL for a transformation chain:
// <base>/<cloud>/video/upload/<chain>/<publicId>. A bare public id gets the
// mp4 delivery format appended.
func (c *Client) VideoURL(chain, publicID string) string {
	base := strings.TrimSuffix(c.cfg.BaseURL, "/")
	if !c.cfg.Secure {
		base = strings.Replace(base, "https://", "http://", 1)
	}

	if filepath.Ext(publicID) == "" {
		publicID += ".mp4"
	}

	parts := []string{base, c.cfg.CloudName, "video", "upload"}
	if chain != "" {
		parts = append(parts, chain)
	}
	parts = append(parts, publicID)
	return strings.Join(parts, "/")
}

// PublicIDFromPath derives the remote public id from a local media path.
func PublicIDFromPath(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Warm issues HEAD requests so the remote service derives the transformed
// assets ahead of playback. Best effort: every URL is attempted, the first
// failure is returned.
func (c *Client) Warm(ctx context.Context, urls []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)

	for _, u := range urls {
		u := u
		g.Go(func() error {
			resp, err := c.http.R().SetContext(ctx).Head(u)
			if err != nil {
				log.GetLogger().Warn("preview warm-up request failed", zap.String("url", u), zap.Error(err))
				return err
			}
			if resp.StatusCode() >= 400 {
				log.GetLogger().Warn("preview warm-up rejected", zap.String("url", u), zap.Int("status", resp.StatusCode()))
				return fmt.Errorf("warm %s: status %d", u, resp.StatusCode())
			}
			return nil
		})
	}
	return g.Wait()
}
