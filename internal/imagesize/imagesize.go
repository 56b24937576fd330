// Package imagesize probes remote images for their pixel dimensions.
package imagesize

import (
	"context"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 3 * time.Second

// maxHeaderBytes caps how much of the image is read to find its header.
const maxHeaderBytes = 1 << 20

// Prober fetches image headers over HTTP. Every failure, including a
// timeout, reports ok=false and never an error.
type Prober struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Prober.
type Option func(*Prober)

// WithTimeout sets the per-probe timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) Option {
	return func(p *Prober) {
		if c != nil {
			p.client = c
		}
	}
}

// New creates a Prober.
func New(opts ...Option) *Prober {
	p := &Prober{client: http.DefaultClient, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ImageSize returns the width and height of the image at url.
func (p *Prober) ImageSize(url string) (width, height int, ok bool) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, 0, false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, false
	}

	cfg, _, err := image.DecodeConfig(io.LimitReader(resp.Body, maxHeaderBytes))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
