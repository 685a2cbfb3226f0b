package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher downloads small payloads such as background images.
type Fetcher struct {
	Client   *http.Client
	MaxBytes int64
}

// NewFetcher returns a fetcher with the given timeout and size limit.
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	return &Fetcher{
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: maxBytes,
	}
}

// GetBytes fetches url and returns the body. Non-2xx responses and bodies
// larger than MaxBytes are errors.
func (f *Fetcher) GetBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	body := io.Reader(resp.Body)
	if f.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, f.MaxBytes+1)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if f.MaxBytes > 0 && int64(len(b)) > f.MaxBytes {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", url, f.MaxBytes)
	}
	return b, nil
}
