package imagepkg

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/youruser/ogcanvas/internal/util"
)

// DownloadImage fetches an image over HTTP and checks that it decodes. The
// raw bytes are returned so the composer can decode them itself.
func DownloadImage(ctx context.Context, f *util.Fetcher, url string) ([]byte, error) {
	body, err := f.GetBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", url, ErrDecode, err)
	}
	return body, nil
}
