// Package media abstracts the external image host used for cake, banner,
// and custom request images.
package media

import (
	"context"
	"io"

	"github.com/go-faster/errors"
)

// ErrNotConfigured is returned when no media host credentials are set.
var ErrNotConfigured = errors.New("media storage not configured")

// Upload folders, one per asset kind.
const (
	FolderCakes   = "cake_haven/cakes"
	FolderCustom  = "cake_haven/custom"
	FolderBanners = "cake_haven/banners"
)

// Asset identifies a stored image: the public URL served to clients and the
// host-side id used for later deletion.
type Asset struct {
	URL      string
	PublicID string
}

// Uploader stores and removes images on the media host.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, folder string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}
