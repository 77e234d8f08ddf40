package banner

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Slots available on the storefront homepage.
const (
	MinSlot = 1
	MaxSlot = 3
)

var (
	// ErrNotFound is returned when a banner does not exist.
	ErrNotFound = errors.New("banner not found")
	// ErrInvalidSlot is returned when a slot is outside [MinSlot, MaxSlot].
	ErrInvalidSlot = errors.New("banner slot must be between 1 and 3")
)

// Banner is one homepage hero image with optional promotional copy.
type Banner struct {
	ID        string
	Slot      int
	ImageURL  string
	ImageID   string
	Title     string
	Subtitle  string
	OfferText string
	IsActive  bool
	CreatedAt time.Time
}

// Repository defines persistence operations for banners.
type Repository interface {
	ListActive(ctx context.Context) ([]Banner, error)
	ListAll(ctx context.Context) ([]Banner, error)
	GetByID(ctx context.Context, id string) (*Banner, error)
	FindBySlot(ctx context.Context, slot int) (*Banner, error)
	Create(ctx context.Context, b *Banner) error
	Delete(ctx context.Context, id string) error
}
