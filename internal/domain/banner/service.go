package banner

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RohitKonga/cake-haven/internal/media"
)

// PublishRequest holds the fields for placing a banner into a slot.
type PublishRequest struct {
	Slot      int
	Asset     media.Asset
	Title     string
	Subtitle  string
	OfferText string
}

// Service manages homepage banner slots. Each slot holds at most one banner;
// publishing replaces the previous occupant and removes its media asset.
type Service struct {
	banners Repository
	images  media.Uploader
}

// NewService creates a banner Service. images may be nil when no media host
// is configured; slot replacement then skips remote asset cleanup.
func NewService(banners Repository, images media.Uploader) *Service {
	return &Service{banners: banners, images: images}
}

// Publish places a new banner into the slot, evicting and cleaning up any
// banner already there. Asset deletion on the media host is best effort.
func (s *Service) Publish(ctx context.Context, req PublishRequest) (*Banner, error) {
	if req.Slot < MinSlot || req.Slot > MaxSlot {
		return nil, ErrInvalidSlot
	}

	previous, err := s.banners.FindBySlot(ctx, req.Slot)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if previous != nil {
		if err := s.banners.Delete(ctx, previous.ID); err != nil {
			return nil, err
		}
		s.destroyAsset(ctx, previous.ImageID)
	}

	b := &Banner{
		ID:        uuid.New().String(),
		Slot:      req.Slot,
		ImageURL:  req.Asset.URL,
		ImageID:   req.Asset.PublicID,
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		OfferText: req.OfferText,
		IsActive:  true,
	}
	if err := s.banners.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Remove deletes a banner and its media asset.
func (s *Service) Remove(ctx context.Context, id string) error {
	b, err := s.banners.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.banners.Delete(ctx, id); err != nil {
		return err
	}
	s.destroyAsset(ctx, b.ImageID)
	return nil
}

// ListActive returns the active banners in slot order, at most one per slot.
func (s *Service) ListActive(ctx context.Context) ([]Banner, error) {
	return s.banners.ListActive(ctx)
}

// ListAll returns every banner in slot order.
func (s *Service) ListAll(ctx context.Context) ([]Banner, error) {
	return s.banners.ListAll(ctx)
}

func (s *Service) destroyAsset(ctx context.Context, publicID string) {
	if s.images == nil || publicID == "" {
		return
	}
	if err := s.images.Destroy(ctx, publicID); err != nil {
		zctx.From(ctx).Warn("Failed to delete banner asset",
			zap.String("public_id", publicID), zap.Error(err))
	}
}
