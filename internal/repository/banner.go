package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RohitKonga/cake-haven/internal/domain/banner"
)

const bannerColumns = `id, slot, image_url, image_public_id, title, subtitle, offer_text, is_active, created_at`

var _ banner.Repository = (*BannerRepository)(nil)

// BannerRepository implements banner.Repository backed by PostgreSQL.
type BannerRepository struct {
	pool *pgxpool.Pool
}

// NewBannerRepository returns a BannerRepository that uses the given pool.
func NewBannerRepository(pool *pgxpool.Pool) *BannerRepository {
	return &BannerRepository{pool: pool}
}

// ListActive returns active banners in slot order, capped at the slot count.
func (r *BannerRepository) ListActive(ctx context.Context) ([]banner.Banner, error) {
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf("SELECT %s FROM banners WHERE is_active ORDER BY slot LIMIT %d",
			bannerColumns, banner.MaxSlot))
	if err != nil {
		return nil, fmt.Errorf("listing active banners: %w", err)
	}
	return pgx.CollectRows(rows, scanBanner)
}

// ListAll returns every banner in slot order.
func (r *BannerRepository) ListAll(ctx context.Context) ([]banner.Banner, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+bannerColumns+" FROM banners ORDER BY slot")
	if err != nil {
		return nil, fmt.Errorf("listing banners: %w", err)
	}
	return pgx.CollectRows(rows, scanBanner)
}

// GetByID returns a single banner by its identifier.
func (r *BannerRepository) GetByID(ctx context.Context, id string) (*banner.Banner, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+bannerColumns+" FROM banners WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("getting banner %q: %w", id, err)
	}

	b, err := pgx.CollectExactlyOneRow(rows, scanBanner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, banner.ErrNotFound
		}
		return nil, fmt.Errorf("getting banner %q: %w", id, err)
	}
	return &b, nil
}

// FindBySlot returns the banner occupying a slot, or banner.ErrNotFound.
func (r *BannerRepository) FindBySlot(ctx context.Context, slot int) (*banner.Banner, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+bannerColumns+" FROM banners WHERE slot = $1", slot)
	if err != nil {
		return nil, fmt.Errorf("finding banner in slot %d: %w", slot, err)
	}

	b, err := pgx.CollectExactlyOneRow(rows, scanBanner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, banner.ErrNotFound
		}
		return nil, fmt.Errorf("finding banner in slot %d: %w", slot, err)
	}
	return &b, nil
}

// Create persists a new banner.
func (r *BannerRepository) Create(ctx context.Context, b *banner.Banner) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO banners
		(id, slot, image_url, image_public_id, title, subtitle, offer_text, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.Slot, b.ImageURL, b.ImageID, b.Title, b.Subtitle, b.OfferText, b.IsActive,
	)
	if err != nil {
		return fmt.Errorf("creating banner %q: %w", b.ID, err)
	}
	return nil
}

// Delete removes a banner.
func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM banners WHERE id = $1", id); err != nil {
		return fmt.Errorf("deleting banner %q: %w", id, err)
	}
	return nil
}

func scanBanner(row pgx.CollectableRow) (banner.Banner, error) {
	var b banner.Banner
	err := row.Scan(
		&b.ID, &b.Slot, &b.ImageURL, &b.ImageID,
		&b.Title, &b.Subtitle, &b.OfferText, &b.IsActive, &b.CreatedAt,
	)
	return b, err
}
