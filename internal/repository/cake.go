package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RohitKonga/cake-haven/internal/domain/catalog"
)

const cakeColumns = `id, name, description, ingredients, price, discount, categories,
	image_url, image_public_id, flavor, type, popularity, is_active, created_at, updated_at`

// listCap bounds public catalog listings.
const listCap = 100

var _ catalog.Repository = (*CakeRepository)(nil)

// CakeRepository implements catalog.Repository backed by PostgreSQL.
type CakeRepository struct {
	pool *pgxpool.Pool
}

// NewCakeRepository returns a CakeRepository that uses the given pool.
func NewCakeRepository(pool *pgxpool.Pool) *CakeRepository {
	return &CakeRepository{pool: pool}
}

// List returns active cakes matching the filter, capped at 100 rows.
func (r *CakeRepository) List(ctx context.Context, f catalog.Filter) ([]catalog.Cake, error) {
	var (
		where = []string{"is_active"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Query != "" {
		where = append(where, "name ILIKE "+arg("%"+f.Query+"%"))
	}
	if f.Category != "" {
		where = append(where, arg(f.Category)+" = ANY(categories)")
	}
	if f.Flavor != "" {
		where = append(where, "flavor = "+arg(f.Flavor))
	}
	if f.Type != "" {
		where = append(where, "type = "+arg(f.Type))
	}
	if f.MinPrice != nil {
		where = append(where, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		where = append(where, "price <= "+arg(*f.MaxPrice))
	}

	orderBy := "name"
	switch f.Sort {
	case catalog.SortNewest:
		orderBy = "created_at DESC"
	case catalog.SortPopularity:
		orderBy = "popularity DESC"
	case catalog.SortDiscount:
		orderBy = "discount DESC"
	}

	query := fmt.Sprintf("SELECT %s FROM cakes WHERE %s ORDER BY %s LIMIT %d",
		cakeColumns, strings.Join(where, " AND "), orderBy, listCap)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cakes: %w", err)
	}
	return pgx.CollectRows(rows, scanCake)
}

// GetByID returns a single cake by its identifier.
func (r *CakeRepository) GetByID(ctx context.Context, id string) (*catalog.Cake, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+cakeColumns+" FROM cakes WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("getting cake %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCake)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting cake %q: %w", id, err)
	}
	return &c, nil
}

// GetByIDs returns cakes matching any of the given IDs in a single query.
func (r *CakeRepository) GetByIDs(ctx context.Context, ids []string) ([]catalog.Cake, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+cakeColumns+" FROM cakes WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("getting cakes by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanCake)
}

// Create persists a new cake.
func (r *CakeRepository) Create(ctx context.Context, c *catalog.Cake) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO cakes
		(id, name, description, ingredients, price, discount, categories, flavor, type, popularity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.Name, c.Description, c.Ingredients, c.Price, c.Discount,
		c.Categories, c.Flavor, c.Type, c.Popularity, c.IsActive,
	)
	if err != nil {
		return fmt.Errorf("creating cake %q: %w", c.ID, err)
	}
	return nil
}

// Update applies the non-nil fields of u and returns the updated cake.
func (r *CakeRepository) Update(ctx context.Context, id string, u catalog.Update) (*catalog.Cake, error) {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if u.Name != nil {
		set("name", *u.Name)
	}
	if u.Description != nil {
		set("description", *u.Description)
	}
	if u.Ingredients != nil {
		set("ingredients", u.Ingredients)
	}
	if u.Price != nil {
		set("price", *u.Price)
	}
	if u.Discount != nil {
		set("discount", *u.Discount)
	}
	if u.Categories != nil {
		set("categories", u.Categories)
	}
	if u.Flavor != nil {
		set("flavor", *u.Flavor)
	}
	if u.Type != nil {
		set("type", *u.Type)
	}
	if u.Popularity != nil {
		set("popularity", *u.Popularity)
	}
	if u.IsActive != nil {
		set("is_active", *u.IsActive)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE cakes SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), cakeColumns)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating cake %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCake)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("updating cake %q: %w", id, err)
	}
	return &c, nil
}

// Delete removes a cake and returns its last state, so callers can clean up
// the associated media asset.
func (r *CakeRepository) Delete(ctx context.Context, id string) (*catalog.Cake, error) {
	rows, err := r.pool.Query(ctx,
		"DELETE FROM cakes WHERE id = $1 RETURNING "+cakeColumns, id)
	if err != nil {
		return nil, fmt.Errorf("deleting cake %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCake)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("deleting cake %q: %w", id, err)
	}
	return &c, nil
}

// SetImage records an uploaded image on the cake.
func (r *CakeRepository) SetImage(ctx context.Context, id, url, publicID string) (*catalog.Cake, error) {
	rows, err := r.pool.Query(ctx,
		"UPDATE cakes SET image_url = $2, image_public_id = $3, updated_at = now() WHERE id = $1 RETURNING "+cakeColumns,
		id, url, publicID)
	if err != nil {
		return nil, fmt.Errorf("setting cake image %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCake)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("setting cake image %q: %w", id, err)
	}
	return &c, nil
}

func scanCake(row pgx.CollectableRow) (catalog.Cake, error) {
	var c catalog.Cake
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Ingredients, &c.Price, &c.Discount,
		&c.Categories, &c.ImageURL, &c.ImageID, &c.Flavor, &c.Type,
		&c.Popularity, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}
