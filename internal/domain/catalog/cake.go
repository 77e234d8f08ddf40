package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested cake does not exist.
var ErrNotFound = errors.New("cake not found")

// Cake represents a catalog item available for purchase. Price is the base
// price before the percentage discount is applied.
type Cake struct {
	ID          string
	Name        string
	Description string
	Ingredients []string
	Price       decimal.Decimal
	Discount    decimal.Decimal
	Categories  []string
	ImageURL    string
	ImageID     string
	Flavor      string
	Type        string
	Popularity  int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SortKey enumerates the supported catalog sort orders.
type SortKey string

const (
	SortName       SortKey = "name"
	SortNewest     SortKey = "newest"
	SortPopularity SortKey = "popularity"
	SortDiscount   SortKey = "discount"
)

// ParseSortKey maps a query-string sort value to a SortKey, falling back to
// name ordering for unknown values.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortNewest, SortPopularity, SortDiscount:
		return SortKey(s)
	default:
		return SortName
	}
}

// Filter narrows a catalog listing. Zero values mean "no constraint".
// Listings only ever return active cakes.
type Filter struct {
	Query    string
	Category string
	Flavor   string
	Type     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     SortKey
}

// Update holds the mutable cake fields for an admin edit. Nil pointers leave
// the corresponding column untouched.
type Update struct {
	Name        *string
	Description *string
	Ingredients []string
	Price       *decimal.Decimal
	Discount    *decimal.Decimal
	Categories  []string
	Flavor      *string
	Type        *string
	Popularity  *int
	IsActive    *bool
}

// Repository defines persistence operations for the cake catalog.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Cake, error)
	GetByID(ctx context.Context, id string) (*Cake, error)
	GetByIDs(ctx context.Context, ids []string) ([]Cake, error)
	Create(ctx context.Context, c *Cake) error
	Update(ctx context.Context, id string, u Update) (*Cake, error)
	Delete(ctx context.Context, id string) (*Cake, error)
	SetImage(ctx context.Context, id, url, publicID string) (*Cake, error)
}
