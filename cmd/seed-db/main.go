// Command seed-db loads the starter catalog, a default admin account, and a
// couple of demo coupons into the database. Safe to re-run: existing rows are
// left untouched.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/RohitKonga/cake-haven/internal/domain/catalog"
	"github.com/RohitKonga/cake-haven/internal/domain/coupon"
	"github.com/RohitKonga/cake-haven/internal/domain/user"
	"github.com/RohitKonga/cake-haven/internal/repository"
)

type cakeJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Ingredients []string        `json:"ingredients"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	Categories  []string        `json:"categories"`
	Flavor      string          `json:"flavor"`
	Type        string          `json:"type"`
	Popularity  int             `json:"popularity"`
}

func main() {
	var (
		databaseURL   string
		cakesFile     string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&cakesFile, "cakes-file", "db/seed/cakes.json", "path to cakes JSON file")
	flag.StringVar(&adminEmail, "admin-email", "admin@cakehaven.local", "email for the seeded admin account")
	flag.StringVar(&adminPassword, "admin-password", "", "password for the seeded admin account (or CAKE_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("CAKE_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or CAKE_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, cakesFile, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, cakesFile, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCakes(ctx, repository.NewCakeRepository(pool), cakesFile); err != nil {
		return errors.Wrap(err, "seed cakes")
	}

	if err := seedAdmin(ctx, repository.NewUserRepository(pool), adminEmail, adminPassword); err != nil {
		return errors.Wrap(err, "seed admin")
	}

	if err := seedCoupons(ctx, repository.NewCouponRepository(pool)); err != nil {
		return errors.Wrap(err, "seed coupons")
	}

	return nil
}

func seedCakes(ctx context.Context, repo *repository.CakeRepository, cakesFile string) error {
	slog.Info("reading cakes file", slog.String("path", cakesFile))

	data, err := os.ReadFile(cakesFile)
	if err != nil {
		return errors.Wrap(err, "read cakes file")
	}

	var cakes []cakeJSON
	if err := json.Unmarshal(data, &cakes); err != nil {
		return errors.Wrap(err, "parse cakes JSON")
	}

	slog.Info("inserting cakes", slog.Int("count", len(cakes)))

	for _, c := range cakes {
		if _, err := repo.GetByID(ctx, c.ID); err == nil {
			slog.Info("cake exists, skipping", slog.String("id", c.ID))
			continue
		} else if !errors.Is(err, catalog.ErrNotFound) {
			return errors.Wrapf(err, "check cake %s", c.ID)
		}

		if err := repo.Create(ctx, &catalog.Cake{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Ingredients: c.Ingredients,
			Price:       c.Price,
			Discount:    c.Discount,
			Categories:  c.Categories,
			Flavor:      c.Flavor,
			Type:        c.Type,
			Popularity:  c.Popularity,
			IsActive:    true,
		}); err != nil {
			return errors.Wrapf(err, "insert cake %s", c.ID)
		}

		slog.Info("inserted cake", slog.String("id", c.ID), slog.String("name", c.Name))
	}

	return nil
}

func seedAdmin(ctx context.Context, repo *repository.UserRepository, email, password string) error {
	slog.Info("seeding admin account", slog.String("email", email))

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		slog.Info("admin exists, skipping")
		return nil
	} else if !errors.Is(err, user.ErrNotFound) {
		return errors.Wrap(err, "check admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	if err := repo.Create(ctx, &user.User{
		ID:           uuid.New().String(),
		Name:         "Store Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
	}); err != nil {
		return errors.Wrap(err, "insert admin")
	}

	slog.Info("admin account created")
	return nil
}

func seedCoupons(ctx context.Context, repo *repository.CouponRepository) error {
	slog.Info("seeding demo coupons")

	coupons := []coupon.Coupon{
		{
			ID:       uuid.New().String(),
			Code:     "WELCOME10",
			Discount: decimal.NewFromInt(10),
			IsActive: true,
		},
		{
			ID:       uuid.New().String(),
			Code:     "SWEET25",
			Discount: decimal.NewFromInt(25),
			IsActive: true,
		},
	}

	for _, c := range coupons {
		if err := repo.Create(ctx, &c); err != nil {
			if errors.Is(err, coupon.ErrDuplicateCode) {
				slog.Info("coupon exists, skipping", slog.String("code", c.Code))
				continue
			}
			return errors.Wrapf(err, "insert coupon %s", c.Code)
		}

		slog.Info("inserted coupon", slog.String("code", c.Code))
	}

	return nil
}
