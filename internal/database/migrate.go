package database

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"productcatalog/internal/domain"
)

// Migrate brings the schema up to date. It only creates missing tables,
// columns and indexes, so it is safe to run on every start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Product{}); err != nil {
		return fmt.Errorf("migrate products: %w", err)
	}
	return nil
}

// SampleProducts is the catalog inserted into an empty database.
func SampleProducts() []domain.Product {
	return []domain.Product{
		{
			Name:        "Premium Wireless Headphones",
			Price:       decimal.RequireFromString("199.99"),
			Description: "Noise-cancelling over-ear headphones with 40-hour battery life.",
			Category:    "Electronics",
		},
		{
			Name:        "Organic Coffee Beans - 1lb",
			Price:       decimal.RequireFromString("14.50"),
			Description: "Medium roast, single-origin beans from Ethiopia.",
			Category:    "Groceries",
		},
		{
			Name:        "Ergonomic Office Chair",
			Price:       decimal.RequireFromString("349.95"),
			Description: "High-back mesh chair with adjustable lumbar support.",
			Category:    "Furniture",
		},
		{
			Name:        "Stainless Steel Water Bottle",
			Price:       decimal.RequireFromString("25.00"),
			Description: "32oz insulated bottle, keeps drinks cold for 24 hours.",
			Category:    "Accessories",
		},
		{
			Name:        "Portable Bluetooth Speaker",
			Price:       decimal.RequireFromString("75.49"),
			Description: "Compact speaker with powerful bass and IPX7 waterproof rating.",
			Category:    "Electronics",
		},
	}
}

// SeedIfEmpty inserts SampleProducts when the products table has no rows.
// It returns the number of inserted rows.
func SeedIfEmpty(ctx context.Context, db *gorm.DB) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	products := SampleProducts()
	if err := db.WithContext(ctx).Create(&products).Error; err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}
	return len(products), nil
}
