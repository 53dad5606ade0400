package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. Image holds the stored upload filename;
// the public URL is derived at read time and never persisted.
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string          `gorm:"type:varchar(255)" json:"category"`
	Image       string          `gorm:"type:varchar(255)" json:"image"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

// ImageURL builds baseURL + "/uploads/" + image, or nil when there is no image.
func ImageURL(baseURL, image string) *string {
	if image == "" {
		return nil
	}
	u := baseURL + "/uploads/" + image
	return &u
}
