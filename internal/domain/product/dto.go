package product

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"productcatalog/internal/domain"
	"productcatalog/internal/pkg/validator"
)

var maxPrice = decimal.New(1, 8) // decimal(10,2) upper bound

// ProductRequest is the multipart form of create and update.
// The image file travels separately as a *multipart.FileHeader.
type ProductRequest struct {
	Name        string `form:"name" validate:"required,max=255"`
	Price       string `form:"price" validate:"required"`
	Description string `form:"description"`
	Category    string `form:"category" validate:"max=255"`
}

// ProductUpdate lists exactly the mutable fields of a product.
// A nil Image keeps the stored image.
type ProductUpdate struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Image       *string
}

func (u ProductUpdate) Apply(p *domain.Product) {
	p.Name = u.Name
	p.Description = u.Description
	p.Price = u.Price
	p.Category = u.Category
	if u.Image != nil {
		p.Image = *u.Image
	}
}

// ProductResponse is the JSON shape of a product. ImageURL is derived
// from Image on every read.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	ImageURL    *string   `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewProductResponse(p domain.Product, baseURL string) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Category:    p.Category,
		Image:       p.Image,
		ImageURL:    domain.ImageURL(baseURL, p.Image),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func NewProductListResponse(products []domain.Product, baseURL string) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p, baseURL))
	}
	return out
}

// toUpdate validates the request and converts it into the mutable field set.
func (r ProductRequest) toUpdate() (ProductUpdate, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.Price = strings.TrimSpace(r.Price)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)

	if fields := validator.Validate(&r); fields != nil {
		return ProductUpdate{}, &ValidationError{Fields: fields}
	}

	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.IsNegative() || price.Round(2).GreaterThanOrEqual(maxPrice) {
		return ProductUpdate{}, ErrInvalidPrice
	}

	return ProductUpdate{
		Name:        r.Name,
		Description: r.Description,
		Price:       price.Round(2),
		Category:    r.Category,
	}, nil
}
