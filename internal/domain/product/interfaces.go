package product

import (
	"context"
	"mime/multipart"

	"productcatalog/internal/domain"
)

// Repository defines the persistence operations on products
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	ImageNames(ctx context.Context) ([]string, error)
}

// ImageStore stores uploaded image files and returns their opaque names
type ImageStore interface {
	Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)
	Remove(name string) error
}
