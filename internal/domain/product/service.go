package product

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/MonkyMars/gecho"

	"productcatalog/internal/cache"
	"productcatalog/internal/domain"
)

const (
	listCacheKey    = "products:all"
	defaultCacheTTL = 5 * time.Minute
)

func itemCacheKey(id int64) string {
	return fmt.Sprintf("products:%d", id)
}

// Service implements product CRUD. Every operation touches one row and
// at most one stored file.
type Service struct {
	repo     Repository
	images   ImageStore
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *gecho.Logger
}

type Option func(*Service)

// WithCache enables read caching of List and Get results.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func NewService(repo Repository, images ImageStore, logger *gecho.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		images:   images,
		cache:    cache.Nop{},
		cacheTTL: defaultCacheTTL,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if s.cacheGet(ctx, listCacheKey, &products) {
		return products, nil
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	s.cacheSet(ctx, listCacheKey, products)
	return products, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var cached domain.Product
	if s.cacheGet(ctx, itemCacheKey(id), &cached) {
		return &cached, nil
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, itemCacheKey(id), p)
	return p, nil
}

// Create stores the image and inserts the product. The image is mandatory.
func (s *Service) Create(ctx context.Context, req ProductRequest, image *multipart.FileHeader) (*domain.Product, error) {
	if image == nil {
		return nil, ErrImageRequired
	}
	upd, err := req.toUpdate()
	if err != nil {
		return nil, err
	}

	name, err := s.images.Save(ctx, image)
	if err != nil {
		return nil, err
	}
	upd.Image = &name

	p := &domain.Product{}
	upd.Apply(p)
	if err := s.repo.Create(ctx, p); err != nil {
		s.discardImage(name)
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.invalidate(ctx, listCacheKey)
	return p, nil
}

// Update rewrites all mutable fields of an existing product. The stored
// image is replaced only when a new file is supplied.
func (s *Service) Update(ctx context.Context, id int64, req ProductRequest, image *multipart.FileHeader) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	upd, err := req.toUpdate()
	if err != nil {
		return nil, err
	}

	if image != nil {
		name, err := s.images.Save(ctx, image)
		if err != nil {
			return nil, err
		}
		upd.Image = &name
	}

	upd.Apply(p)
	if err := s.repo.Update(ctx, p); err != nil {
		if upd.Image != nil {
			s.discardImage(*upd.Image)
		}
		if errors.Is(err, ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	s.invalidate(ctx, listCacheKey, itemCacheKey(id))
	return p, nil
}

// Delete removes the row. The image file stays on disk until the
// orphan cleanup command reclaims it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	s.invalidate(ctx, listCacheKey, itemCacheKey(id))
	return nil
}

// ReferencedImages returns the set of image names still used by a product.
func (s *Service) ReferencedImages(ctx context.Context) (map[string]struct{}, error) {
	names, err := s.repo.ImageNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list image names: %w", err)
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set, nil
}

func (s *Service) discardImage(name string) {
	if err := s.images.Remove(name); err != nil {
		s.logger.Error("Failed to remove stored image after write failure", gecho.Field("image", name), gecho.Field("error", err))
	}
}

func (s *Service) cacheGet(ctx context.Context, key string, dst any) bool {
	found, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.logger.Warn("Cache read failed", gecho.Field("key", key), gecho.Field("error", err))
		return false
	}
	return found
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("Cache write failed", gecho.Field("key", key), gecho.Field("error", err))
	}
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("Cache invalidation failed", gecho.Field("keys", keys), gecho.Field("error", err))
	}
}
