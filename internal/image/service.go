package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/catalog"
)

// ProductLookup is the catalog read used to validate uploads.
type ProductLookup interface {
	GetProductByID(ctx context.Context, id int64) (catalog.Product, error)
}

// ProductInvalidator drops cached products whose image list changed.
type ProductInvalidator interface {
	InvalidateProducts(ctx context.Context, ids ...int64)
}

type Service struct {
	repo     Repository
	products ProductLookup
	cache    ProductInvalidator
}

func NewService(repo Repository, products ProductLookup, cache ProductInvalidator) *Service {
	return &Service{repo: repo, products: products, cache: cache}
}

func notFound(id int64) error {
	return apperror.NotFound(fmt.Sprintf("No image found with this id: %d", id))
}

func (s *Service) SaveImages(ctx context.Context, productID int64, uploads []Upload) ([]Image, error) {
	if len(uploads) == 0 {
		return nil, apperror.InvalidInput("at least one file is required")
	}
	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(uploads))
	for _, up := range uploads {
		images = append(images, Image{
			FileName:  up.FileName,
			FileType:  up.ContentType,
			Data:      up.Data,
			ProductID: productID,
		})
	}

	saved, err := s.repo.CreateAll(ctx, images)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, err
	}
	s.cache.InvalidateProducts(ctx, productID)
	return saved, nil
}

func (s *Service) GetImageByID(ctx context.Context, id int64) (Image, error) {
	img, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return Image{}, notFound(id)
	}
	return img, err
}

func (s *Service) UpdateImage(ctx context.Context, id int64, up Upload) error {
	img, err := s.GetImageByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Replace(ctx, id, up); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return notFound(id)
		}
		return err
	}
	s.cache.InvalidateProducts(ctx, img.ProductID)
	return nil
}

func (s *Service) DeleteImageByID(ctx context.Context, id int64) error {
	img, err := s.GetImageByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return notFound(id)
		}
		return err
	}
	s.cache.InvalidateProducts(ctx, img.ProductID)
	return nil
}
