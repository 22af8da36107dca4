package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/db"
)

type Repository interface {
	CreateAll(ctx context.Context, images []Image) ([]Image, error)
	GetByID(ctx context.Context, id int64) (Image, error)
	Replace(ctx context.Context, id int64, up Upload) error
	Delete(ctx context.Context, id int64) error
}

type PostgresRepository struct {
	exec db.Executor
}

func NewPostgresRepository(exec db.Executor) *PostgresRepository {
	return &PostgresRepository{exec: exec}
}

// CreateAll inserts the images in one transaction and fills in ids and download URLs.
func (r *PostgresRepository) CreateAll(ctx context.Context, images []Image) ([]Image, error) {
	saved := make([]Image, 0, len(images))
	err := db.InTx(ctx, r.exec, func(tx pgx.Tx) error {
		for _, img := range images {
			if err := tx.QueryRow(ctx, `
				INSERT INTO images (file_name, file_type, data, product_id)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, img.FileName, img.FileType, img.Data, img.ProductID).Scan(&img.ID); err != nil {
				if db.IsForeignKeyViolation(err) {
					return fmt.Errorf("insert image for product %d: %w", img.ProductID, apperror.ErrNotFound)
				}
				return fmt.Errorf("insert image: %w", err)
			}

			img.DownloadURL = downloadURL(img.ID)
			if _, err := tx.Exec(ctx, `UPDATE images SET download_url = $2 WHERE id = $1`, img.ID, img.DownloadURL); err != nil {
				return fmt.Errorf("set download url: %w", err)
			}
			saved = append(saved, img)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (Image, error) {
	var img Image
	err := r.exec.QueryRow(ctx, `
		SELECT id, file_name, file_type, data, download_url, product_id
		FROM images
		WHERE id = $1
	`, id).Scan(&img.ID, &img.FileName, &img.FileType, &img.Data, &img.DownloadURL, &img.ProductID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Image{}, fmt.Errorf("image %d: %w", id, apperror.ErrNotFound)
		}
		return Image{}, fmt.Errorf("select image: %w", err)
	}
	return img, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, id int64, up Upload) error {
	tag, err := r.exec.Exec(ctx, `
		UPDATE images SET file_name = $2, file_type = $3, data = $4 WHERE id = $1
	`, id, up.FileName, up.ContentType, up.Data)
	if err != nil {
		return fmt.Errorf("update image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("image %d: %w", id, apperror.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.exec.Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("image %d: %w", id, apperror.ErrNotFound)
	}
	return nil
}
