package image

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/catalog"
)

type fakeRepo struct {
	nextID int64
	images map[int64]Image
}

func newFakeRepo() *fakeRepo { return &fakeRepo{images: map[int64]Image{}} }

func (f *fakeRepo) CreateAll(ctx context.Context, images []Image) ([]Image, error) {
	out := make([]Image, 0, len(images))
	for _, img := range images {
		f.nextID++
		img.ID = f.nextID
		img.DownloadURL = downloadURL(img.ID)
		f.images[img.ID] = img
		out = append(out, img)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (Image, error) {
	img, ok := f.images[id]
	if !ok {
		return Image{}, apperror.ErrNotFound
	}
	return img, nil
}

func (f *fakeRepo) Replace(ctx context.Context, id int64, up Upload) error {
	img, ok := f.images[id]
	if !ok {
		return apperror.ErrNotFound
	}
	img.FileName, img.FileType, img.Data = up.FileName, up.ContentType, up.Data
	f.images[id] = img
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.images[id]; !ok {
		return apperror.ErrNotFound
	}
	delete(f.images, id)
	return nil
}

type fakeProducts struct {
	known       map[int64]bool
	invalidated []int64
}

func (f *fakeProducts) GetProductByID(ctx context.Context, id int64) (catalog.Product, error) {
	if !f.known[id] {
		return catalog.Product{}, apperror.NotFound("Product not found")
	}
	return catalog.Product{ID: id}, nil
}

func (f *fakeProducts) InvalidateProducts(ctx context.Context, ids ...int64) {
	f.invalidated = append(f.invalidated, ids...)
}

func TestService(t *testing.T) {
	ctx := context.Background()
	products := &fakeProducts{known: map[int64]bool{1: true}}
	repo := newFakeRepo()
	svc := NewService(repo, products, products)

	_, err := svc.SaveImages(ctx, 2, []Upload{{FileName: "a.png"}})
	require.EqualError(t, err, "Product not found")

	_, err = svc.SaveImages(ctx, 1, nil)
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	saved, err := svc.SaveImages(ctx, 1, []Upload{
		{FileName: "front.png", ContentType: "image/png", Data: []byte{1}},
		{FileName: "back.png", ContentType: "image/png", Data: []byte{2}},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	require.Equal(t, "/api/v1/images/1/download", saved[0].DownloadURL)
	require.Equal(t, []int64{1}, products.invalidated)

	require.NoError(t, svc.UpdateImage(ctx, saved[0].ID, Upload{FileName: "new.jpg", ContentType: "image/jpeg", Data: []byte{9}}))
	got, err := svc.GetImageByID(ctx, saved[0].ID)
	require.NoError(t, err)
	require.Equal(t, "new.jpg", got.FileName)
	require.Equal(t, []byte{9}, got.Data)

	require.NoError(t, svc.DeleteImageByID(ctx, saved[1].ID))
	_, err = svc.GetImageByID(ctx, saved[1].ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)
	require.EqualError(t, err, "No image found with this id: 2")

	require.EqualError(t, svc.DeleteImageByID(ctx, 99), "No image found with this id: 99")
}

func TestPostgresRepository_CreateAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO images`).
		WithArgs("front.png", "image/png", []byte{1, 2}, int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(`UPDATE images SET download_url`).
		WithArgs(int64(11), "/api/v1/images/11/download").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	repo := NewPostgresRepository(mock)
	saved, err := repo.CreateAll(context.Background(), []Image{
		{FileName: "front.png", FileType: "image/png", Data: []byte{1, 2}, ProductID: 3},
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.EqualValues(t, 11, saved[0].ID)
	require.Equal(t, "/api/v1/images/11/download", saved[0].DownloadURL)
	require.NoError(t, mock.ExpectationsWereMet())
}
