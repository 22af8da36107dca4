package user

import (
	"context"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
)

type memRepo struct {
	nextID int64
	users  map[int64]User
}

func newMemRepo() *memRepo { return &memRepo{users: map[int64]User{}} }

func (m *memRepo) Create(ctx context.Context, u *User) error {
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = *u
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id int64) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, apperror.ErrNotFound
	}
	return u, nil
}

func (m *memRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, apperror.ErrNotFound
}

func (m *memRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memRepo) UpdateNames(ctx context.Context, id int64, firstName, lastName string) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, apperror.ErrNotFound
	}
	u.FirstName, u.LastName = firstName, lastName
	m.users[id] = u
	return u, nil
}

func (m *memRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return apperror.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestService_CreateUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemRepo())

	u, err := svc.CreateUser(ctx, CreateUserRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "s3cret"})
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.NotEqual(t, "s3cret", u.PasswordHash)

	_, err = svc.CreateUser(ctx, CreateUserRequest{Email: "ada@example.com", Password: "x"})
	require.ErrorIs(t, err, apperror.ErrAlreadyExists)
	require.EqualError(t, err, "Oops! ada@example.com already exists!")

	_, err = svc.CreateUser(ctx, CreateUserRequest{Email: "not-an-email", Password: "x"})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestService_CreateUserPasswordLength(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := newTestService(repo)

	_, err := svc.CreateUser(ctx, CreateUserRequest{Email: "long@example.com", Password: strings.Repeat("p", 73)})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
	require.EqualError(t, err, "password must be at most 72 bytes")
	require.Empty(t, repo.users)

	_, err = svc.CreateUser(ctx, CreateUserRequest{Email: "edge@example.com", Password: strings.Repeat("p", 72)})
	require.NoError(t, err)
}

func TestService_UserNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemRepo())

	_, err := svc.GetUserByID(ctx, 7)
	require.EqualError(t, err, "User not found!")
	require.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.UpdateUser(ctx, 7, UpdateUserRequest{FirstName: "x"})
	require.EqualError(t, err, "User not found!")

	require.EqualError(t, svc.DeleteUser(ctx, 7), "User not found!")
}

func TestService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemRepo())

	u, err := svc.CreateUser(ctx, CreateUserRequest{FirstName: "Ada", Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, u.ID, UpdateUserRequest{FirstName: "Augusta", LastName: "King"})
	require.NoError(t, err)
	require.Equal(t, "Augusta", updated.FirstName)
	require.Equal(t, "ada@example.com", updated.Email)

	require.NoError(t, svc.DeleteUser(ctx, u.ID))
	_, err = svc.GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemRepo())

	created, err := svc.CreateUser(ctx, CreateUserRequest{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	tests := map[string]struct {
		email    string
		password string
		wantErr  bool
	}{
		"valid":          {email: "ada@example.com", password: "pw"},
		"wrong password": {email: "ada@example.com", password: "nope", wantErr: true},
		"unknown email":  {email: "bob@example.com", password: "pw", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			u, err := svc.Authenticate(ctx, tc.email, tc.password)
			if tc.wantErr {
				require.ErrorIs(t, err, apperror.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			require.Equal(t, created.ID, u.ID)
		})
	}
}

func TestPostgresRepository_UpdateNamesMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`UPDATE users SET first_name`).
		WithArgs(int64(3), "A", "B").
		WillReturnRows(pgxmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash"}))

	_, err = NewPostgresRepository(mock).UpdateNames(context.Background(), 3, "A", "B")
	require.ErrorIs(t, err, apperror.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
