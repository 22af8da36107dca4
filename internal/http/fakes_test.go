package httpapi

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/image"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/user"
)

var errNotImplemented = errors.New("not implemented")

type fakeProducts struct {
	getFunc  func(ctx context.Context, id int64) (catalog.Product, error)
	listFunc func(ctx context.Context, f catalog.Filter) ([]catalog.Product, error)
	added    *catalog.AddProductRequest
}

func (f *fakeProducts) AddProduct(ctx context.Context, req catalog.AddProductRequest) (catalog.Product, error) {
	f.added = &req
	return catalog.Product{ID: 1, Name: req.Name, Brand: req.Brand, Price: req.Price}, nil
}

func (f *fakeProducts) GetProductByID(ctx context.Context, id int64) (catalog.Product, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, id)
	}
	return catalog.Product{}, errNotImplemented
}

func (f *fakeProducts) UpdateProduct(ctx context.Context, id int64, req catalog.UpdateProductRequest) (catalog.Product, error) {
	return catalog.Product{}, errNotImplemented
}

func (f *fakeProducts) DeleteProduct(ctx context.Context, id int64) error { return nil }

func (f *fakeProducts) ListProducts(ctx context.Context, flt catalog.Filter) ([]catalog.Product, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, flt)
	}
	return []catalog.Product{}, nil
}

func (f *fakeProducts) CountProductsByBrandAndName(ctx context.Context, brand, name string) (int64, error) {
	return 2, nil
}

type fakeCategories struct{}

func (fakeCategories) GetCategoryByID(ctx context.Context, id int64) (catalog.Category, error) {
	return catalog.Category{}, apperror.NotFound("Category not found")
}

func (fakeCategories) GetCategoryByName(ctx context.Context, name string) (catalog.Category, error) {
	return catalog.Category{ID: 3, Name: name}, nil
}

func (fakeCategories) GetAllCategories(ctx context.Context) ([]catalog.Category, error) {
	return []catalog.Category{}, nil
}

func (fakeCategories) AddCategory(ctx context.Context, name string) (catalog.Category, error) {
	return catalog.Category{}, apperror.AlreadyExists(name + " already exists")
}

func (fakeCategories) UpdateCategory(ctx context.Context, id int64, name string) (catalog.Category, error) {
	return catalog.Category{ID: id, Name: name}, nil
}

func (fakeCategories) DeleteCategory(ctx context.Context, id int64) error { return nil }

type fakeImages struct {
	productID int64
	uploads   []image.Upload
	stored    map[int64]image.Image
}

func (f *fakeImages) SaveImages(ctx context.Context, productID int64, uploads []image.Upload) ([]image.Image, error) {
	f.productID = productID
	f.uploads = uploads
	out := make([]image.Image, 0, len(uploads))
	for i, up := range uploads {
		out = append(out, image.Image{ID: int64(i + 1), FileName: up.FileName, ProductID: productID})
	}
	return out, nil
}

func (f *fakeImages) GetImageByID(ctx context.Context, id int64) (image.Image, error) {
	img, ok := f.stored[id]
	if !ok {
		return image.Image{}, apperror.NotFound("No image found with this id: 9")
	}
	return img, nil
}

func (f *fakeImages) UpdateImage(ctx context.Context, id int64, up image.Upload) error { return nil }

func (f *fakeImages) DeleteImageByID(ctx context.Context, id int64) error { return nil }

type fakeCarts struct {
	carts     map[int64]cart.Cart
	addedTo   int64
	addedQty  int
	clearedID int64
}

func (f *fakeCarts) GetCart(ctx context.Context, cartID int64) (cart.Cart, error) {
	c, ok := f.carts[cartID]
	if !ok {
		return cart.Cart{}, apperror.NotFound("Cart not found")
	}
	return c, nil
}

func (f *fakeCarts) InitializeNewCart(ctx context.Context, userID int64) (cart.Cart, error) {
	for _, c := range f.carts {
		if c.UserID == userID {
			return c, nil
		}
	}
	return cart.Cart{}, apperror.NotFound("User not found!")
}

func (f *fakeCarts) GetTotalPrice(ctx context.Context, cartID int64) (decimal.Decimal, error) {
	return f.carts[cartID].TotalAmount, nil
}

func (f *fakeCarts) ClearCart(ctx context.Context, cartID int64) error {
	f.clearedID = cartID
	return nil
}

func (f *fakeCarts) AddItemToCart(ctx context.Context, cartID, productID int64, qty int) (cart.Cart, error) {
	f.addedTo, f.addedQty = cartID, qty
	return f.carts[cartID], nil
}

func (f *fakeCarts) RemoveItemFromCart(ctx context.Context, cartID, productID int64) error {
	return apperror.NotFound("Item not found")
}

func (f *fakeCarts) UpdateItemQuantity(ctx context.Context, cartID, productID int64, qty int) error {
	return nil
}

type fakeOrders struct {
	placeFunc   func(ctx context.Context, userID int64) (order.Order, error)
	orders      map[int64]order.Order
	cancelledID int64
}

func (f *fakeOrders) PlaceOrder(ctx context.Context, userID int64) (order.Order, error) {
	if f.placeFunc != nil {
		return f.placeFunc(ctx, userID)
	}
	return order.Order{}, errNotImplemented
}

func (f *fakeOrders) CancelOrder(ctx context.Context, orderID int64) (order.Order, error) {
	f.cancelledID = orderID
	o := f.orders[orderID]
	o.Status = order.StatusCancelled
	return o, nil
}

func (f *fakeOrders) GetOrder(ctx context.Context, orderID int64) (order.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return order.Order{}, apperror.NotFound("No order found")
	}
	return o, nil
}

func (f *fakeOrders) GetUserOrders(ctx context.Context, userID int64) ([]order.Order, error) {
	out := []order.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeUsers struct{}

func (fakeUsers) GetUserByID(ctx context.Context, id int64) (user.User, error) {
	return user.User{ID: id, Email: "ada@example.com"}, nil
}

func (fakeUsers) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	return user.User{ID: 8, Email: req.Email}, nil
}

func (fakeUsers) UpdateUser(ctx context.Context, id int64, req user.UpdateUserRequest) (user.User, error) {
	return user.User{ID: id, FirstName: req.FirstName}, nil
}

func (fakeUsers) DeleteUser(ctx context.Context, id int64) error { return nil }

func (fakeUsers) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	if password != "pw" {
		return user.User{}, apperror.Unauthorized("Invalid email or password")
	}
	return user.User{ID: 7, Email: email}, nil
}

// fakeTokens accepts "good" as user 7 and "other" as user 8.
type fakeTokens struct{}

func (fakeTokens) Issue(userID int64, email string) (string, error) { return "good", nil }

func (fakeTokens) Verify(raw string) (int64, error) {
	switch raw {
	case "good":
		return 7, nil
	case "other":
		return 8, nil
	}
	return 0, apperror.Unauthorized("Invalid token")
}
