package httpapi

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/image"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/user"
)

type ProductService interface {
	AddProduct(ctx context.Context, req catalog.AddProductRequest) (catalog.Product, error)
	GetProductByID(ctx context.Context, id int64) (catalog.Product, error)
	UpdateProduct(ctx context.Context, id int64, req catalog.UpdateProductRequest) (catalog.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, f catalog.Filter) ([]catalog.Product, error)
	CountProductsByBrandAndName(ctx context.Context, brand, name string) (int64, error)
}

type CategoryService interface {
	GetCategoryByID(ctx context.Context, id int64) (catalog.Category, error)
	GetCategoryByName(ctx context.Context, name string) (catalog.Category, error)
	GetAllCategories(ctx context.Context) ([]catalog.Category, error)
	AddCategory(ctx context.Context, name string) (catalog.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (catalog.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type ImageService interface {
	SaveImages(ctx context.Context, productID int64, uploads []image.Upload) ([]image.Image, error)
	GetImageByID(ctx context.Context, id int64) (image.Image, error)
	UpdateImage(ctx context.Context, id int64, up image.Upload) error
	DeleteImageByID(ctx context.Context, id int64) error
}

type CartService interface {
	GetCart(ctx context.Context, cartID int64) (cart.Cart, error)
	InitializeNewCart(ctx context.Context, userID int64) (cart.Cart, error)
	GetTotalPrice(ctx context.Context, cartID int64) (decimal.Decimal, error)
	ClearCart(ctx context.Context, cartID int64) error
	AddItemToCart(ctx context.Context, cartID, productID int64, qty int) (cart.Cart, error)
	RemoveItemFromCart(ctx context.Context, cartID, productID int64) error
	UpdateItemQuantity(ctx context.Context, cartID, productID int64, qty int) error
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID int64) (order.Order, error)
	CancelOrder(ctx context.Context, orderID int64) (order.Order, error)
	GetOrder(ctx context.Context, orderID int64) (order.Order, error)
	GetUserOrders(ctx context.Context, userID int64) ([]order.Order, error)
}

type UserService interface {
	GetUserByID(ctx context.Context, id int64) (user.User, error)
	CreateUser(ctx context.Context, req user.CreateUserRequest) (user.User, error)
	UpdateUser(ctx context.Context, id int64, req user.UpdateUserRequest) (user.User, error)
	DeleteUser(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, email, password string) (user.User, error)
}

type TokenIssuer interface {
	TokenVerifier
	Issue(userID int64, email string) (string, error)
}
