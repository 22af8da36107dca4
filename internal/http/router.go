package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Logger *log.Logger

	Products   ProductService
	Categories CategoryService
	Images     ImageService
	Carts      CartService
	Orders     OrderService
	Users      UserService
	Tokens     TokenIssuer

	CORSAllowOrigins []string
	Timeout          time.Duration
	// MaxUploadBytes bounds image upload bodies. Zero means 64 MiB.
	MaxUploadBytes   int64
}

type Handler struct {
	logger     *log.Logger
	products   ProductService
	categories CategoryService
	images     ImageService
	carts      CartService
	orders     OrderService
	users      UserService
	tokens     TokenIssuer

	maxUploadBytes int64
}

func NewRouter(d Deps) http.Handler {
	h := &Handler{
		logger:     d.Logger,
		products:   d.Products,
		categories: d.Categories,
		images:     d.Images,
		carts:      d.Carts,
		orders:     d.Orders,
		users:      d.Users,
		tokens:     d.Tokens,

		maxUploadBytes: d.MaxUploadBytes,
	}
	if h.maxUploadBytes <= 0 {
		h.maxUploadBytes = defaultMaxUploadBytes
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(correlationID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors(d.CORSAllowOrigins))
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Login)
		r.Post("/users", h.CreateUser)

		r.Get("/products", h.ListProducts)
		r.Get("/products/count", h.CountProducts)
		r.Get("/products/export", h.ExportProducts)
		r.Get("/products/{productId}", h.GetProduct)

		r.Get("/categories", h.ListCategories)
		r.Get("/categories/name/{name}", h.GetCategoryByName)
		r.Get("/categories/{categoryId}", h.GetCategory)

		r.Get("/images/{imageId}/download", h.DownloadImage)

		r.Group(func(r chi.Router) {
			r.Use(requireUser(d.Tokens))

			r.Post("/products", h.AddProduct)
			r.Put("/products/{productId}", h.UpdateProduct)
			r.Delete("/products/{productId}", h.DeleteProduct)

			r.Post("/categories", h.AddCategory)
			r.Put("/categories/{categoryId}", h.UpdateCategory)
			r.Delete("/categories/{categoryId}", h.DeleteCategory)

			r.Post("/images", h.UploadImages)
			r.Put("/images/{imageId}", h.UpdateImage)
			r.Delete("/images/{imageId}", h.DeleteImage)

			r.Get("/carts/mine", h.MyCart)
			r.Post("/carts/items", h.AddCartItem)
			r.Get("/carts/{cartId}", h.GetCart)
			r.Get("/carts/{cartId}/total", h.CartTotal)
			r.Delete("/carts/{cartId}/items", h.ClearCart)
			r.Put("/carts/{cartId}/items/{productId}", h.UpdateCartItem)
			r.Delete("/carts/{cartId}/items/{productId}", h.RemoveCartItem)

			r.Post("/orders", h.PlaceOrder)
			r.Get("/orders", h.MyOrders)
			r.Get("/orders/{orderId}", h.GetOrder)
			r.Post("/orders/{orderId}/cancel", h.CancelOrder)

			r.Get("/users/{userId}", h.GetUser)
			r.Put("/users/{userId}", h.UpdateUser)
			r.Delete("/users/{userId}", h.DeleteUser)
			r.Get("/users/{userId}/orders", h.UserOrders)
		})
	})

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "shop-service-go",
	})
}
