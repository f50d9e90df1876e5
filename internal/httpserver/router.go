package httpserver

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"heven-store/internal/access"
	"heven-store/internal/domain"
	orderrepo "heven-store/internal/repository/order"
	productrepo "heven-store/internal/repository/product"
	wishlistrepo "heven-store/internal/repository/wishlist"
	authsvc "heven-store/internal/service/auth"
	cartsvc "heven-store/internal/service/cart"
	checkoutsvc "heven-store/internal/service/checkout"
)

type authService interface {
	Signup(ctx context.Context, in authsvc.SignupInput) (*domain.Profile, error)
	Login(ctx context.Context, email, password string) (*domain.Profile, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Profile, error)
	Logout(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, userID string, in authsvc.UpdateProfileInput) (*domain.Profile, error)
	SetRole(ctx context.Context, userID string, role domain.Role) error
}

type catalogService interface {
	List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	UpsertProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type cartService interface {
	Add(ctx context.Context, userID string, in cartsvc.AddInput) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error
	Remove(ctx context.Context, userID, itemID string) (bool, error)
	Lines(ctx context.Context, userID string) ([]domain.CartLine, error)
	ComputeTotals(ctx context.Context, userID, couponCode string) (*cartsvc.Totals, error)
}

type wishlistService interface {
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	List(ctx context.Context, userID string) ([]wishlistrepo.Entry, error)
	Forget(userID string)
}

type checkoutService interface {
	Checkout(ctx context.Context, userID string, in checkoutsvc.CheckoutInput) (*domain.Order, error)
	Orders(ctx context.Context, userID string) ([]domain.Order, error)
	Order(ctx context.Context, userID, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error)
	Metrics(ctx context.Context) (*orderrepo.Metrics, error)
}

// Deps bundles the services the router depends on.
type Deps struct {
	AuthSvc     authService
	CatalogSvc  catalogService
	CartSvc     cartService
	WishlistSvc wishlistService
	CheckoutSvc checkoutService
}

const profileKey = "profile"

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/auth/signup", signupHandler(deps.AuthSvc))
	router.POST("/auth/login", loginHandler(deps.AuthSvc))
	router.GET("/products", listProductsHandler(deps.CatalogSvc))
	router.GET("/products/:id", getProductHandler(deps.CatalogSvc))
	router.GET("/categories", listCategoriesHandler(deps.CatalogSvc))

	authed := router.Group("/", requireAuth(deps.AuthSvc))
	{
		authed.POST("/auth/logout", logoutHandler(deps))
		authed.GET("/me", meHandler())
		authed.PATCH("/me", updateProfileHandler(deps.AuthSvc))

		authed.GET("/cart", listCartHandler(deps.CartSvc))
		authed.GET("/cart/totals", cartTotalsHandler(deps.CartSvc))
		authed.POST("/cart/items", addCartItemHandler(deps.CartSvc))
		authed.PATCH("/cart/items/:id", updateCartItemHandler(deps.CartSvc))
		authed.DELETE("/cart/items/:id", removeCartItemHandler(deps.CartSvc))

		authed.GET("/wishlist", listWishlistHandler(deps.WishlistSvc))
		authed.PUT("/wishlist/:productId", addWishlistHandler(deps.WishlistSvc))
		authed.DELETE("/wishlist/:productId", removeWishlistHandler(deps.WishlistSvc))

		authed.POST("/checkout", checkoutHandler(deps.CheckoutSvc))
		authed.GET("/orders", listOrdersHandler(deps.CheckoutSvc))
		authed.GET("/orders/:id", getOrderHandler(deps.CheckoutSvc))
	}

	admin := router.Group("/admin", requireAuth(deps.AuthSvc), requireAdmin())
	{
		admin.POST("/products", upsertProductHandler(deps.CatalogSvc))
		admin.PATCH("/orders/:id/status", updateOrderStatusHandler(deps.CheckoutSvc))
		admin.PATCH("/profiles/:id/role", setRoleHandler(deps.AuthSvc))
		admin.GET("/metrics", metricsHandler(deps.CheckoutSvc))
	}

	return router, nil
}

// requireAuth resolves the bearer token to a profile on every request. Role
// is never trusted from a previous request; it rides on the freshly loaded
// profile.
func requireAuth(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			writeError(c, domain.ErrUnauthenticated)
			c.Abort()
			return
		}
		profile, err := auth.LookupByToken(c.Request.Context(), token)
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		c.Set(profileKey, profile)
		c.Next()
	}
}

// requireAdmin evaluates the access policy for the back-office surface.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := currentProfile(c)
		decision := access.Decide(profile != nil, roleOf(profile))
		switch decision {
		case access.Allow:
			c.Next()
		case access.RedirectToLogin:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required", "redirect": "/login"})
			c.Abort()
		default:
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role", "redirect": "/"})
			c.Abort()
		}
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func currentProfile(c *gin.Context) *domain.Profile {
	v, ok := c.Get(profileKey)
	if !ok {
		return nil
	}
	profile, _ := v.(*domain.Profile)
	return profile
}

func roleOf(p *domain.Profile) domain.Role {
	if p == nil {
		return ""
	}
	return p.Role
}
