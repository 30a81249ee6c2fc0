package routes

import (
	"net/http"
	"time"

	"github.com/Rakhulsr/go-shoppingmall/app/handlers"
	"github.com/Rakhulsr/go-shoppingmall/app/helpers"
	"github.com/Rakhulsr/go-shoppingmall/app/middlewares"
	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/Rakhulsr/go-shoppingmall/app/repositories"
	"github.com/Rakhulsr/go-shoppingmall/app/services"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/sessions"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/validation"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/unrolled/render"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the infrastructure pieces the router is assembled from.
type Dependencies struct {
	DB       *gorm.DB
	Render   *render.Render
	Logger   *zap.Logger
	Store    sessions.SessionStore
	Registry sessions.SessionRegistry
	Redis    *redis.Client

	OAuthProviders []*services.OAuthProvider

	CSRFKey       []byte
	SecureCookies bool
	RateLimit     middlewares.RateLimitConfig
	RememberTTL   time.Duration
}

func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger

	userRepo := repositories.NewUserRepository(deps.DB)
	productRepo := repositories.NewProductRepository(deps.DB)
	categoryRepo := repositories.NewCategoryRepository(deps.DB)
	cartItemRepo := repositories.NewCartItemRepository(deps.DB)

	productSvc := services.NewProductService(productRepo, logger)
	cartSvc := services.NewCartService(cartItemRepo, productRepo, userRepo, logger)
	userSvc := services.NewUserService(userRepo, deps.RememberTTL, logger)
	oauthSvc := services.NewOAuthService(logger, deps.OAuthProviders...)

	homeHandler := handlers.NewHomeHandler(deps.Render, productSvc, categoryRepo, logger)
	productHandler := handlers.NewProductHandler(deps.Render, productSvc, categoryRepo, logger)
	cartHandler := handlers.NewCartHandler(deps.Render, cartSvc, validation.New(), logger)
	authHandler := handlers.NewAuthHandler(deps.Render, userSvc, oauthSvc, deps.Store, deps.Registry, logger)
	reviewHandler := handlers.NewReviewHandler(deps.Render, productSvc, cartSvc, logger)
	adminHandler := handlers.NewAdminHandler(deps.Render, productSvc, userSvc, logger)
	healthHandler := handlers.NewHealthHandler(deps.Render, deps.DB)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = deps.Render.HTML(w, http.StatusNotFound, "error", helpers.GetBaseData(r, map[string]interface{}{
			"Title":        "Not Found",
			"StatusCode":   http.StatusNotFound,
			"ErrorMessage": "The page you are looking for does not exist.",
		}))
	})

	router.Use(middlewares.SessionAuthMiddleware(deps.Store, deps.Registry, userSvc, logger))
	router.Use(middlewares.CartCountMiddleware(cartSvc, logger))

	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	router.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	router.HandleFunc("/products", productHandler.Products).Methods(http.MethodGet)
	router.HandleFunc("/products/search", productHandler.Search).Methods(http.MethodGet)
	router.HandleFunc("/products/{id}", productHandler.ProductDetail).Methods(http.MethodGet)

	loginLimiter := middlewares.RateLimitMiddleware(deps.Redis, deps.RateLimit, logger)
	router.HandleFunc("/login", authHandler.LoginGet).Methods(http.MethodGet)
	router.Handle("/login", loginLimiter(http.HandlerFunc(authHandler.LoginPost))).Methods(http.MethodPost)
	router.HandleFunc("/member", authHandler.RegisterPost).Methods(http.MethodPost)
	router.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)
	router.HandleFunc("/oauth2/authorization/{provider}", authHandler.OAuthStart).Methods(http.MethodGet)
	router.HandleFunc("/login/oauth2/code/{provider}", authHandler.OAuthCallback).Methods(http.MethodGet)
	router.HandleFunc("/duplicated-login", authHandler.DuplicatedLogin).Methods(http.MethodGet)
	router.HandleFunc("/accessDenied", authHandler.AccessDenied).Methods(http.MethodGet)

	members := router.NewRoute().Subrouter()
	members.Use(middlewares.RequireRole(logger, models.RoleUser, models.RoleSocial))
	members.HandleFunc("/profiles", authHandler.Profile).Methods(http.MethodGet)
	members.HandleFunc("/cart", cartHandler.GetCart).Methods(http.MethodGet)
	members.HandleFunc("/cart", cartHandler.AddToCart).Methods(http.MethodPost)
	members.HandleFunc("/cart/{id}", cartHandler.RemoveCartItem).Methods(http.MethodDelete)
	members.HandleFunc("/checkout", cartHandler.Checkout).Methods(http.MethodGet)
	members.HandleFunc("/review/authority", reviewHandler.Authority).Methods(http.MethodGet)
	members.HandleFunc("/review/new", reviewHandler.NewReview).Methods(http.MethodGet)

	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middlewares.RequireRole(logger, models.RoleAdmin))
	admin.HandleFunc("", adminHandler.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/users", adminHandler.Users).Methods(http.MethodGet)

	var handler http.Handler = router
	if len(deps.CSRFKey) > 0 {
		handler = csrf.Protect(deps.CSRFKey,
			csrf.Secure(deps.SecureCookies),
			csrf.Path("/"),
		)(handler)
	}
	handler = middlewares.MethodOverrideMiddleware(handler)
	handler = middlewares.ErrorHandlingMiddleware(logger)(handler)
	handler = middlewares.LoggingMiddleware(logger)(handler)
	handler = chimiddleware.RealIP(handler)
	handler = chimiddleware.RequestID(handler)

	return handler
}
