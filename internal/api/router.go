// Package api is the JSON adapter the storefront views talk to. Each route
// maps onto one documented operation; there is no logic of its own here.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/safar/go-storefront/internal/auth"
	"github.com/safar/go-storefront/internal/catalog"
	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/pricing"
	"github.com/safar/go-storefront/internal/simulate"
)

type Handler struct {
	devices *Devices
	catalog *catalog.Catalog
	engine  *pricing.Engine
	latency *simulate.Latency
	logger  *zap.Logger
}

func NewHandler(devices *Devices, cat *catalog.Catalog, engine *pricing.Engine, latency *simulate.Latency, logger *zap.Logger) *Handler {
	return &Handler{
		devices: devices,
		catalog: cat,
		engine:  engine,
		latency: latency,
		logger:  logger.Named("api"),
	}
}

func NewRouter(cfg config.ServerConfig, h *Handler) *gin.Engine {
	gin.SetMode(cfg.Mode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", DeviceHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", h.health)

		products := api.Group("/products")
		{
			products.GET("", h.listProducts)
			products.GET("/facets", h.productFacets)
			products.GET("/:id", h.withDevice(), h.getProduct)
		}

		dev := api.Group("", h.withDevice())

		dev.GET("/recently-viewed", h.recentlyViewed)

		cart := dev.Group("/cart")
		{
			cart.GET("", h.getCart)
			cart.POST("", h.addToCart)
			cart.DELETE("", h.clearCart)
			cart.PUT("/items/:id", h.updateCartItem)
			cart.DELETE("/items/:id", h.removeCartItem)
			cart.POST("/items/:id/save-for-later", h.saveForLater)
		}

		checkout := dev.Group("/checkout")
		{
			checkout.GET("", h.getCheckout)
			checkout.POST("/next", h.checkoutNext)
			checkout.POST("/back", h.checkoutBack)
			checkout.PUT("/shipping", h.setShipping)
			checkout.PUT("/payment", h.setPayment)
			checkout.POST("/promo", h.applyPromo)
			checkout.DELETE("/promo", h.clearPromo)
			checkout.POST("/submit", h.submitOrder)
			checkout.POST("/reset", h.resetCheckout)
		}

		authGroup := dev.Group("/auth")
		{
			authGroup.POST("/login", h.login)
			authGroup.POST("/register", h.register)
			authGroup.POST("/social/:provider", h.socialLogin)
			authGroup.POST("/guest", h.continueAsGuest)
			authGroup.POST("/logout", h.logout)
			authGroup.GET("/session", h.session)
			authGroup.POST("/password-strength", h.passwordStrength)
		}

		wishlist := dev.Group("/wishlist")
		{
			wishlist.GET("", h.listWishlist)
			wishlist.POST("", h.addToWishlist)
			wishlist.POST("/toggle", h.toggleWishlist)
			wishlist.DELETE("/:id", h.removeFromWishlist)
			wishlist.POST("/:id/move-to-cart", h.moveToCart)
		}

		acct := dev.Group("/account", auth.RequireAuth(h.authService))
		{
			acct.GET("/profile", h.getProfile)
			acct.PUT("/profile", h.updateProfile)
			acct.PUT("/newsletter", h.setNewsletter)
			acct.GET("/orders", h.listOrders)
			acct.GET("/orders/:ref", h.getOrder)
			acct.GET("/stats", h.accountStats)
			acct.GET("/addresses", h.listAddresses)
			acct.POST("/addresses", h.addAddress)
			acct.PUT("/addresses/:id", h.updateAddress)
			acct.DELETE("/addresses/:id", h.deleteAddress)
			acct.POST("/addresses/:id/default", h.setDefaultAddress)
			acct.PUT("/security/two-factor", h.setTwoFactor)
			acct.POST("/security/password", h.changePassword)
		}
	}

	return r
}

func (h *Handler) health(c *gin.Context) {
	respondJSON(c, http.StatusOK, gin.H{"status": "ok"})
}
