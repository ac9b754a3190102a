package routes

import (
	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/handlers"
	"github.com/BradenHooton/storefront/internal/middleware"
	"github.com/BradenHooton/storefront/internal/models"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	"github.com/go-chi/chi/v5"
)

// Handlers groups every resource handler mounted under /api/v1.
type Handlers struct {
	Auth            *handlers.AuthHandler
	Users           *handlers.UserHandler
	Products        *handlers.ProductHandler
	ProductCategory *handlers.ProductCategoryHandler
	BlogCategory    *handlers.BlogCategoryHandler
	Brands          *handlers.BrandHandler
	Coupons         *handlers.CouponHandler
	Blogs           *handlers.BlogHandler
}

// RegisterRoutes registers all application routes. authn is the session
// gate; admin routes run it followed by the admin role check.
func RegisterRoutes(router chi.Router, h Handlers, authn auth.Gate, proxies pkghttp.TrustedProxies) {
	// Rate limiting config for auth endpoints
	authLimit := middleware.RateLimitByIP(middleware.DefaultAuthRateLimit(), proxies)
	writeLimit := middleware.RateLimitByUser(middleware.DefaultWriteRateLimit(), proxies)
	admin := auth.AdminOnly(authn)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimit).Post("/register", h.Auth.Register)
			r.With(authLimit).Post("/login", h.Auth.Login)
			r.With(authLimit).Post("/admin", h.Auth.AdminLogin)
			r.Post("/logout", h.Auth.Logout)
			r.With(authLimit, authn).Post("/user/password-update", h.Auth.UpdatePassword)
			r.With(authLimit).Post("/user/forget-password", h.Auth.ForgotPassword)
			r.With(authLimit).Post("/user/reset-password/{token}", h.Auth.ResetPassword)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(authn)
			adminRole := auth.RequireRole(models.RoleAdmin)
			r.Get("/me", h.Users.Me)
			r.Get("/wishlist", h.Users.Wishlist)
			r.With(adminRole).Get("/all", h.Users.ListUsers)
			r.With(adminRole).Put("/block/{id}", h.Users.BlockUser)
			r.With(adminRole).Put("/unblock/{id}", h.Users.UnblockUser)
			r.Get("/{id}", h.Users.GetUser)
			r.Put("/{id}", h.Users.UpdateUser)
			r.With(adminRole).Delete("/{id}", h.Users.DeleteUser)
		})

		r.Route("/product", func(r chi.Router) {
			r.Get("/all", h.Products.ListProducts)
			r.Get("/{slug}", h.Products.GetProduct)
			r.With(authn, writeLimit).Put("/wishlist", h.Products.ToggleWishlist)
			r.With(authn, writeLimit).Put("/rating", h.Products.Rate)
			r.With(admin).Post("/", h.Products.CreateProduct)
			r.With(admin).Patch("/{id}", h.Products.UpdateProduct)
			r.With(admin).Delete("/{id}", h.Products.DeleteProduct)
			r.With(admin).Post("/{id}/images", h.Products.UploadImages)
		})

		r.Route("/product-category", func(r chi.Router) {
			r.Get("/all", h.ProductCategory.List)
			r.Get("/{slug}", h.ProductCategory.Get)
			r.With(admin).Post("/", h.ProductCategory.Create)
			r.With(admin).Put("/{id}", h.ProductCategory.Update)
			r.With(admin).Delete("/{id}", h.ProductCategory.Delete)
		})

		r.Route("/blog-category", func(r chi.Router) {
			r.Get("/all", h.BlogCategory.List)
			r.Get("/{slug}", h.BlogCategory.Get)
			r.With(admin).Post("/", h.BlogCategory.Create)
			r.With(admin).Put("/{id}", h.BlogCategory.Update)
			r.With(admin).Delete("/{id}", h.BlogCategory.Delete)
		})

		r.Route("/brand", func(r chi.Router) {
			r.Get("/all", h.Brands.List)
			r.Get("/{id}", h.Brands.Get)
			r.With(admin).Post("/", h.Brands.Create)
			r.With(admin).Put("/{id}", h.Brands.Update)
			r.With(admin).Delete("/{id}", h.Brands.Delete)
		})

		r.Route("/coupon", func(r chi.Router) {
			r.With(admin).Get("/all", h.Coupons.List)
			r.Get("/{id}", h.Coupons.Get)
			r.With(admin).Post("/", h.Coupons.Create)
			r.With(admin).Put("/{id}", h.Coupons.Update)
			r.With(admin).Delete("/{id}", h.Coupons.Delete)
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/all", h.Blogs.List)
			r.Get("/{slug}", h.Blogs.Get)
			r.With(authn, writeLimit).Put("/like", h.Blogs.Like)
			r.With(authn, writeLimit).Put("/dislike", h.Blogs.Dislike)
			r.With(admin).Post("/", h.Blogs.Create)
			r.With(admin).Put("/{id}", h.Blogs.Update)
			r.With(admin).Delete("/{id}", h.Blogs.Delete)
			r.With(admin).Post("/{id}/image", h.Blogs.UploadImage)
		})
	})
}
