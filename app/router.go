package app

import (
	"context"
	"net/http"
	"time"

	"elivtory/inventory-api/app/contact"
	"elivtory/inventory-api/app/product"
	"elivtory/inventory-api/app/root"
	"elivtory/inventory-api/app/user"
	"elivtory/inventory-api/internal"
	"elivtory/inventory-api/pkg/middleware"

	cache "github.com/chenyahui/gin-cache"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewRouter builds the HTTP API on top of d. Background work started by the
// router, like the rate limiter cleanup, stops when ctx is done.
func NewRouter(ctx context.Context, d *internal.Deps) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     d.Cfg.Host.CORS,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == http.MethodHead
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = d.Cfg.Storage.MaxImageSize

	session := middleware.NewSessionMiddleware(d.Auth, d.Sessions.CookieName())
	turnstile := middleware.NewTurnstileMiddleware(d.Cfg.Security.Turnstile)
	rateLimiter := middleware.RateLimiterMiddleware(ctx, middleware.RateLimiterConfig{
		RequestsPerSecond: d.Cfg.Security.RateLimit,
		Burst:             d.Cfg.Security.RateLimit * 2,
	})

	if d.Cfg.Storage.Type == "local" {
		// GET /uploads/:key		-> Serves locally stored product images
		router.Static("/uploads", d.Cfg.Storage.LocalDir)
	}

	m := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })

		// POST /api/contactus		-> Sends a message to the support inbox
		m.POST("/contactus", session, middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { contact.ContactUs(c, d) })
	}

	u := m.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/users/register		-> Registers a new user and starts a session
		u.POST("/register", turnstile, func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/users/login		-> Logs in a user and starts a session
		u.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// GET /api/users/logout		-> Clears the session cookie
		u.GET("/logout", func(c *gin.Context) { user.UserLogout(c, d) })

		// GET /api/users/getuser		-> Returns the profile of the logged in user
		u.GET("/getuser", session, func(c *gin.Context) { user.UserFetch(c, d) })

		// GET /api/users/loggedin		-> Returns true if the session cookie is valid
		u.GET("/loggedin", func(c *gin.Context) { user.UserLoggedIn(c, d) })

		// PATCH /api/users/updateuser		-> Updates the profile of the logged in user
		u.PATCH("/updateuser", session, func(c *gin.Context) { user.UserUpdate(c, d) })

		// PATCH /api/users/changepassword	-> Changes the password of the logged in user
		u.PATCH("/changepassword", session, func(c *gin.Context) { user.UserChangePassword(c, d) })

		// POST /api/users/forgotpassword	-> Mails a password reset link
		u.POST("/forgotpassword", turnstile, func(c *gin.Context) { user.UserForgotPassword(c, d) })

		// PUT /api/users/resetpassword/:resetToken	-> Sets a new password with a reset token
		u.PUT("/resetpassword/:resetToken", func(c *gin.Context) { user.UserResetPassword(c, d) })
	}

	p := m.Group("/products", session, middleware.BodySizeLimiter(d.Cfg.Storage.MaxImageSize+1<<20))
	{
		// GET /api/products		-> Returns the products of the logged in user, newest first
		p.GET("", cacheFor(d, 30*time.Second), func(c *gin.Context) { product.ProductList(c, d) })

		// GET /api/products/:id	-> Returns a product owned by the logged in user
		p.GET("/:id", cacheFor(d, 30*time.Second), func(c *gin.Context) { product.ProductFetch(c, d) })

		// POST /api/products		-> Creates a product, optionally with an image
		p.POST("", func(c *gin.Context) { product.ProductCreate(c, d) })

		// PATCH /api/products/:id	-> Updates a product
		p.PATCH("/:id", func(c *gin.Context) { product.ProductUpdate(c, d) })

		// DELETE /api/products/:id	-> Deletes a product and its image
		p.DELETE("/:id", func(c *gin.Context) { product.ProductDelete(c, d) })
	}

	return router
}

// cacheFor caches successful responses per user, so one user never sees
// another user's data. Writes drop the keys again, see product.CacheKey.
func cacheFor(d *internal.Deps, ttl time.Duration) gin.HandlerFunc {
	return cache.Cache(d.Cache, ttl, cache.WithCacheStrategyByRequest(func(c *gin.Context) (bool, cache.Strategy) {
		return true, cache.Strategy{
			CacheKey: product.CacheKey(c.GetString("userID"), c.Request.URL.Path),
		}
	}))
}
