package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"foodtruck-ops/cache"
	"foodtruck-ops/controllers"
	"foodtruck-ops/middlewares"
)

func SetupRouter(db *gorm.DB, productCache *cache.ProductCache) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	authCtrl := controllers.NewAuthController(db)
	userCtrl := controllers.NewUserController(db)
	productCtrl := controllers.NewProductController(db, productCache)
	orderCtrl := controllers.NewOrderController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Credential endpoints behind the strict limiter
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/setup", authCtrl.Setup)
		public.POST("/login", authCtrl.Login)
	}

	// Catalog reads are public
	r.GET("/products", productCtrl.GetAllProducts)
	r.GET("/products/:product_id", productCtrl.GetProductByID)

	// Truck-window board: available menu and pickup status by locator
	r.GET("/public/products", productCtrl.GetAvailableProducts)
	r.GET("/public/orders/:locator", orderCtrl.GetOrderByLocator)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.POST("/logout", authCtrl.Logout)
		auth.GET("/profile", userCtrl.GetProfile)

		// User directory (policy gate restricts to admin)
		auth.POST("/users", userCtrl.CreateUser)
		auth.GET("/users", userCtrl.GetAllUsers)
		auth.GET("/users/:user_id", userCtrl.GetUserByID)
		auth.PUT("/users/:user_id", userCtrl.UpdateUser)
		auth.DELETE("/users/:user_id", userCtrl.DeleteUser)

		// Catalog writes (policy gate restricts to admin)
		auth.POST("/products", productCtrl.CreateProduct)
		auth.PUT("/products/:product_id", productCtrl.UpdateProduct)
		auth.DELETE("/products/:product_id", productCtrl.DeleteProduct)

		// Order workflow
		auth.POST("/orders", orderCtrl.CreateOrder)
		auth.GET("/orders", orderCtrl.GetAllOrders)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
		auth.PUT("/orders/:order_id/items", orderCtrl.ReplaceOrderItems)
		auth.PATCH("/orders/:order_id/rating", orderCtrl.RateOrder)
		auth.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
	}

	return r
}
