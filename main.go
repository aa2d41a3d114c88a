package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/plutarco/tienda-api/config"
	"github.com/plutarco/tienda-api/controllers"
	"github.com/plutarco/tienda-api/middleware"
	"github.com/plutarco/tienda-api/models"
	"github.com/plutarco/tienda-api/services"
)

func main() {
	log.Println("Starting Tienda API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.ShippingConfig{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if err := initImageStore(cfg); err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}
	services.InitMailService(cfg)

	router := setupRouter()

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func initImageStore(cfg *config.Config) error {
	if cfg.ImageStore == "s3" {
		store, err := services.NewS3ImageStore(cfg)
		if err != nil {
			return err
		}
		services.InitImageStore(store)
		return nil
	}

	store, err := services.NewLocalImageStore(cfg.ImagesDir)
	if err != nil {
		return err
	}
	services.InitImageStore(store)
	return nil
}

// setupRouter wires all routes. Public routes serve the storefront; each
// admin route gets the shared-secret gate attached at registration, so a
// route's exposure is visible right here and nowhere else.
func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")

	// Public: storefront reads, checkout, login, ops
	v1.GET("/health", controllers.HealthCheck)
	v1.GET("/database/status", controllers.DatabaseStatus)
	v1.POST("/login", controllers.Login)

	v1.GET("/products", controllers.ListProducts)
	v1.GET("/products/enabled", controllers.ListEnabledProducts)
	v1.GET("/products/search", controllers.SearchProducts)
	v1.GET("/products/categories", controllers.ListCategories)
	v1.GET("/products/subcategories", controllers.ListSubcategories)
	v1.GET("/products/by-code/:code", controllers.GetProductByCode)

	v1.POST("/orders", controllers.CreateOrder)

	v1.GET("/images/:filename", controllers.GetImage)
	v1.GET("/config/shipping", controllers.GetShippingConfig)

	// Admin: everything below requires the shared secret
	admin := v1.Group("", middleware.RequireAPIKey())

	admin.POST("/products", controllers.CreateProduct)
	admin.PUT("/products/:id/state", controllers.SetProductState)
	admin.PUT("/products/:id/order", controllers.SetProductOrder)
	admin.DELETE("/products/:id", controllers.DeleteProduct)
	admin.DELETE("/products", controllers.DeleteAllProducts)
	admin.POST("/products/import", controllers.ImportProducts)
	admin.POST("/products/import-enabled", controllers.ImportEnabledProducts)
	admin.POST("/products/import-order", controllers.ImportProductOrder)

	admin.GET("/orders", controllers.ListOrders)
	admin.GET("/orders/:id", controllers.GetOrder)
	admin.GET("/orders/:id/print", controllers.PrintOrder)
	admin.PUT("/orders/:id", controllers.UpdateOrder)
	admin.DELETE("/orders/:id", controllers.DeleteOrder)
	admin.DELETE("/orders", controllers.DeleteAllOrders)
	admin.POST("/orders/import", controllers.ImportOrders)
	admin.POST("/orders/:id/items", controllers.AddOrderItem)
	admin.PUT("/orders/:id/items/:itemID", controllers.UpdateOrderItem)
	admin.DELETE("/orders/:id/items/:itemID", controllers.DeleteOrderItem)

	admin.POST("/images", controllers.UploadImage)
	admin.POST("/images/products/:code", controllers.UploadProductImage)
	admin.DELETE("/images/:filename", controllers.DeleteImage)

	admin.PUT("/config/shipping", controllers.UpdateShippingConfig)
	admin.POST("/config/init", controllers.InitShippingConfig)

	return router
}
