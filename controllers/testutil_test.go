package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plutarco/tienda-api/config"
	"github.com/plutarco/tienda-api/models"
	"github.com/plutarco/tienda-api/services"
)

// setupControllerTest wires an in-memory database, a mock image store and a
// mock mail service into the package singletons the handlers read from.
func setupControllerTest(t *testing.T) (*gorm.DB, *services.MockImageStore, *services.MockMailService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.ShippingConfig{},
	))
	config.SetDB(db)

	config.SetConfig(&config.Config{
		APIKey:    "test-key",
		AdminUser: "admin",
		AdminPass: "hunter2",
	})

	imageStore := services.NewMockImageStore()
	imageStore.SetAsMockForTesting()
	mailService := services.NewMockMailService()
	mailService.SetAsMockForTesting()

	return db, imageStore, mailService
}

// newTestRouter registers every route without the auth gate; middleware has
// its own tests.
func newTestRouter() *gin.Engine {
	router := gin.New()
	v1 := router.Group("/api/v1")

	v1.GET("/health", HealthCheck)
	v1.GET("/database/status", DatabaseStatus)
	v1.POST("/login", Login)

	v1.GET("/products", ListProducts)
	v1.GET("/products/enabled", ListEnabledProducts)
	v1.GET("/products/search", SearchProducts)
	v1.GET("/products/categories", ListCategories)
	v1.GET("/products/subcategories", ListSubcategories)
	v1.GET("/products/by-code/:code", GetProductByCode)
	v1.POST("/products", CreateProduct)
	v1.PUT("/products/:id/state", SetProductState)
	v1.PUT("/products/:id/order", SetProductOrder)
	v1.DELETE("/products/:id", DeleteProduct)
	v1.DELETE("/products", DeleteAllProducts)
	v1.POST("/products/import", ImportProducts)
	v1.POST("/products/import-enabled", ImportEnabledProducts)
	v1.POST("/products/import-order", ImportProductOrder)

	v1.POST("/orders", CreateOrder)
	v1.GET("/orders", ListOrders)
	v1.GET("/orders/:id", GetOrder)
	v1.GET("/orders/:id/print", PrintOrder)
	v1.PUT("/orders/:id", UpdateOrder)
	v1.DELETE("/orders/:id", DeleteOrder)
	v1.DELETE("/orders", DeleteAllOrders)
	v1.POST("/orders/import", ImportOrders)
	v1.POST("/orders/:id/items", AddOrderItem)
	v1.PUT("/orders/:id/items/:itemID", UpdateOrderItem)
	v1.DELETE("/orders/:id/items/:itemID", DeleteOrderItem)

	v1.GET("/images/:filename", GetImage)
	v1.POST("/images", UploadImage)
	v1.POST("/images/products/:code", UploadProductImage)
	v1.DELETE("/images/:filename", DeleteImage)

	v1.GET("/config/shipping", GetShippingConfig)
	v1.PUT("/config/shipping", UpdateShippingConfig)
	v1.POST("/config/init", InitShippingConfig)

	return router
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func performMultipart(t *testing.T, router *gin.Engine, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}
