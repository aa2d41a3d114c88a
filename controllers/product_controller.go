package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plutarco/tienda-api/config"
	"github.com/plutarco/tienda-api/models"
	"github.com/plutarco/tienda-api/services"
)

// displayOrderScope sorts products by display order with NULLs last, then
// by name for a stable order among unordered products.
func displayOrderScope(db *gorm.DB) *gorm.DB {
	return db.Order("display_order IS NULL").Order("display_order asc").Order("name asc")
}

// ListProducts handles GET /api/v1/products - all products in display order
func ListProducts(c *gin.Context) {
	db := config.GetDB()

	var products []models.Product
	if err := db.Scopes(displayOrderScope).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

// ListEnabledProducts handles GET /api/v1/products/enabled - the storefront listing
func ListEnabledProducts(c *gin.Context) {
	db := config.GetDB()

	var products []models.Product
	if err := db.Where("enabled = ?", true).Scopes(displayOrderScope).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

// SearchProducts handles GET /api/v1/products/search?q=&limit= - typeahead search
func SearchProducts(c *gin.Context) {
	db := config.GetDB()

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	query := db.Model(&models.Product{}).Order("name asc").Limit(limit)
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(code) LIKE LOWER(?)", pattern, pattern)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to search products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

// ListCategories handles GET /api/v1/products/categories - distinct non-empty categories
func ListCategories(c *gin.Context) {
	listDistinct(c, "category")
}

// ListSubcategories handles GET /api/v1/products/subcategories
func ListSubcategories(c *gin.Context) {
	listDistinct(c, "subcategory")
}

func listDistinct(c *gin.Context, column string) {
	db := config.GetDB()

	var values []string
	err := db.Model(&models.Product{}).
		Distinct(column).
		Where(column+" <> ''").
		Order(column + " asc").
		Pluck(column, &values).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load " + column + " values",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": values})
}

// GetProductByCode handles GET /api/v1/products/by-code/:code
func GetProductByCode(c *gin.Context) {
	db := config.GetDB()

	var product models.Product
	if err := db.Where("code = ?", c.Param("code")).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PRODUCT_NOT_FOUND",
					"message": "Product not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Code         string  `json:"code" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Subcategory  string  `json:"subcategory"`
	Price        float64 `json:"price"`
	Supplier     string  `json:"supplier"`
	Enabled      *bool   `json:"enabled"`
	DisplayOrder *int    `json:"display_order"`
}

// CreateProduct handles POST /api/v1/products - manual catalog entry
func CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	product := models.Product{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Subcategory:  req.Subcategory,
		Price:        req.Price,
		Supplier:     req.Supplier,
		Enabled:      true,
		DisplayOrder: req.DisplayOrder,
	}
	if req.Enabled != nil {
		product.Enabled = *req.Enabled
	}

	db := config.GetDB()
	if err := db.Create(&product).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_EXISTS",
				"message": "A product with this code already exists",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": product})
}

// SetProductStateRequest carries the enabled flag; a pointer distinguishes
// a missing field from an explicit false.
type SetProductStateRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetProductState handles PUT /api/v1/products/:id/state
func SetProductState(c *gin.Context) {
	var req SetProductStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Field 'enabled' is required",
			},
		})
		return
	}

	updateProductField(c, "enabled", *req.Enabled)
}

// SetProductOrderRequest carries the display-order position. A null position
// clears the ordering (the product sorts last again).
type SetProductOrderRequest struct {
	DisplayOrder *int `json:"display_order"`
}

// SetProductOrder handles PUT /api/v1/products/:id/order
func SetProductOrder(c *gin.Context) {
	var req SetProductOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
			},
		})
		return
	}

	updateProductField(c, "display_order", req.DisplayOrder)
}

func updateProductField(c *gin.Context, field string, value interface{}) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Product id must be an integer",
			},
		})
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if err := db.Model(&product).Update(field, value).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// DeleteProduct handles DELETE /api/v1/products/:id. Historical order lines
// keep their snapshots; nothing cascades.
func DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Product id must be an integer",
			},
		})
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if err := db.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteAllProducts handles DELETE /api/v1/products - wipes the catalog
func DeleteAllProducts(c *gin.Context) {
	db := config.GetDB()
	if err := db.Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All products deleted"})
}

// ImportProducts handles POST /api/v1/products/import - xlsx catalog upsert
func ImportProducts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A spreadsheet file is required",
			},
		})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE",
				"message": "Failed to open uploaded file",
			},
		})
		return
	}
	defer src.Close()

	summary, err := services.ImportProducts(config.GetDB(), src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_SPREADSHEET",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

// ImportEnabledRequest is the JSON body of the enablement-list import
type ImportEnabledRequest struct {
	Codes          []string `json:"codes" binding:"required"`
	DisableMissing bool     `json:"disable_missing"`
}

// ImportEnabledProducts handles POST /api/v1/products/import-enabled
func ImportEnabledProducts(c *gin.Context) {
	var req ImportEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Field 'codes' is required",
			},
		})
		return
	}

	summary, err := services.ImportEnabled(config.GetDB(), req.Codes, req.DisableMissing)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update enablement",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

// ImportProductOrder handles POST /api/v1/products/import-order - CSV of
// (name-or-code, position) pairs
func ImportProductOrder(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A CSV file is required",
			},
		})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE",
				"message": "Failed to open uploaded file",
			},
		})
		return
	}
	defer src.Close()

	summary, err := services.ImportDisplayOrder(config.GetDB(), src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CSV",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}
