package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plutarco/tienda-api/config"
	"github.com/plutarco/tienda-api/models"
)

// ShippingConfigRequest is the PUT/init payload; nil fields keep (or default)
// their value.
type ShippingConfigRequest struct {
	ShippingTariffs  *[]models.TariffTier  `json:"shipping_tariffs"`
	DeliveryDays     *[]models.DeliveryDay `json:"delivery_days"`
	CategoryOrder    *[]string             `json:"category_order"`
	SubcategoryOrder *[]string             `json:"subcategory_order"`
	MinimumOrder     *float64              `json:"minimum_order"`
}

// GetShippingConfig handles GET /api/v1/config/shipping
func GetShippingConfig(c *gin.Context) {
	db := config.GetDB()

	var cfg models.ShippingConfig
	if err := db.First(&cfg, models.ShippingConfigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CONFIG_NOT_FOUND",
					"message": "Shipping configuration has not been initialized",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load configuration",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": cfg})
}

// UpdateShippingConfig handles PUT /api/v1/config/shipping - upserts the
// singleton row, touching allowed fields only
func UpdateShippingConfig(c *gin.Context) {
	var req ShippingConfigRequest
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

	db := config.GetDB()
	var cfg models.ShippingConfig
	err := db.First(&cfg, models.ShippingConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = models.ShippingConfig{ID: models.ShippingConfigID}
		err = nil
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load configuration",
			},
		})
		return
	}

	applyShippingConfig(&cfg, &req)

	if err := db.Save(&cfg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save configuration",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": cfg})
}

// InitShippingConfig handles POST /api/v1/config/init - creates or resets the
// singleton row with payload values, defaulting the rest to empty
func InitShippingConfig(c *gin.Context) {
	var req ShippingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// An empty body initializes everything to defaults.
		req = ShippingConfigRequest{}
	}

	cfg := models.ShippingConfig{
		ID:               models.ShippingConfigID,
		ShippingTariffs:  []models.TariffTier{},
		DeliveryDays:     []models.DeliveryDay{},
		CategoryOrder:    []string{},
		SubcategoryOrder: []string{},
	}
	applyShippingConfig(&cfg, &req)

	db := config.GetDB()
	if err := db.Save(&cfg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to initialize configuration",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Shipping configuration initialized",
		"data":    cfg,
	})
}

func applyShippingConfig(cfg *models.ShippingConfig, req *ShippingConfigRequest) {
	if req.ShippingTariffs != nil {
		cfg.ShippingTariffs = *req.ShippingTariffs
	}
	if req.DeliveryDays != nil {
		cfg.DeliveryDays = *req.DeliveryDays
	}
	if req.CategoryOrder != nil {
		cfg.CategoryOrder = *req.CategoryOrder
	}
	if req.SubcategoryOrder != nil {
		cfg.SubcategoryOrder = *req.SubcategoryOrder
	}
	if req.MinimumOrder != nil {
		cfg.MinimumOrder = *req.MinimumOrder
	}
}
