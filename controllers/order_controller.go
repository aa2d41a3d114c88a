package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plutarco/tienda-api/config"
	"github.com/plutarco/tienda-api/models"
	"github.com/plutarco/tienda-api/services"
)

// CreateOrderRequest represents the request body for creating an order.
// Subtotal and total are never accepted from the client; they are always
// recomputed from the items.
type CreateOrderRequest struct {
	CustomerName    string               `json:"customer_name" binding:"required"`
	Email           string               `json:"email"`
	Phone           string               `json:"phone"`
	Address         string               `json:"address"`
	Comment         string               `json:"comment"`
	DeliveryDate    string               `json:"delivery_date"` // "2006-01-02"
	ShippingCharged float64              `json:"shipping_charged"`
	ShippingCost    float64              `json:"shipping_cost"`
	Confirmed       bool                 `json:"confirmed"`
	Delivered       bool                 `json:"delivered"`
	Items           []services.ItemInput `json:"items"`
}

// UpdateOrderRequest is a partial update; nil fields keep their value.
// A non-nil Items replaces the full item set.
type UpdateOrderRequest struct {
	CustomerName    *string               `json:"customer_name"`
	Email           *string               `json:"email"`
	Phone           *string               `json:"phone"`
	Address         *string               `json:"address"`
	Comment         *string               `json:"comment"`
	DeliveryDate    *string               `json:"delivery_date"`
	ShippingCharged *float64              `json:"shipping_charged"`
	ShippingCost    *float64              `json:"shipping_cost"`
	Confirmed       *bool                 `json:"confirmed"`
	Delivered       *bool                 `json:"delivered"`
	Items           *[]services.ItemInput `json:"items"`
}

// OrderItemRequest is the body for adding or updating a single line item
type OrderItemRequest struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity" binding:"required,gte=1"`
	UnitPrice float64 `json:"unit_price"`
}

func parseDeliveryDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateOrder handles POST /api/v1/orders - the public storefront checkout
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
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

	deliveryDate, err := parseDeliveryDate(req.DeliveryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_DATE",
				"message": "delivery_date must be YYYY-MM-DD",
			},
		})
		return
	}

	order := models.Order{
		CustomerName:    req.CustomerName,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		Comment:         req.Comment,
		DeliveryDate:    deliveryDate,
		ShippingCharged: req.ShippingCharged,
		ShippingCost:    req.ShippingCost,
		Confirmed:       req.Confirmed,
		Delivered:       req.Delivered,
	}

	created, err := services.CreateOrder(config.GetDB(), &order, req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	// Transactional mail is best effort; a mail outage must not lose orders.
	if mail := services.GetMailService(); mail != nil {
		if err := mail.SendOrderConfirmation(created); err != nil {
			log.Printf("Failed to send order confirmation for order %d: %v", created.ID, err)
		}
		if err := mail.SendOrderNotification(created); err != nil {
			log.Printf("Failed to send order notification for order %d: %v", created.ID, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": created})
}

// ListOrders handles GET /api/v1/orders
func ListOrders(c *gin.Context) {
	db := config.GetDB()

	var orders []models.Order
	if err := db.Preload("Items").Order("id desc").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// UpdateOrder handles PUT /api/v1/orders/:id - partial field update with
// optional full line-set replacement
func UpdateOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req UpdateOrderRequest
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
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			orderNotFound(c)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order",
			},
		})
		return
	}

	if req.CustomerName != nil {
		order.CustomerName = *req.CustomerName
	}
	if req.Email != nil {
		order.Email = *req.Email
	}
	if req.Phone != nil {
		order.Phone = *req.Phone
	}
	if req.Address != nil {
		order.Address = *req.Address
	}
	if req.Comment != nil {
		order.Comment = *req.Comment
	}
	if req.DeliveryDate != nil {
		deliveryDate, err := parseDeliveryDate(*req.DeliveryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_DATE",
					"message": "delivery_date must be YYYY-MM-DD",
				},
			})
			return
		}
		order.DeliveryDate = deliveryDate
	}
	if req.ShippingCharged != nil {
		order.ShippingCharged = *req.ShippingCharged
	}
	if req.ShippingCost != nil {
		order.ShippingCost = *req.ShippingCost
	}
	if req.Confirmed != nil {
		order.Confirmed = *req.Confirmed
	}
	if req.Delivered != nil {
		order.Delivered = *req.Delivered
	}

	if err := db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order",
			},
		})
		return
	}

	var updated *models.Order
	var err error
	if req.Items != nil {
		updated, err = services.ReplaceOrderItems(db, order.ID, *req.Items)
	} else {
		// Shipping may have changed, so totals still need a pass.
		err = db.Transaction(func(tx *gorm.DB) error {
			updated, err = services.RecomputeOrderTotals(tx, order.ID)
			return err
		})
	}
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// AddOrderItem handles POST /api/v1/orders/:id/items
func AddOrderItem(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req OrderItemRequest
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

	updated, err := services.AddOrderItem(config.GetDB(), orderID, services.ItemInput{
		Code:      req.Code,
		Name:      req.Name,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": updated})
}

// UpdateOrderItem handles PUT /api/v1/orders/:id/items/:itemID
func UpdateOrderItem(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	itemID, err := strconv.Atoi(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Item id must be an integer",
			},
		})
		return
	}

	var req OrderItemRequest
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

	updated, err := services.UpdateOrderItem(config.GetDB(), orderID, uint(itemID), req.Quantity, req.UnitPrice)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// DeleteOrderItem handles DELETE /api/v1/orders/:id/items/:itemID
func DeleteOrderItem(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	itemID, err := strconv.Atoi(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Item id must be an integer",
			},
		})
		return
	}

	updated, err := services.DeleteOrderItem(config.GetDB(), orderID, uint(itemID))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func DeleteOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	if err := services.DeleteOrder(config.GetDB(), orderID); err != nil {
		respondOrderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteAllOrders handles DELETE /api/v1/orders - wipes every order
func DeleteAllOrders(c *gin.Context) {
	if err := services.DeleteAllOrders(config.GetDB()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All orders deleted"})
}

// ImportOrders handles POST /api/v1/orders/import - xlsx order batch
func ImportOrders(c *gin.Context) {
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

	summary, err := services.ImportOrders(config.GetDB(), src)
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

func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Order id must be a positive integer",
			},
		})
		return 0, false
	}
	return uint(id), true
}

func loadOrder(c *gin.Context) (*models.Order, bool) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return nil, false
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			orderNotFound(c)
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order",
			},
		})
		return nil, false
	}
	return &order, true
}

func orderNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ORDER_NOT_FOUND",
			"message": "Order not found",
		},
	})
}

func respondOrderServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		orderNotFound(c)
	case errors.Is(err, services.ErrOrderItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ITEM_NOT_FOUND",
				"message": "Order item not found",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Order operation failed",
			},
		})
	}
}
