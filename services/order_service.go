package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/plutarco/tienda-api/models"
)

// ErrOrderNotFound is returned when an order id does not exist. Callers map
// it to a not-found response instead of recomputing totals on nothing.
var ErrOrderNotFound = errors.New("order not found")

// ErrOrderItemNotFound is returned when an item id does not exist on the
// given order.
var ErrOrderItemNotFound = errors.New("order item not found")

// ItemInput is a client-supplied line item. Code/Name/UnitPrice act as
// fallbacks: when the code matches a catalog product, the product's values
// are snapshotted instead.
type ItemInput struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// RecomputeOrderTotals reloads the order's items and persists
// subtotal = sum(quantity * unit_price) and total = subtotal + shipping
// charged. It must run inside the same transaction as the item mutation
// that made the totals stale.
func RecomputeOrderTotals(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}

	subtotal := 0.0
	for _, item := range items {
		subtotal += float64(item.Quantity) * item.UnitPrice
	}

	order.Subtotal = subtotal
	order.Total = subtotal + order.ShippingCharged
	if err := tx.Model(&order).Updates(map[string]interface{}{
		"subtotal": order.Subtotal,
		"total":    order.Total,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to persist order totals: %w", err)
	}

	order.Items = items
	return &order, nil
}

// snapshotItem builds an OrderItem from client input, copying code, name and
// price from the catalog when the code matches a product. Catalog lookups
// are creation-time only; the stored values never track later catalog edits.
func snapshotItem(tx *gorm.DB, orderID uint, input ItemInput) models.OrderItem {
	item := models.OrderItem{
		OrderID:   orderID,
		Code:      input.Code,
		Name:      input.Name,
		Quantity:  input.Quantity,
		UnitPrice: input.UnitPrice,
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	if input.Code != "" {
		var product models.Product
		if err := tx.Where("code = ?", input.Code).First(&product).Error; err == nil {
			item.ProductID = &product.ID
			item.Code = product.Code
			if item.Name == "" {
				item.Name = product.Name
			}
			if item.UnitPrice == 0 {
				item.UnitPrice = product.Price
			}
		}
	}

	item.LineTotal = float64(item.Quantity) * item.UnitPrice
	return item
}

// CreateOrder persists a new order with its items and computes the derived
// totals, all in one transaction.
func CreateOrder(db *gorm.DB, order *models.Order, items []ItemInput) (*models.Order, error) {
	var result *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		order.Items = nil
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, input := range items {
			item := snapshotItem(tx, order.ID, input)
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		updated, err := RecomputeOrderTotals(tx, order.ID)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReplaceOrderItems deletes the order's current items, inserts the given
// set and recomputes totals as a single transactional unit.
func ReplaceOrderItems(db *gorm.DB, orderID uint, items []ItemInput) (*models.Order, error) {
	var result *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := requireOrder(tx, orderID); err != nil {
			return err
		}

		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}

		for _, input := range items {
			item := snapshotItem(tx, orderID, input)
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		updated, err := RecomputeOrderTotals(tx, orderID)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddOrderItem appends one item to the order and recomputes totals.
func AddOrderItem(db *gorm.DB, orderID uint, input ItemInput) (*models.Order, error) {
	var result *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := requireOrder(tx, orderID); err != nil {
			return err
		}

		item := snapshotItem(tx, orderID, input)
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}

		updated, err := RecomputeOrderTotals(tx, orderID)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateOrderItem updates quantity and unit price of one item and recomputes
// totals. Code and name are snapshots and stay untouched.
func UpdateOrderItem(db *gorm.DB, orderID, itemID uint, quantity int, unitPrice float64) (*models.Order, error) {
	var result *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		item, err := requireItem(tx, orderID, itemID)
		if err != nil {
			return err
		}

		if quantity < 1 {
			quantity = 1
		}
		item.Quantity = quantity
		item.UnitPrice = unitPrice
		item.LineTotal = float64(quantity) * unitPrice
		if err := tx.Save(item).Error; err != nil {
			return fmt.Errorf("failed to update order item: %w", err)
		}

		updated, err := RecomputeOrderTotals(tx, orderID)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteOrderItem removes one item from the order and recomputes totals.
func DeleteOrderItem(db *gorm.DB, orderID, itemID uint) (*models.Order, error) {
	var result *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		item, err := requireItem(tx, orderID, itemID)
		if err != nil {
			return err
		}

		if err := tx.Delete(item).Error; err != nil {
			return fmt.Errorf("failed to delete order item: %w", err)
		}

		updated, err := RecomputeOrderTotals(tx, orderID)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteOrder removes the order together with its items.
func DeleteOrder(db *gorm.DB, orderID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := requireOrder(tx, orderID); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := tx.Delete(&models.Order{}, orderID).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

// DeleteAllOrders wipes every order and every item.
func DeleteAllOrders(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&models.Order{}).Error; err != nil {
			return fmt.Errorf("failed to delete orders: %w", err)
		}
		return nil
	})
}

func requireOrder(tx *gorm.DB, orderID uint) error {
	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to load order: %w", err)
	}
	return nil
}

func requireItem(tx *gorm.DB, orderID, itemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := tx.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("failed to load order item: %w", err)
	}
	if item.OrderID != orderID {
		return nil, ErrOrderItemNotFound
	}
	return &item, nil
}
