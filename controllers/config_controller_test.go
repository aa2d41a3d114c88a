package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plutarco/tienda-api/models"
)

func TestGetShippingConfigBeforeInit(t *testing.T) {
	_, _, _ = setupControllerTest(t)
	router := newTestRouter()

	w := performJSON(router, http.MethodGet, "/api/v1/config/shipping", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CONFIG_NOT_FOUND")
}

func TestInitShippingConfigDefaults(t *testing.T) {
	db, _, _ := setupControllerTest(t)
	router := newTestRouter()

	w := performJSON(router, http.MethodPost, "/api/v1/config/init", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cfg models.ShippingConfig
	require.NoError(t, db.First(&cfg, models.ShippingConfigID).Error)
	assert.Empty(t, cfg.ShippingTariffs)
	assert.Empty(t, cfg.DeliveryDays)
	assert.Equal(t, 0.0, cfg.MinimumOrder)

	w = performJSON(router, http.MethodGet, "/api/v1/config/shipping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateShippingConfigUpsertsSingleton(t *testing.T) {
	db, _, _ := setupControllerTest(t)
	router := newTestRouter()

	// First PUT creates the row.
	w := performJSON(router, http.MethodPut, "/api/v1/config/shipping", map[string]interface{}{
		"shipping_tariffs": []map[string]interface{}{
			{"zone": "Centro", "price": 1500.0},
			{"zone": "Afueras", "price": 2500.0},
		},
		"minimum_order": 5000.0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var cfg models.ShippingConfig
	require.NoError(t, db.First(&cfg, models.ShippingConfigID).Error)
	require.Len(t, cfg.ShippingTariffs, 2)
	assert.Equal(t, "Centro", cfg.ShippingTariffs[0].Zone)
	assert.Equal(t, 5000.0, cfg.MinimumOrder)

	// Partial PUT keeps the untouched fields.
	w = performJSON(router, http.MethodPut, "/api/v1/config/shipping", map[string]interface{}{
		"delivery_days": []map[string]interface{}{
			{"day": "martes", "enabled": true, "cutoff": "18:00"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&cfg, models.ShippingConfigID).Error)
	require.Len(t, cfg.DeliveryDays, 1)
	assert.Equal(t, "martes", cfg.DeliveryDays[0].Day)
	assert.Len(t, cfg.ShippingTariffs, 2)
	assert.Equal(t, 5000.0, cfg.MinimumOrder)

	// Still a single row.
	var count int64
	db.Model(&models.ShippingConfig{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestInitShippingConfigResets(t *testing.T) {
	db, _, _ := setupControllerTest(t)
	router := newTestRouter()

	w := performJSON(router, http.MethodPut, "/api/v1/config/shipping", map[string]interface{}{
		"minimum_order": 5000.0,
		"category_order": []string{"Panificados", "Almacen"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodPost, "/api/v1/config/init", map[string]interface{}{
		"minimum_order": 1000.0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var cfg models.ShippingConfig
	require.NoError(t, db.First(&cfg, models.ShippingConfigID).Error)
	assert.Equal(t, 1000.0, cfg.MinimumOrder)
	assert.Empty(t, cfg.CategoryOrder)
}
