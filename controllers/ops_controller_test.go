package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	_, _, _ = setupControllerTest(t)
	router := newTestRouter()

	w := performJSON(router, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tienda API is running")
}

func TestDatabaseStatus(t *testing.T) {
	_, _, _ = setupControllerTest(t)
	router := newTestRouter()

	w := performJSON(router, http.MethodGet, "/api/v1/database/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Database connected")
}
