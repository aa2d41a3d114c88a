package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plutarco/tienda-api/config"
)

func performLogin(router *gin.Engine, username, password string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginReturnsAPIKey(t *testing.T) {
	_, _, _ = setupControllerTest(t)
	router := newTestRouter()

	w := performLogin(router, "admin", "hunter2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test-key", dataField(t, w)["access_token"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, _, _ = setupControllerTest(t)
	router := newTestRouter()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"wrong username", "root", "hunter2"},
		{"empty form", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performLogin(router, tt.username, tt.password)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
		})
	}
}

func TestLoginWithoutConfiguredCredentials(t *testing.T) {
	_, _, _ = setupControllerTest(t)
	config.SetConfig(&config.Config{APIKey: "test-key"})
	router := newTestRouter()

	w := performLogin(router, "admin", "hunter2")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "SERVER_MISCONFIGURED")
}
