package controllers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plutarco/tienda-api/models"
)

func pngFixture(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadImageAndServe(t *testing.T) {
	_, store, _ := setupControllerTest(t)
	router := newTestRouter()

	w := performMultipart(t, router, "/api/v1/images", "foto.png", pngFixture(t))
	require.Equal(t, http.StatusCreated, w.Code)

	data := dataField(t, w)
	assert.Equal(t, "foto.png", data["filename"])
	assert.Equal(t, "/api/v1/images/foto.png", data["url"])
	assert.True(t, store.Exists("foto.png"))

	w = performJSON(router, http.MethodGet, "/api/v1/images/foto.png", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
}

func TestUploadImageSuffixesOnCollision(t *testing.T) {
	_, store, _ := setupControllerTest(t)
	router := newTestRouter()

	content := pngFixture(t)
	w := performMultipart(t, router, "/api/v1/images", "foto.png", content)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performMultipart(t, router, "/api/v1/images", "foto.png", content)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "foto-1.png", dataField(t, w)["filename"])
	assert.True(t, store.Exists("foto.png"))
	assert.True(t, store.Exists("foto-1.png"))
}

func TestUploadImageRejectsBadExtension(t *testing.T) {
	_, _, _ = setupControllerTest(t)
	router := newTestRouter()

	w := performMultipart(t, router, "/api/v1/images", "script.exe", []byte("MZ"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_FILE_FORMAT")
}

func TestUploadProductImageUpdatesReference(t *testing.T) {
	db, store, _ := setupControllerTest(t)
	router := newTestRouter()

	require.NoError(t, db.Create(&models.Product{
		Code: "PLUT0001", Name: "Pan", Enabled: true,
	}).Error)

	w := performMultipart(t, router, "/api/v1/images/products/PLUT0001", "cualquier-nombre.png", pngFixture(t))
	require.Equal(t, http.StatusCreated, w.Code)

	// Opaque png is re-encoded to jpeg and stored under the product code.
	data := dataField(t, w)
	assert.Equal(t, "PLUT0001.jpg", data["filename"])
	assert.True(t, store.Exists("PLUT0001.jpg"))

	var product models.Product
	require.NoError(t, db.Where("code = ?", "PLUT0001").First(&product).Error)
	require.NotNil(t, product.ImageURL)
	assert.Equal(t, "/api/v1/images/PLUT0001.jpg", *product.ImageURL)
}

func TestUploadProductImageWithoutCatalogEntry(t *testing.T) {
	_, store, _ := setupControllerTest(t)
	router := newTestRouter()

	w := performMultipart(t, router, "/api/v1/images/products/GHOST", "foto.png", pngFixture(t))
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Contains(t, body["warning"], "Product not found")
	assert.True(t, store.Exists("GHOST.jpg"))
}

func TestDeleteImageClearsProductReferences(t *testing.T) {
	db, store, _ := setupControllerTest(t)
	router := newTestRouter()

	url := "/api/v1/images/shared.jpg"
	for _, code := range []string{"A", "B"} {
		require.NoError(t, db.Create(&models.Product{
			Code: code, Name: "Producto " + code, Enabled: true, ImageURL: &url,
		}).Error)
	}
	require.NoError(t, store.Save("shared.jpg", []byte("x"), "image/jpeg"))

	w := performJSON(router, http.MethodDelete, "/api/v1/images/shared.jpg", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, store.Exists("shared.jpg"))

	// Every product that pointed at the file loses its reference.
	var products []models.Product
	require.NoError(t, db.Find(&products).Error)
	for _, p := range products {
		assert.Nil(t, p.ImageURL)
	}
}

func TestDeleteImageNotFound(t *testing.T) {
	_, _, _ = setupControllerTest(t)
	router := newTestRouter()

	w := performJSON(router, http.MethodDelete, "/api/v1/images/nope.jpg", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "IMAGE_NOT_FOUND")
}

func TestGetImageNotFound(t *testing.T) {
	_, _, _ = setupControllerTest(t)
	router := newTestRouter()

	w := performJSON(router, http.MethodGet, "/api/v1/images/nope.jpg", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
