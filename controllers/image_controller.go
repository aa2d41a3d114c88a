package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/plutarco/tienda-api/config"
	"github.com/plutarco/tienda-api/models"
	"github.com/plutarco/tienda-api/services"
	"github.com/plutarco/tienda-api/utils"
)

// imageURL is the public path a stored image is served from; it is also the
// value written to Product.ImageURL.
func imageURL(filename string) string {
	return "/api/v1/images/" + filename
}

// UploadImage handles POST /api/v1/images - generic upload, suffixing the
// filename on collision rather than overwriting someone else's file
func UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required",
			},
		})
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		respondUploadError(c, err)
		return
	}

	filename, err := utils.SafeFilename(fileHeader.Filename)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	content, err := utils.ReadUploadedFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE",
				"message": "Failed to read uploaded file",
			},
		})
		return
	}

	store := services.GetImageStore()
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	for i := 1; store.Exists(filename); i++ {
		filename = fmt.Sprintf("%s-%d%s", base, i, ext)
	}

	if err := store.Save(filename, content, utils.ContentTypeForExt(ext)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": "Failed to store image",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"filename": filename, "url": imageURL(filename)},
	})
}

// UploadProductImage handles POST /api/v1/images/products/:code - validates,
// normalizes and stores the image under a name derived from the product code
// (so re-uploading replaces), then updates the product's image reference
func UploadProductImage(c *gin.Context) {
	code := c.Param("code")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required",
			},
		})
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		respondUploadError(c, err)
		return
	}

	content, err := utils.ReadUploadedFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE",
				"message": "Failed to read uploaded file",
			},
		})
		return
	}

	normalized, err := services.NormalizeProductImage(content, filepath.Ext(fileHeader.Filename))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "IMAGE_ERROR",
				"message": "Failed to process image",
			},
		})
		return
	}

	filename := services.ProductImageFilename(code, normalized.Ext)
	if err := services.GetImageStore().Save(filename, normalized.Content, normalized.ContentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": "Failed to store image",
			},
		})
		return
	}

	url := imageURL(filename)

	db := config.GetDB()
	var product models.Product
	if err := db.Where("code = ?", code).First(&product).Error; err != nil {
		// The file is stored either way; tell the caller the catalog entry
		// is missing so the reference can be fixed up later.
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    gin.H{"filename": filename, "url": url},
			"warning": "Product not found, image stored without a catalog reference",
		})
		return
	}

	if err := db.Model(&product).Update("image_url", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update product image reference",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"filename": filename, "url": url},
	})
}

// GetImage handles GET /api/v1/images/:filename - serves a stored image
func GetImage(c *gin.Context) {
	filename, err := utils.SafeFilename(c.Param("filename"))
	if err != nil {
		respondUploadError(c, err)
		return
	}

	content, contentType, err := services.GetImageStore().Open(filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "IMAGE_NOT_FOUND",
				"message": "Image not found",
			},
		})
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, content)
}

// DeleteImage handles DELETE /api/v1/images/:filename - removes the file and
// clears the image reference on every product pointing at it
func DeleteImage(c *gin.Context) {
	filename, err := utils.SafeFilename(c.Param("filename"))
	if err != nil {
		respondUploadError(c, err)
		return
	}

	store := services.GetImageStore()
	if !store.Exists(filename) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "IMAGE_NOT_FOUND",
				"message": "Image not found",
			},
		})
		return
	}

	if err := store.Delete(filename); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": "Failed to delete image",
			},
		})
		return
	}

	db := config.GetDB()
	if err := db.Model(&models.Product{}).
		Where("image_url = ?", imageURL(filename)).
		Update("image_url", nil).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Image deleted but failed to clear product references",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func respondUploadError(c *gin.Context, err error) {
	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INVALID_FILE",
			"message": err.Error(),
		},
	})
}
