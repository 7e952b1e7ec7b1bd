package router

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopora/backend/internal/store"
	"github.com/shopora/backend/pkg/cache"
	"github.com/shopora/backend/pkg/global"
	"github.com/shopora/backend/pkg/models"
)

// serverError logs the underlying failure and hides it from the client.
func serverError(c *gin.Context, op string, err error) {
	log.Printf("%s failed: %v", op, err)
	c.JSON(http.StatusInternalServerError, global.ErrorResponse("Server error occurred"))
}

func (h *Handlers) AddProduct(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Product name is required"))
		return
	}

	product := &models.Product{
		Name:        name,
		Price:       formFloat(c, "price", 0),
		Category:    c.PostForm("category"),
		Rating:      formFloat(c, "rating", 0),
		Still:       formInt(c, "still", 0),
		Discount:    formFloat(c, "discount", 0),
		Featured:    formBool(c, "featured"),
		Description: c.PostForm("description"),
	}
	if product.Price < 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Price cannot be negative"))
		return
	}

	if image, err := readImageUpload(c); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse(err.Error()))
		return
	} else if image != "" {
		product.Image = image
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	created, err := h.Products.CreateProduct(ctx, product)
	if err != nil {
		serverError(c, "add product", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product added successfully!",
		"product": created,
	})
}

func (h *Handlers) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Product name is required"))
		return
	}

	upd := models.ProductUpdate{
		Name:        name,
		Price:       formFloat(c, "price", 0),
		Category:    c.PostForm("category"),
		Rating:      formFloat(c, "rating", 0),
		Still:       formInt(c, "still", 0),
		Discount:    formFloat(c, "discount", 0),
		Featured:    formBool(c, "featured"),
		Description: c.PostForm("description"),
	}

	if image, err := readImageUpload(c); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse(err.Error()))
		return
	} else if image != "" {
		upd.Image = &image
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	updated, err := h.Products.UpdateProduct(ctx, id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found"))
			return
		}
		serverError(c, "update product", err)
		return
	}

	if err := cache.InvalidateProduct(ctx, id); err != nil {
		log.Printf("cache invalidate for product %s failed: %v", id, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated successfully!",
		"product": updated,
	})
}

func (h *Handlers) ListProducts(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	products, err := h.Products.ListProducts(ctx)
	if err != nil {
		serverError(c, "list products", err)
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

func (h *Handlers) RemoveProduct(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Please send product ID"))
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Products.DeleteProduct(ctx, req.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found"))
			return
		}
		serverError(c, "remove product", err)
		return
	}

	if err := cache.InvalidateProduct(ctx, req.ID); err != nil {
		log.Printf("cache invalidate for product %s failed: %v", req.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product removed successfully!",
	})
}

func (h *Handlers) GetProductsByIDs(c *gin.Context) {
	ids := c.QueryArray("id")
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Please send product ID"))
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	products, err := h.Products.GetProductsByIDs(ctx, ids)
	if err != nil {
		serverError(c, "get products by ids", err)
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

func (h *Handlers) GetProductByID(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := reqCtx(c)
	defer cancel()

	if product, err := cache.GetProduct(ctx, id); err == nil {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
		return
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("cache read for product %s failed: %v", id, err)
	}

	product, err := h.Products.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found"))
			return
		}
		serverError(c, "get product", err)
		return
	}

	if err := cache.SetProduct(ctx, product); err != nil {
		log.Printf("cache write for product %s failed: %v", id, err)
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// readImageUpload turns an optional "image" form file into a base64 data URI.
// No file at all is fine; an unreadable or oversized one is a client error.
func readImageUpload(c *gin.Context) (string, error) {
	const maxImageBytes = 5 << 20

	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", errors.New("Invalid image upload")
	}
	if header.Size > maxImageBytes {
		return "", errors.New("Image too large, 5MB max")
	}

	file, err := header.Open()
	if err != nil {
		return "", errors.New("Invalid image upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", errors.New("Invalid image upload")
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}

func formFloat(c *gin.Context, key string, def float64) float64 {
	raw := c.PostForm(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func formInt(c *gin.Context, key string, def int) int {
	raw := c.PostForm(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func formBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.PostForm(key))
	return err == nil && v
}
