package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog/internal/uploads"
)

// Pinger — *sql.DB подходит как есть
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health пингует базу
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "db": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// ServeImage отдаёт картинки из хранилища, которое нельзя раздать через r.Static (S3)
func ServeImage(src uploads.Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		rel := "/uploads" + c.Param("filepath")
		obj, err := src.Get(c.Request.Context(), rel)
		if err != nil {
			if errors.Is(err, uploads.ErrNotFound) {
				c.Status(http.StatusNotFound)
				return
			}
			log.Printf("serve image %s: %v", rel, err)
			c.Status(http.StatusInternalServerError)
			return
		}
		defer obj.Body.Close()

		ct := obj.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.DataFromReader(http.StatusOK, obj.Size, ct, obj.Body, nil)
	}
}

// RouterConfig collects what the HTTP surface needs besides the product handler.
type RouterConfig struct {
	DB        Pinger
	Guard     gin.HandlerFunc // защищает POST/PUT/DELETE
	UploadDir string          // раздаётся как /uploads; пусто — картинки не на диске
	Images    uploads.Source  // используется, когда UploadDir пуст
}

func RegisterRoutes(r *gin.Engine, h *ProductHandler, cfg RouterConfig) {
	if cfg.DB != nil {
		r.GET("/health", Health(cfg.DB))
	}
	switch {
	case cfg.UploadDir != "":
		r.Static("/uploads", cfg.UploadDir)
	case cfg.Images != nil:
		r.GET("/uploads/*filepath", ServeImage(cfg.Images))
	}

	guard := cfg.Guard
	if guard == nil {
		guard = func(c *gin.Context) { c.Next() }
	}

	api := r.Group("/api")
	{
		api.GET("/products", h.ListProducts)
		api.GET("/products.csv", h.ExportCSV)
		api.GET("/products/:id", h.GetProductByID)
		api.POST("/products", guard, h.CreateProduct)
		api.PUT("/products/:id", guard, h.UpdateProduct)
		api.DELETE("/products/:id", guard, h.DeleteProduct)
	}
}
