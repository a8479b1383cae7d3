package handlers

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"catalog/internal/models"
	"catalog/internal/repository"
	"catalog/internal/uploads"
)

// поля формы create/update
const (
	fieldName        = "nomeProduto"
	fieldPrice       = "precoProduto"
	fieldDescription = "descricaoProduto"
	fieldImage       = "imagemProduto"
)

type ProductHandler struct {
	store  repository.ProductStore
	images uploads.Store
}

func NewProductHandler(store repository.ProductStore, images uploads.Store) *ProductHandler {
	return &ProductHandler{store: store, images: images}
}

// createdProduct — ответ create: новый id плюс поля в том виде, в каком пришли
type createdProduct struct {
	ID          uint    `json:"id"`
	Name        string  `json:"nomeProduto"`
	Price       string  `json:"precoProduto"`
	Description *string `json:"descricaoProduto,omitempty"`
	ImagePath   *string `json:"imagemProduto"`
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	if err != nil {
		log.Printf("list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFound(c)
		return
	}
	p, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(c)
			return
		}
		log.Printf("get product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	const failMsg = "failed to create product"
	ctx := c.Request.Context()

	name := c.PostForm(fieldName)
	price := c.PostForm(fieldPrice)
	desc, hasDesc := c.GetPostForm(fieldDescription)
	if name == "" || price == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product name and price are required"})
		return
	}

	// цена не валидируется: то, что колонка не примет, падает как любая ошибка записи
	amount, err := decimal.NewFromString(price)
	if err != nil {
		log.Printf("create product: price %q: %v", price, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
		return
	}

	p := models.Product{Name: name, Price: amount}
	if hasDesc {
		p.Description = &desc
	}
	if file := uploadedImage(c); file != nil {
		rel, err := h.images.Save(c, file)
		if err != nil {
			log.Printf("create product: save image: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
			return
		}
		p.ImagePath = &rel
	}

	if err := h.store.Create(ctx, &p); err != nil {
		log.Printf("create product: %v", err)
		if p.ImagePath != nil {
			h.discard(ctx, *p.ImagePath)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
		return
	}

	resp := createdProduct{ID: p.ID, Name: name, Price: price, ImagePath: p.ImagePath}
	if hasDesc {
		resp.Description = &desc
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateProduct — частичное обновление: пустое или отсутствующее поле берётся из текущей записи,
// поэтому очистить поле через update нельзя.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	const failMsg = "failed to update product"
	ctx := c.Request.Context()

	id, ok := parseID(c)
	if !ok {
		notFound(c)
		return
	}
	current, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(c)
			return
		}
		log.Printf("update product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
		return
	}

	next := *current
	if v := c.PostForm(fieldName); v != "" {
		next.Name = v
	}
	if v := c.PostForm(fieldPrice); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			log.Printf("update product %d: price %q: %v", id, v, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
			return
		}
		next.Price = amount
	}
	if v := c.PostForm(fieldDescription); v != "" {
		next.Description = &v
	}

	var saved string // новая картинка, ещё не записанная в БД
	if file := uploadedImage(c); file != nil {
		rel, err := h.images.Save(c, file)
		if err != nil {
			log.Printf("update product %d: save image: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
			return
		}
		// старая картинка удаляется до записи в БД; атомарности между ними нет
		if current.HasImage() {
			if err := h.images.Remove(ctx, *current.ImagePath); err != nil {
				log.Printf("update product %d: remove old image: %v", id, err)
				h.discard(ctx, rel)
				c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
				return
			}
		}
		next.ImagePath = &rel
		saved = rel
	}

	if err := h.store.Update(ctx, &next); err != nil {
		log.Printf("update product %d: %v", id, err)
		if saved != "" {
			h.discard(ctx, saved)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product updated successfully"})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	const failMsg = "failed to delete product"
	ctx := c.Request.Context()

	id, ok := parseID(c)
	if !ok {
		notFound(c)
		return
	}
	current, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(c)
			return
		}
		log.Printf("delete product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
		return
	}

	if current.HasImage() {
		if err := h.images.Remove(ctx, *current.ImagePath); err != nil {
			log.Printf("delete product %d: remove image: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
			return
		}
	}
	if err := h.store.Delete(ctx, id); err != nil {
		log.Printf("delete product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
}

// discard убирает только что сохранённый файл, который так и не попал в БД
func (h *ProductHandler) discard(ctx context.Context, rel string) {
	if err := h.images.Remove(ctx, rel); err != nil {
		log.Printf("discard image %s: %v", rel, err)
	}
}

// uploadedImage — файл не выбран (или форма не multipart) — не ошибка
func uploadedImage(c *gin.Context) *multipart.FileHeader {
	file, err := c.FormFile(fieldImage)
	if err != nil {
		return nil
	}
	return file
}

// parseID: id, который не является положительным целым, не может совпасть ни с одной строкой.
// Значения выше int64 тоже: колонка id знаковая.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 63)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
}
