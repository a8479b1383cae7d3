package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"

	"catalog/internal/models"
)

type csvProduct struct {
	ID          uint   `csv:"id"`
	Name        string `csv:"nomeProduto"`
	Price       string `csv:"precoProduto"`
	Description string `csv:"descricaoProduto"`
	ImagePath   string `csv:"imagemProduto"`
}

func toCSV(p models.Product) csvProduct {
	row := csvProduct{ID: p.ID, Name: p.Name, Price: p.Price.String()}
	if p.Description != nil {
		row.Description = *p.Description
	}
	if p.ImagePath != nil {
		row.ImagePath = *p.ImagePath
	}
	return row
}

// ExportCSV отдаёт весь каталог одним CSV-файлом
func (h *ProductHandler) ExportCSV(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	if err != nil {
		log.Printf("export products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}

	rows := make([]csvProduct, 0, len(items))
	for _, p := range items {
		rows = append(rows, toCSV(p))
	}
	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		log.Printf("export products: marshal csv: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export products"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="produtos.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
}
