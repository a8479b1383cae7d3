package models

import "github.com/shopspring/decimal"

// Product — таблица produtos
type Product struct {
	ID          uint            `gorm:"column:id;primaryKey" json:"id"`
	Name        string          `gorm:"column:nomeProduto;not null" json:"nomeProduto"`
	Price       decimal.Decimal `gorm:"column:precoProduto;type:numeric;not null" json:"precoProduto"`
	Description *string         `gorm:"column:descricaoProduto;type:text" json:"descricaoProduto"`
	ImagePath   *string         `gorm:"column:imagemProduto" json:"imagemProduto"` // относительный путь, напр. "/uploads/produtos/abc.jpg"
}

func (Product) TableName() string {
	return "produtos"
}

// HasImage сообщает, привязан ли к товару файл
func (p *Product) HasImage() bool {
	return p.ImagePath != nil && *p.ImagePath != ""
}
