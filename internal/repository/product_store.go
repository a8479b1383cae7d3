package repository

import (
	"context"

	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"catalog/internal/models"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("product not found")

// ProductStore is the relational store behind the product handlers.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uint) error
}

type GormProductStore struct {
	db *gorm.DB
}

func NewGormProductStore(db *gorm.DB) *GormProductStore {
	return &GormProductStore{db: db}
}

func (s *GormProductStore) List(ctx context.Context) ([]models.Product, error) {
	items := make([]models.Product, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return items, nil
}

func (s *GormProductStore) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return &p, nil
}

// Create вставляет строку; id присваивает база и gorm проставляет его в p.ID
func (s *GormProductStore) Create(ctx context.Context, p *models.Product) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return errors.Wrap(err, "create product")
	}
	return nil
}

// Update переписывает все четыре колонки, включая неизменённые
func (s *GormProductStore) Update(ctx context.Context, p *models.Product) error {
	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"nomeProduto":      p.Name,
			"precoProduto":     p.Price,
			"descricaoProduto": nullable(p.Description),
			"imagemProduto":    nullable(p.ImagePath),
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update product %d", p.ID)
	}
	return nil
}

func (s *GormProductStore) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return errors.Wrapf(err, "delete product %d", id)
	}
	return nil
}

// nullable превращает nil-указатель в NULL
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
