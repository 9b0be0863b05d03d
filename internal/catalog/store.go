package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restoran-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("product not found")
	ErrInvalidProduct = errors.New("invalid product")
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name     string
	Price    decimal.Decimal
	Category string
}

func (in *ProductInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" || in.Category == "" {
		return fmt.Errorf("%w: name and category are required", ErrInvalidProduct)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than zero", ErrInvalidProduct)
	}
	in.Price = in.Price.Round(2)
	return nil
}

// Category is a POS menu section.
type Category struct {
	Name     string
	Products []models.Product
}

func (s *Store) ListActive(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("category asc, name asc").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	return products, nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("category asc, name asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Filter narrows Search; zero values match everything.
type Filter struct {
	Search   string
	Category string
	Active   *bool
}

func (s *Store) Search(ctx context.Context, f Filter) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}

	var products []models.Product
	if err := q.Order("category asc, name asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

// Categories groups the active catalog by category, preserving the
// category/name ordering of ListActive.
func (s *Store) Categories(ctx context.Context) ([]Category, error) {
	products, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(products), nil
}

// CategoryNames lists the distinct categories in use, for form suggestions.
func (s *Store) CategoryNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Distinct("category").
		Order("category asc").
		Pluck("category", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return names, nil
}

func GroupByCategory(products []models.Product) []Category {
	var out []Category
	index := map[string]int{}
	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(out)
			index[p.Category] = i
			out = append(out, Category{Name: p.Category})
		}
		out[i].Products = append(out[i].Products, p)
	}
	return out
}

func (s *Store) Get(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

// ActiveProductsByID resolves cart entries. Inactive and unknown ids are left out.
func (s *Store) ActiveProductsByID(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	out := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("id IN ? AND active = ?", ids, true).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("load cart products: %w", err)
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	p := models.Product{
		Name:     in.Name,
		Price:    in.Price,
		Category: in.Category,
		Active:   true,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &p, nil
}

// Update rewrites name, price and category. Order lines keep their own
// snapshot, so past orders are unaffected.
func (s *Store) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(p).Updates(map[string]any{
		"name":     in.Name,
		"price":    in.Price,
		"category": in.Category,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

// SetActive is the soft delete (false) and its undo (true).
func (s *Store) SetActive(ctx context.Context, id uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("set product %d active=%v: %w", id, active, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
