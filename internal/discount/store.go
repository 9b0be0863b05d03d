package discount

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
	ErrNotFound        = errors.New("discount code not found")
	ErrCodeExists      = errors.New("discount code already exists")
	ErrInvalidDiscount = errors.New("invalid discount code")
)

var maxPercentage = decimal.NewFromInt(100)

// NormalizeCode is how every code is stored and looked up.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

type Input struct {
	Code  string
	Kind  models.DiscountKind
	Value decimal.Decimal
}

func (in *Input) normalize() error {
	in.Code = NormalizeCode(in.Code)
	if in.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidDiscount)
	}
	if len(in.Code) > 20 {
		return fmt.Errorf("%w: code must be at most 20 characters", ErrInvalidDiscount)
	}
	if !in.Kind.Valid() {
		return fmt.Errorf("%w: kind must be percentage or fixed", ErrInvalidDiscount)
	}
	if !in.Value.IsPositive() {
		return fmt.Errorf("%w: value must be greater than zero", ErrInvalidDiscount)
	}
	if in.Kind == models.DiscountPercentage && in.Value.GreaterThan(maxPercentage) {
		return fmt.Errorf("%w: percentage cannot exceed 100", ErrInvalidDiscount)
	}
	in.Value = in.Value.Round(2)
	return nil
}

// List filters by a code substring and optionally by the active flag.
func (s *Store) List(ctx context.Context, search string, active *bool) ([]models.DiscountCode, error) {
	q := s.db.WithContext(ctx).Model(&models.DiscountCode{})
	if search = NormalizeCode(search); search != "" {
		q = q.Where("code LIKE ?", "%"+search+"%")
	}
	if active != nil {
		q = q.Where("active = ?", *active)
	}

	var codes []models.DiscountCode
	if err := q.Order("code asc").Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("list discount codes: %w", err)
	}
	return codes, nil
}

func (s *Store) Get(ctx context.Context, id uint) (*models.DiscountCode, error) {
	var dc models.DiscountCode
	if err := s.db.WithContext(ctx).First(&dc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get discount code %d: %w", id, err)
	}
	return &dc, nil
}

// ActiveDiscountByCode matches the code exactly as stored; callers pass the
// normalized form. A miss is (nil, nil).
func (s *Store) ActiveDiscountByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var dc models.DiscountCode
	err := s.db.WithContext(ctx).
		Where("code = ? AND active = ?", code, true).
		Take(&dc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup discount code: %w", err)
	}
	return &dc, nil
}

func (s *Store) codeTaken(ctx context.Context, code string, excludeID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.DiscountCode{}).Where("code = ?", code)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check discount code: %w", err)
	}
	return count > 0, nil
}

func (s *Store) Create(ctx context.Context, in Input) (*models.DiscountCode, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	taken, err := s.codeTaken(ctx, in.Code, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCodeExists
	}

	dc := models.DiscountCode{Code: in.Code, Kind: in.Kind, Value: in.Value, Active: true}
	if err := s.db.WithContext(ctx).Create(&dc).Error; err != nil {
		return nil, fmt.Errorf("create discount code: %w", err)
	}
	return &dc, nil
}

func (s *Store) Update(ctx context.Context, id uint, in Input) (*models.DiscountCode, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	dc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	taken, err := s.codeTaken(ctx, in.Code, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCodeExists
	}

	err = s.db.WithContext(ctx).Model(dc).Updates(map[string]any{
		"code":  in.Code,
		"kind":  in.Kind,
		"value": in.Value,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update discount code %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *Store) SetActive(ctx context.Context, id uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.DiscountCode{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("set discount code %d active=%v: %w", id, active, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
