package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restoran-pos/internal/auth"
	"restoran-pos/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrInvalidUser    = errors.New("invalid user")
	ErrSelfDeactivate = errors.New("you cannot deactivate your own account")
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

type Input struct {
	Username string
	Name     string
	Role     models.UserRole
	// Password is optional on update: empty keeps the current hash.
	Password string
}

func (in *Input) normalize(requirePassword bool) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	if in.Username == "" || in.Name == "" {
		return fmt.Errorf("%w: username and name are required", ErrInvalidUser)
	}
	if !in.Role.Valid() {
		return fmt.Errorf("%w: role must be admin or waiter", ErrInvalidUser)
	}
	if requirePassword && in.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidUser)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]models.User, error) {
	var list []models.User
	if err := s.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

func (s *Store) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (s *Store) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return &u, nil
}

func (s *Store) usernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return count > 0, nil
}

func (s *Store) Create(ctx context.Context, in Input) (*models.User, error) {
	if err := in.normalize(true); err != nil {
		return nil, err
	}
	taken, err := s.usernameTaken(ctx, in.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := models.User{
		Username:     in.Username,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         in.Role,
		Active:       true,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// Update changes username, name and role, and the password only when one is given.
func (s *Store) Update(ctx context.Context, id uint, in Input) (*models.User, error) {
	if err := in.normalize(false); err != nil {
		return nil, err
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	taken, err := s.usernameTaken(ctx, in.Username, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	fields := map[string]any{
		"username": in.Username,
		"name":     in.Name,
		"role":     in.Role,
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password_hash"] = hash
	}
	if err := s.db.WithContext(ctx).Model(u).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

// SetActive soft-deletes or restores a user. actorID is the signed-in
// admin, who may not deactivate themselves.
func (s *Store) SetActive(ctx context.Context, actorID, id uint, active bool) error {
	if !active && actorID == id {
		return ErrSelfDeactivate
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("set user %d active=%v: %w", id, active, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindActiveByUsername returns (nil, nil) when the user is missing or inactive.
func (s *Store) FindActiveByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := s.ByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, nil
	}
	return u, nil
}

// FindActive returns (nil, nil) when the user is missing or inactive.
func (s *Store) FindActive(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, nil
	}
	return u, nil
}
