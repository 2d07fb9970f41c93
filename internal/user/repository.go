package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Truella/Framez/internal/shared/db"
)

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
}

type repo struct{ db *gorm.DB }

func NewRepository(s *db.Store) Repository { return &repo{db: s.Base} }

func (r *repo) Create(ctx context.Context, p *Profile) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if db.IsUniqueViolation(err) {
		return ErrExists
	}
	return err
}

func (r *repo) GetByID(ctx context.Context, id string) (*Profile, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repo) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *repo) first(ctx context.Context, query string, arg any) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where(query, arg).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Profile{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}
