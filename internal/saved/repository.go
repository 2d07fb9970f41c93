package saved

import (
	"context"

	"gorm.io/gorm"

	"github.com/Truella/Framez/internal/shared/db"
)

type Repository interface {
	Toggle(ctx context.Context, uid, postID string) (bool, error)
}

type repo struct{ db *gorm.DB }

func NewRepository(s *db.Store) Repository { return &repo{db: s.Base} }

func (r *repo) Toggle(ctx context.Context, uid, postID string) (bool, error) {
	var saved bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", uid, postID).Delete(&SavedPost{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			saved = false
			return nil
		}
		saved = true
		return tx.Create(&SavedPost{UserID: uid, PostID: postID}).Error
	})
	if err != nil && !db.IsUniqueViolation(err) {
		return false, err
	}
	return saved, nil
}
