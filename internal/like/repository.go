package like

import (
	"context"

	"gorm.io/gorm"

	"github.com/Truella/Framez/internal/shared/db"
)

type Repository interface {
	Toggle(ctx context.Context, uid, postID string) (Result, error)
	Count(ctx context.Context, postID string) (int64, error)
	IsLiked(ctx context.Context, uid, postID string) (bool, error)
}

type repo struct{ db *gorm.DB }

func NewRepository(s *db.Store) Repository { return &repo{db: s.Base} }

// Toggle deletes the viewer's like if present and inserts it otherwise, then
// recounts.
func (r *repo) Toggle(ctx context.Context, uid, postID string) (Result, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, uid).Delete(&PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}
		liked = true
		return tx.Create(&PostLike{PostID: postID, UserID: uid}).Error
	})
	// a concurrent toggle by the same viewer inserted first
	if err != nil && !db.IsUniqueViolation(err) {
		return Result{}, err
	}
	n, err := r.Count(ctx, postID)
	if err != nil {
		return Result{}, err
	}
	return Result{Liked: liked, Count: n}, nil
}

func (r *repo) Count(ctx context.Context, postID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&PostLike{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

func (r *repo) IsLiked(ctx context.Context, uid, postID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, uid).
		Count(&n).Error
	return n > 0, err
}
