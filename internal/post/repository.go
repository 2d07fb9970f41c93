package post

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Truella/Framez/internal/shared/db"
)

type Repository interface {
	Create(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id string) (*Post, error)
	Delete(ctx context.Context, id string) error
	ImageInUse(ctx context.Context, url string) (bool, error)
	View(ctx context.Context, id, viewerID string) (*View, error)
	ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]View, error)
	ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]View, error)
	ListSaved(ctx context.Context, viewerID string, limit, offset int) ([]View, error)
}

type repo struct{ db *gorm.DB }

func NewRepository(s *db.Store) Repository { return &repo{db: s.Base} }

type viewRow struct {
	ID              string
	UserID          string
	Content         string
	ImageURL        string
	CreatedAt       time.Time
	AuthorUsername  *string
	AuthorFullName  *string
	AuthorAvatarURL *string
	LikeCount       int64
	IsLiked         bool
	IsSaved         bool
}

func (v viewRow) toView() View {
	return View{
		ID:     v.ID,
		UserID: v.UserID,
		Author: Author{
			ID:        v.UserID,
			Username:  deref(v.AuthorUsername),
			FullName:  deref(v.AuthorFullName),
			AvatarURL: deref(v.AuthorAvatarURL),
		},
		Content:   v.Content,
		ImageURL:  v.ImageURL,
		CreatedAt: v.CreatedAt,
		LikeCount: v.LikeCount,
		IsLiked:   v.IsLiked,
		IsSaved:   v.IsSaved,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *repo) Create(ctx context.Context, p *Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repo) FindByID(ctx context.Context, id string) (*Post, error) {
	var p Post
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes the post together with its likes and saves.
func (r *repo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_likes WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM saved_posts WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Post{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *repo) ImageInUse(ctx context.Context, url string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Post{}).Where("image_url = ?", url).Count(&n).Error
	return n > 0, err
}

// views selects posts with the author and viewer-relative like/save state.
func (r *repo) views(ctx context.Context, viewerID string) *gorm.DB {
	return r.db.WithContext(ctx).Table("posts p").
		Select(`p.id, p.user_id, p.content, p.image_url, p.created_at,
			pr.username AS author_username, pr.full_name AS author_full_name, pr.avatar_url AS author_avatar_url,
			(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count,
			EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = ?) AS is_liked,
			EXISTS (SELECT 1 FROM saved_posts s WHERE s.post_id = p.id AND s.user_id = ?) AS is_saved`,
			viewerID, viewerID).
		Joins("LEFT JOIN profiles pr ON pr.id = p.user_id")
}

func (r *repo) scan(q *gorm.DB) ([]View, error) {
	var rows []viewRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]View, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toView())
	}
	return out, nil
}

func (r *repo) View(ctx context.Context, id, viewerID string) (*View, error) {
	items, err := r.scan(r.views(ctx, viewerID).Where("p.id = ?", id))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

func (r *repo) ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]View, error) {
	return r.scan(r.views(ctx, viewerID).
		Order("p.created_at DESC, p.id DESC").
		Limit(limit).Offset(offset))
}

func (r *repo) ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]View, error) {
	return r.scan(r.views(ctx, viewerID).
		Where("p.user_id = ?", userID).
		Order("p.created_at DESC, p.id DESC").
		Limit(limit).Offset(offset))
}

// ListSaved orders by when the viewer saved each post, newest first.
func (r *repo) ListSaved(ctx context.Context, viewerID string, limit, offset int) ([]View, error) {
	return r.scan(r.views(ctx, viewerID).
		Joins("JOIN saved_posts sp ON sp.post_id = p.id AND sp.user_id = ?", viewerID).
		Order("sp.created_at DESC, sp.id DESC").
		Limit(limit).Offset(offset))
}
