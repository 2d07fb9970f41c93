package saved

import "time"

type SavedPost struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    string    `gorm:"size:36;uniqueIndex:ux_saved_posts_user_post"`
	PostID    string    `gorm:"size:36;uniqueIndex:ux_saved_posts_user_post;index"`
	CreatedAt time.Time
}

type Result struct {
	Saved bool `json:"saved"`
}
