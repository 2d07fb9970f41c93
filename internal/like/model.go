package like

import "time"

type PostLike struct {
	ID        uint64    `gorm:"primaryKey"`
	PostID    string    `gorm:"size:36;uniqueIndex:ux_post_likes_post_user"`
	UserID    string    `gorm:"size:36;uniqueIndex:ux_post_likes_post_user;index"`
	CreatedAt time.Time
}

type Result struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// Event is published to post.liked on every toggle.
type Event struct {
	PostID  string    `json:"post_id"`
	OwnerID string    `json:"owner_id"`
	UserID  string    `json:"user_id"`
	Liked   bool      `json:"liked"`
	Count   int64     `json:"count"`
	At      time.Time `json:"at"`
}
