package client

import (
	"time"

	"github.com/Truella/Framez/internal/feed"
)

type wireAuthor struct {
	ID        string `json:"id" validate:"required"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type wirePost struct {
	ID        string     `json:"id" validate:"required"`
	UserID    string     `json:"user_id" validate:"required"`
	Author    wireAuthor `json:"author"`
	Content   string     `json:"content" validate:"max=2200"`
	ImageURL  string     `json:"image_url" validate:"omitempty,url"`
	CreatedAt time.Time  `json:"created_at" validate:"required"`
	LikeCount int64      `json:"like_count" validate:"gte=0"`
	IsLiked   bool       `json:"is_liked"`
	IsSaved   bool       `json:"is_saved"`
}

func (w wirePost) toPost() feed.Post {
	return feed.Post{
		ID:     w.ID,
		UserID: w.UserID,
		Author: feed.Author{
			ID:        w.Author.ID,
			Username:  w.Author.Username,
			FullName:  w.Author.FullName,
			AvatarURL: w.Author.AvatarURL,
		},
		Content:   w.Content,
		ImageURL:  w.ImageURL,
		CreatedAt: w.CreatedAt,
		LikeCount: int(w.LikeCount),
		IsLiked:   w.IsLiked,
		IsSaved:   w.IsSaved,
	}
}

type wireList struct {
	Items []wirePost `json:"items" validate:"dive"`
}

func (w wireList) toPosts() []feed.Post {
	out := make([]feed.Post, 0, len(w.Items))
	for _, p := range w.Items {
		out = append(out, p.toPost())
	}
	return out
}

type wireUser struct {
	ID        string    `json:"id" validate:"required"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Username  string    `json:"username" validate:"required"`
	FullName  string    `json:"full_name"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url" validate:"omitempty,url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w wireUser) toUser() feed.User {
	return feed.User{
		ID:        w.ID,
		Email:     w.Email,
		Username:  w.Username,
		FullName:  w.FullName,
		Bio:       w.Bio,
		AvatarURL: w.AvatarURL,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

type wireAuth struct {
	AccessToken string   `json:"access_token" validate:"required"`
	User        wireUser `json:"user"`
}

type wireLike struct {
	Liked *bool  `json:"liked" validate:"required"`
	Count *int64 `json:"count" validate:"required,gte=0"`
}

type wireSave struct {
	Saved *bool `json:"saved" validate:"required"`
}

type wireUpload struct {
	URL string `json:"url" validate:"required,url"`
}

type wireError struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
	Status int    `json:"status"`
}
