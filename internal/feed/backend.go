package feed

import (
	"context"
	"errors"
)

var ErrEmptyPost = errors.New("post needs content or an image")

// Backend is the remote data service the store reconciles against.
type Backend interface {
	FetchFeed(ctx context.Context, viewerID string) ([]Post, error)
	FetchUserPosts(ctx context.Context, userID, viewerID string) ([]Post, error)
	FetchSavedPosts(ctx context.Context, viewerID string) ([]Post, error)
	CreatePost(ctx context.Context, userID, content, imageRef string) (Post, error)
	DeletePost(ctx context.Context, postID, imageRef string) error
	ToggleLike(ctx context.Context, userID, postID string) (LikeResult, error)
	ToggleSave(ctx context.Context, userID, postID string) (bool, error)
	UploadImage(ctx context.Context, localRef, userID string) (string, error)
}

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(title, detail string)
	Error(title, detail string)
	Info(title, detail string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string, string) {}
func (nopNotifier) Error(string, string)   {}
func (nopNotifier) Info(string, string)    {}
