package post

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrForbidden = errors.New("only the author can delete a post")
	ErrEmptyPost = errors.New("post needs content or an image")
	ErrTooLong   = fmt.Errorf("content exceeds %d characters", MaxContentLen)
	ErrNotYours  = errors.New("image was not uploaded by this user")
)

type Publisher interface {
	WriteJSON(ctx context.Context, v any) error
}

// Images is the store behind post images. Owner returns the uploader of a
// URL it issued and "" for anything else.
type Images interface {
	Owner(url string) string
	RemoveByURL(ctx context.Context, url string) error
}

// Counts is a cache of per-post derived values dropped when a post goes.
type Counts interface {
	Del(ctx context.Context, postID string) error
}

type Service interface {
	Create(ctx context.Context, uid string, in CreateReq) (*View, error)
	Delete(ctx context.Context, uid, postID string) error
	Get(ctx context.Context, postID, viewerID string) (*View, error)
	Owner(ctx context.Context, postID string) (string, error)
	Feed(ctx context.Context, viewerID string, limit, offset int) ([]View, error)
	ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]View, error)
	ListSaved(ctx context.Context, viewerID string, limit, offset int) ([]View, error)
}

type service struct {
	repo   Repository
	events Publisher
	images Images
	counts Counts
}

// NewService accepts nil events, images and counts.
func NewService(r Repository, events Publisher, images Images, counts Counts) Service {
	return &service{repo: r, events: events, images: images, counts: counts}
}

func (s *service) Create(ctx context.Context, uid string, in CreateReq) (*View, error) {
	content := strings.TrimSpace(in.Content)
	image := strings.TrimSpace(in.ImageURL)
	if content == "" && image == "" {
		return nil, ErrEmptyPost
	}
	if utf8.RuneCountInString(content) > MaxContentLen {
		return nil, ErrTooLong
	}
	if image != "" && (s.images == nil || s.images.Owner(image) != uid) {
		return nil, ErrNotYours
	}
	p := &Post{
		ID:        uuid.NewString(),
		UserID:    uid,
		Content:   content,
		ImageURL:  image,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	if s.events != nil {
		ev := CreatedEvent{PostID: p.ID, UserID: uid, HasImage: image != "", CreatedAt: p.CreatedAt}
		if err := s.events.WriteJSON(ctx, ev); err != nil {
			log.Printf("[post] publish posts.created %s: %v", p.ID, err)
		}
	}
	return s.repo.View(ctx, p.ID, uid)
}

// Delete removes the post row first; a failed image cleanup only leaves an
// orphaned object behind. The image goes only if the author uploaded it and
// no other post still shows it.
func (s *service) Delete(ctx context.Context, uid, postID string) error {
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.UserID != uid {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, postID); err != nil {
		return err
	}
	if s.counts != nil {
		if err := s.counts.Del(ctx, postID); err != nil {
			log.Printf("[post] drop cached counts %s: %v", postID, err)
		}
	}
	if p.ImageURL == "" || s.images == nil || s.images.Owner(p.ImageURL) != p.UserID {
		return nil
	}
	inUse, err := s.repo.ImageInUse(ctx, p.ImageURL)
	if err != nil {
		log.Printf("[post] check image %s: %v", p.ImageURL, err)
		return nil
	}
	if inUse {
		return nil
	}
	if err := s.images.RemoveByURL(ctx, p.ImageURL); err != nil {
		log.Printf("[post] remove image %s: %v", p.ImageURL, err)
	}
	return nil
}

func (s *service) Get(ctx context.Context, postID, viewerID string) (*View, error) {
	return s.repo.View(ctx, postID, viewerID)
}

func (s *service) Owner(ctx context.Context, postID string) (string, error) {
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return "", err
	}
	return p.UserID, nil
}

func (s *service) Feed(ctx context.Context, viewerID string, limit, offset int) ([]View, error) {
	return s.repo.ListFeed(ctx, viewerID, clampLimit(limit), max(offset, 0))
}

func (s *service) ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]View, error) {
	return s.repo.ListByUser(ctx, userID, viewerID, clampLimit(limit), max(offset, 0))
}

func (s *service) ListSaved(ctx context.Context, viewerID string, limit, offset int) ([]View, error) {
	return s.repo.ListSaved(ctx, viewerID, clampLimit(limit), max(offset, 0))
}

func clampLimit(n int) int {
	if n <= 0 || n > 200 {
		return 50
	}
	return n
}
