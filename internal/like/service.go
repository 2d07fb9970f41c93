package like

import (
	"context"
	"log"
	"time"
)

type Publisher interface {
	WriteJSON(ctx context.Context, v any) error
}

// Posts resolves a post's author; it returns the post package's not-found
// error for unknown ids.
type Posts interface {
	Owner(ctx context.Context, postID string) (string, error)
}

type Service interface {
	Toggle(ctx context.Context, uid, postID string) (Result, error)
	Get(ctx context.Context, uid, postID string) (Result, error)
}

type service struct {
	repo   Repository
	posts  Posts
	cache  Cache
	events Publisher
}

func NewService(r Repository, posts Posts, cache Cache, events Publisher) Service {
	return &service{repo: r, posts: posts, cache: cache, events: events}
}

func (s *service) Toggle(ctx context.Context, uid, postID string) (Result, error) {
	owner, err := s.posts.Owner(ctx, postID)
	if err != nil {
		return Result{}, err
	}
	res, err := s.repo.Toggle(ctx, uid, postID)
	if err != nil {
		return Result{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, postID, res.Count); err != nil {
			log.Printf("[like] cache set %s: %v", postID, err)
		}
	}
	if s.events != nil {
		ev := Event{PostID: postID, OwnerID: owner, UserID: uid, Liked: res.Liked, Count: res.Count, At: time.Now().UTC()}
		if err := s.events.WriteJSON(ctx, ev); err != nil {
			log.Printf("[like] publish post.liked %s: %v", postID, err)
		}
	}
	return res, nil
}

// Get reads the count through the cache and the viewer's state from the
// database.
func (s *service) Get(ctx context.Context, uid, postID string) (Result, error) {
	if _, err := s.posts.Owner(ctx, postID); err != nil {
		return Result{}, err
	}
	var (
		n   int64
		hit bool
	)
	if s.cache != nil {
		var err error
		if n, hit, err = s.cache.Get(ctx, postID); err != nil {
			log.Printf("[like] cache get %s: %v", postID, err)
		}
	}
	if s.cache != nil {
		if hit {
			cacheLookups.WithLabelValues("hit").Inc()
		} else {
			cacheLookups.WithLabelValues("miss").Inc()
		}
	}
	if !hit {
		var err error
		if n, err = s.repo.Count(ctx, postID); err != nil {
			return Result{}, err
		}
		if s.cache != nil {
			_ = s.cache.Set(ctx, postID, n)
		}
	}
	liked := false
	if uid != "" {
		var err error
		if liked, err = s.repo.IsLiked(ctx, uid, postID); err != nil {
			return Result{}, err
		}
	}
	return Result{Liked: liked, Count: n}, nil
}
