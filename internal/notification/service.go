package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Truella/Framez/internal/kafka"
	"github.com/Truella/Framez/internal/like"
)

type Service interface {
	List(ctx context.Context, userID string, limit int64) ([]Notification, error)
	HandleLike(ctx context.Context, topic string, key, value []byte) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(r Repository) Service { return &service{repo: r, now: time.Now} }

func (s *service) List(ctx context.Context, userID string, limit int64) ([]Notification, error) {
	return s.repo.List(ctx, userID, limit)
}

// HandleLike turns a post.liked event into a notification for the post's
// author. Unlikes and self-likes produce nothing.
func (s *service) HandleLike(ctx context.Context, _ string, _, value []byte) error {
	var ev like.Event
	if err := json.Unmarshal(value, &ev); err != nil {
		return kafka.Permanent(fmt.Errorf("decode like event: %w", err))
	}
	if !ev.Liked || ev.OwnerID == "" || ev.OwnerID == ev.UserID {
		return nil
	}
	return s.repo.Push(ctx, Notification{
		ID:     uuid.NewString(),
		UserID: ev.OwnerID,
		Kind:   KindLike,
		Title:  "New like",
		Body:   "Someone liked your post",
		Meta: map[string]any{
			"post_id": ev.PostID,
			"user_id": ev.UserID,
			"count":   ev.Count,
		},
		CreatedAt: s.now().UTC(),
	})
}
