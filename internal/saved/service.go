package saved

import (
	"context"
	"errors"
	"net/http"

	"github.com/Truella/Framez/internal/like"
	"github.com/Truella/Framez/internal/post"
	"github.com/Truella/Framez/internal/shared/httpx"
)

type Service interface {
	Toggle(ctx context.Context, uid, postID string) (Result, error)
}

type service struct {
	repo  Repository
	posts like.Posts
}

func NewService(r Repository, posts like.Posts) Service {
	return &service{repo: r, posts: posts}
}

func (s *service) Toggle(ctx context.Context, uid, postID string) (Result, error) {
	if _, err := s.posts.Owner(ctx, postID); err != nil {
		return Result{}, err
	}
	saved, err := s.repo.Toggle(ctx, uid, postID)
	if err != nil {
		return Result{}, err
	}
	return Result{Saved: saved}, nil
}

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	res, err := h.svc.Toggle(r.Context(), uid, r.PathValue("post_id"))
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return httpx.Status(http.StatusNotFound, "not_found", err)
		}
		return err
	}
	httpx.WriteJSON(w, res, http.StatusOK)
	return nil
}
