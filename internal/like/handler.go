package like

import (
	"errors"
	"net/http"

	"github.com/Truella/Framez/internal/post"
	"github.com/Truella/Framez/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	res, err := h.svc.Toggle(r.Context(), uid, r.PathValue("post_id"))
	if err != nil {
		return mapErr(err)
	}
	httpx.WriteJSON(w, res, http.StatusOK)
	return nil
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	res, err := h.svc.Get(r.Context(), httpx.ViewerFromCtx(r), r.PathValue("post_id"))
	if err != nil {
		return mapErr(err)
	}
	httpx.WriteJSON(w, res, http.StatusOK)
	return nil
}

func mapErr(err error) error {
	if errors.Is(err, post.ErrNotFound) {
		return httpx.Status(http.StatusNotFound, "not_found", err)
	}
	return err
}
